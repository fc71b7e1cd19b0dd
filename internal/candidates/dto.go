package candidates

import "time"

type candidateRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Location        string   `json:"location"`
	Bio             string   `json:"bio"`
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experienceLevel"`
	Education       string   `json:"education"`
	ExpectedSalary  *float64 `json:"expectedSalary"`
}

type candidateResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	Bio             string    `json:"bio"`
	Skills          []string  `json:"skills"`
	ExperienceLevel string    `json:"experienceLevel"`
	Education       string    `json:"education"`
	ExpectedSalary  *float64  `json:"expectedSalary"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toResponse(c Candidate) candidateResponse {
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	return candidateResponse{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Location:        c.Location,
		Bio:             c.Bio,
		Skills:          skills,
		ExperienceLevel: c.ExperienceLevel,
		Education:       c.Education,
		ExpectedSalary:  c.ExpectedSalary,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
