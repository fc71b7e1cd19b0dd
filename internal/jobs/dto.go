package jobs

import "time"

type jobRequest struct {
	CompanyID       string   `json:"companyId"`
	Title           string   `json:"title"`
	RequiredSkills  []string `json:"requiredSkills"`
	ExperienceLevel string   `json:"experienceLevel"`
	Location        string   `json:"location"`
	SalaryMin       *float64 `json:"salaryMin"`
	SalaryMax       *float64 `json:"salaryMax"`
	Status          string   `json:"status"`
	Visibility      string   `json:"visibility"`
}

type jobResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	Title           string    `json:"title"`
	RequiredSkills  []string  `json:"requiredSkills"`
	ExperienceLevel string    `json:"experienceLevel"`
	Location        string    `json:"location"`
	SalaryMin       *float64  `json:"salaryMin"`
	SalaryMax       *float64  `json:"salaryMax"`
	Status          string    `json:"status"`
	Visibility      string    `json:"visibility"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toResponse(j Job) jobResponse {
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return jobResponse{
		ID:              j.ID,
		CompanyID:       j.CompanyID,
		Title:           j.Title,
		RequiredSkills:  skills,
		ExperienceLevel: j.ExperienceLevel,
		Location:        j.Location,
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		Status:          j.Status,
		Visibility:      j.Visibility,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}
