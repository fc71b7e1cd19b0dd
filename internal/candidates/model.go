package candidates

import (
	"time"

	"talent-backend/internal/matching"
)

// Candidate is a job seeker's profile.
type Candidate struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	Location        string
	Bio             string
	Skills          []string
	ExperienceLevel string
	Education       string
	ExpectedSalary  *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Profile projects the candidate onto the fields used for job matching.
func (c Candidate) Profile() matching.CandidateProfile {
	return matching.CandidateProfile{
		ID:             c.ID,
		Skills:         append([]string(nil), c.Skills...),
		Experience:     matching.ParseExperienceLevel(c.ExperienceLevel),
		Location:       c.Location,
		ExpectedSalary: c.ExpectedSalary,
	}
}
