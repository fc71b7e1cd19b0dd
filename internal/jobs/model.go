package jobs

import (
	"time"

	"talent-backend/internal/matching"
)

const (
	StatusActive = "active"
	StatusPaused = "paused"
	StatusClosed = "closed"

	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Job is a posting published by a company.
type Job struct {
	ID              string
	CompanyID       string
	Title           string
	RequiredSkills  []string
	ExperienceLevel string
	Location        string
	SalaryMin       *float64
	SalaryMax       *float64
	Status          string
	Visibility      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Listed reports whether candidates can be matched against the job.
func (j Job) Listed() bool {
	return j.Status == StatusActive && j.Visibility == VisibilityPublic
}

// Posting projects the job onto the fields used for matching.
func (j Job) Posting() matching.JobPosting {
	return matching.JobPosting{
		ID:             j.ID,
		Title:          j.Title,
		RequiredSkills: append([]string(nil), j.RequiredSkills...),
		Experience:     matching.ParseExperienceLevel(j.ExperienceLevel),
		Location:       j.Location,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
	}
}
