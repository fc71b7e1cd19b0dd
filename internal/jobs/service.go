package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-backend/internal/matching"
)

// Service contains business logic for job postings.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// Get returns a job by ID.
func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	if strings.TrimSpace(id) == "" {
		return Job{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// ListActivePublic returns every job open to matching.
func (s *Service) ListActivePublic(ctx context.Context) ([]Job, error) {
	return s.Repo.ListActivePublic(ctx)
}

// Save validates and stores a job. When companyID is set the job must be new
// or already owned by that company.
func (s *Service) Save(ctx context.Context, job Job, companyID string) (Job, error) {
	job.ID = strings.TrimSpace(job.ID)
	if job.ID == "" {
		return Job{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(job.Title) == "" {
		return Job{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	job.Status = strings.ToLower(strings.TrimSpace(job.Status))
	switch job.Status {
	case "":
		job.Status = StatusActive
	case StatusActive, StatusPaused, StatusClosed:
	default:
		return Job{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, job.Status)
	}

	job.Visibility = strings.ToLower(strings.TrimSpace(job.Visibility))
	switch job.Visibility {
	case "":
		job.Visibility = VisibilityPublic
	case VisibilityPublic, VisibilityPrivate:
	default:
		return Job{}, fmt.Errorf("%w: unknown visibility %q", ErrInvalidInput, job.Visibility)
	}

	job.ExperienceLevel = strings.ToLower(strings.TrimSpace(job.ExperienceLevel))
	if job.ExperienceLevel != "" && matching.ParseExperienceLevel(job.ExperienceLevel) == matching.LevelUnknown {
		return Job{}, fmt.Errorf("%w: unknown experience level %q", ErrInvalidInput, job.ExperienceLevel)
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return Job{}, fmt.Errorf("%w: salaryMin exceeds salaryMax", ErrInvalidInput)
	}

	existing, err := s.Repo.GetByID(ctx, job.ID)
	switch {
	case err == nil:
		if companyID != "" && existing.CompanyID != companyID {
			return Job{}, ErrForbidden
		}
		job.CompanyID = existing.CompanyID
		job.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrNotFound):
		if companyID != "" {
			job.CompanyID = companyID
		}
	default:
		return Job{}, err
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	return s.Repo.Upsert(ctx, job)
}
