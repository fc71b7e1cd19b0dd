package candidates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talent-backend/internal/matching"
)

// Service contains business logic for candidate profiles.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// Get returns a candidate by ID.
func (s *Service) Get(ctx context.Context, id string) (Candidate, error) {
	if strings.TrimSpace(id) == "" {
		return Candidate{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// Save validates and stores a candidate profile.
func (s *Service) Save(ctx context.Context, c Candidate) (Candidate, error) {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return Candidate{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	level := strings.ToLower(strings.TrimSpace(c.ExperienceLevel))
	if level != "" && matching.ParseExperienceLevel(level) == matching.LevelUnknown {
		return Candidate{}, fmt.Errorf("%w: unknown experience level %q", ErrInvalidInput, c.ExperienceLevel)
	}
	c.ExperienceLevel = level
	if c.ExpectedSalary != nil && *c.ExpectedSalary < 0 {
		return Candidate{}, fmt.Errorf("%w: expectedSalary must not be negative", ErrInvalidInput)
	}
	c.Skills = cleanSkills(c.Skills)

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return s.Repo.Upsert(ctx, c)
}

// ListIDs returns every candidate ID.
func (s *Service) ListIDs(ctx context.Context) ([]string, error) {
	return s.Repo.ListIDs(ctx)
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
