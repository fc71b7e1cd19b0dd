package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/storage/db"
	"talent-backend/internal/shared/telemetry"
)

const (
	DefaultMinScore    = 60
	DefaultMaxResults  = 10
	DefaultTTL         = 7 * 24 * time.Hour
	defaultConcurrency = 8
)

// ProfileReader resolves a candidate profile. Implementations return
// ErrProfileNotFound for unknown candidates.
type ProfileReader interface {
	GetProfile(ctx context.Context, candidateID string) (CandidateProfile, error)
}

// JobLister lists jobs in the active status with public visibility.
type JobLister interface {
	ListActivePublic(ctx context.Context) ([]JobPosting, error)
}

// Settings tunes recommendation generation. Zero values fall back to defaults.
type Settings struct {
	MinScore    int
	MaxResults  int
	TTL         time.Duration
	Concurrency int
	Storage     db.RetryPolicy
}

func (s Settings) withDefaults() Settings {
	if s.MinScore <= 0 {
		s.MinScore = DefaultMinScore
	}
	if s.MaxResults <= 0 {
		s.MaxResults = DefaultMaxResults
	}
	if s.TTL <= 0 {
		s.TTL = DefaultTTL
	}
	if s.Concurrency <= 0 {
		s.Concurrency = defaultConcurrency
	}
	return s
}

// Service generates and manages job recommendations.
type Service struct {
	Repo     Repo
	Profiles ProfileReader
	Jobs     JobLister
	Settings Settings
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, profiles ProfileReader, jobs JobLister, settings Settings) *Service {
	return &Service{
		Repo:     repo,
		Profiles: profiles,
		Jobs:     jobs,
		Settings: settings.withDefaults(),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// GenerateRecommendations scores the candidate against every active public job
// and persists the pairs reaching the minimum score. Pairs that already have a
// result are skipped. The returned slice holds only new results, best first.
func (s *Service) GenerateRecommendations(ctx context.Context, candidateID string) ([]MatchResult, error) {
	start := time.Now()
	metrics.IncRecommendationRun()
	out, err := s.generate(ctx, candidateID)
	metrics.ObserveRecommendationDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncRecommendationRunFailed()
		telemetry.Error("recommendations.failed", map[string]any{
			"candidate_id": candidateID,
			"error":        err,
		})
		return nil, err
	}
	metrics.AddRecommendationsCreated(len(out))
	telemetry.Info("recommendations.generated", map[string]any{
		"candidate_id": candidateID,
		"created":      len(out),
		"duration_ms":  metrics.SinceMillis(start),
	})
	return out, nil
}

func (s *Service) generate(ctx context.Context, candidateID string) ([]MatchResult, error) {
	settings := s.Settings.withDefaults()

	var profile CandidateProfile
	if err := db.Retry(ctx, settings.Storage, "matching.get_profile", func(ctx context.Context) error {
		var err error
		profile, err = s.Profiles.GetProfile(ctx, candidateID)
		return err
	}); err != nil {
		return nil, err
	}

	var jobs []JobPosting
	if err := db.Retry(ctx, settings.Storage, "matching.list_jobs", func(ctx context.Context) error {
		var err error
		jobs, err = s.Jobs.ListActivePublic(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	now := s.now()
	created := make([]*MatchResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			score := ScoreMatch(profile, job)
			if score.Overall < settings.MinScore {
				return nil
			}
			res := MatchResult{
				ID:          uuid.NewString(),
				CandidateID: candidateID,
				JobID:       job.ID,
				Score:       score,
				CreatedAt:   now,
				ExpiresAt:   now.Add(settings.TTL),
			}
			var inserted bool
			err := db.Retry(gctx, settings.Storage, "matching.create_result", func(ctx context.Context) error {
				var err error
				inserted, err = s.Repo.CreateIfAbsent(ctx, res)
				return err
			})
			if err != nil {
				return fmt.Errorf("store result for job %s: %w", job.ID, err)
			}
			if !inserted {
				// A retried attempt may conflict with its own committed first try.
				inserted, err = s.ownsStoredResult(gctx, settings.Storage, res.ID)
				if err != nil {
					return fmt.Errorf("check result for job %s: %w", job.ID, err)
				}
			}
			if inserted {
				created[i] = &res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]MatchResult, 0, len(created))
	for _, res := range created {
		if res != nil {
			out = append(out, *res)
		}
	}
	sortResults(out)
	if len(out) > settings.MaxResults {
		out = out[:settings.MaxResults]
	}
	return out, nil
}

// sortResults orders by overall score descending, then job ID ascending.
func sortResults(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score.Overall != results[j].Score.Overall {
			return results[i].Score.Overall > results[j].Score.Overall
		}
		return results[i].JobID < results[j].JobID
	})
}

// ownsStoredResult reports whether a row with this run's result id exists.
func (s *Service) ownsStoredResult(ctx context.Context, policy db.RetryPolicy, id string) (bool, error) {
	err := db.Retry(ctx, policy, "matching.get_result", func(ctx context.Context) error {
		_, err := s.Repo.GetByID(ctx, id)
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// GetRecommendation returns a single result.
func (s *Service) GetRecommendation(ctx context.Context, id string) (MatchResult, error) {
	var res MatchResult
	err := db.Retry(ctx, s.Settings.Storage, "matching.get_result", func(ctx context.Context) error {
		var err error
		res, err = s.Repo.GetByID(ctx, id)
		return err
	})
	return res, err
}

// ListOptions controls ListRecommendations.
type ListOptions struct {
	IncludeExpired   bool
	IncludeDismissed bool
	Limit            int
	Offset           int
}

// ListRecommendations returns stored results for a candidate. Expired and
// dismissed results are hidden unless asked for.
func (s *Service) ListRecommendations(ctx context.Context, candidateID string, opts ListOptions) ([]MatchResult, error) {
	filter := ListFilter{
		Now:              s.now(),
		IncludeExpired:   opts.IncludeExpired,
		IncludeDismissed: opts.IncludeDismissed,
		Limit:            opts.Limit,
		Offset:           opts.Offset,
	}
	var out []MatchResult
	err := db.Retry(ctx, s.Settings.Storage, "matching.list_results", func(ctx context.Context) error {
		var err error
		out, err = s.Repo.ListByCandidate(ctx, candidateID, filter)
		return err
	})
	return out, err
}

// MarkViewed sets the viewed flag.
func (s *Service) MarkViewed(ctx context.Context, id string) (MatchResult, error) {
	t := true
	return s.updateFlags(ctx, id, FlagUpdate{Viewed: &t})
}

// MarkApplied sets the applied flag. Applying implies the result was viewed.
func (s *Service) MarkApplied(ctx context.Context, id string) (MatchResult, error) {
	t := true
	return s.updateFlags(ctx, id, FlagUpdate{Viewed: &t, Applied: &t})
}

// Dismiss sets the dismissed flag.
func (s *Service) Dismiss(ctx context.Context, id string) (MatchResult, error) {
	t := true
	return s.updateFlags(ctx, id, FlagUpdate{Dismissed: &t})
}

func (s *Service) updateFlags(ctx context.Context, id string, update FlagUpdate) (MatchResult, error) {
	var res MatchResult
	err := db.Retry(ctx, s.Settings.Storage, "matching.update_flags", func(ctx context.Context) error {
		var err error
		res, err = s.Repo.UpdateFlags(ctx, id, update)
		return err
	})
	return res, err
}
