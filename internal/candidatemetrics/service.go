package candidatemetrics

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/activity"
	"talent-backend/internal/candidates"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/storage/db"
	"talent-backend/internal/shared/telemetry"
)

const historyPageSize = 20

// CandidateReader resolves candidate records.
type CandidateReader interface {
	GetByID(ctx context.Context, id string) (candidates.Candidate, error)
}

// ActivityCounter counts a candidate's activity within a window.
type ActivityCounter interface {
	CountApplications(ctx context.Context, candidateID string, w activity.Window) (activity.ApplicationCounts, error)
	CountDocuments(ctx context.Context, candidateID string, w activity.Window) (activity.DocumentCounts, error)
	CountInterviews(ctx context.Context, candidateID string, w activity.Window) (activity.InterviewCounts, error)
	CountProfileViews(ctx context.Context, candidateID string, w activity.Window) (int, error)
}

// Service calculates and serves candidate scorecards.
type Service struct {
	Repo       Repo
	Candidates CandidateReader
	Activity   ActivityCounter
	Storage    db.RetryPolicy
	Now        func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, cands CandidateReader, counter ActivityCounter, storage db.RetryPolicy) *Service {
	return &Service{
		Repo:       repo,
		Candidates: cands,
		Activity:   counter,
		Storage:    storage,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) retry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return db.Retry(ctx, s.Storage, op, fn)
}

// CalculateMetrics computes the candidate's scorecard for the window ending
// now and upserts it as the snapshot for today.
func (s *Service) CalculateMetrics(ctx context.Context, candidateID string, period Period) (Summary, error) {
	start := time.Now()
	summary, err := s.calculate(ctx, candidateID, period)
	metrics.ObserveMetricsDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncMetricsCalculationFailed()
		telemetry.Error("metrics.failed", map[string]any{
			"candidate_id": candidateID,
			"period":       string(period),
			"error":        err,
		})
		return Summary{}, err
	}
	metrics.IncMetricsCalculated()
	telemetry.Info("metrics.calculated", map[string]any{
		"candidate_id":  candidateID,
		"period":        string(period),
		"overall_score": summary.OverallScore,
		"percentile":    summary.Ranking.Percentile,
		"duration_ms":   metrics.SinceMillis(start),
	})
	return summary, nil
}

func (s *Service) calculate(ctx context.Context, candidateID string, period Period) (Summary, error) {
	if _, err := ParsePeriod(string(period)); err != nil {
		return Summary{}, err
	}

	var cand candidates.Candidate
	err := s.retry(ctx, "metrics.get_candidate", func(ctx context.Context) error {
		var err error
		cand, err = s.Candidates.GetByID(ctx, candidateID)
		return err
	})
	if err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return Summary{}, ErrCandidateNotFound
		}
		return Summary{}, err
	}

	end := s.now()
	window := activity.Window{Start: period.WindowStart(end), End: end}
	summary := Summary{
		CandidateID:  candidateID,
		Period:       period,
		SnapshotDate: SnapshotDate(end),
		WindowStart:  window.Start,
		WindowEnd:    window.End,
	}

	if err := s.retry(ctx, "metrics.count_applications", func(ctx context.Context) error {
		var err error
		summary.Applications.ApplicationCounts, err = s.Activity.CountApplications(ctx, candidateID, window)
		return err
	}); err != nil {
		return Summary{}, fmt.Errorf("count applications: %w", err)
	}
	if err := s.retry(ctx, "metrics.count_documents", func(ctx context.Context) error {
		var err error
		summary.Documents.DocumentCounts, err = s.Activity.CountDocuments(ctx, candidateID, window)
		return err
	}); err != nil {
		return Summary{}, fmt.Errorf("count documents: %w", err)
	}
	if err := s.retry(ctx, "metrics.count_interviews", func(ctx context.Context) error {
		var err error
		summary.Interviews.InterviewCounts, err = s.Activity.CountInterviews(ctx, candidateID, window)
		return err
	}); err != nil {
		return Summary{}, fmt.Errorf("count interviews: %w", err)
	}
	if err := s.retry(ctx, "metrics.count_views", func(ctx context.Context) error {
		var err error
		summary.Profile.Views, err = s.Activity.CountProfileViews(ctx, candidateID, window)
		return err
	}); err != nil {
		return Summary{}, fmt.Errorf("count profile views: %w", err)
	}

	appRate := ApplicationSuccessRate(summary.Applications.ApplicationCounts)
	docRate := DocumentCompletionRate(summary.Documents.DocumentCounts)
	interviewRate := InterviewSuccessRate(summary.Interviews.InterviewCounts)
	summary.Applications.SuccessRate = round1(appRate)
	summary.Documents.CompletionRate = round1(docRate)
	summary.Interviews.SuccessRate = round1(interviewRate)
	summary.OverallScore = OverallScore(appRate, docRate, interviewRate, summary.Profile.Views)

	summary.Profile.Completion = ProfileCompletion(cand)
	summary.Profile.MissingFields = MissingProfileFields(cand)

	var peers []int
	if err := s.retry(ctx, "metrics.peer_scores", func(ctx context.Context) error {
		var err error
		peers, err = s.Repo.PeerScores(ctx, period, summary.SnapshotDate, candidateID)
		return err
	}); err != nil {
		return Summary{}, fmt.Errorf("load peer scores: %w", err)
	}
	summary.Ranking = Rank(summary.OverallScore, peers)

	var prior *Summary
	err = s.retry(ctx, "metrics.find_prior", func(ctx context.Context) error {
		snap, err := s.Repo.FindPrior(ctx, candidateID, period, window.Start)
		if err != nil {
			return err
		}
		prior = &snap.Summary
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Summary{}, fmt.Errorf("load prior snapshot: %w", err)
	}
	summary.Trends = ComputeTrends(summary, prior)

	snap := Snapshot{
		ID:        uuid.NewString(),
		Summary:   summary,
		CreatedAt: end,
		UpdatedAt: end,
	}
	if err := s.retry(ctx, "metrics.upsert_snapshot", func(ctx context.Context) error {
		_, err := s.Repo.Upsert(ctx, snap)
		return err
	}); err != nil {
		return Summary{}, fmt.Errorf("store snapshot: %w", err)
	}
	return summary, nil
}

// GetMetrics returns the most recent snapshot, or nil when none exists.
func (s *Service) GetMetrics(ctx context.Context, candidateID string, period Period) (*Snapshot, error) {
	if _, err := ParsePeriod(string(period)); err != nil {
		return nil, err
	}
	var snap Snapshot
	err := s.retry(ctx, "metrics.latest", func(ctx context.Context) error {
		var err error
		snap, err = s.Repo.Latest(ctx, candidateID, period)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

// GetMetricsHistory yields up to limit snapshots, newest first. Storage is
// read page by page as the sequence is consumed, and every range starts a
// fresh read. A failure is yielded once and ends the sequence.
func (s *Service) GetMetricsHistory(ctx context.Context, candidateID string, period Period, limit int) iter.Seq2[Snapshot, error] {
	return func(yield func(Snapshot, error) bool) {
		if _, err := ParsePeriod(string(period)); err != nil {
			yield(Snapshot{}, err)
			return
		}
		remaining := limit
		var before time.Time
		for remaining > 0 {
			size := min(remaining, historyPageSize)
			var page []Snapshot
			err := s.retry(ctx, "metrics.history", func(ctx context.Context) error {
				var err error
				page, err = s.Repo.ListHistory(ctx, candidateID, period, before, size)
				return err
			})
			if err != nil {
				yield(Snapshot{}, err)
				return
			}
			for _, snap := range page {
				if !yield(snap, nil) {
					return
				}
				remaining--
			}
			if len(page) < size {
				return
			}
			before = page[len(page)-1].Summary.SnapshotDate
		}
	}
}
