package usage

import (
	"context"
	"errors"
	"strings"

	"talent-backend/internal/shared/telemetry"
)

// store persists allowances keyed by candidate ID.
type store interface {
	Get(ctx context.Context, candidateID string) (Usage, error)
	EnsurePeriod(ctx context.Context, candidateID string) (Usage, error)
	Consume(ctx context.Context, candidateID string, n int) (Usage, error)
	Reset(ctx context.Context, candidateID string) (Usage, error)
}

// Service meters on-demand recommendation runs against each candidate's
// plan allowance.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store granting limit
// runs per window.
func NewService(limit int) *Service {
	return &Service{store: newMemoryStore(limit)}
}

// NewPostgresService constructs a Service over a persistent store.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the candidate's allowance, creating a Starter allowance on first use.
func (s *Service) Get(ctx context.Context, candidateID string) (Usage, error) {
	id, err := candidateKey(candidateID)
	if err != nil {
		return Usage{}, err
	}
	return s.store.Get(ctx, id)
}

// EnsurePeriod returns the allowance after rolling over an expired window.
func (s *Service) EnsurePeriod(ctx context.Context, candidateID string) (Usage, error) {
	id, err := candidateKey(candidateID)
	if err != nil {
		return Usage{}, err
	}
	return s.store.EnsurePeriod(ctx, id)
}

// CanConsume reports whether n more runs fit in the current window.
func (s *Service) CanConsume(ctx context.Context, candidateID string, n int) (bool, Usage, error) {
	u, err := s.EnsurePeriod(ctx, candidateID)
	if err != nil {
		return false, Usage{}, err
	}
	return n <= 0 || u.Remaining() >= n, u, nil
}

// Consume charges n runs. It fails with ErrLimitReached, leaving the
// allowance untouched, when fewer than n runs remain.
func (s *Service) Consume(ctx context.Context, candidateID string, n int) (Usage, error) {
	id, err := candidateKey(candidateID)
	if err != nil {
		return Usage{}, err
	}
	u, err := s.store.Consume(ctx, id, n)
	if errors.Is(err, ErrLimitReached) {
		telemetry.Info("usage.limit_reached", map[string]any{"candidate_id": id, "requested": n})
	}
	return u, err
}

// Reset clears the used count and starts a new window.
func (s *Service) Reset(ctx context.Context, candidateID string) (Usage, error) {
	id, err := candidateKey(candidateID)
	if err != nil {
		return Usage{}, err
	}
	u, err := s.store.Reset(ctx, id)
	if err == nil {
		telemetry.Info("usage.reset", map[string]any{"candidate_id": id})
	}
	return u, err
}

func candidateKey(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrMissingCandidate
	}
	return id, nil
}
