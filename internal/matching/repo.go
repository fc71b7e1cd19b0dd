package matching

import "context"

// Repo persists match results. The (CandidateID, JobID) pair is unique.
type Repo interface {
	// CreateIfAbsent stores the result unless one already exists for the pair.
	// It reports whether a new row was written.
	CreateIfAbsent(ctx context.Context, result MatchResult) (bool, error)
	GetByID(ctx context.Context, id string) (MatchResult, error)
	UpdateFlags(ctx context.Context, id string, update FlagUpdate) (MatchResult, error)
	ListByCandidate(ctx context.Context, candidateID string, filter ListFilter) ([]MatchResult, error)
}
