package candidatemetrics

import (
	"context"
	"time"
)

// Repo persists metrics snapshots keyed by candidate, period and snapshot date.
type Repo interface {
	// Upsert stores the snapshot, replacing any snapshot with the same key.
	// The stored snapshot keeps the ID and CreatedAt of the row it replaced.
	Upsert(ctx context.Context, snap Snapshot) (Snapshot, error)
	// Latest returns the most recent snapshot, or ErrNotFound.
	Latest(ctx context.Context, candidateID string, period Period) (Snapshot, error)
	// FindPrior returns the latest snapshot dated on or before date, or ErrNotFound.
	FindPrior(ctx context.Context, candidateID string, period Period, date time.Time) (Snapshot, error)
	// PeerScores returns overall scores of other candidates' snapshots with
	// the same period and snapshot date.
	PeerScores(ctx context.Context, period Period, date time.Time, excludeCandidateID string) ([]int, error)
	// ListHistory returns up to limit snapshots, newest first, dated strictly
	// before the given date. A zero before means no bound.
	ListHistory(ctx context.Context, candidateID string, period Period, before time.Time, limit int) ([]Snapshot, error)
}
