package candidates

import "context"

// Repo persists candidate profiles.
type Repo interface {
	GetByID(ctx context.Context, id string) (Candidate, error)
	Upsert(ctx context.Context, c Candidate) (Candidate, error)
	ListIDs(ctx context.Context) ([]string, error)
}
