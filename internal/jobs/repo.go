package jobs

import "context"

// Repo persists job postings.
type Repo interface {
	GetByID(ctx context.Context, id string) (Job, error)
	Upsert(ctx context.Context, job Job) (Job, error)
	// ListActivePublic returns jobs with status active and visibility public,
	// ordered by ID.
	ListActivePublic(ctx context.Context) ([]Job, error)
}
