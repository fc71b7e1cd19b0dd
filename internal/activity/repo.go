package activity

import "context"

// Repo stores candidate activity and counts it per window.
type Repo interface {
	AddApplication(ctx context.Context, a Application) error
	AddDocument(ctx context.Context, d Document) error
	AddInterview(ctx context.Context, i Interview) error
	AddProfileView(ctx context.Context, v ProfileView) error
	SetStatus(ctx context.Context, kind Kind, id, status string) error

	CountApplications(ctx context.Context, candidateID string, w Window) (ApplicationCounts, error)
	CountDocuments(ctx context.Context, candidateID string, w Window) (DocumentCounts, error)
	CountInterviews(ctx context.Context, candidateID string, w Window) (InterviewCounts, error)
	CountProfileViews(ctx context.Context, candidateID string, w Window) (int, error)
}
