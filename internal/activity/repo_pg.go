package activity

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) AddApplication(ctx context.Context, a Application) error {
	const query = `
INSERT INTO applications (id, candidate_id, job_id, status, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, a.ID, a.CandidateID, a.JobID, a.Status, a.CreatedAt)
	return err
}

func (r *PGRepo) AddDocument(ctx context.Context, d Document) error {
	const query = `
INSERT INTO candidate_documents (id, candidate_id, kind, status, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, d.ID, d.CandidateID, d.Kind, d.Status, d.CreatedAt)
	return err
}

func (r *PGRepo) AddInterview(ctx context.Context, i Interview) error {
	const query = `
INSERT INTO interviews (id, candidate_id, job_id, status, scheduled_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, i.ID, i.CandidateID, i.JobID, i.Status, i.ScheduledAt, i.CreatedAt)
	return err
}

func (r *PGRepo) AddProfileView(ctx context.Context, v ProfileView) error {
	const query = `
INSERT INTO profile_views (id, candidate_id, viewer_id, viewed_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, v.ID, v.CandidateID, v.ViewerID, v.ViewedAt)
	return err
}

var statusTables = map[Kind]string{
	KindApplication: "applications",
	KindDocument:    "candidate_documents",
	KindInterview:   "interviews",
}

// SetStatus changes the status of an application, document or interview.
func (r *PGRepo) SetStatus(ctx context.Context, kind Kind, id, status string) error {
	table, ok := statusTables[kind]
	if !ok {
		return ErrInvalidInput
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE `+table+` SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) CountApplications(ctx context.Context, candidateID string, w Window) (ApplicationCounts, error) {
	const query = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'pending'),
       COUNT(*) FILTER (WHERE status = 'shortlisted'),
       COUNT(*) FILTER (WHERE status = 'rejected'),
       COUNT(*) FILTER (WHERE status = 'accepted')
FROM applications
WHERE candidate_id = $1 AND created_at >= $2 AND created_at <= $3`

	var out ApplicationCounts
	err := r.DB.QueryRowContext(ctx, query, candidateID, w.Start, w.End).
		Scan(&out.Total, &out.Pending, &out.Shortlisted, &out.Rejected, &out.Accepted)
	return out, err
}

func (r *PGRepo) CountDocuments(ctx context.Context, candidateID string, w Window) (DocumentCounts, error) {
	const query = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'verified'),
       COUNT(*) FILTER (WHERE status = 'pending'),
       COUNT(*) FILTER (WHERE status = 'rejected')
FROM candidate_documents
WHERE candidate_id = $1 AND created_at >= $2 AND created_at <= $3`

	var out DocumentCounts
	err := r.DB.QueryRowContext(ctx, query, candidateID, w.Start, w.End).
		Scan(&out.Total, &out.Verified, &out.Pending, &out.Rejected)
	return out, err
}

func (r *PGRepo) CountInterviews(ctx context.Context, candidateID string, w Window) (InterviewCounts, error) {
	const query = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'scheduled'),
       COUNT(*) FILTER (WHERE status = 'completed'),
       COUNT(*) FILTER (WHERE status = 'cancelled'),
       COUNT(*) FILTER (WHERE status = 'scheduled' AND scheduled_at > $3)
FROM interviews
WHERE candidate_id = $1 AND created_at >= $2 AND created_at <= $3`

	var out InterviewCounts
	err := r.DB.QueryRowContext(ctx, query, candidateID, w.Start, w.End).
		Scan(&out.Total, &out.Scheduled, &out.Completed, &out.Cancelled, &out.Upcoming)
	return out, err
}

func (r *PGRepo) CountProfileViews(ctx context.Context, candidateID string, w Window) (int, error) {
	const query = `
SELECT COUNT(*)
FROM profile_views
WHERE candidate_id = $1 AND viewed_at >= $2 AND viewed_at <= $3`

	var n int
	err := r.DB.QueryRowContext(ctx, query, candidateID, w.Start, w.End).Scan(&n)
	return n, err
}
