package candidatemetrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const snapshotColumns = `id, summary, created_at, updated_at`

// Upsert stores the snapshot keyed by (candidate_id, period, snapshot_date).
func (r *PGRepo) Upsert(ctx context.Context, snap Snapshot) (Snapshot, error) {
	const query = `
INSERT INTO metrics_snapshots (
    id,
    candidate_id,
    period,
    snapshot_date,
    window_start,
    window_end,
    overall_score,
    percentile,
    category,
    profile_completion,
    summary,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (candidate_id, period, snapshot_date) DO UPDATE SET
    window_start = EXCLUDED.window_start,
    window_end = EXCLUDED.window_end,
    overall_score = EXCLUDED.overall_score,
    percentile = EXCLUDED.percentile,
    category = EXCLUDED.category,
    profile_completion = EXCLUDED.profile_completion,
    summary = EXCLUDED.summary,
    updated_at = EXCLUDED.updated_at
RETURNING id, created_at`

	s := snap.Summary
	payload, err := json.Marshal(s)
	if err != nil {
		return Snapshot{}, err
	}

	err = r.DB.QueryRowContext(
		ctx,
		query,
		snap.ID,
		s.CandidateID,
		string(s.Period),
		SnapshotDate(s.SnapshotDate),
		s.WindowStart,
		s.WindowEnd,
		s.OverallScore,
		s.Ranking.Percentile,
		s.Ranking.Category,
		s.Profile.Completion,
		payload,
		snap.CreatedAt,
		snap.UpdatedAt,
	).Scan(&snap.ID, &snap.CreatedAt)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *PGRepo) Latest(ctx context.Context, candidateID string, period Period) (Snapshot, error) {
	query := `
SELECT ` + snapshotColumns + `
FROM metrics_snapshots
WHERE candidate_id = $1 AND period = $2
ORDER BY snapshot_date DESC
LIMIT 1`
	return r.one(ctx, query, candidateID, string(period))
}

func (r *PGRepo) FindPrior(ctx context.Context, candidateID string, period Period, date time.Time) (Snapshot, error) {
	query := `
SELECT ` + snapshotColumns + `
FROM metrics_snapshots
WHERE candidate_id = $1 AND period = $2 AND snapshot_date <= $3
ORDER BY snapshot_date DESC
LIMIT 1`
	return r.one(ctx, query, candidateID, string(period), SnapshotDate(date))
}

func (r *PGRepo) PeerScores(ctx context.Context, period Period, date time.Time, excludeCandidateID string) ([]int, error) {
	const query = `
SELECT overall_score
FROM metrics_snapshots
WHERE period = $1 AND snapshot_date = $2 AND candidate_id <> $3`

	rows, err := r.DB.QueryContext(ctx, query, string(period), SnapshotDate(date), excludeCandidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		out = append(out, score)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) ListHistory(ctx context.Context, candidateID string, period Period, before time.Time, limit int) ([]Snapshot, error) {
	query := `
SELECT ` + snapshotColumns + `
FROM metrics_snapshots
WHERE candidate_id = $1 AND period = $2 AND ($3::date IS NULL OR snapshot_date < $3)
ORDER BY snapshot_date DESC
LIMIT $4`

	var bound sql.NullTime
	if !before.IsZero() {
		bound = sql.NullTime{Time: SnapshotDate(before), Valid: true}
	}
	rows, err := r.DB.QueryContext(ctx, query, candidateID, string(period), bound, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Snapshot, 0)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) one(ctx context.Context, query string, args ...any) (Snapshot, error) {
	snap, err := scanSnapshot(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	return snap, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var (
		snap    Snapshot
		payload []byte
	)
	if err := row.Scan(&snap.ID, &payload, &snap.CreatedAt, &snap.UpdatedAt); err != nil {
		return Snapshot{}, err
	}
	if err := json.Unmarshal(payload, &snap.Summary); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
