package matching

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resultColumns = `id, candidate_id, job_id, overall_score, skills_score, experience_score,
    location_score, salary_score, matched_skills, missing_skills, reasons,
    viewed, applied, dismissed, created_at, expires_at`

// CreateIfAbsent inserts the result, relying on the (candidate_id, job_id)
// unique constraint to drop duplicates.
func (r *PGRepo) CreateIfAbsent(ctx context.Context, res MatchResult) (bool, error) {
	const query = `
INSERT INTO match_results (
    id,
    candidate_id,
    job_id,
    overall_score,
    skills_score,
    experience_score,
    location_score,
    salary_score,
    matched_skills,
    missing_skills,
    reasons,
    viewed,
    applied,
    dismissed,
    created_at,
    expires_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (candidate_id, job_id) DO NOTHING`

	out, err := r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		res.CandidateID,
		res.JobID,
		res.Score.Overall,
		res.Score.Skills,
		res.Score.Experience,
		res.Score.Location,
		res.Score.Salary,
		pq.Array(nonNil(res.Score.MatchedSkills)),
		pq.Array(nonNil(res.Score.MissingSkills)),
		pq.Array(nonNil(res.Score.Reasons)),
		res.Viewed,
		res.Applied,
		res.Dismissed,
		res.CreatedAt,
		res.ExpiresAt,
	)
	if err != nil {
		return false, err
	}
	n, err := out.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetByID returns a result by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (MatchResult, error) {
	query := `SELECT ` + resultColumns + ` FROM match_results WHERE id = $1`
	res, err := scanResult(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MatchResult{}, ErrNotFound
		}
		return MatchResult{}, err
	}
	return res, nil
}

// UpdateFlags changes only the flag columns named by update.
func (r *PGRepo) UpdateFlags(ctx context.Context, id string, update FlagUpdate) (MatchResult, error) {
	query := `
UPDATE match_results
SET viewed = COALESCE($2, viewed),
    applied = COALESCE($3, applied),
    dismissed = COALESCE($4, dismissed)
WHERE id = $1
RETURNING ` + resultColumns

	res, err := scanResult(r.DB.QueryRowContext(
		ctx,
		query,
		id,
		nullBool(update.Viewed),
		nullBool(update.Applied),
		nullBool(update.Dismissed),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MatchResult{}, ErrNotFound
		}
		return MatchResult{}, err
	}
	return res, nil
}

// ListByCandidate returns a candidate's results, best score first.
func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string, filter ListFilter) ([]MatchResult, error) {
	query := `
SELECT ` + resultColumns + `
FROM match_results
WHERE candidate_id = $1
  AND ($2 OR expires_at > $3)
  AND ($4 OR NOT dismissed)
ORDER BY overall_score DESC, created_at DESC, job_id ASC
LIMIT $5 OFFSET $6`

	limit := sql.NullInt64{}
	if filter.Limit > 0 {
		limit = sql.NullInt64{Int64: int64(filter.Limit), Valid: true}
	}
	offset := 0
	if filter.Offset > 0 {
		offset = filter.Offset
	}

	rows, err := r.DB.QueryContext(ctx, query, candidateID, filter.IncludeExpired, filter.Now, filter.IncludeDismissed, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MatchResult, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (MatchResult, error) {
	var res MatchResult
	var matched, missing, reasons pq.StringArray
	err := row.Scan(
		&res.ID,
		&res.CandidateID,
		&res.JobID,
		&res.Score.Overall,
		&res.Score.Skills,
		&res.Score.Experience,
		&res.Score.Location,
		&res.Score.Salary,
		&matched,
		&missing,
		&reasons,
		&res.Viewed,
		&res.Applied,
		&res.Dismissed,
		&res.CreatedAt,
		&res.ExpiresAt,
	)
	if err != nil {
		return MatchResult{}, err
	}
	res.Score.MatchedSkills = nonNil(matched)
	res.Score.MissingSkills = nonNil(missing)
	res.Score.Reasons = nonNil(reasons)
	return res, nil
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
