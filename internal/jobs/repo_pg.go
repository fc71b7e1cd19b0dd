package jobs

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

const jobColumns = `id, company_id, title, required_skills, experience_level, location,
       salary_min, salary_max, status, visibility, created_at, updated_at`

// GetByID returns a job by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	j, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return j, nil
}

// Upsert creates or replaces a job.
func (r *PGRepo) Upsert(ctx context.Context, j Job) (Job, error) {
	const query = `
INSERT INTO jobs (
    id,
    company_id,
    title,
    required_skills,
    experience_level,
    location,
    salary_min,
    salary_max,
    status,
    visibility,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    required_skills = EXCLUDED.required_skills,
    experience_level = EXCLUDED.experience_level,
    location = EXCLUDED.location,
    salary_min = EXCLUDED.salary_min,
    salary_max = EXCLUDED.salary_max,
    status = EXCLUDED.status,
    visibility = EXCLUDED.visibility,
    updated_at = EXCLUDED.updated_at
RETURNING created_at`

	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	err := r.DB.QueryRowContext(
		ctx,
		query,
		j.ID,
		j.CompanyID,
		j.Title,
		pq.Array(skills),
		j.ExperienceLevel,
		j.Location,
		nullFloat(j.SalaryMin),
		nullFloat(j.SalaryMax),
		j.Status,
		j.Visibility,
		j.CreatedAt,
		j.UpdatedAt,
	).Scan(&j.CreatedAt)
	if err != nil {
		return Job{}, err
	}
	return j, nil
}

// ListActivePublic returns listed jobs ordered by ID.
func (r *PGRepo) ListActivePublic(ctx context.Context) ([]Job, error) {
	query := `SELECT ` + jobColumns + `
FROM jobs
WHERE status = 'active' AND visibility = 'public'
ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var (
		j      Job
		skills pq.StringArray
		lo, hi sql.NullFloat64
	)
	err := row.Scan(
		&j.ID,
		&j.CompanyID,
		&j.Title,
		&skills,
		&j.ExperienceLevel,
		&j.Location,
		&lo,
		&hi,
		&j.Status,
		&j.Visibility,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	j.RequiredSkills = []string(skills)
	j.SalaryMin = floatPtr(lo)
	j.SalaryMax = floatPtr(hi)
	return j, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
