package candidates

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

// GetByID returns a candidate by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	const query = `
SELECT id, name, email, phone, location, bio, skills, experience_level, education,
       expected_salary, created_at, updated_at
FROM candidates
WHERE id = $1`

	var (
		c      Candidate
		skills pq.StringArray
		salary sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Location,
		&c.Bio,
		&skills,
		&c.ExperienceLevel,
		&c.Education,
		&salary,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	c.Skills = []string(skills)
	if salary.Valid {
		v := salary.Float64
		c.ExpectedSalary = &v
	}
	return c, nil
}

// Upsert creates or replaces a candidate.
func (r *PGRepo) Upsert(ctx context.Context, c Candidate) (Candidate, error) {
	const query = `
INSERT INTO candidates (
    id,
    name,
    email,
    phone,
    location,
    bio,
    skills,
    experience_level,
    education,
    expected_salary,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    email = EXCLUDED.email,
    phone = EXCLUDED.phone,
    location = EXCLUDED.location,
    bio = EXCLUDED.bio,
    skills = EXCLUDED.skills,
    experience_level = EXCLUDED.experience_level,
    education = EXCLUDED.education,
    expected_salary = EXCLUDED.expected_salary,
    updated_at = EXCLUDED.updated_at
RETURNING created_at`

	var salary sql.NullFloat64
	if c.ExpectedSalary != nil {
		salary = sql.NullFloat64{Float64: *c.ExpectedSalary, Valid: true}
	}
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}

	err := r.DB.QueryRowContext(
		ctx,
		query,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Location,
		c.Bio,
		pq.Array(skills),
		c.ExperienceLevel,
		c.Education,
		salary,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.CreatedAt)
	if err != nil {
		return Candidate{}, err
	}
	return c, nil
}

// ListIDs returns all candidate IDs in ascending order.
func (r *PGRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM candidates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
