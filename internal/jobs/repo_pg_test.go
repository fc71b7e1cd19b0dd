package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var jobColumnNames = []string{
	"id", "company_id", "title", "required_skills", "experience_level", "location",
	"salary_min", "salary_max", "status", "visibility", "created_at", "updated_at",
}

func TestPGRepoListActivePublic(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows(jobColumnNames).
		AddRow("job-1", "acme", "Go Dev", "{Go,Postgres}", "mid", "Lisbon", 3000.0, 5000.0, "active", "public", now, now).
		AddRow("job-2", "acme", "Remote Dev", "{}", "", "Remote", nil, nil, "active", "public", now, now)

	mock.ExpectQuery("FROM jobs\\s+WHERE status = 'active' AND visibility = 'public'").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.ListActivePublic(context.Background())
	if err != nil {
		t.Fatalf("ListActivePublic: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}
	if got[0].SalaryMin == nil || *got[0].SalaryMin != 3000 || len(got[0].RequiredSkills) != 2 {
		t.Fatalf("unexpected first job %+v", got[0])
	}
	if got[1].SalaryMin != nil || got[1].SalaryMax != nil {
		t.Fatalf("expected nil salary range, got %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpsertPassesNullSalary(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO jobs").
		WithArgs("job-1", "acme", "Go Dev", sqlmock.AnyArg(), "mid", "Lisbon", nil, nil, "active", "public", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := &PGRepo{DB: db}
	_, err = repo.Upsert(context.Background(), Job{
		ID:              "job-1",
		CompanyID:       "acme",
		Title:           "Go Dev",
		ExperienceLevel: "mid",
		Location:        "Lisbon",
		Status:          StatusActive,
		Visibility:      VisibilityPublic,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
