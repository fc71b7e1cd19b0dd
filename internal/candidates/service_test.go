package candidates

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-backend/internal/matching"
)

func newTestService() *Service {
	svc := NewService(NewMemoryRepo())
	fixed := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }
	return svc
}

func TestSaveNormalizesProfile(t *testing.T) {
	svc := newTestService()
	salary := 90000.0

	saved, err := svc.Save(context.Background(), Candidate{
		ID:              " cand-1 ",
		Name:            "Ana",
		Skills:          []string{" Go ", "go", "", "SQL"},
		ExperienceLevel: "Senior",
		ExpectedSalary:  &salary,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID != "cand-1" {
		t.Fatalf("id = %q", saved.ID)
	}
	if len(saved.Skills) != 2 || saved.Skills[0] != "Go" || saved.Skills[1] != "SQL" {
		t.Fatalf("skills = %v", saved.Skills)
	}
	if saved.ExperienceLevel != "senior" {
		t.Fatalf("experience = %q", saved.ExperienceLevel)
	}

	got, err := svc.Get(context.Background(), "cand-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Ana" || got.ExpectedSalary == nil || *got.ExpectedSalary != salary {
		t.Fatalf("unexpected candidate %+v", got)
	}
}

func TestSaveKeepsCreatedAtOnUpdate(t *testing.T) {
	svc := newTestService()
	first, err := svc.Save(context.Background(), Candidate{ID: "cand-1", Name: "Ana"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	later := first.CreatedAt.Add(time.Hour)
	svc.Now = func() time.Time { return later }
	second, err := svc.Save(context.Background(), Candidate{ID: "cand-1", Name: "Ana Maria"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt = %v, want %v", second.UpdatedAt, later)
	}
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	svc := newTestService()
	negative := -1.0
	cases := map[string]Candidate{
		"missing id":      {Name: "x"},
		"unknown level":   {ID: "c", ExperienceLevel: "wizard"},
		"negative salary": {ID: "c", ExpectedSalary: &negative},
	}
	for name, c := range cases {
		if _, err := svc.Save(context.Background(), c); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestGetUnknownCandidate(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileProjection(t *testing.T) {
	salary := 5000.0
	c := Candidate{
		ID:              "cand-1",
		Skills:          []string{"Go"},
		ExperienceLevel: "mid",
		Location:        "Lisbon",
		ExpectedSalary:  &salary,
	}
	p := c.Profile()
	if p.ID != "cand-1" || p.Experience != matching.LevelMid || p.Location != "Lisbon" || *p.ExpectedSalary != salary {
		t.Fatalf("unexpected profile %+v", p)
	}
	p.Skills[0] = "Rust"
	if c.Skills[0] != "Go" {
		t.Fatalf("profile shares skills slice with candidate")
	}
}

func TestMemoryRepoListIDsSorted(t *testing.T) {
	repo := NewMemoryRepo()
	for _, id := range []string{"c", "a", "b"} {
		if _, err := repo.Upsert(context.Background(), Candidate{ID: id}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	ids, err := repo.ListIDs(context.Background())
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[2] != "c" {
		t.Fatalf("ids = %v", ids)
	}
}
