package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-backend/internal/candidates"
)

type fixture struct {
	svc  *Service
	repo *MemoryRepo
	now  time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cands := candidates.NewMemoryRepo()
	if _, err := cands.Upsert(context.Background(), candidates.Candidate{ID: "cand-1"}); err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	repo := NewMemoryRepo()
	now := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, cands)
	svc.Now = func() time.Time { return now }
	return fixture{svc: svc, repo: repo, now: now}
}

func TestRecordRequiresExistingCandidate(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RecordApplication(context.Background(), "ghost", "job-1", "")
	if !errors.Is(err, candidates.ErrNotFound) {
		t.Fatalf("expected candidates.ErrNotFound, got %v", err)
	}
}

func TestRecordApplicationDefaultsToPending(t *testing.T) {
	f := newFixture(t)
	a, err := f.svc.RecordApplication(context.Background(), "cand-1", "job-1", "")
	if err != nil {
		t.Fatalf("RecordApplication: %v", err)
	}
	if a.Status != ApplicationPending {
		t.Fatalf("status = %q", a.Status)
	}
	if _, err := f.svc.RecordApplication(context.Background(), "cand-1", "job-1", "hired"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCountsGroupByStatusWithinWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := Window{Start: f.now.AddDate(0, 0, -7), End: f.now}

	for _, st := range []string{"pending", "shortlisted", "accepted", "rejected", "accepted"} {
		if _, err := f.svc.RecordApplication(ctx, "cand-1", "job-1", st); err != nil {
			t.Fatalf("RecordApplication: %v", err)
		}
	}
	// Outside the window.
	if err := f.repo.AddApplication(ctx, Application{ID: "old", CandidateID: "cand-1", Status: "accepted", CreatedAt: w.Start.Add(-time.Hour)}); err != nil {
		t.Fatalf("AddApplication: %v", err)
	}

	apps, err := f.repo.CountApplications(ctx, "cand-1", w)
	if err != nil {
		t.Fatalf("CountApplications: %v", err)
	}
	want := ApplicationCounts{Total: 5, Pending: 1, Shortlisted: 1, Rejected: 1, Accepted: 2}
	if apps != want {
		t.Fatalf("applications = %+v, want %+v", apps, want)
	}

	if _, err := f.svc.RecordInterview(ctx, "cand-1", "job-1", "", f.now.Add(48*time.Hour)); err != nil {
		t.Fatalf("RecordInterview: %v", err)
	}
	if _, err := f.svc.RecordInterview(ctx, "cand-1", "job-1", "", f.now.Add(-time.Hour)); err != nil {
		t.Fatalf("RecordInterview: %v", err)
	}
	if _, err := f.svc.RecordInterview(ctx, "cand-1", "job-2", "completed", f.now.Add(-24*time.Hour)); err != nil {
		t.Fatalf("RecordInterview: %v", err)
	}
	interviews, err := f.repo.CountInterviews(ctx, "cand-1", w)
	if err != nil {
		t.Fatalf("CountInterviews: %v", err)
	}
	if interviews.Total != 3 || interviews.Scheduled != 2 || interviews.Upcoming != 1 || interviews.Completed != 1 {
		t.Fatalf("interviews = %+v", interviews)
	}
}

func TestSetStatusUpdatesCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d, err := f.svc.RecordDocument(ctx, "cand-1", "id_card", "")
	if err != nil {
		t.Fatalf("RecordDocument: %v", err)
	}
	if err := f.svc.SetStatus(ctx, KindDocument, d.ID, "Verified"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	counts, err := f.repo.CountDocuments(ctx, "cand-1", Window{Start: f.now.Add(-time.Hour), End: f.now})
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if counts.Total != 1 || counts.Verified != 1 || counts.Pending != 0 {
		t.Fatalf("documents = %+v", counts)
	}
	if err := f.svc.SetStatus(ctx, KindDocument, "missing", "verified"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := f.svc.SetStatus(ctx, KindDocument, d.ID, "shortlisted"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecordProfileViewIgnoresSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, recorded, err := f.svc.RecordProfileView(ctx, "cand-1", "cand-1"); err != nil || recorded {
		t.Fatalf("self view: recorded=%v err=%v", recorded, err)
	}
	if _, recorded, err := f.svc.RecordProfileView(ctx, "cand-1", "acme"); err != nil || !recorded {
		t.Fatalf("company view: recorded=%v err=%v", recorded, err)
	}
	n, err := f.repo.CountProfileViews(ctx, "cand-1", Window{Start: f.now.Add(-time.Minute), End: f.now})
	if err != nil {
		t.Fatalf("CountProfileViews: %v", err)
	}
	if n != 1 {
		t.Fatalf("views = %d, want 1", n)
	}
}
