package usage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConsumeStopsAtLimit(t *testing.T) {
	svc := NewService(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Consume(ctx, "cand-1", 1); err != nil {
			t.Fatalf("consume %d: %v", i+1, err)
		}
	}
	if _, err := svc.Consume(ctx, "cand-1", 1); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	ok, u, err := svc.CanConsume(ctx, "cand-1", 1)
	if err != nil {
		t.Fatalf("CanConsume: %v", err)
	}
	if ok || u.Remaining() != 0 {
		t.Fatalf("expected exhausted allowance, got ok=%v usage=%+v", ok, u)
	}

	// Other candidates have their own allowance.
	if ok, _, _ := svc.CanConsume(ctx, "cand-2", 1); !ok {
		t.Fatalf("expected fresh allowance for cand-2")
	}
}

func TestWindowRollsOver(t *testing.T) {
	store := newMemoryStore(1)
	now := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	svc := NewPostgresService(store)
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "cand-1", 1); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if _, err := svc.Consume(ctx, "cand-1", 1); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	now = now.Add(Window)
	u, err := svc.Consume(ctx, "cand-1", 1)
	if err != nil {
		t.Fatalf("Consume after window: %v", err)
	}
	if u.Used != 1 || !u.ResetsAt.Equal(now.Add(Window)) {
		t.Fatalf("unexpected usage after rollover: %+v", u)
	}
}

func TestResetClearsUsage(t *testing.T) {
	svc := NewService(0)
	ctx := context.Background()
	if _, err := svc.Consume(ctx, "cand-1", 3); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	u, err := svc.Reset(ctx, "cand-1")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if u.Used != 0 || u.Limit != DefaultLimit || u.Plan != PlanStarter {
		t.Fatalf("unexpected usage after reset: %+v", u)
	}
}

func TestEmptyCandidateIDIsRejected(t *testing.T) {
	svc := NewService(1)
	ctx := context.Background()
	if _, err := svc.Consume(ctx, "  ", 1); !errors.Is(err, ErrMissingCandidate) {
		t.Fatalf("expected ErrMissingCandidate, got %v", err)
	}
	if _, _, err := svc.CanConsume(ctx, "", 1); !errors.Is(err, ErrMissingCandidate) {
		t.Fatalf("expected ErrMissingCandidate, got %v", err)
	}
}
