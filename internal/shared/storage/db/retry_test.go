package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"
)

func TestRetryReturnsNonTransientImmediately(t *testing.T) {
	calls := 0
	want := errors.New("unique violation")
	err := Retry(context.Background(), RetryPolicy{Timeout: time.Second, Retries: 3}, "test", func(ctx context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Timeout: time.Second, Retries: 2}, "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return driver.ErrBadConn
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryGivesUpAfterBudget(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Timeout: time.Second, Retries: 1}, "test", func(ctx context.Context) error {
		calls++
		return errors.New("read: connection reset by peer")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryAppliesAttemptTimeout(t *testing.T) {
	err := Retry(context.Background(), RetryPolicy{Timeout: 10 * time.Millisecond, Retries: 0}, "test", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.DeadlineExceeded, true},
		{driver.ErrBadConn, true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("syntax error at or near"), false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Fatalf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRetryStopsWhenParentContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, RetryPolicy{Timeout: time.Second, Retries: 5}, "test", func(ctx context.Context) error {
		calls++
		cancel()
		return driver.ErrBadConn
	})
	if !errors.Is(err, driver.ErrBadConn) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call after cancellation, got %d", calls)
	}
}

func TestRetryReturnsUnwrappedTransientError(t *testing.T) {
	err := Retry(context.Background(), RetryPolicy{Timeout: time.Second, Retries: 1}, "test", func(ctx context.Context) error {
		return driver.ErrBadConn
	})
	if err != driver.ErrBadConn {
		t.Fatalf("expected driver.ErrBadConn itself, got %#v", err)
	}
}
