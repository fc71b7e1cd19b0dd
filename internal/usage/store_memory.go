package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.Mutex
	data  map[string]Usage
	limit int
	now   func() time.Time
}

func newMemoryStore(limit int) *memoryStore {
	return &memoryStore{
		data:  make(map[string]Usage),
		limit: limit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Usage, error) {
	return s.EnsurePeriod(ctx, userID)
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	return u, nil
}

// ensureLocked loads or initializes the row and rolls the window forward.
// Callers hold s.mu.
func (s *memoryStore) ensureLocked(userID string) Usage {
	now := s.now()
	u, ok := s.data[userID]
	if !ok {
		u = defaultUsage(s.limit, now)
	}
	if expired(u, now) {
		u.Used = 0
		u.ResetsAt = now.Add(Window)
	}
	s.data[userID] = u
	return u
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.EnsurePeriod(ctx, userID)
	}
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if u.Used+n > u.Limit {
		return Usage{}, ErrLimitReached
	}
	u.Used += n
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	u, ok := s.data[userID]
	if !ok {
		u = defaultUsage(s.limit, now)
	}
	u.Used = 0
	u.ResetsAt = now.Add(Window)
	s.data[userID] = u
	return u, nil
}
