package candidates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Candidate
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Candidate)}
}

// GetByID returns a candidate by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return Candidate{}, ErrNotFound
	}
	return clone(c), nil
}

// Upsert creates or replaces a candidate, keeping the original CreatedAt.
func (r *MemoryRepo) Upsert(ctx context.Context, c Candidate) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.data[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	}
	r.data[c.ID] = clone(c)
	return clone(c), nil
}

// ListIDs returns all candidate IDs in ascending order.
func (r *MemoryRepo) ListIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	ids := make([]string, 0, len(r.data))
	for id := range r.data {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}

func clone(c Candidate) Candidate {
	c.Skills = append([]string(nil), c.Skills...)
	if c.ExpectedSalary != nil {
		v := *c.ExpectedSalary
		c.ExpectedSalary = &v
	}
	return c
}
