package jobs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Job
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Job)}
}

// GetByID returns a job by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.data[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return clone(j), nil
}

// Upsert creates or replaces a job, keeping the original CreatedAt.
func (r *MemoryRepo) Upsert(ctx context.Context, job Job) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.data[job.ID]; ok {
		job.CreatedAt = existing.CreatedAt
	}
	r.data[job.ID] = clone(job)
	return clone(job), nil
}

// ListActivePublic returns listed jobs ordered by ID.
func (r *MemoryRepo) ListActivePublic(ctx context.Context) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Job, 0, len(r.data))
	for _, j := range r.data {
		if j.Listed() {
			out = append(out, clone(j))
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func clone(j Job) Job {
	j.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	if j.SalaryMin != nil {
		v := *j.SalaryMin
		j.SalaryMin = &v
	}
	if j.SalaryMax != nil {
		v := *j.SalaryMax
		j.SalaryMax = &v
	}
	return j
}
