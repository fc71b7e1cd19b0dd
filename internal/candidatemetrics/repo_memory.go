package candidatemetrics

import (
	"context"
	"sort"
	"sync"
	"time"
)

type snapshotKey struct {
	candidateID string
	period      Period
	date        time.Time
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[snapshotKey]Snapshot
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[snapshotKey]Snapshot)}
}

func keyOf(s Summary) snapshotKey {
	return snapshotKey{candidateID: s.CandidateID, period: s.Period, date: SnapshotDate(s.SnapshotDate)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	key := keyOf(snap.Summary)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.data[key]; ok {
		snap.ID = existing.ID
		snap.CreatedAt = existing.CreatedAt
	}
	r.data[key] = snap
	return snap, nil
}

func (r *MemoryRepo) Latest(ctx context.Context, candidateID string, period Period) (Snapshot, error) {
	list, err := r.matching(ctx, candidateID, period, func(time.Time) bool { return true })
	if err != nil {
		return Snapshot{}, err
	}
	if len(list) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return list[0], nil
}

func (r *MemoryRepo) FindPrior(ctx context.Context, candidateID string, period Period, date time.Time) (Snapshot, error) {
	date = SnapshotDate(date)
	list, err := r.matching(ctx, candidateID, period, func(d time.Time) bool { return !d.After(date) })
	if err != nil {
		return Snapshot{}, err
	}
	if len(list) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return list[0], nil
}

func (r *MemoryRepo) PeerScores(ctx context.Context, period Period, date time.Time, excludeCandidateID string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	date = SnapshotDate(date)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int, 0)
	for k, snap := range r.data {
		if k.period == period && k.date.Equal(date) && k.candidateID != excludeCandidateID {
			out = append(out, snap.Summary.OverallScore)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ListHistory(ctx context.Context, candidateID string, period Period, before time.Time, limit int) ([]Snapshot, error) {
	list, err := r.matching(ctx, candidateID, period, func(d time.Time) bool {
		return before.IsZero() || d.Before(before)
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// matching returns the candidate's snapshots for period whose date passes
// keep, newest first.
func (r *MemoryRepo) matching(ctx context.Context, candidateID string, period Period, keep func(time.Time) bool) ([]Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Snapshot, 0)
	for k, snap := range r.data {
		if k.candidateID == candidateID && k.period == period && keep(k.date) {
			out = append(out, snap)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Summary.SnapshotDate.After(out[j].Summary.SnapshotDate)
	})
	return out, nil
}
