package matching

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]MatchResult
	byPair map[string]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]MatchResult),
		byPair: make(map[string]string),
	}
}

func pairKey(candidateID, jobID string) string {
	return candidateID + "\x00" + jobID
}

// CreateIfAbsent stores result when the pair has no result yet.
func (r *MemoryRepo) CreateIfAbsent(ctx context.Context, result MatchResult) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := pairKey(result.CandidateID, result.JobID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPair[key]; ok {
		return false, nil
	}
	r.byPair[key] = result.ID
	r.byID[result.ID] = cloneResult(result)
	return true, nil
}

// GetByID returns a result by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byID[id]
	if !ok {
		return MatchResult{}, ErrNotFound
	}
	return cloneResult(res), nil
}

// UpdateFlags applies the non-nil flags of update.
func (r *MemoryRepo) UpdateFlags(ctx context.Context, id string, update FlagUpdate) (MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return MatchResult{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return MatchResult{}, ErrNotFound
	}
	if update.Viewed != nil {
		res.Viewed = *update.Viewed
	}
	if update.Applied != nil {
		res.Applied = *update.Applied
	}
	if update.Dismissed != nil {
		res.Dismissed = *update.Dismissed
	}
	r.byID[id] = res
	return cloneResult(res), nil
}

// ListByCandidate returns a candidate's results, best score first.
func (r *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string, filter ListFilter) ([]MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]MatchResult, 0)
	for _, res := range r.byID {
		if res.CandidateID != candidateID {
			continue
		}
		if !filter.IncludeExpired && res.Expired(filter.Now) {
			continue
		}
		if !filter.IncludeDismissed && res.Dismissed {
			continue
		}
		out = append(out, cloneResult(res))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score.Overall != out[j].Score.Overall {
			return out[i].Score.Overall > out[j].Score.Overall
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].JobID < out[j].JobID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []MatchResult{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func cloneResult(r MatchResult) MatchResult {
	r.Score.MatchedSkills = append([]string(nil), r.Score.MatchedSkills...)
	r.Score.MissingSkills = append([]string(nil), r.Score.MissingSkills...)
	r.Score.Reasons = append([]string(nil), r.Score.Reasons...)
	return r
}
