package activity

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu           sync.RWMutex
	applications map[string]Application
	documents    map[string]Document
	interviews   map[string]Interview
	views        []ProfileView
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		applications: make(map[string]Application),
		documents:    make(map[string]Document),
		interviews:   make(map[string]Interview),
	}
}

func (r *MemoryRepo) AddApplication(ctx context.Context, a Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applications[a.ID] = a
	return nil
}

func (r *MemoryRepo) AddDocument(ctx context.Context, d Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[d.ID] = d
	return nil
}

func (r *MemoryRepo) AddInterview(ctx context.Context, i Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviews[i.ID] = i
	return nil
}

func (r *MemoryRepo) AddProfileView(ctx context.Context, v ProfileView) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
	return nil
}

// SetStatus changes the status of an application, document or interview.
func (r *MemoryRepo) SetStatus(ctx context.Context, kind Kind, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch kind {
	case KindApplication:
		a, ok := r.applications[id]
		if !ok {
			return ErrNotFound
		}
		a.Status = status
		r.applications[id] = a
	case KindDocument:
		d, ok := r.documents[id]
		if !ok {
			return ErrNotFound
		}
		d.Status = status
		r.documents[id] = d
	case KindInterview:
		i, ok := r.interviews[id]
		if !ok {
			return ErrNotFound
		}
		i.Status = status
		r.interviews[id] = i
	default:
		return ErrInvalidInput
	}
	return nil
}

func (r *MemoryRepo) CountApplications(ctx context.Context, candidateID string, w Window) (ApplicationCounts, error) {
	if err := ctx.Err(); err != nil {
		return ApplicationCounts{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out ApplicationCounts
	for _, a := range r.applications {
		if a.CandidateID != candidateID || !w.Contains(a.CreatedAt) {
			continue
		}
		out.Total++
		switch a.Status {
		case ApplicationPending:
			out.Pending++
		case ApplicationShortlisted:
			out.Shortlisted++
		case ApplicationRejected:
			out.Rejected++
		case ApplicationAccepted:
			out.Accepted++
		}
	}
	return out, nil
}

func (r *MemoryRepo) CountDocuments(ctx context.Context, candidateID string, w Window) (DocumentCounts, error) {
	if err := ctx.Err(); err != nil {
		return DocumentCounts{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out DocumentCounts
	for _, d := range r.documents {
		if d.CandidateID != candidateID || !w.Contains(d.CreatedAt) {
			continue
		}
		out.Total++
		switch d.Status {
		case DocumentVerified:
			out.Verified++
		case DocumentPending:
			out.Pending++
		case DocumentRejected:
			out.Rejected++
		}
	}
	return out, nil
}

func (r *MemoryRepo) CountInterviews(ctx context.Context, candidateID string, w Window) (InterviewCounts, error) {
	if err := ctx.Err(); err != nil {
		return InterviewCounts{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out InterviewCounts
	for _, i := range r.interviews {
		if i.CandidateID != candidateID || !w.Contains(i.CreatedAt) {
			continue
		}
		out.Total++
		switch i.Status {
		case InterviewScheduled:
			out.Scheduled++
			if i.ScheduledAt.After(w.End) {
				out.Upcoming++
			}
		case InterviewCompleted:
			out.Completed++
		case InterviewCancelled:
			out.Cancelled++
		}
	}
	return out, nil
}

func (r *MemoryRepo) CountProfileViews(ctx context.Context, candidateID string, w Window) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, v := range r.views {
		if v.CandidateID == candidateID && w.Contains(v.ViewedAt) {
			n++
		}
	}
	return n, nil
}
