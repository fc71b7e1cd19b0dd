package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-backend/internal/candidates"
)

// CandidateReader confirms the subject of a record exists.
type CandidateReader interface {
	GetByID(ctx context.Context, id string) (candidates.Candidate, error)
}

// Service records candidate activity.
type Service struct {
	Repo       Repo
	Candidates CandidateReader
	Now        func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, cands CandidateReader) *Service {
	return &Service{Repo: repo, Candidates: cands, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) requireCandidate(ctx context.Context, candidateID string) error {
	if strings.TrimSpace(candidateID) == "" {
		return fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
	}
	if s.Candidates == nil {
		return nil
	}
	_, err := s.Candidates.GetByID(ctx, candidateID)
	return err
}

func normalizeStatus(kind Kind, status, fallback string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return fallback, nil
	}
	if !ValidStatus(kind, status) {
		return "", fmt.Errorf("%w: unknown %s status %q", ErrInvalidInput, kind, status)
	}
	return status, nil
}

// RecordApplication stores a job application. Status defaults to pending.
func (s *Service) RecordApplication(ctx context.Context, candidateID, jobID, status string) (Application, error) {
	if err := s.requireCandidate(ctx, candidateID); err != nil {
		return Application{}, err
	}
	if strings.TrimSpace(jobID) == "" {
		return Application{}, fmt.Errorf("%w: jobId is required", ErrInvalidInput)
	}
	st, err := normalizeStatus(KindApplication, status, ApplicationPending)
	if err != nil {
		return Application{}, err
	}
	a := Application{ID: uuid.NewString(), CandidateID: candidateID, JobID: jobID, Status: st, CreatedAt: s.now()}
	if err := s.Repo.AddApplication(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

// RecordDocument stores an uploaded document awaiting verification.
func (s *Service) RecordDocument(ctx context.Context, candidateID, kind, status string) (Document, error) {
	if err := s.requireCandidate(ctx, candidateID); err != nil {
		return Document{}, err
	}
	st, err := normalizeStatus(KindDocument, status, DocumentPending)
	if err != nil {
		return Document{}, err
	}
	d := Document{ID: uuid.NewString(), CandidateID: candidateID, Kind: strings.TrimSpace(kind), Status: st, CreatedAt: s.now()}
	if err := s.Repo.AddDocument(ctx, d); err != nil {
		return Document{}, err
	}
	return d, nil
}

// RecordInterview stores an interview. Status defaults to scheduled.
func (s *Service) RecordInterview(ctx context.Context, candidateID, jobID, status string, scheduledAt time.Time) (Interview, error) {
	if err := s.requireCandidate(ctx, candidateID); err != nil {
		return Interview{}, err
	}
	if scheduledAt.IsZero() {
		return Interview{}, fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}
	st, err := normalizeStatus(KindInterview, status, InterviewScheduled)
	if err != nil {
		return Interview{}, err
	}
	i := Interview{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		JobID:       strings.TrimSpace(jobID),
		Status:      st,
		ScheduledAt: scheduledAt.UTC(),
		CreatedAt:   s.now(),
	}
	if err := s.Repo.AddInterview(ctx, i); err != nil {
		return Interview{}, err
	}
	return i, nil
}

// RecordProfileView stores a view of the candidate's profile. Candidates
// viewing their own profile are not counted; recorded is false then.
func (s *Service) RecordProfileView(ctx context.Context, candidateID, viewerID string) (ProfileView, bool, error) {
	if err := s.requireCandidate(ctx, candidateID); err != nil {
		return ProfileView{}, false, err
	}
	if viewerID == candidateID {
		return ProfileView{}, false, nil
	}
	v := ProfileView{ID: uuid.NewString(), CandidateID: candidateID, ViewerID: viewerID, ViewedAt: s.now()}
	if err := s.Repo.AddProfileView(ctx, v); err != nil {
		return ProfileView{}, false, err
	}
	return v, true, nil
}

// SetStatus moves a record to a new status.
func (s *Service) SetStatus(ctx context.Context, kind Kind, id, status string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	st := strings.ToLower(strings.TrimSpace(status))
	if !ValidStatus(kind, st) {
		return fmt.Errorf("%w: unknown %s status %q", ErrInvalidInput, kind, status)
	}
	return s.Repo.SetStatus(ctx, kind, id, st)
}
