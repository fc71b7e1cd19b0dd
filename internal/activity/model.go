package activity

import "time"

// Kind names a record type that carries a status.
type Kind string

const (
	KindApplication Kind = "application"
	KindDocument    Kind = "document"
	KindInterview   Kind = "interview"
)

// Application statuses.
const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
	ApplicationAccepted    = "accepted"
)

// Document verification statuses.
const (
	DocumentPending  = "pending"
	DocumentVerified = "verified"
	DocumentRejected = "rejected"
)

// Interview statuses.
const (
	InterviewScheduled = "scheduled"
	InterviewCompleted = "completed"
	InterviewCancelled = "cancelled"
)

var validStatuses = map[Kind]map[string]struct{}{
	KindApplication: {ApplicationPending: {}, ApplicationShortlisted: {}, ApplicationRejected: {}, ApplicationAccepted: {}},
	KindDocument:    {DocumentPending: {}, DocumentVerified: {}, DocumentRejected: {}},
	KindInterview:   {InterviewScheduled: {}, InterviewCompleted: {}, InterviewCancelled: {}},
}

// ValidStatus reports whether status is allowed for kind.
func ValidStatus(kind Kind, status string) bool {
	_, ok := validStatuses[kind][status]
	return ok
}

type Application struct {
	ID          string
	CandidateID string
	JobID       string
	Status      string
	CreatedAt   time.Time
}

type Document struct {
	ID          string
	CandidateID string
	Kind        string
	Status      string
	CreatedAt   time.Time
}

type Interview struct {
	ID          string
	CandidateID string
	JobID       string
	Status      string
	ScheduledAt time.Time
	CreatedAt   time.Time
}

// ProfileView is one view of a candidate profile by another user.
type ProfileView struct {
	ID          string
	CandidateID string
	ViewerID    string
	ViewedAt    time.Time
}

// Window is the closed interval [Start, End] records are counted in.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

type ApplicationCounts struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Accepted    int `json:"accepted"`
}

type DocumentCounts struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// InterviewCounts groups interviews by status. Upcoming counts scheduled
// interviews whose time is after the window end.
type InterviewCounts struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Upcoming  int `json:"upcoming"`
}
