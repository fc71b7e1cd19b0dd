package candidatemetrics

import (
	"time"

	"talent-backend/internal/activity"
)

// Period is the length of the trailing reporting window.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod validates a period name.
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(raw); p {
	case Weekly, Monthly:
		return p, nil
	}
	return "", ErrInvalidPeriod
}

// WindowStart returns the start of the window ending at end.
func (p Period) WindowStart(end time.Time) time.Time {
	if p == Monthly {
		return end.AddDate(0, -1, 0)
	}
	return end.AddDate(0, 0, -7)
}

// Ranking categories.
const (
	CategoryTop          = "top"
	CategoryAboveAverage = "above_average"
	CategoryAverage      = "average"
	CategoryBelowAverage = "below_average"
)

type Ranking struct {
	Percentile int    `json:"percentile"`
	Category   string `json:"category"`
}

type ApplicationSummary struct {
	activity.ApplicationCounts
	SuccessRate float64 `json:"successRate"`
}

type DocumentSummary struct {
	activity.DocumentCounts
	CompletionRate float64 `json:"completionRate"`
}

type InterviewSummary struct {
	activity.InterviewCounts
	SuccessRate float64 `json:"successRate"`
}

type ProfileSummary struct {
	Views         int      `json:"views"`
	Completion    int      `json:"completion"`
	MissingFields []string `json:"missingFields"`
}

// Trends compare the window with the latest snapshot taken on or before the
// window start. Applications and ProfileViews are percentage changes;
// InterviewSuccessRate is a difference in points.
type Trends struct {
	Applications         float64 `json:"applications"`
	ProfileViews         float64 `json:"profileViews"`
	InterviewSuccessRate float64 `json:"interviewSuccessRate"`
}

// Summary is the scorecard of one candidate for one window.
type Summary struct {
	CandidateID  string             `json:"candidateId"`
	Period       Period             `json:"period"`
	SnapshotDate time.Time          `json:"snapshotDate"`
	WindowStart  time.Time          `json:"windowStart"`
	WindowEnd    time.Time          `json:"windowEnd"`
	OverallScore int                `json:"overallScore"`
	Ranking      Ranking            `json:"ranking"`
	Applications ApplicationSummary `json:"applications"`
	Documents    DocumentSummary    `json:"documents"`
	Interviews   InterviewSummary   `json:"interviews"`
	Profile      ProfileSummary     `json:"profile"`
	Trends       Trends             `json:"trends"`
}

// Snapshot is a stored Summary. One exists per candidate, period and
// snapshot date.
type Snapshot struct {
	ID        string    `json:"id"`
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
