package matching

import (
	"strings"
	"time"
)

// ExperienceLevel is the ordinal seniority scale shared by candidates and jobs.
type ExperienceLevel int

const (
	LevelUnknown ExperienceLevel = iota
	LevelEntry
	LevelJunior
	LevelMid
	LevelSenior
	LevelLead
	LevelExecutive
)

var levelNames = map[string]ExperienceLevel{
	"entry":     LevelEntry,
	"junior":    LevelJunior,
	"mid":       LevelMid,
	"senior":    LevelSenior,
	"lead":      LevelLead,
	"executive": LevelExecutive,
}

// ParseExperienceLevel maps a level name to its ordinal. Unrecognised names
// map to LevelUnknown.
func ParseExperienceLevel(raw string) ExperienceLevel {
	return levelNames[strings.ToLower(strings.TrimSpace(raw))]
}

// String returns the level name, or "" for LevelUnknown.
func (l ExperienceLevel) String() string {
	for name, level := range levelNames {
		if level == l {
			return name
		}
	}
	return ""
}

// CandidateProfile is the projection of a candidate needed for scoring.
type CandidateProfile struct {
	ID             string
	Skills         []string
	Experience     ExperienceLevel
	Location       string
	ExpectedSalary *float64
}

// JobPosting is the projection of a job needed for scoring.
type JobPosting struct {
	ID             string
	Title          string
	RequiredSkills []string
	Experience     ExperienceLevel
	Location       string
	SalaryMin      *float64
	SalaryMax      *float64
}

// MatchScore is the outcome of scoring one candidate against one job.
type MatchScore struct {
	Overall       int      `json:"overall"`
	Skills        int      `json:"skills"`
	Experience    int      `json:"experience"`
	Location      int      `json:"location"`
	Salary        int      `json:"salary"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Reasons       []string `json:"reasons"`
}

// MatchResult is a persisted recommendation of a job to a candidate.
type MatchResult struct {
	ID          string
	CandidateID string
	JobID       string
	Score       MatchScore
	Viewed      bool
	Applied     bool
	Dismissed   bool
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the result should no longer be surfaced at now.
func (r MatchResult) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// FlagUpdate sets lifecycle flags; nil fields are left unchanged.
type FlagUpdate struct {
	Viewed    *bool
	Applied   *bool
	Dismissed *bool
}

// ListFilter narrows ListByCandidate.
type ListFilter struct {
	Now              time.Time
	IncludeExpired   bool
	IncludeDismissed bool
	Limit            int
	Offset           int
}
