package candidatemetrics

import (
	"math"
	"strings"
	"time"

	"talent-backend/internal/activity"
	"talent-backend/internal/candidates"
)

// Caps on each component of the overall score.
const (
	capApplications = 40
	capDocuments    = 30
	capInterviews   = 20
	capProfileViews = 10
)

// ApplicationSuccessRate is the share of applications shortlisted or accepted.
func ApplicationSuccessRate(c activity.ApplicationCounts) float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Shortlisted+c.Accepted) / float64(c.Total) * 100
}

// DocumentCompletionRate is the share of documents verified.
func DocumentCompletionRate(c activity.DocumentCounts) float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Verified) / float64(c.Total) * 100
}

// InterviewSuccessRate is completed interviews over completed plus cancelled.
func InterviewSuccessRate(c activity.InterviewCounts) float64 {
	done := c.Completed + c.Cancelled
	if done == 0 {
		return 0
	}
	return float64(c.Completed) / float64(done) * 100
}

// OverallScore combines the rates and the view count into 0..100. Each
// component is capped on its own before summing.
func OverallScore(applicationRate, documentRate, interviewRate float64, profileViews int) int {
	sum := math.Min(applicationRate*0.4, capApplications) +
		math.Min(documentRate*0.3, capDocuments) +
		math.Min(interviewRate*0.2, capInterviews) +
		math.Min(float64(profileViews)/10*0.1, capProfileViews)
	score := int(math.Round(sum))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Rank places score among the scores of other candidates. The candidate
// counts towards the population size.
func Rank(score int, others []int) Ranking {
	if len(others) == 0 {
		return Ranking{Percentile: 50, Category: CategoryAverage}
	}
	lower := 0
	for _, s := range others {
		if s < score {
			lower++
		}
	}
	p := int(math.Round(100 * float64(lower) / float64(len(others)+1)))
	return Ranking{Percentile: p, Category: category(p)}
}

func category(percentile int) string {
	switch {
	case percentile >= 90:
		return CategoryTop
	case percentile >= 70:
		return CategoryAboveAverage
	case percentile < 30:
		return CategoryBelowAverage
	default:
		return CategoryAverage
	}
}

// PercentChange is the relative change from prev to cur in percent. Growth
// from zero counts as 100.
func PercentChange(prev, cur float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return round1((cur - prev) / prev * 100)
}

// ComputeTrends compares cur with prior. A nil prior yields zero trends.
func ComputeTrends(cur Summary, prior *Summary) Trends {
	if prior == nil {
		return Trends{}
	}
	return Trends{
		Applications:         PercentChange(float64(prior.Applications.Total), float64(cur.Applications.Total)),
		ProfileViews:         PercentChange(float64(prior.Profile.Views), float64(cur.Profile.Views)),
		InterviewSuccessRate: round1(cur.Interviews.SuccessRate - prior.Interviews.SuccessRate),
	}
}

type profileField struct {
	name   string
	filled func(candidates.Candidate) bool
}

func nonBlank(s string) bool { return strings.TrimSpace(s) != "" }

var profileChecklist = []profileField{
	{"name", func(c candidates.Candidate) bool { return nonBlank(c.Name) }},
	{"email", func(c candidates.Candidate) bool { return nonBlank(c.Email) }},
	{"phone", func(c candidates.Candidate) bool { return nonBlank(c.Phone) }},
	{"location", func(c candidates.Candidate) bool { return nonBlank(c.Location) }},
	{"bio", func(c candidates.Candidate) bool { return nonBlank(c.Bio) }},
	{"skills", func(c candidates.Candidate) bool { return len(c.Skills) > 0 }},
	{"experience", func(c candidates.Candidate) bool { return nonBlank(c.ExperienceLevel) }},
	{"education", func(c candidates.Candidate) bool { return nonBlank(c.Education) }},
	{"expectedSalary", func(c candidates.Candidate) bool { return c.ExpectedSalary != nil }},
}

// ProfileCompletion is the percentage of checklist fields set on c.
func ProfileCompletion(c candidates.Candidate) int {
	filled := 0
	for _, f := range profileChecklist {
		if f.filled(c) {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(profileChecklist)) * 100))
}

// MissingProfileFields lists the checklist fields left empty on c.
func MissingProfileFields(c candidates.Candidate) []string {
	out := make([]string, 0)
	for _, f := range profileChecklist {
		if !f.filled(c) {
			out = append(out, f.name)
		}
	}
	return out
}

// SnapshotDate truncates t to the start of its UTC day.
func SnapshotDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
