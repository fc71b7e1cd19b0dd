package candidatemetrics

import (
	"reflect"
	"testing"
	"time"

	"talent-backend/internal/activity"
	"talent-backend/internal/candidates"
)

func TestRates(t *testing.T) {
	if got := ApplicationSuccessRate(activity.ApplicationCounts{Total: 4, Shortlisted: 1, Accepted: 1}); got != 50 {
		t.Fatalf("application rate = %v", got)
	}
	if got := DocumentCompletionRate(activity.DocumentCounts{Total: 4, Verified: 3}); got != 75 {
		t.Fatalf("document rate = %v", got)
	}
	if got := InterviewSuccessRate(activity.InterviewCounts{Total: 5, Scheduled: 1, Completed: 3, Cancelled: 1}); got != 75 {
		t.Fatalf("interview rate = %v", got)
	}
	if ApplicationSuccessRate(activity.ApplicationCounts{}) != 0 ||
		DocumentCompletionRate(activity.DocumentCounts{}) != 0 ||
		InterviewSuccessRate(activity.InterviewCounts{Scheduled: 2, Total: 2}) != 0 {
		t.Fatalf("empty denominators should give 0")
	}
}

func TestOverallScoreCapsEachComponent(t *testing.T) {
	tests := []struct {
		name                string
		app, doc, interview float64
		views               int
		want                int
	}{
		{"nothing", 0, 0, 0, 0, 0},
		{"applications capped", 1e6, 0, 0, 0, 40},
		{"documents capped", 0, 1e6, 0, 0, 30},
		{"interviews capped", 0, 0, 1e6, 0, 20},
		{"views capped", 0, 0, 0, 1e9, 10},
		{"everything maxed", 100, 100, 100, 1000, 100},
		{"extreme everything", 1e9, 1e9, 1e9, 1e9, 100},
		{"typical", 50, 100, 50, 100, 61},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallScore(tt.app, tt.doc, tt.interview, tt.views); got != tt.want {
				t.Fatalf("OverallScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		score  int
		others []int
		want   Ranking
	}{
		{"empty population", 10, nil, Ranking{Percentile: 50, Category: CategoryAverage}},
		{"above average", 40, []int{10, 20, 30}, Ranking{Percentile: 75, Category: CategoryAboveAverage}},
		{"below average", 5, []int{10, 20, 30}, Ranking{Percentile: 0, Category: CategoryBelowAverage}},
		{"top", 99, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, Ranking{Percentile: 90, Category: CategoryTop}},
		{"ties are not lower", 50, []int{50, 50}, Ranking{Percentile: 0, Category: CategoryBelowAverage}},
		{"average", 50, []int{40, 60}, Ranking{Percentile: 33, Category: CategoryAverage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rank(tt.score, tt.others); got != tt.want {
				t.Fatalf("Rank = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		prev, cur, want float64
	}{
		{0, 0, 0},
		{0, 5, 100},
		{10, 15, 50},
		{3, 1, -66.7},
		{4, 4, 0},
	}
	for _, tt := range tests {
		if got := PercentChange(tt.prev, tt.cur); got != tt.want {
			t.Fatalf("PercentChange(%v, %v) = %v, want %v", tt.prev, tt.cur, got, tt.want)
		}
	}
}

func TestComputeTrends(t *testing.T) {
	var cur Summary
	cur.Applications.Total = 6
	cur.Profile.Views = 0
	cur.Interviews.SuccessRate = 75

	if got := ComputeTrends(cur, nil); got != (Trends{}) {
		t.Fatalf("nil prior should give zero trends, got %+v", got)
	}

	var prior Summary
	prior.Applications.Total = 4
	prior.Profile.Views = 8
	prior.Interviews.SuccessRate = 50
	want := Trends{Applications: 50, ProfileViews: -100, InterviewSuccessRate: 25}
	if got := ComputeTrends(cur, &prior); got != want {
		t.Fatalf("trends = %+v, want %+v", got, want)
	}
}

func TestProfileCompletion(t *testing.T) {
	salary := 5000.0
	full := candidates.Candidate{
		Name: "Ana", Email: "ana@example.com", Phone: "+351", Location: "Lisbon", Bio: "Backend",
		Skills: []string{"Go"}, ExperienceLevel: "senior", Education: "MSc", ExpectedSalary: &salary,
	}
	if got := ProfileCompletion(full); got != 100 {
		t.Fatalf("full completion = %d", got)
	}
	if got := MissingProfileFields(full); len(got) != 0 {
		t.Fatalf("full profile missing %v", got)
	}

	partial := candidates.Candidate{Name: "Ana", Email: "ana@example.com", Bio: "   ", Skills: []string{"Go"}}
	if got := ProfileCompletion(partial); got != 33 {
		t.Fatalf("partial completion = %d, want 33", got)
	}
	want := []string{"phone", "location", "bio", "experience", "education", "expectedSalary"}
	if got := MissingProfileFields(partial); !reflect.DeepEqual(got, want) {
		t.Fatalf("missing = %v, want %v", got, want)
	}

	if got := ProfileCompletion(candidates.Candidate{}); got != 0 {
		t.Fatalf("empty completion = %d", got)
	}
}

func TestSnapshotDateUsesUTCDay(t *testing.T) {
	zone := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2026, time.March, 1, 23, 30, 0, 0, zone)
	want := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	if got := SnapshotDate(local); !got.Equal(want) {
		t.Fatalf("SnapshotDate = %v, want %v", got, want)
	}
}

func TestPeriodWindow(t *testing.T) {
	end := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	if got := Weekly.WindowStart(end); !got.Equal(end.AddDate(0, 0, -7)) {
		t.Fatalf("weekly start = %v", got)
	}
	if got := Monthly.WindowStart(end); !got.Equal(time.Date(2026, time.February, 15, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("monthly start = %v", got)
	}
	if _, err := ParsePeriod("daily"); err != ErrInvalidPeriod {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
