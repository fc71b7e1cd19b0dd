package matching

import (
	"reflect"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func saoPauloCandidate() CandidateProfile {
	return CandidateProfile{
		ID:             "cand-1",
		Skills:         []string{"React", "Node.js"},
		Experience:     LevelMid,
		Location:       "São Paulo, SP",
		ExpectedSalary: ptr(8000),
	}
}

func saoPauloJob() JobPosting {
	return JobPosting{
		ID:             "job-1",
		RequiredSkills: []string{"React", "Node.js", "MongoDB"},
		Experience:     LevelMid,
		Location:       "São Paulo, SP",
		SalaryMin:      ptr(6000),
		SalaryMax:      ptr(12000),
	}
}

func TestScoreMatchFullScenario(t *testing.T) {
	got := ScoreMatch(saoPauloCandidate(), saoPauloJob())

	if got.Skills != 67 || got.Experience != 100 || got.Location != 100 || got.Salary != 100 {
		t.Fatalf("unexpected sub-scores %+v", got)
	}
	if got.Overall != 87 {
		t.Fatalf("overall = %d, want 87", got.Overall)
	}
	if !reflect.DeepEqual(got.MatchedSkills, []string{"React", "Node.js"}) {
		t.Fatalf("matched = %v", got.MatchedSkills)
	}
	if !reflect.DeepEqual(got.MissingSkills, []string{"MongoDB"}) {
		t.Fatalf("missing = %v", got.MissingSkills)
	}
	wantReasons := []string{
		"Good skills match: 2 of 3 required skills",
		"Your experience level fits this role",
		"Great location fit",
		"Your salary expectation is within the offered range",
	}
	if !reflect.DeepEqual(got.Reasons, wantReasons) {
		t.Fatalf("reasons = %q", got.Reasons)
	}
}

func TestScoreMatchDoesNotMutateInputs(t *testing.T) {
	cand := saoPauloCandidate()
	job := saoPauloJob()
	ScoreMatch(cand, job)
	if !reflect.DeepEqual(cand, saoPauloCandidate()) || !reflect.DeepEqual(job, saoPauloJob()) {
		t.Fatalf("inputs were modified")
	}
}

func TestScoreExperience(t *testing.T) {
	tests := []struct {
		name      string
		candidate ExperienceLevel
		job       ExperienceLevel
		want      int
	}{
		{"equal", LevelSenior, LevelSenior, 100},
		{"one above", LevelLead, LevelSenior, 100},
		{"two above", LevelLead, LevelMid, 100},
		{"three above", LevelLead, LevelJunior, 85},
		{"five above", LevelExecutive, LevelEntry, 55},
		{"one below", LevelJunior, LevelMid, 80},
		{"mid for executive", LevelMid, LevelExecutive, 40},
		{"floor", LevelEntry, LevelExecutive, 20},
		{"unknown candidate is entry", LevelUnknown, LevelJunior, 80},
		{"unknown job is entry", LevelMid, LevelUnknown, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreExperience(tt.candidate, tt.job); got != tt.want {
				t.Fatalf("scoreExperience(%v, %v) = %d, want %d", tt.candidate, tt.job, got, tt.want)
			}
		})
	}
}

func TestExecutiveJobForMidCandidate(t *testing.T) {
	job := saoPauloJob()
	job.Experience = LevelExecutive
	got := ScoreMatch(saoPauloCandidate(), job)
	if got.Experience != 40 {
		t.Fatalf("experience = %d, want 40", got.Experience)
	}
	if got.Overall != 72 {
		t.Fatalf("overall = %d, want 72", got.Overall)
	}
}

func TestScoreLocation(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		job       string
		want      int
	}{
		{"same city different state text", "São Paulo", "são paulo, SP", 100},
		{"containment", "Greater London", "London", 80},
		{"remote job", "Lisbon, PT", "Remote", 90},
		{"remote candidate", "Remote (EU)", "Berlin, DE", 90},
		{"no overlap", "Porto, PT", "Madrid, ES", 50},
		{"missing candidate", "", "Madrid, ES", 50},
		{"missing job", "Madrid", "  ", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreLocation(tt.candidate, tt.job); got != tt.want {
				t.Fatalf("scoreLocation(%q, %q) = %d, want %d", tt.candidate, tt.job, got, tt.want)
			}
		})
	}
}

func TestScoreSalary(t *testing.T) {
	tests := []struct {
		name     string
		expected *float64
		min      *float64
		max      *float64
		want     int
	}{
		{"inside", ptr(8000), ptr(6000), ptr(12000), 100},
		{"at min", ptr(6000), ptr(6000), ptr(12000), 100},
		{"at max", ptr(12000), ptr(6000), ptr(12000), 100},
		{"below", ptr(3000), ptr(6000), ptr(12000), 60},
		{"far below floors", ptr(0), ptr(6000), ptr(12000), 20},
		{"above", ptr(18000), ptr(6000), ptr(12000), 65},
		{"far above floors", ptr(100000), ptr(6000), ptr(12000), 30},
		{"swapped range", ptr(8000), ptr(12000), ptr(6000), 100},
		{"no expectation", nil, ptr(6000), ptr(12000), 50},
		{"no min", ptr(8000), nil, ptr(12000), 50},
		{"no max", ptr(8000), ptr(6000), nil, 50},
		{"zero range", ptr(5000), ptr(0), ptr(0), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreSalary(tt.expected, tt.min, tt.max); got != tt.want {
				t.Fatalf("scoreSalary = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMissingExpectedSalaryIsNeutral(t *testing.T) {
	cand := saoPauloCandidate()
	cand.ExpectedSalary = nil
	if got := ScoreMatch(cand, saoPauloJob()).Salary; got != 50 {
		t.Fatalf("salary = %d, want 50", got)
	}
}

func TestScoreSkills(t *testing.T) {
	tests := []struct {
		name      string
		candidate []string
		required  []string
		want      int
		matched   []string
	}{
		{"no required skills", []string{"Go"}, nil, 0, []string{}},
		{"case insensitive", []string{"golang"}, []string{"GoLang"}, 100, []string{"GoLang"}},
		{"candidate skill contains required", []string{"PostgreSQL"}, []string{"SQL"}, 100, []string{"SQL"}},
		{"required contains candidate skill", []string{"React"}, []string{"React Native"}, 100, []string{"React Native"}},
		{"empty candidate skill ignored", []string{""}, []string{"Go"}, 0, []string{}},
		{"partial", []string{"Go", "Docker"}, []string{"Go", "Kubernetes", "Docker", "Terraform"}, 50, []string{"Go", "Docker"}},
		{"short skill matches inside longer names", []string{"C"}, []string{"CSS", "Docker"}, 100, []string{"CSS", "Docker"}},
		{"short skill without the letter", []string{"C"}, []string{"Go", "Rust"}, 0, []string{}},
		{"whitespace trimmed before comparing", []string{"  kafka "}, []string{"Kafka Streams"}, 100, []string{"Kafka Streams"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched, _ := scoreSkills(tt.candidate, tt.required)
			if got != tt.want {
				t.Fatalf("score = %d, want %d", got, tt.want)
			}
			if !reflect.DeepEqual(matched, tt.matched) {
				t.Fatalf("matched = %v, want %v", matched, tt.matched)
			}
		})
	}
}

func TestSkillsScoreMonotonicInMatches(t *testing.T) {
	required := []string{"Go", "Kafka", "Redis", "gRPC", "AWS"}
	prev := -1
	for n := 0; n <= len(required); n++ {
		got, _, _ := scoreSkills(required[:n], required)
		if got < prev {
			t.Fatalf("score dropped from %d to %d at %d matches", prev, got, n)
		}
		prev = got
	}
	if prev != 100 {
		t.Fatalf("all matched should score 100, got %d", prev)
	}
}

func TestOverallWithinBounds(t *testing.T) {
	levels := []ExperienceLevel{LevelUnknown, LevelEntry, LevelJunior, LevelMid, LevelSenior, LevelLead, LevelExecutive}
	salaries := []*float64{nil, ptr(0), ptr(1000), ptr(9000), ptr(1e7)}
	for _, cl := range levels {
		for _, jl := range levels {
			for _, s := range salaries {
				cand := CandidateProfile{Skills: []string{"Go"}, Experience: cl, Location: "Remote", ExpectedSalary: s}
				job := JobPosting{RequiredSkills: []string{"Go", "Rust"}, Experience: jl, Location: "Oslo", SalaryMin: ptr(5000), SalaryMax: ptr(10000)}
				got := ScoreMatch(cand, job)
				if got.Overall < 0 || got.Overall > 100 {
					t.Fatalf("overall %d out of range for %v/%v/%v", got.Overall, cl, jl, s)
				}
			}
		}
	}
}

func TestParseExperienceLevel(t *testing.T) {
	if got := ParseExperienceLevel(" Senior "); got != LevelSenior {
		t.Fatalf("got %v", got)
	}
	if got := ParseExperienceLevel("wizard"); got != LevelUnknown {
		t.Fatalf("got %v", got)
	}
	if LevelLead.String() != "lead" || LevelUnknown.String() != "" {
		t.Fatalf("unexpected names %q %q", LevelLead.String(), LevelUnknown.String())
	}
}
