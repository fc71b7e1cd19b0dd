package matching

import (
	"fmt"
	"math"
	"strings"
)

// Weights of each dimension in the overall score. They sum to 1.
const (
	WeightSkills     = 0.40
	WeightExperience = 0.25
	WeightLocation   = 0.20
	WeightSalary     = 0.15
)

// NeutralScore is used for a dimension that cannot be evaluated.
const NeutralScore = 50

// ScoreMatch computes a deterministic compatibility score for the pair.
// Neither argument is modified.
func ScoreMatch(candidate CandidateProfile, job JobPosting) MatchScore {
	skills, matched, missing := scoreSkills(candidate.Skills, job.RequiredSkills)
	experience := scoreExperience(candidate.Experience, job.Experience)
	location := scoreLocation(candidate.Location, job.Location)
	salary := scoreSalary(candidate.ExpectedSalary, job.SalaryMin, job.SalaryMax)

	overall := int(math.Round(
		float64(skills)*WeightSkills +
			float64(experience)*WeightExperience +
			float64(location)*WeightLocation +
			float64(salary)*WeightSalary,
	))

	out := MatchScore{
		Overall:       clamp(overall, 0, 100),
		Skills:        skills,
		Experience:    experience,
		Location:      location,
		Salary:        salary,
		MatchedSkills: matched,
		MissingSkills: missing,
	}
	out.Reasons = reasons(out, len(job.RequiredSkills))
	return out
}

// scoreSkills counts required skills that share a case-insensitive substring
// relation with any candidate skill. Matching ignores token boundaries, so a
// one-letter skill such as "C" satisfies any requirement containing a "c".
func scoreSkills(candidateSkills, required []string) (int, []string, []string) {
	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	if len(required) == 0 {
		return 0, matched, missing
	}

	have := make([]string, 0, len(candidateSkills))
	for _, s := range candidateSkills {
		if norm := normalize(s); norm != "" {
			have = append(have, norm)
		}
	}

	for _, req := range required {
		want := normalize(req)
		found := false
		if want != "" {
			for _, h := range have {
				if strings.Contains(h, want) || strings.Contains(want, h) {
					found = true
					break
				}
			}
		}
		if found {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}

	score := int(math.Round(float64(len(matched)) / float64(len(required)) * 100))
	return score, matched, missing
}

func scoreExperience(candidate, job ExperienceLevel) int {
	if candidate == LevelUnknown {
		candidate = LevelEntry
	}
	if job == LevelUnknown {
		job = LevelEntry
	}
	if candidate >= job {
		excess := int(candidate - job)
		if excess > 2 {
			return max(40, 100-(excess-2)*15)
		}
		return 100
	}
	deficit := int(job - candidate)
	return max(20, 100-deficit*20)
}

func scoreLocation(candidate, job string) int {
	c := normalize(candidate)
	j := normalize(job)
	if c == "" || j == "" {
		return NeutralScore
	}
	if city(c) == city(j) {
		return 100
	}
	if strings.Contains(c, j) || strings.Contains(j, c) {
		return 80
	}
	if strings.Contains(c, "remote") || strings.Contains(j, "remote") {
		return 90
	}
	return NeutralScore
}

func scoreSalary(expected, minSalary, maxSalary *float64) int {
	if expected == nil || minSalary == nil || maxSalary == nil {
		return NeutralScore
	}
	want := *expected
	lo, hi := *minSalary, *maxSalary
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case want >= lo && want <= hi:
		return 100
	case want < lo:
		if lo <= 0 {
			return 20
		}
		return int(math.Round(math.Max(20, 100-80*(lo-want)/lo)))
	default:
		if hi <= 0 {
			return 30
		}
		return int(math.Round(math.Max(30, 100-70*(want-hi)/hi)))
	}
}

func reasons(s MatchScore, required int) []string {
	out := make([]string, 0, 4)
	switch {
	case s.Skills > 80:
		out = append(out, fmt.Sprintf("Excellent skills match: %d of %d required skills", len(s.MatchedSkills), required))
	case s.Skills > 60:
		out = append(out, fmt.Sprintf("Good skills match: %d of %d required skills", len(s.MatchedSkills), required))
	}
	switch {
	case s.Experience > 80:
		out = append(out, "Your experience level fits this role")
	case s.Experience > 60:
		out = append(out, "Your experience level is close to what this role asks for")
	}
	switch {
	case s.Location > 80:
		out = append(out, "Great location fit")
	case s.Location > 60:
		out = append(out, "Compatible location")
	}
	switch {
	case s.Salary > 80:
		out = append(out, "Your salary expectation is within the offered range")
	case s.Salary > 60:
		out = append(out, "Your salary expectation is close to the offered range")
	}
	return out
}

func city(location string) string {
	first, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(first)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
