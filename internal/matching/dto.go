package matching

import "time"

type resultResponse struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidateId"`
	JobID       string     `json:"jobId"`
	Score       MatchScore `json:"score"`
	Viewed      bool       `json:"viewed"`
	Applied     bool       `json:"applied"`
	Dismissed   bool       `json:"dismissed"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
}

func toResponse(r MatchResult) resultResponse {
	return resultResponse{
		ID:          r.ID,
		CandidateID: r.CandidateID,
		JobID:       r.JobID,
		Score:       r.Score,
		Viewed:      r.Viewed,
		Applied:     r.Applied,
		Dismissed:   r.Dismissed,
		CreatedAt:   r.CreatedAt,
		ExpiresAt:   r.ExpiresAt,
	}
}

func toResponses(results []MatchResult) []resultResponse {
	out := make([]resultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, toResponse(r))
	}
	return out
}

type profileRequest struct {
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experienceLevel"`
	Location        string   `json:"location"`
	ExpectedSalary  *float64 `json:"expectedSalary"`
}

type jobRequest struct {
	RequiredSkills  []string `json:"requiredSkills"`
	ExperienceLevel string   `json:"experienceLevel"`
	Location        string   `json:"location"`
	SalaryMin       *float64 `json:"salaryMin"`
	SalaryMax       *float64 `json:"salaryMax"`
}

type scoreRequest struct {
	Candidate profileRequest `json:"candidate"`
	Job       jobRequest     `json:"job"`
}

func (r scoreRequest) pair() (CandidateProfile, JobPosting) {
	return CandidateProfile{
			Skills:         r.Candidate.Skills,
			Experience:     ParseExperienceLevel(r.Candidate.ExperienceLevel),
			Location:       r.Candidate.Location,
			ExpectedSalary: r.Candidate.ExpectedSalary,
		}, JobPosting{
			RequiredSkills: r.Job.RequiredSkills,
			Experience:     ParseExperienceLevel(r.Job.ExperienceLevel),
			Location:       r.Job.Location,
			SalaryMin:      r.Job.SalaryMin,
			SalaryMax:      r.Job.SalaryMax,
		}
}
