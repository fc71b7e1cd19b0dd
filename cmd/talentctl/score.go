package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"talent-backend/internal/candidates"
	"talent-backend/internal/jobs"
	"talent-backend/internal/matching"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	scoreCandidateFile string
	scoreJobFile       string
)

//nolint:gochecknoglobals // Cobra boilerplate
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate profile against a job posting",
	Long: `Reads a candidate profile and a job posting from JSON files, in the same
shape the API accepts on PUT /candidates/:id and PUT /jobs/:id, and prints the
match score. Nothing is stored.

Example:
  talentctl score --candidate ada.json --job backend.json`,
	RunE: runScore,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreCandidateFile, "candidate", "", "Candidate profile JSON file")
	scoreCmd.Flags().StringVar(&scoreJobFile, "job", "", "Job posting JSON file")
	_ = scoreCmd.MarkFlagRequired("candidate")
	_ = scoreCmd.MarkFlagRequired("job")
}

type candidateFile struct {
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experienceLevel"`
	Location        string   `json:"location"`
	ExpectedSalary  *float64 `json:"expectedSalary"`
}

type jobFile struct {
	Title           string   `json:"title"`
	RequiredSkills  []string `json:"requiredSkills"`
	ExperienceLevel string   `json:"experienceLevel"`
	Location        string   `json:"location"`
	SalaryMin       *float64 `json:"salaryMin"`
	SalaryMax       *float64 `json:"salaryMax"`
}

func runScore(cmd *cobra.Command, args []string) (err error) {
	var cf candidateFile
	err = readJSONFile(scoreCandidateFile, &cf)
	if err != nil {
		return err
	}
	var jf jobFile
	err = readJSONFile(scoreJobFile, &jf)
	if err != nil {
		return err
	}

	score := scorePair(cf, jf)
	err = writeJSON(cmd.OutOrStdout(), score)
	return err
}

func scorePair(cf candidateFile, jf jobFile) (score matching.MatchScore) {
	cand := candidates.Candidate{
		Skills:          cf.Skills,
		ExperienceLevel: cf.ExperienceLevel,
		Location:        cf.Location,
		ExpectedSalary:  cf.ExpectedSalary,
	}
	job := jobs.Job{
		Title:           jf.Title,
		RequiredSkills:  jf.RequiredSkills,
		ExperienceLevel: jf.ExperienceLevel,
		Location:        jf.Location,
		SalaryMin:       jf.SalaryMin,
		SalaryMax:       jf.SalaryMax,
	}
	score = matching.ScoreMatch(cand.Profile(), job.Posting())
	return score
}

func readJSONFile(path string, out any) (err error) {
	var raw []byte
	raw, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", path)
		return err
	}
	err = json.Unmarshal(raw, out)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse %s", path)
	}
	return err
}
