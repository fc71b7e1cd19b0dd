package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var recommendCmd = &cobra.Command{
	Use:   "recommend [candidate-id]",
	Short: "Generate job recommendations for a candidate",
	Long: `Scores the candidate against every active public job and stores the
results that clear the minimum score. Prints only the newly created results;
jobs already recommended to the candidate are skipped. Plan allowances are not
charged.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	results, err := app.MatchingService.GenerateRecommendations(ctx, args[0])
	if err != nil {
		err = errors.Wrapf(err, "failed to generate recommendations for %s", args[0])
		return err
	}
	err = writeJSON(cmd.OutOrStdout(), results)
	return err
}
