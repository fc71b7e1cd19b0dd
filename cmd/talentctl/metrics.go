package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"talent-backend/internal/candidatemetrics"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	metricsPeriod string
	historyLimit  int
)

//nolint:gochecknoglobals // Cobra boilerplate
var metricsCmd = &cobra.Command{
	Use:   "metrics [candidate-id]",
	Short: "Calculate and store a candidate scorecard",
	Long: `Aggregates the candidate's activity over the period window, stores the
snapshot for today (replacing any earlier run on the same day) and prints it.

Example:
  talentctl metrics cand-42 --period monthly`,
	Args: cobra.ExactArgs(1),
	RunE: runMetrics,
}

//nolint:gochecknoglobals // Cobra boilerplate
var historyCmd = &cobra.Command{
	Use:   "history [candidate-id]",
	Short: "Print stored scorecards, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(metricsCmd, historyCmd)
	for _, c := range []*cobra.Command{metricsCmd, historyCmd} {
		c.Flags().StringVar(&metricsPeriod, "period", string(candidatemetrics.Weekly), "Aggregation period: weekly or monthly")
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 12, "Maximum number of snapshots")
}

func runMetrics(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	period, err := candidatemetrics.ParsePeriod(metricsPeriod)
	if err != nil {
		return err
	}

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, err := app.MetricsService.CalculateMetrics(ctx, args[0], period)
	if err != nil {
		err = errors.Wrapf(err, "failed to calculate metrics for %s", args[0])
		return err
	}
	err = writeJSON(cmd.OutOrStdout(), summary)
	return err
}

func runHistory(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	period, err := candidatemetrics.ParsePeriod(metricsPeriod)
	if err != nil {
		return err
	}

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	var snapshots []candidatemetrics.Snapshot
	for snap, iterErr := range app.MetricsService.GetMetricsHistory(ctx, args[0], period, historyLimit) {
		if iterErr != nil {
			err = errors.Wrap(iterErr, "failed to read metrics history")
			return err
		}
		snapshots = append(snapshots, snap)
	}
	err = writeJSON(cmd.OutOrStdout(), snapshots)
	return err
}
