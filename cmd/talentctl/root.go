package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"talent-backend/internal/bootstrap"
	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/telemetry"
)

//nolint:gochecknoglobals // Cobra boilerplate
var allowMemory bool

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "talentctl",
	Short: "Score matches and compute candidate scorecards offline",
	Long: `talentctl runs the recommendation and scorecard jobs of talent-backend
without going through the HTTP API or the queue.

Configuration is read the same way as the API server: defaults, talent.yaml
or CONFIG_FILE, .env files and environment variables.`,
	SilenceUsage: true,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVar(&allowMemory, "allow-memory", false, "Run against in-memory storage when DATABASE_URL is empty")
}

// buildApp wires services without the HTTP router. Commands that read stored
// data refuse in-memory storage unless asked, since it starts empty.
func buildApp(ctx context.Context) (app *bootstrap.App, err error) {
	cfg := config.Load()
	logger, err := telemetry.NewWithOutput(false, cfg.LogDebug, "stderr")
	if err != nil {
		err = errors.Wrap(err, "failed to build logger")
		return nil, err
	}

	app, err = bootstrap.Build(ctx, cfg, bootstrap.Options{SkipRouter: true, Logger: logger})
	if err != nil {
		err = errors.Wrap(err, "failed to build app")
		return app, err
	}
	if app.DB == nil && !allowMemory {
		_ = app.Close()
		err = errors.New("DATABASE_URL is not set; pass --allow-memory to use empty in-memory storage")
		return nil, err
	}
	return app, err
}

func writeJSON(w io.Writer, v any) (err error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err = enc.Encode(v)
	if err != nil {
		err = errors.Wrap(err, "failed to encode output")
	}
	return err
}
