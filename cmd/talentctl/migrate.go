package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/storage/db"
)

//nolint:gochecknoglobals // Cobra boilerplate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		err = errors.Wrap(err, "failed to connect database")
		return err
	}
	defer sqlDB.Close()

	err = db.RunMigrations(ctx, sqlDB)
	if err != nil {
		err = errors.Wrap(err, "failed to run migrations")
		return err
	}
	cmd.Println("migrations applied")
	return err
}
