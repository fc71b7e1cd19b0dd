package main

// Apply database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/storage/db"
	"talent-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := telemetry.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	telemetry.SetLogger(logger)
	defer func() { _ = logger.Sync() }()
	for _, w := range cfg.Warnings {
		logger.Warn("config.warning", zap.String("detail", w))
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		logger.Fatal("migrate.connect_failed", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		logger.Error("migrate.failed", zap.Error(err))
		os.Exit(1)
	}
	version, err := db.SchemaVersion(ctx, sqlDB)
	if err != nil {
		logger.Error("migrate.version_failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("migrate.done", zap.Int64("version", version))
}
