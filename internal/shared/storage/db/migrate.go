package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"talent-backend/internal/shared/telemetry"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationFiles embed.FS

var gooseSetup struct {
	once sync.Once
	err  error
}

// gooseLogger routes goose output through the service logger.
type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) { l.s.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.s.Fatalf(format, v...) }

func configureGoose() error {
	gooseSetup.once.Do(func() {
		goose.SetBaseFS(migrationFiles)
		goose.SetLogger(gooseLogger{s: telemetry.L().Sugar()})
		gooseSetup.err = goose.SetDialect("postgres")
	})
	return gooseSetup.err
}

// RunMigrations applies the embedded schema migrations. A nil database is a
// no-op so in-memory runs can share the startup path.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := configureGoose(); err != nil {
		return fmt.Errorf("configure migrations: %w", err)
	}

	before, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if err := goose.UpContext(ctx, database, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	after, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	telemetry.Info("db.migrations.applied", map[string]any{
		"from_version": before,
		"to_version":   after,
	})
	return nil
}

// SchemaVersion reports the latest applied migration.
func SchemaVersion(ctx context.Context, database *sql.DB) (int64, error) {
	if database == nil {
		return 0, nil
	}
	if err := configureGoose(); err != nil {
		return 0, fmt.Errorf("configure migrations: %w", err)
	}
	return goose.GetDBVersionContext(ctx, database)
}
