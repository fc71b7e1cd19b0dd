package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talent-backend/internal/activity"
	"talent-backend/internal/candidatemetrics"
	"talent-backend/internal/candidates"
	"talent-backend/internal/jobs"
	"talent-backend/internal/matching"
	"talent-backend/internal/queue"
	"talent-backend/internal/services/health"
	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/server"
	"talent-backend/internal/shared/storage/db"
	"talent-backend/internal/shared/telemetry"
	"talent-backend/internal/usage"
	"talent-backend/internal/workerproc"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Router *gin.Engine
	DB     *sql.DB
	Queue  queue.Client
	SQS    *queue.SQSClient

	CandidatesRepo candidates.Repo
	JobsRepo       jobs.Repo
	ActivityRepo   activity.Repo
	MatchRepo      matching.Repo
	SnapshotsRepo  candidatemetrics.Repo

	CandidatesService *candidates.Service
	JobsService       *jobs.Service
	ActivityService   *activity.Service
	MatchingService   *matching.Service
	MetricsService    *candidatemetrics.Service
	UsageService      *usage.Service
	HealthService     *health.Service
}

// Options adjusts Build for callers that do not serve HTTP or do not own
// the schema.
type Options struct {
	SkipMigrations bool
	SkipRouter     bool
	// Logger replaces the logger built from config when set.
	Logger *zap.Logger
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = telemetry.New(cfg.LogJSON, cfg.LogDebug)
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
	}
	telemetry.SetLogger(logger)
	for _, w := range cfg.Warnings {
		logger.Warn("config.warning", zap.String("detail", w))
	}

	sqlDB, err := buildDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil && !opts.SkipMigrations {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     sqlDB,
	}

	if err := buildQueue(ctx, app); err != nil {
		return nil, err
	}
	buildServices(app)

	if !opts.SkipRouter {
		app.Router = server.NewRouter(server.RouterDeps{
			Config: cfg,
			Health: app.HealthService.Status,
			Handlers: []server.RouteRegistrar{
				candidates.NewHandler(app.CandidatesService),
				jobs.NewHandler(app.JobsService),
				activity.NewHandler(app.ActivityService),
				matching.NewHandler(app.MatchingService, app.UsageService, app.Queue),
				candidatemetrics.NewHandler(app.MetricsService, app.Queue),
				usage.NewHandler(app.UsageService),
			},
			Dev: []server.DevRouteRegistrar{
				usage.NewHandler(app.UsageService),
			},
		})
	}

	return app, nil
}

// Processors exposes the services background jobs dispatch to.
func (a *App) Processors() workerproc.Processors {
	return workerproc.Processors{
		Recommendations: a.MatchingService,
		Metrics:         a.MetricsService,
	}
}

// Close releases the database pool and flushes logs.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config, logger *zap.Logger) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			logger.Info("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			logger.Warn("bootstrap: database connect failed; using in-memory repositories", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildQueue(ctx context.Context, app *App) error {
	if app.Config.QueueURL == "" {
		return nil
	}
	client, err := queue.NewSQSClient(ctx, app.Config.QueueURL, app.Config.AWSRegion)
	if err != nil {
		return fmt.Errorf("build queue: %w", err)
	}
	app.SQS = client
	app.Queue = client
	return nil
}

func buildServices(app *App) {
	cfg := app.Config
	storage := db.RetryPolicy{Timeout: cfg.Storage.Timeout, Retries: cfg.Storage.Retries}

	if app.DB != nil {
		app.CandidatesRepo = &candidates.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ActivityRepo = &activity.PGRepo{DB: app.DB}
		app.MatchRepo = &matching.PGRepo{DB: app.DB}
		app.SnapshotsRepo = &candidatemetrics.PGRepo{DB: app.DB}
		app.UsageService = usage.NewPostgresService(usage.NewPGStore(app.DB, cfg.UsageLimit))
		app.HealthService = health.NewService(app.DB)
	} else {
		app.CandidatesRepo = candidates.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
		app.ActivityRepo = activity.NewMemoryRepo()
		app.MatchRepo = matching.NewMemoryRepo()
		app.SnapshotsRepo = candidatemetrics.NewMemoryRepo()
		app.UsageService = usage.NewService(cfg.UsageLimit)
		app.HealthService = health.NewService(nil)
	}

	app.CandidatesService = candidates.NewService(app.CandidatesRepo)
	app.JobsService = jobs.NewService(app.JobsRepo)
	app.ActivityService = activity.NewService(app.ActivityRepo, app.CandidatesRepo)
	app.MatchingService = matching.NewService(
		app.MatchRepo,
		profileReader{repo: app.CandidatesRepo},
		jobLister{repo: app.JobsRepo},
		matching.Settings{
			MinScore:    cfg.Matching.MinScore,
			MaxResults:  cfg.Matching.MaxResults,
			TTL:         cfg.Matching.TTL,
			Concurrency: cfg.Matching.Concurrency,
			Storage:     storage,
		},
	)
	app.MetricsService = candidatemetrics.NewService(app.SnapshotsRepo, app.CandidatesRepo, app.ActivityRepo, storage)
}

// profileReader projects stored candidates for the scorer.
type profileReader struct {
	repo candidates.Repo
}

func (p profileReader) GetProfile(ctx context.Context, candidateID string) (matching.CandidateProfile, error) {
	c, err := p.repo.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return matching.CandidateProfile{}, matching.ErrProfileNotFound
		}
		return matching.CandidateProfile{}, err
	}
	return c.Profile(), nil
}

// jobLister projects listed jobs for the scorer.
type jobLister struct {
	repo jobs.Repo
}

func (l jobLister) ListActivePublic(ctx context.Context) ([]matching.JobPosting, error) {
	list, err := l.repo.ListActivePublic(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]matching.JobPosting, 0, len(list))
	for _, j := range list {
		out = append(out, j.Posting())
	}
	return out, nil
}
