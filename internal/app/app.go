package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"technews/internal/collect"
	"technews/internal/config"
	"technews/internal/infrastructure/gnews"
	"technews/internal/infrastructure/scheduler"
	"technews/internal/infrastructure/storage"
	"technews/internal/logging"
	"technews/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	db         *sql.DB
	jobs       *usecase.Jobs
	ingestor   *usecase.Ingestor
	moderation *usecase.Moderation
	collector  *collect.Service
	sources    *storage.SourceRepository
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	comments := storage.NewCommentRepository(db)
	articles := storage.NewArticleRepository(db)
	collected := storage.NewCollectedNewsRepository(db)
	sources := storage.NewSourceRepository(db)
	trusted := storage.NewTrustedSourceRepository(db)

	provider := gnews.NewClient(cfg.GNews, baseLogger.With("component", "gnews"))

	ingestor := usecase.NewIngestor(provider, trusted, articles, cfg.Ingest,
		baseLogger.With("component", "ingestor"))

	moderation := usecase.NewModeration(comments, articles, cfg.Moderation,
		baseLogger.With("component", "moderation"))

	registry := collect.NewRegistry()
	registry.Register(collect.NewRSSCollector(collected, baseLogger.With("component", "collector.rss")))
	registry.Register(collect.NewScrapeCollector(collected, nil))

	collector := collect.NewService(sources, collected, registry, baseLogger.With("component", "collector"))

	driver := scheduler.NewIntervalScheduler(baseLogger.With("component", "scheduler"))
	jobs := usecase.NewJobs(driver, ingestor, collector, cfg.Scheduler)

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		db:         db,
		jobs:       jobs,
		ingestor:   ingestor,
		moderation: moderation,
		collector:  collector,
		sources:    sources,
	}, nil
}

// Moderation exposes the comment moderation engine to delivery layers.
func (a *Application) Moderation() *usecase.Moderation {
	return a.moderation
}

// ForceNewsUpdate re-runs the primary fetch synchronously, for operators.
func (a *Application) ForceNewsUpdate(ctx context.Context) {
	a.ingestor.ForceUpdate(ctx)
}

// ForceCollection polls every active source regardless of its interval.
func (a *Application) ForceCollection(ctx context.Context) {
	a.collector.CollectAllForced(ctx)
}

// Run starts the scheduled jobs and blocks until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if a.cfg.Dev.SeedSources {
		if err := storage.SeedDefaultSources(ctx, a.sources, a.logger.With("component", "seed")); err != nil {
			return fmt.Errorf("seed sources: %w", err)
		}
	}

	if err := a.jobs.Start(ctx); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	a.logger.Info("scheduled jobs started")

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := a.jobs.Stop(stopCtx); err != nil {
		a.logger.Error("stop jobs", "error", err)
	}

	if err := a.db.Close(); err != nil {
		a.logger.Error("close database", "error", err)
	}

	a.logger.Info("application stopped")
	return nil
}
