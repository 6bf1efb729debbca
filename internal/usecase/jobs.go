package usecase

import (
	"context"
	"time"

	"technews/internal/config"
	"technews/internal/ports"
)

// SourceCollector runs one collection pass over the configured news sources.
type SourceCollector interface {
	CollectAll(ctx context.Context)
}

// Jobs registers the recurring ingestion work with the scheduler driver.
type Jobs struct {
	driver    ports.Scheduler
	ingestor  *Ingestor
	collector SourceCollector
	cfg       config.SchedulerConfig
}

// NewJobs binds the ingestion jobs to their cadences. collector may be nil
// when per-source collection is disabled.
func NewJobs(driver ports.Scheduler, ingestor *Ingestor, collector SourceCollector, cfg config.SchedulerConfig) *Jobs {
	return &Jobs{
		driver:    driver,
		ingestor:  ingestor,
		collector: collector,
		cfg:       cfg,
	}
}

// Start registers every job and starts the driver.
func (j *Jobs) Start(ctx context.Context) error {
	if j.driver == nil || j.ingestor == nil {
		return nil
	}

	j.driver.AddJob("primary-fetch", j.cfg.PrimaryFetchInterval(), j.ingestor.FetchTechNews)
	j.driver.AddJob("keyword-sweep", j.cfg.KeywordSweepInterval(), j.ingestor.FetchKeywordNews)
	j.driver.AddJob("cleanup", j.cfg.CleanupInterval(), j.ingestor.CleanupOldNews)

	if j.collector != nil {
		interval := j.cfg.CollectInterval()
		if interval <= 0 {
			interval = 30 * time.Minute
		}
		j.driver.AddJob("source-collect", interval, j.collector.CollectAll)
	}

	return j.driver.Start(ctx)
}

// Stop tears down the underlying scheduler.
func (j *Jobs) Stop(ctx context.Context) error {
	if j.driver == nil {
		return nil
	}
	return j.driver.Stop(ctx)
}
