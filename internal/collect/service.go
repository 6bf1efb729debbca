package collect

import (
	"context"
	"log/slog"
	"time"

	"technews/internal/domain"
	"technews/internal/ports"
)

// Service runs collection passes over the configured news sources. Sources
// are polled independently; a failure at one source never blocks the rest.
type Service struct {
	sources  ports.SourceStore
	news     ports.CollectedNewsStore
	registry *Registry
	logger   *slog.Logger
}

// NewService wires the source store with the collector registry.
func NewService(sources ports.SourceStore, news ports.CollectedNewsStore, registry *Registry, logger *slog.Logger) *Service {
	return &Service{
		sources:  sources,
		news:     news,
		registry: registry,
		logger:   logger,
	}
}

// CollectAll polls every active source that is due per its fetch interval.
func (s *Service) CollectAll(ctx context.Context) {
	s.collect(ctx, false)
}

// CollectAllForced polls every active source regardless of fetch interval,
// for operator-initiated collection.
func (s *Service) CollectAllForced(ctx context.Context) {
	s.collect(ctx, true)
}

func (s *Service) collect(ctx context.Context, forced bool) {
	sources, err := s.sources.ActiveSources(ctx)
	if err != nil {
		s.logger.Error("load active sources failed", "error", err)
		return
	}

	s.logger.Info("source collection started", "sources", len(sources), "forced", forced)

	now := time.Now()
	for _, source := range sources {
		if !forced && !source.ShouldFetch(now) {
			s.logger.Debug("source not due yet", "source", source.Name)
			continue
		}
		s.collectSource(ctx, source)
	}

	pending, err := s.news.CountByStatus(ctx, domain.NewsPending)
	if err != nil {
		s.logger.Warn("count pending items failed", "error", err)
		s.logger.Info("source collection finished")
		return
	}
	s.logger.Info("source collection finished", "pending_review", pending)
}

func (s *Service) collectSource(ctx context.Context, source domain.NewsSource) {
	collector, err := s.registry.Resolve(source.Type)
	if err != nil {
		s.logger.Warn("source skipped", "source", source.Name, "error", err)
		return
	}

	count, err := collector.Collect(ctx, source)
	if err != nil {
		s.logger.Error("source collection failed", "source", source.Name, "error", err)
		return
	}

	s.logger.Info("source collected", "source", source.Name, "new_items", count)

	if err := s.sources.UpdateLastFetch(ctx, source.ID, time.Now()); err != nil {
		s.logger.Error("update last fetch failed", "source", source.Name, "error", err)
	}
}
