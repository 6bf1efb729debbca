package storage

import (
	"context"
	"fmt"
	"log/slog"

	"technews/internal/domain"
	"technews/internal/ports"
)

// defaultSources seeds a development database that has no sources yet, so the
// collectors have something to poll.
var defaultSources = []domain.NewsSource{
	{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index", Type: domain.SourceRSS, Active: true, FetchIntervalMinutes: 45, MaxArticlesPerFetch: 12},
	{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml", Type: domain.SourceRSS, Active: true, FetchIntervalMinutes: 45, MaxArticlesPerFetch: 12},
	{Name: "Hacker News", URL: "https://hnrss.org/frontpage", Type: domain.SourceRSS, Active: true, FetchIntervalMinutes: 45, MaxArticlesPerFetch: 12},
	{Name: "Wired", URL: "https://www.wired.com/feed/rss", Type: domain.SourceRSS, Active: true, FetchIntervalMinutes: 120, MaxArticlesPerFetch: 8},
	{Name: "InfoQ", URL: "https://feed.infoq.com/", Type: domain.SourceRSS, Active: true, FetchIntervalMinutes: 120, MaxArticlesPerFetch: 8},
}

// SeedDefaultSources inserts the default source set when no active sources
// exist. A populated database is left untouched.
func SeedDefaultSources(ctx context.Context, store ports.SourceStore, logger *slog.Logger) error {
	active, err := store.CountActive(ctx)
	if err != nil {
		return fmt.Errorf("count active sources: %w", err)
	}
	if active > 0 {
		logger.Info("active sources already present, skipping seed", "count", active)
		return nil
	}

	for _, source := range defaultSources {
		if _, err := store.Create(ctx, source); err != nil {
			return fmt.Errorf("seed source %s: %w", source.Name, err)
		}
	}

	logger.Info("seeded default news sources", "count", len(defaultSources))
	return nil
}
