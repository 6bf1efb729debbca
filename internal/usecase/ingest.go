package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"technews/internal/config"
	"technews/internal/domain"
	"technews/internal/ports"
)

// Ingestor runs the scheduled news ingestion jobs: the primary technology
// fetch, the keyword sweep, and the stale-article cleanup. Each run is
// independent; overlap protection for duplicate URLs is the storage-level
// unique constraint, ExistsByURL is only a best-effort pre-check.
type Ingestor struct {
	provider ports.ArticleProvider
	trusted  ports.TrustedSourceRegistry
	articles ports.ArticleStore
	cfg      config.IngestConfig
	logger   *slog.Logger
}

// NewIngestor wires the ingestion jobs.
func NewIngestor(provider ports.ArticleProvider, trusted ports.TrustedSourceRegistry, articles ports.ArticleStore, cfg config.IngestConfig, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		provider: provider,
		trusted:  trusted,
		articles: articles,
		cfg:      cfg,
		logger:   logger,
	}
}

// FetchTechNews is the primary fetch: general technology headlines plus
// keyword-matched articles, merged, deduplicated by URL (first wins), filtered
// to trusted domains, and persisted when previously unseen. Errors end the run
// but never propagate to the scheduler host.
func (i *Ingestor) FetchTechNews(ctx context.Context) {
	i.logger.Info("starting technology news fetch")

	headlines, err := i.provider.TechNews(ctx)
	if err != nil {
		i.logger.Error("technology news fetch failed", "stage", "headlines", "error", err)
		return
	}

	keywordNews, err := i.provider.TechNewsWithKeywords(ctx)
	if err != nil {
		i.logger.Error("technology news fetch failed", "stage", "keywords", "error", err)
		return
	}

	combined := dedupByURL(append(append([]domain.NewsArticle{}, headlines...), keywordNews...))

	filtered, err := i.filterTrusted(ctx, combined)
	if err != nil {
		i.logger.Error("technology news fetch failed", "stage", "filter", "error", err)
		return
	}

	saved, err := i.saveUnseen(ctx, filtered)
	if err != nil {
		i.logger.Error("technology news fetch failed", "stage", "persist", "error", err)
		return
	}

	i.logger.Info("technology news fetch finished", "saved", saved, "considered", len(filtered))
}

// FetchKeywordNews sweeps the configured keyword phrases one by one, pausing
// between queries as courtesy throttling. A failing keyword is logged and the
// sweep moves on to the next one.
func (i *Ingestor) FetchKeywordNews(ctx context.Context) {
	i.logger.Info("starting keyword news sweep", "keywords", len(i.cfg.SweepKeywords))

	totalSaved := 0
	for n, keyword := range i.cfg.SweepKeywords {
		if n > 0 {
			if !sleepCtx(ctx, i.cfg.SweepPause()) {
				i.logger.Warn("keyword sweep cancelled", "saved", totalSaved)
				return
			}
		}

		saved, err := i.fetchKeyword(ctx, keyword)
		if err != nil {
			i.logger.Error("keyword fetch failed", "keyword", keyword, "error", err)
			continue
		}
		totalSaved += saved
	}

	i.logger.Info("keyword news sweep finished", "saved", totalSaved)
}

func (i *Ingestor) fetchKeyword(ctx context.Context, keyword string) (int, error) {
	articles, err := i.provider.Search(ctx, keyword)
	if err != nil {
		return 0, fmt.Errorf("search %q: %w", keyword, err)
	}

	filtered, err := i.filterTrusted(ctx, articles)
	if err != nil {
		return 0, fmt.Errorf("filter %q: %w", keyword, err)
	}

	saved, err := i.saveUnseen(ctx, filtered)
	if err != nil {
		return 0, fmt.Errorf("persist %q: %w", keyword, err)
	}

	return saved, nil
}

// CleanupOldNews purges articles older than the retention window that never
// reached published status.
func (i *Ingestor) CleanupOldNews(ctx context.Context) {
	i.logger.Info("starting old news cleanup", "retention_days", i.cfg.RetentionDays)

	cutoff := time.Now().AddDate(0, 0, -i.cfg.RetentionDays)
	deleted, err := i.articles.DeleteOldUnpublished(ctx, cutoff)
	if err != nil {
		i.logger.Error("old news cleanup failed", "error", err)
		return
	}

	i.logger.Info("old news cleanup finished", "deleted", deleted)
}

// ForceUpdate re-runs the primary fetch synchronously for operator-initiated
// refreshes.
func (i *Ingestor) ForceUpdate(ctx context.Context) {
	i.logger.Info("manual news update requested")
	i.FetchTechNews(ctx)
}

// filterTrusted keeps articles whose URL contains an allow-listed domain. With
// no trusted sources configured every article passes, with a warning.
func (i *Ingestor) filterTrusted(ctx context.Context, articles []domain.NewsArticle) ([]domain.NewsArticle, error) {
	domains, err := i.trusted.ActiveDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trusted domains: %w", err)
	}

	if len(domains) == 0 {
		i.logger.Warn("no trusted sources configured, keeping all articles")
		return articles, nil
	}

	filtered := make([]domain.NewsArticle, 0, len(articles))
	for _, article := range articles {
		if article.URL == "" {
			continue
		}
		for _, d := range domains {
			if strings.Contains(article.URL, d) {
				filtered = append(filtered, article)
				break
			}
		}
	}

	return filtered, nil
}

func (i *Ingestor) saveUnseen(ctx context.Context, articles []domain.NewsArticle) (int, error) {
	saved := 0
	for _, article := range articles {
		exists, err := i.articles.ExistsByURL(ctx, article.URL)
		if err != nil {
			return saved, fmt.Errorf("check url %s: %w", article.URL, err)
		}
		if exists {
			continue
		}

		if _, err := i.articles.Save(ctx, article); err != nil {
			return saved, fmt.Errorf("save %s: %w", article.URL, err)
		}
		saved++
	}
	return saved, nil
}

// dedupByURL drops URL-less articles and keeps the first occurrence of every
// URL; later duplicates are discarded.
func dedupByURL(articles []domain.NewsArticle) []domain.NewsArticle {
	seen := make(map[string]struct{}, len(articles))
	result := make([]domain.NewsArticle, 0, len(articles))

	for _, article := range articles {
		if article.URL == "" {
			continue
		}
		if _, ok := seen[article.URL]; ok {
			continue
		}
		seen[article.URL] = struct{}{}
		result = append(result, article)
	}

	return result
}

// sleepCtx pauses for d, returning false when the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
