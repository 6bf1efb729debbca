package collect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"technews/internal/domain"
	"technews/internal/ports"
)

// RSSCollector pulls items from an RSS/Atom feed, skipping entries already
// present by URL or content hash.
type RSSCollector struct {
	store  ports.CollectedNewsStore
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ Collector = (*RSSCollector)(nil)

// NewRSSCollector wires a feed parser against the collected-news store.
func NewRSSCollector(store ports.CollectedNewsStore, logger *slog.Logger) *RSSCollector {
	return &RSSCollector{
		store:  store,
		parser: gofeed.NewParser(),
		logger: logger,
	}
}

// Type identifies the collector inside the registry.
func (c *RSSCollector) Type() domain.SourceType {
	return domain.SourceRSS
}

// Collect parses the source feed and stores previously unseen entries, up to
// the source's per-fetch cap. A failing entry is logged and skipped.
func (c *RSSCollector) Collect(ctx context.Context, source domain.NewsSource) (int, error) {
	feed, err := c.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parse feed %s: %w", source.URL, err)
	}

	maxItems := source.MaxArticlesPerFetch
	if maxItems <= 0 {
		maxItems = 10
	}

	collected := 0
	for _, item := range feed.Items {
		if collected >= maxItems {
			break
		}

		stored, err := c.processItem(ctx, item, source)
		if err != nil {
			c.logger.Warn("feed entry skipped", "source", source.Name, "error", err)
			continue
		}
		if stored {
			collected++
		}
	}

	return collected, nil
}

func (c *RSSCollector) processItem(ctx context.Context, item *gofeed.Item, source domain.NewsSource) (bool, error) {
	if item.Link == "" {
		return false, nil
	}

	exists, err := c.store.ExistsByURL(ctx, item.Link)
	if err != nil {
		return false, fmt.Errorf("check url: %w", err)
	}
	if exists {
		return false, nil
	}

	hash := contentHash(item.Title, item.Description)
	duplicate, err := c.store.ExistsByContentHash(ctx, hash)
	if err != nil {
		return false, fmt.Errorf("check content hash: %w", err)
	}
	if duplicate {
		c.logger.Debug("duplicate content detected", "source", source.Name, "title", item.Title)
		return false, nil
	}

	publishedAt := time.Now()
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	}

	imageURL := ""
	if item.Image != nil {
		imageURL = item.Image.URL
	}
	if imageURL == "" {
		imageURL = firstImage(item.Description)
	}

	title := cleanText(item.Title)
	content := cleanText(item.Description)

	news := domain.CollectedNews{
		SourceID:     source.ID,
		Title:        title,
		Content:      content,
		OriginalURL:  item.Link,
		ImageURL:     imageURL,
		ContentHash:  hash,
		QualityScore: qualityScore(title, content),
		Status:       domain.NewsPending,
		PublishedAt:  publishedAt,
	}

	if _, err := c.store.Save(ctx, news); err != nil {
		return false, fmt.Errorf("save item: %w", err)
	}

	return true, nil
}
