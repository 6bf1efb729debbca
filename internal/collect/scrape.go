package collect

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"technews/internal/domain"
	"technews/internal/ports"
)

// ScrapeCollector fetches a source page directly and extracts its title, meta
// description and social image. One item per fetch.
type ScrapeCollector struct {
	store  ports.CollectedNewsStore
	client *http.Client
}

var _ Collector = (*ScrapeCollector)(nil)

// NewScrapeCollector wires an HTTP client; client defaults to a 20s timeout.
func NewScrapeCollector(store ports.CollectedNewsStore, client *http.Client) *ScrapeCollector {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ScrapeCollector{store: store, client: client}
}

// Type identifies the collector inside the registry.
func (c *ScrapeCollector) Type() domain.SourceType {
	return domain.SourceScrape
}

// Collect scrapes the source page and stores it when unseen by URL and hash.
func (c *ScrapeCollector) Collect(ctx context.Context, source domain.NewsSource) (int, error) {
	exists, err := c.store.ExistsByURL(ctx, source.URL)
	if err != nil {
		return 0, fmt.Errorf("check url: %w", err)
	}
	if exists {
		return 0, nil
	}

	doc, err := c.fetchDocument(ctx, source.URL)
	if err != nil {
		return 0, err
	}

	title := cleanText(doc.Find("title").First().Text())
	if title == "" {
		title = source.Name
	}

	description, _ := doc.Find(`meta[name="description"]`).Attr("content")
	content := cleanText(description)

	imageURL, _ := doc.Find(`meta[property="og:image"]`).Attr("content")

	hash := contentHash(title, content)
	duplicate, err := c.store.ExistsByContentHash(ctx, hash)
	if err != nil {
		return 0, fmt.Errorf("check content hash: %w", err)
	}
	if duplicate {
		return 0, nil
	}

	news := domain.CollectedNews{
		SourceID:     source.ID,
		Title:        title,
		Content:      content,
		OriginalURL:  source.URL,
		ImageURL:     imageURL,
		ContentHash:  hash,
		QualityScore: qualityScore(title, content),
		Status:       domain.NewsPending,
		PublishedAt:  time.Now(),
	}

	if _, err := c.store.Save(ctx, news); err != nil {
		return 0, fmt.Errorf("save item: %w", err)
	}

	return 1, nil
}

func (c *ScrapeCollector) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "technews/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}
