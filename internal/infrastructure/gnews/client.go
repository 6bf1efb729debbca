package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"technews/internal/config"
	"technews/internal/domain"
	"technews/internal/ports"
)

const defaultCategory = "Technology"

// Keyword phrases merged into the general technology feed.
var techKeywords = []string{
	"technology",
	"software",
	"programming",
	"artificial intelligence",
	"machine learning",
	"cybersecurity",
	"blockchain",
	"cloud computing",
}

// Client talks to the GNews HTTP API.
type Client struct {
	baseURL     string
	apiKey      string
	language    string
	maxArticles int
	httpClient  *http.Client
	logger      *slog.Logger

	// pause between keyword queries, shortened in tests
	keywordPause time.Duration
}

var _ ports.ArticleProvider = (*Client)(nil)

// NewClient builds a provider client from configuration.
func NewClient(cfg config.GNewsConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		maxArticles:  cfg.MaxArticles,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
		keywordPause: 100 * time.Millisecond,
	}
}

// Search fetches articles matching a keyword query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.NewsArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	return c.fetch(ctx, "/search", params)
}

// TopHeadlines fetches the current headlines for a category.
func (c *Client) TopHeadlines(ctx context.Context, category string) ([]domain.NewsArticle, error) {
	params := url.Values{}
	params.Set("category", category)
	return c.fetch(ctx, "/top-headlines", params)
}

// TechNews fetches the general technology headlines.
func (c *Client) TechNews(ctx context.Context) ([]domain.NewsArticle, error) {
	return c.TopHeadlines(ctx, "technology")
}

// TechNewsWithKeywords queries every general technology keyword and merges the
// results, deduplicated by URL. A failing keyword is logged and skipped; a
// short pause separates the queries.
func (c *Client) TechNewsWithKeywords(ctx context.Context) ([]domain.NewsArticle, error) {
	var all []domain.NewsArticle

	for n, keyword := range techKeywords {
		if n > 0 && c.keywordPause > 0 {
			timer := time.NewTimer(c.keywordPause)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return dedup(all), ctx.Err()
			}
		}

		articles, err := c.Search(ctx, keyword)
		if err != nil {
			c.logger.Warn("keyword query failed", "keyword", keyword, "error", err)
			continue
		}
		all = append(all, articles...)
	}

	return dedup(all), nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]domain.NewsArticle, error) {
	params.Set("lang", c.language)
	params.Set("max", strconv.Itoa(c.maxArticles))
	params.Set("apikey", c.apiKey)

	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gnews %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles := make([]domain.NewsArticle, 0, len(body.Articles))
	for _, item := range body.Articles {
		articles = append(articles, item.toDomain())
	}

	return articles, nil
}

type response struct {
	Articles []articleJSON `json:"articles"`
}

type articleJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

func (a articleJSON) toDomain() domain.NewsArticle {
	publishedAt := time.Now()
	if a.PublishedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			publishedAt = parsed
		}
	}

	return domain.NewsArticle{
		Title:        a.Title,
		Description:  a.Description,
		URL:          a.URL,
		ImageURL:     a.Image,
		SourceDomain: a.Source.Name,
		Category:     defaultCategory,
		PublishedAt:  publishedAt,
	}
}

func dedup(articles []domain.NewsArticle) []domain.NewsArticle {
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
