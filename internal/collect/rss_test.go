package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"technews/internal/domain"
	"technews/internal/logging"
)

type fakeNewsStore struct {
	urls   map[string]bool
	hashes map[string]bool
	saved  []domain.CollectedNews
}

func newFakeNewsStore() *fakeNewsStore {
	return &fakeNewsStore{urls: map[string]bool{}, hashes: map[string]bool{}}
}

func (f *fakeNewsStore) ExistsByURL(_ context.Context, url string) (bool, error) {
	return f.urls[url], nil
}

func (f *fakeNewsStore) ExistsByContentHash(_ context.Context, hash string) (bool, error) {
	return f.hashes[hash], nil
}

func (f *fakeNewsStore) Save(_ context.Context, n domain.CollectedNews) (domain.CollectedNews, error) {
	f.urls[n.OriginalURL] = true
	f.hashes[n.ContentHash] = true
	f.saved = append(f.saved, n)
	return n, nil
}

func (f *fakeNewsStore) CountByStatus(_ context.Context, status domain.NewsStatus) (int64, error) {
	var n int64
	for _, item := range f.saved {
		if item.Status == status {
			n++
		}
	}
	return n, nil
}

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>Example Tech</title>
  <item>
    <title>First &lt;b&gt;story&lt;/b&gt;</title>
    <link>https://news.example.com/first</link>
    <description><![CDATA[<p>Container runtimes explained in detail.</p><img src="https://cdn.example.com/first.png">]]></description>
    <pubDate>Mon, 09 Mar 2026 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Second story</title>
    <link>https://news.example.com/second</link>
    <description>Shorter piece.</description>
    <pubDate>Mon, 09 Mar 2026 11:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Third story</title>
    <link>https://news.example.com/third</link>
    <description>Another piece entirely.</description>
  </item>
</channel></rss>`

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRSSCollectorStoresUnseenItems(t *testing.T) {
	t.Parallel()

	server := feedServer(t)
	store := newFakeNewsStore()
	collector := NewRSSCollector(store, logging.New("error"))

	source := domain.NewsSource{
		ID:                  1,
		Name:                "example",
		URL:                 server.URL,
		Type:                domain.SourceRSS,
		MaxArticlesPerFetch: 10,
	}

	count, err := collector.Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 items collected, got %d", count)
	}

	first := store.saved[0]
	if first.OriginalURL != "https://news.example.com/first" {
		t.Fatalf("unexpected url: %s", first.OriginalURL)
	}
	if first.Title != "First story" {
		t.Fatalf("expected cleaned title, got %q", first.Title)
	}
	if first.Content != "Container runtimes explained in detail." {
		t.Fatalf("expected cleaned content, got %q", first.Content)
	}
	if first.ImageURL != "https://cdn.example.com/first.png" {
		t.Fatalf("expected embedded image extracted, got %q", first.ImageURL)
	}
	if first.Status != domain.NewsPending {
		t.Fatalf("expected pending status, got %s", first.Status)
	}
	if first.ContentHash == "" {
		t.Fatal("expected a content hash")
	}
	if first.QualityScore < 5.0 {
		t.Fatalf("unexpected quality score: %v", first.QualityScore)
	}
}

func TestRSSCollectorSkipsKnownURLs(t *testing.T) {
	t.Parallel()

	server := feedServer(t)
	store := newFakeNewsStore()
	store.urls["https://news.example.com/first"] = true
	collector := NewRSSCollector(store, logging.New("error"))

	source := domain.NewsSource{Name: "example", URL: server.URL, MaxArticlesPerFetch: 10}

	count, err := collector.Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected known URL skipped, got %d collected", count)
	}
}

func TestRSSCollectorSkipsDuplicateContent(t *testing.T) {
	t.Parallel()

	server := feedServer(t)
	store := newFakeNewsStore()
	// Same story text already collected under a different URL.
	store.hashes[contentHash("Second story", "Shorter piece.")] = true
	collector := NewRSSCollector(store, logging.New("error"))

	source := domain.NewsSource{Name: "example", URL: server.URL, MaxArticlesPerFetch: 10}

	count, err := collector.Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected duplicate content skipped, got %d collected", count)
	}
}

func TestRSSCollectorHonorsPerFetchCap(t *testing.T) {
	t.Parallel()

	server := feedServer(t)
	store := newFakeNewsStore()
	collector := NewRSSCollector(store, logging.New("error"))

	source := domain.NewsSource{Name: "example", URL: server.URL, MaxArticlesPerFetch: 1}

	count, err := collector.Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if count != 1 || len(store.saved) != 1 {
		t.Fatalf("expected cap of 1, got %d collected", count)
	}
}

func TestScrapeCollectorExtractsMetadata(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head>
			<title>Deep Dive Weekly</title>
			<meta name="description" content="A weekly roundup of systems articles.">
			<meta property="og:image" content="https://cdn.example.com/cover.png">
		</head><body>irrelevant</body></html>`)
	}))
	t.Cleanup(server.Close)

	store := newFakeNewsStore()
	collector := NewScrapeCollector(store, server.Client())

	source := domain.NewsSource{ID: 2, Name: "deepdive", URL: server.URL, Type: domain.SourceScrape}

	count, err := collector.Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 item, got %d", count)
	}

	item := store.saved[0]
	if item.Title != "Deep Dive Weekly" {
		t.Fatalf("unexpected title: %q", item.Title)
	}
	if item.Content != "A weekly roundup of systems articles." {
		t.Fatalf("unexpected content: %q", item.Content)
	}
	if item.ImageURL != "https://cdn.example.com/cover.png" {
		t.Fatalf("unexpected image: %q", item.ImageURL)
	}

	// Second pass is a no-op: the URL is now known.
	count, err = collector.Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("second Collect error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected repeat collection to store nothing, got %d", count)
	}
}
