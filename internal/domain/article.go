package domain

import "time"

// NewsArticle is an externally sourced article persisted by the ingestion
// scheduler. URL is the dedup key and is unique in storage.
type NewsArticle struct {
	ID           int64
	Title        string
	Description  string
	URL          string
	ImageURL     string
	SourceDomain string
	Category     string
	Published    bool
	PublishedAt  time.Time
	CreatedAt    time.Time
}

// NewsStatus tracks a collected item through review towards publication.
type NewsStatus string

const (
	NewsPending   NewsStatus = "pending"
	NewsApproved  NewsStatus = "approved"
	NewsRejected  NewsStatus = "rejected"
	NewsPublished NewsStatus = "published"
)

// CollectedNews is an item gathered by the per-source collectors. ContentHash
// is a SHA-256 over title+content and backs duplicate detection when the same
// story is republished under a different URL.
type CollectedNews struct {
	ID           int64
	SourceID     int64
	Title        string
	Content      string
	OriginalURL  string
	ImageURL     string
	ContentHash  string
	QualityScore float64
	Status       NewsStatus
	PublishedAt  time.Time
	CreatedAt    time.Time
}

// SourceType selects the collection strategy for a news source.
type SourceType string

const (
	SourceRSS    SourceType = "rss"
	SourceScrape SourceType = "scrape"
)

// NewsSource is a configured upstream the collection service polls.
type NewsSource struct {
	ID                   int64
	Name                 string
	URL                  string
	Type                 SourceType
	Active               bool
	FetchIntervalMinutes int
	MaxArticlesPerFetch  int
	LastFetchAt          time.Time
}

// ShouldFetch reports whether the source is due: never fetched, or the last
// fetch is older than the configured interval.
func (s NewsSource) ShouldFetch(now time.Time) bool {
	if s.LastFetchAt.IsZero() {
		return true
	}
	return now.Sub(s.LastFetchAt) >= time.Duration(s.FetchIntervalMinutes)*time.Minute
}

// TrustedSource allow-lists a domain for article ingestion. DomainName is
// unique across trusted sources.
type TrustedSource struct {
	ID         int64
	Name       string
	DomainName string
	Active     bool
}
