package ports

import (
	"context"
	"time"

	"technews/internal/domain"
)

// Page bounds a repository listing.
type Page struct {
	Limit  int
	Offset int
}

// ArticleProvider pulls candidate articles from the external news API.
type ArticleProvider interface {
	TechNews(ctx context.Context) ([]domain.NewsArticle, error)
	TechNewsWithKeywords(ctx context.Context) ([]domain.NewsArticle, error)
	Search(ctx context.Context, query string) ([]domain.NewsArticle, error)
}

// TrustedSourceRegistry answers which domains are allow-listed for ingestion.
type TrustedSourceRegistry interface {
	ActiveDomains(ctx context.Context) ([]string, error)
	IsTrusted(ctx context.Context, domain string) (bool, error)
}

// ArticleStore persists ingested news articles. URL uniqueness is enforced by
// the store; Save silently skips a duplicate URL.
type ArticleStore interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Save(ctx context.Context, article domain.NewsArticle) (domain.NewsArticle, error)
	DeleteOldUnpublished(ctx context.Context, olderThan time.Time) (int64, error)
}

// CommentStore covers comment persistence and the listing/statistics queries
// exposed by the moderation engine.
type CommentStore interface {
	GetByID(ctx context.Context, id int64) (domain.Comment, error)
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	Update(ctx context.Context, comment domain.Comment) (domain.Comment, error)

	ApprovedByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error)
	ApprovedReplies(ctx context.Context, parentID int64) ([]domain.Comment, error)
	AllByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error)
	List(ctx context.Context, page Page) ([]domain.Comment, error)
	ListByStatus(ctx context.Context, status domain.CommentStatus, page Page) ([]domain.Comment, error)
	ListPending(ctx context.Context, page Page) ([]domain.Comment, error)
	ListRecent(ctx context.Context, page Page) ([]domain.Comment, error)
	Search(ctx context.Context, term string, page Page) ([]domain.Comment, error)

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.CommentStatus) (int64, error)
	CountPending(ctx context.Context) (int64, error)
	CountApprovedByArticle(ctx context.Context, articleID int64) (int64, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountRecentBySender(ctx context.Context, email, ip string, since time.Time) (int64, error)
	HasApprovedByEmail(ctx context.Context, email string) (bool, error)
	TopCommenters(ctx context.Context, limit int) ([]domain.CommenterStat, error)
}

// CollectedNewsStore persists items gathered by the per-source collectors.
type CollectedNewsStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	ExistsByContentHash(ctx context.Context, hash string) (bool, error)
	Save(ctx context.Context, news domain.CollectedNews) (domain.CollectedNews, error)
	CountByStatus(ctx context.Context, status domain.NewsStatus) (int64, error)
}

// SourceStore manages the configured news sources polled by the collectors.
type SourceStore interface {
	ActiveSources(ctx context.Context) ([]domain.NewsSource, error)
	CountActive(ctx context.Context) (int64, error)
	Create(ctx context.Context, source domain.NewsSource) (domain.NewsSource, error)
	UpdateLastFetch(ctx context.Context, id int64, fetchedAt time.Time) error
}

// Scheduler runs registered jobs on fixed intervals until stopped.
type Scheduler interface {
	AddJob(name string, interval time.Duration, job func(context.Context))
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
