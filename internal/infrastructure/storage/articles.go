package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"technews/internal/domain"
	"technews/internal/ports"
)

// ArticleRepository persists ingested news articles. The url column carries a
// unique constraint that is the actual dedup backstop; ExistsByURL is only a
// cheap pre-check.
type ArticleRepository struct {
	db *sql.DB
}

var _ ports.ArticleStore = (*ArticleRepository)(nil)

// NewArticleRepository wires a sql.DB implementation.
func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ExistsByID reports whether the article id is present.
func (r *ArticleRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, sq.Eq{"id": id})
}

// ExistsByURL reports whether an article with the URL is already stored.
func (r *ArticleRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	return r.exists(ctx, sq.Eq{"url": url})
}

// Save inserts the article. A concurrent insert of the same URL is absorbed
// silently: the stored row wins and no error is returned.
func (r *ArticleRepository) Save(ctx context.Context, a domain.NewsArticle) (domain.NewsArticle, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	err := psql.Insert("news_articles").
		Columns("title", "description", "url", "image_url", "source_domain",
			"category", "published", "published_at", "created_at").
		Values(a.Title, a.Description, a.URL, nullString(a.ImageURL), a.SourceDomain,
			a.Category, a.Published, a.PublishedAt, a.CreatedAt).
		Suffix("ON CONFLICT (url) DO NOTHING RETURNING id").
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&a.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race to another run; the existing row stands.
		return a, nil
	}
	if err != nil {
		return domain.NewsArticle{}, fmt.Errorf("insert article: %w", err)
	}

	return a, nil
}

// DeleteOldUnpublished removes articles created before the cutoff that never
// reached published status, returning the number removed.
func (r *ArticleRepository) DeleteOldUnpublished(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := psql.Delete("news_articles").
		Where(sq.Eq{"published": false}).
		Where(sq.Lt{"created_at": olderThan}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete old articles: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}

func (r *ArticleRepository) exists(ctx context.Context, where sq.Eq) (bool, error) {
	var n int64
	err := psql.Select("COUNT(*)").
		From("news_articles").
		Where(where).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count articles: %w", err)
	}
	return n > 0, nil
}
