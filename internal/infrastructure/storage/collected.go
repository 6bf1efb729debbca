package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"technews/internal/domain"
	"technews/internal/ports"
)

// CollectedNewsRepository persists items gathered by the per-source
// collectors. Both original_url and content_hash carry unique constraints.
type CollectedNewsRepository struct {
	db *sql.DB
}

var _ ports.CollectedNewsStore = (*CollectedNewsRepository)(nil)

// NewCollectedNewsRepository wires a sql.DB implementation.
func NewCollectedNewsRepository(db *sql.DB) *CollectedNewsRepository {
	return &CollectedNewsRepository{db: db}
}

// ExistsByURL reports whether an item with the original URL is stored.
func (r *CollectedNewsRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	return r.exists(ctx, sq.Eq{"original_url": url})
}

// ExistsByContentHash reports whether an item with the content fingerprint is
// stored.
func (r *CollectedNewsRepository) ExistsByContentHash(ctx context.Context, hash string) (bool, error) {
	return r.exists(ctx, sq.Eq{"content_hash": hash})
}

// Save inserts the collected item. Duplicate URL or hash inserts racing past
// the pre-checks are absorbed silently.
func (r *CollectedNewsRepository) Save(ctx context.Context, n domain.CollectedNews) (domain.CollectedNews, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	err := psql.Insert("collected_news").
		Columns("source_id", "title", "content", "original_url", "image_url",
			"content_hash", "quality_score", "status", "published_at", "created_at").
		Values(n.SourceID, n.Title, n.Content, n.OriginalURL, nullString(n.ImageURL),
			n.ContentHash, n.QualityScore, n.Status, n.PublishedAt, n.CreatedAt).
		Suffix("RETURNING id").
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&n.ID)
	if isUniqueViolation(err) {
		return n, nil
	}
	if err != nil {
		return domain.CollectedNews{}, fmt.Errorf("insert collected news: %w", err)
	}

	return n, nil
}

// CountByStatus counts collected items in the given review state.
func (r *CollectedNewsRepository) CountByStatus(ctx context.Context, status domain.NewsStatus) (int64, error) {
	var n int64
	err := psql.Select("COUNT(*)").
		From("collected_news").
		Where(sq.Eq{"status": status}).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count collected news: %w", err)
	}
	return n, nil
}

func (r *CollectedNewsRepository) exists(ctx context.Context, where sq.Eq) (bool, error) {
	var n int64
	err := psql.Select("COUNT(*)").
		From("collected_news").
		Where(where).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count collected news: %w", err)
	}
	return n > 0, nil
}
