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

// SourceRepository manages the configured news sources.
type SourceRepository struct {
	db *sql.DB
}

var _ ports.SourceStore = (*SourceRepository)(nil)

// NewSourceRepository wires a sql.DB implementation.
func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// ActiveSources lists every active source.
func (r *SourceRepository) ActiveSources(ctx context.Context) ([]domain.NewsSource, error) {
	rows, err := psql.Select("id", "name", "url", "type", "active",
		"fetch_interval_minutes", "max_articles_per_fetch", "last_fetch_at").
		From("news_sources").
		Where(sq.Eq{"active": true}).
		OrderBy("name ASC").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.NewsSource
	for rows.Next() {
		var (
			s           domain.NewsSource
			lastFetchAt sql.NullTime
		)
		err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.Type, &s.Active,
			&s.FetchIntervalMinutes, &s.MaxArticlesPerFetch, &lastFetchAt)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		s.LastFetchAt = lastFetchAt.Time
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return sources, nil
}

// CountActive counts active sources.
func (r *SourceRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := psql.Select("COUNT(*)").
		From("news_sources").
		Where(sq.Eq{"active": true}).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sources: %w", err)
	}
	return n, nil
}

// Create inserts a source and returns it with its assigned id.
func (r *SourceRepository) Create(ctx context.Context, s domain.NewsSource) (domain.NewsSource, error) {
	err := psql.Insert("news_sources").
		Columns("name", "url", "type", "active",
			"fetch_interval_minutes", "max_articles_per_fetch").
		Values(s.Name, s.URL, s.Type, s.Active,
			s.FetchIntervalMinutes, s.MaxArticlesPerFetch).
		Suffix("RETURNING id").
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&s.ID)
	if err != nil {
		return domain.NewsSource{}, fmt.Errorf("insert source: %w", err)
	}
	return s, nil
}

// UpdateLastFetch records when the source was last collected.
func (r *SourceRepository) UpdateLastFetch(ctx context.Context, id int64, fetchedAt time.Time) error {
	_, err := psql.Update("news_sources").
		Set("last_fetch_at", fetchedAt).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update last fetch for source %d: %w", id, err)
	}
	return nil
}

// TrustedSourceRepository answers domain allow-list queries.
type TrustedSourceRepository struct {
	db *sql.DB
}

var _ ports.TrustedSourceRegistry = (*TrustedSourceRepository)(nil)

// NewTrustedSourceRepository wires a sql.DB implementation.
func NewTrustedSourceRepository(db *sql.DB) *TrustedSourceRepository {
	return &TrustedSourceRepository{db: db}
}

// ActiveDomains lists the allow-listed domain names.
func (r *TrustedSourceRepository) ActiveDomains(ctx context.Context) ([]string, error) {
	rows, err := psql.Select("domain_name").
		From("trusted_sources").
		Where(sq.Eq{"active": true}).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query trusted domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan trusted domain: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return domains, nil
}

// IsTrusted reports whether the domain is allow-listed and active.
func (r *TrustedSourceRepository) IsTrusted(ctx context.Context, domainName string) (bool, error) {
	var n int64
	err := psql.Select("COUNT(*)").
		From("trusted_sources").
		Where(sq.Eq{"domain_name": domainName, "active": true}).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count trusted sources: %w", err)
	}
	return n > 0, nil
}
