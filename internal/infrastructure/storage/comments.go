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

var commentColumns = []string{
	"id", "article_id", "parent_id", "author_name", "author_email",
	"author_website", "content", "ip_address", "user_agent",
	"approved", "status", "active", "created_at",
}

// CommentRepository persists comments in Postgres.
type CommentRepository struct {
	db *sql.DB
}

var _ ports.CommentStore = (*CommentRepository)(nil)

// NewCommentRepository wires a sql.DB implementation.
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// GetByID loads a single comment or domain.ErrNotFound.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	row := psql.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		QueryRowContext(ctx)

	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Comment{}, fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Comment{}, fmt.Errorf("query comment: %w", err)
	}
	return comment, nil
}

// Create inserts the comment and returns it with its assigned id.
func (r *CommentRepository) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	err := psql.Insert("comments").
		Columns("article_id", "parent_id", "author_name", "author_email",
			"author_website", "content", "ip_address", "user_agent",
			"approved", "status", "active", "created_at").
		Values(c.ArticleID, nullInt64(c.ParentID), c.AuthorName, c.AuthorEmail,
			nullString(c.AuthorWebsite), c.Content, c.IPAddress, c.UserAgent,
			c.Approved, c.Status, c.Active, c.CreatedAt).
		Suffix("RETURNING id").
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&c.ID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// Update writes back the mutable moderation fields.
func (r *CommentRepository) Update(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	_, err := psql.Update("comments").
		Set("approved", c.Approved).
		Set("status", c.Status).
		Set("active", c.Active).
		Where(sq.Eq{"id": c.ID}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("update comment %d: %w", c.ID, err)
	}
	return c, nil
}

// ApprovedByArticle lists approved top-level comments for an article, newest
// first.
func (r *CommentRepository) ApprovedByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	return r.list(ctx, psql.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"article_id": articleID, "approved": true, "active": true}).
		Where("parent_id IS NULL").
		OrderBy("created_at DESC"))
}

// ApprovedReplies lists approved replies to a parent comment, oldest first.
func (r *CommentRepository) ApprovedReplies(ctx context.Context, parentID int64) ([]domain.Comment, error) {
	return r.list(ctx, psql.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"parent_id": parentID, "approved": true, "active": true}).
		OrderBy("created_at ASC"))
}

// AllByArticle lists every active comment for an article, newest first.
func (r *CommentRepository) AllByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	return r.list(ctx, psql.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"article_id": articleID, "active": true}).
		OrderBy("created_at DESC"))
}

// List pages through all active comments, newest first.
func (r *CommentRepository) List(ctx context.Context, page ports.Page) ([]domain.Comment, error) {
	return r.list(ctx, r.pageQuery(sq.Eq{"active": true}, page))
}

// ListByStatus pages through active comments in a moderation state.
func (r *CommentRepository) ListByStatus(ctx context.Context, status domain.CommentStatus, page ports.Page) ([]domain.Comment, error) {
	return r.list(ctx, r.pageQuery(sq.Eq{"status": status, "active": true}, page))
}

// ListPending pages through comments awaiting moderation.
func (r *CommentRepository) ListPending(ctx context.Context, page ports.Page) ([]domain.Comment, error) {
	return r.list(ctx, r.pageQuery(sq.Eq{"approved": false, "active": true}, page))
}

// ListRecent pages through the latest active comments.
func (r *CommentRepository) ListRecent(ctx context.Context, page ports.Page) ([]domain.Comment, error) {
	return r.list(ctx, r.pageQuery(sq.Eq{"active": true}, page))
}

// Search pages through active comments whose content matches term.
func (r *CommentRepository) Search(ctx context.Context, term string, page ports.Page) ([]domain.Comment, error) {
	query := psql.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"active": true}).
		Where(sq.ILike{"content": "%" + term + "%"}).
		OrderBy("created_at DESC")
	return r.list(ctx, applyPage(query, page))
}

// CountAll counts active comments.
func (r *CommentRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, sq.Eq{"active": true})
}

// CountByStatus counts active comments in a moderation state.
func (r *CommentRepository) CountByStatus(ctx context.Context, status domain.CommentStatus) (int64, error) {
	return r.count(ctx, sq.Eq{"status": status, "active": true})
}

// CountPending counts comments awaiting moderation.
func (r *CommentRepository) CountPending(ctx context.Context) (int64, error) {
	return r.count(ctx, sq.Eq{"approved": false, "active": true})
}

// CountApprovedByArticle counts visible comments on an article.
func (r *CommentRepository) CountApprovedByArticle(ctx context.Context, articleID int64) (int64, error) {
	return r.count(ctx, sq.Eq{"article_id": articleID, "approved": true, "active": true})
}

// CountBetween counts active comments created inside [from, to].
func (r *CommentRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(ctx, sq.And{
		sq.Eq{"active": true},
		sq.GtOrEq{"created_at": from},
		sq.LtOrEq{"created_at": to},
	})
}

// CountRecentBySender counts active comments since the given instant from the
// same email or the same IP address, for rate limiting.
func (r *CommentRepository) CountRecentBySender(ctx context.Context, email, ip string, since time.Time) (int64, error) {
	return r.count(ctx, sq.And{
		sq.Eq{"active": true},
		sq.GtOrEq{"created_at": since},
		sq.Or{
			sq.Eq{"author_email": email},
			sq.Eq{"ip_address": ip},
		},
	})
}

// HasApprovedByEmail reports whether the email already has an approved active
// comment, which short-circuits the auto-approval heuristic.
func (r *CommentRepository) HasApprovedByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.count(ctx, sq.Eq{"author_email": email, "approved": true, "active": true})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TopCommenters aggregates approved comment counts per author identity,
// busiest first.
func (r *CommentRepository) TopCommenters(ctx context.Context, limit int) ([]domain.CommenterStat, error) {
	rows, err := psql.Select("author_name", "author_email", "COUNT(*) AS comment_count").
		From("comments").
		Where(sq.Eq{"approved": true, "active": true}).
		GroupBy("author_name", "author_email").
		OrderBy("comment_count DESC").
		Limit(uint64(limit)).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query top commenters: %w", err)
	}
	defer rows.Close()

	var stats []domain.CommenterStat
	for rows.Next() {
		var stat domain.CommenterStat
		if err := rows.Scan(&stat.AuthorName, &stat.AuthorEmail, &stat.CommentCount); err != nil {
			return nil, fmt.Errorf("scan top commenter: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return stats, nil
}

func (r *CommentRepository) pageQuery(where sq.Eq, page ports.Page) sq.SelectBuilder {
	query := psql.Select(commentColumns...).
		From("comments").
		Where(where).
		OrderBy("created_at DESC")
	return applyPage(query, page)
}

func (r *CommentRepository) list(ctx context.Context, query sq.SelectBuilder) ([]domain.Comment, error) {
	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) count(ctx context.Context, where sq.Sqlizer) (int64, error) {
	var n int64
	err := psql.Select("COUNT(*)").
		From("comments").
		Where(where).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func applyPage(query sq.SelectBuilder, page ports.Page) sq.SelectBuilder {
	if page.Limit > 0 {
		query = query.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		query = query.Offset(uint64(page.Offset))
	}
	return query
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (domain.Comment, error) {
	var (
		c        domain.Comment
		parentID sql.NullInt64
		website  sql.NullString
	)

	err := row.Scan(&c.ID, &c.ArticleID, &parentID, &c.AuthorName, &c.AuthorEmail,
		&website, &c.Content, &c.IPAddress, &c.UserAgent,
		&c.Approved, &c.Status, &c.Active, &c.CreatedAt)
	if err != nil {
		return domain.Comment{}, err
	}

	c.ParentID = parentID.Int64
	c.AuthorWebsite = website.String
	return c, nil
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
