package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"technews/internal/config"
	"technews/internal/domain"
	"technews/internal/ports"
)

// Signature set covering pharma, gambling, financial and adult spam plus bare
// URLs and link shorteners. A match anywhere in the text counts.
var spamPattern = regexp.MustCompile(`(?i)(viagra|casino|poker|loan|debt|credit|bitcoin|crypto|investment|forex|trading|pills|pharmacy|dating|adult|xxx|porn|sex|escort|massage|replica|fake|cheap|discount|sale|buy now|click here|free money|make money|work from home|get rich|lose weight|miracle|guaranteed|limited time|act now|urgent|congratulations|winner|lottery|prize|claim now|http://|https://|www\.|bit\.ly|tinyurl|goo\.gl)`)

const autoApproveMinLength = 20

// Moderation decides whether a submitted comment is safe to store, whether it
// is immediately visible, and enforces the anti-abuse limits.
type Moderation struct {
	comments ports.CommentStore
	articles ports.ArticleStore
	cfg      config.ModerationConfig
	logger   *slog.Logger
}

// NewModeration wires the moderation engine.
func NewModeration(comments ports.CommentStore, articles ports.ArticleStore, cfg config.ModerationConfig, logger *slog.Logger) *Moderation {
	return &Moderation{
		comments: comments,
		articles: articles,
		cfg:      cfg,
		logger:   logger,
	}
}

// SubmitRequest carries a reader comment submission. ParentID is nil for
// top-level comments.
type SubmitRequest struct {
	ArticleID     int64
	AuthorName    string
	AuthorEmail   string
	AuthorWebsite string
	Content       string
	IPAddress     string
	UserAgent     string
	ParentID      *int64
}

// Submit validates, normalizes and stores a comment, deciding its visibility
// once at creation time. Validation failures return *domain.ValidationError
// with a user-displayable reason; a missing article returns domain.ErrNotFound.
func (m *Moderation) Submit(ctx context.Context, req SubmitRequest) (domain.Comment, error) {
	exists, err := m.articles.ExistsByID(ctx, req.ArticleID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("check article %d: %w", req.ArticleID, err)
	}
	if !exists {
		return domain.Comment{}, fmt.Errorf("article %d: %w", req.ArticleID, domain.ErrNotFound)
	}

	email := strings.ToLower(strings.TrimSpace(req.AuthorEmail))
	if err := m.validate(ctx, req.Content, email, req.IPAddress); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ArticleID:     req.ArticleID,
		AuthorName:    strings.TrimSpace(req.AuthorName),
		AuthorEmail:   email,
		AuthorWebsite: cleanWebsiteURL(req.AuthorWebsite),
		Content:       strings.TrimSpace(req.Content),
		IPAddress:     req.IPAddress,
		UserAgent:     req.UserAgent,
		Active:        true,
		CreatedAt:     time.Now(),
	}

	// A reply is attached only when the parent belongs to the same article;
	// otherwise the comment is stored top-level and the parent is ignored.
	if req.ParentID != nil {
		parent, err := m.comments.GetByID(ctx, *req.ParentID)
		switch {
		case err == nil && parent.ArticleID == req.ArticleID:
			comment.ParentID = parent.ID
		case err != nil && !isNotFound(err):
			return domain.Comment{}, fmt.Errorf("load parent comment %d: %w", *req.ParentID, err)
		}
	}

	approved, err := m.shouldAutoApprove(ctx, comment)
	if err != nil {
		return domain.Comment{}, err
	}
	comment = comment.WithApproval(approved)

	created, err := m.comments.Create(ctx, comment)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("store comment: %w", err)
	}

	m.logger.Info("comment submitted",
		"article_id", created.ArticleID,
		"comment_id", created.ID,
		"approved", created.Approved,
		"reply", created.IsReply())

	return created, nil
}

func (m *Moderation) validate(ctx context.Context, content, email, ipAddress string) error {
	if len(content) < m.cfg.MinCommentLength {
		return &domain.ValidationError{
			Message: fmt.Sprintf("comment too short, minimum %d characters", m.cfg.MinCommentLength),
		}
	}

	// Checked before the spam signatures, which also match bare URLs.
	if linkCount(content) > m.cfg.MaxLinks {
		return &domain.ValidationError{
			Message: fmt.Sprintf("too many links in comment, maximum allowed is %d", m.cfg.MaxLinks),
		}
	}

	if spamPattern.MatchString(content) {
		return &domain.ValidationError{Message: "comment contains suspicious content"}
	}

	since := time.Now().Add(-time.Hour)
	recent, err := m.comments.CountRecentBySender(ctx, email, ipAddress, since)
	if err != nil {
		return fmt.Errorf("count recent comments: %w", err)
	}
	if recent >= int64(m.cfg.MaxCommentsPerHour) {
		return &domain.ValidationError{Message: "too many comments in a short time, try again later"}
	}

	return nil
}

// shouldAutoApprove applies the creation-time heuristic: a sender with an
// already-approved comment is always trusted; otherwise the comment must be
// free of spam markers (content and author name) and long enough.
func (m *Moderation) shouldAutoApprove(ctx context.Context, comment domain.Comment) (bool, error) {
	trusted, err := m.comments.HasApprovedByEmail(ctx, comment.AuthorEmail)
	if err != nil {
		return false, fmt.Errorf("check approved history: %w", err)
	}
	if trusted {
		return true, nil
	}

	if spamPattern.MatchString(comment.Content) || spamPattern.MatchString(comment.AuthorName) {
		return false, nil
	}

	if len(comment.Content) < autoApproveMinLength {
		return false, nil
	}

	return true, nil
}

// Approve flips a comment to the approved state. Idempotent.
func (m *Moderation) Approve(ctx context.Context, commentID int64) (domain.Comment, error) {
	return m.transition(ctx, commentID, domain.Comment.Approve)
}

// Reject flips a comment to the rejected state. Idempotent.
func (m *Moderation) Reject(ctx context.Context, commentID int64) (domain.Comment, error) {
	return m.transition(ctx, commentID, domain.Comment.Reject)
}

// SoftDelete deactivates a comment; the record is kept for audit.
func (m *Moderation) SoftDelete(ctx context.Context, commentID int64) (domain.Comment, error) {
	return m.transition(ctx, commentID, domain.Comment.Deactivate)
}

func (m *Moderation) transition(ctx context.Context, commentID int64, apply func(domain.Comment) domain.Comment) (domain.Comment, error) {
	comment, err := m.comments.GetByID(ctx, commentID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("load comment %d: %w", commentID, err)
	}

	updated, err := m.comments.Update(ctx, apply(comment))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("update comment %d: %w", commentID, err)
	}

	return updated, nil
}

// ApprovedByArticle lists approved top-level comments, newest first.
func (m *Moderation) ApprovedByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	return m.comments.ApprovedByArticle(ctx, articleID)
}

// ApprovedReplies lists approved replies to a parent, oldest first.
func (m *Moderation) ApprovedReplies(ctx context.Context, parentID int64) ([]domain.Comment, error) {
	return m.comments.ApprovedReplies(ctx, parentID)
}

// AllByArticle lists every active comment for an article, for moderators.
func (m *Moderation) AllByArticle(ctx context.Context, articleID int64) ([]domain.Comment, error) {
	return m.comments.AllByArticle(ctx, articleID)
}

// All pages through every active comment, newest first.
func (m *Moderation) All(ctx context.Context, page ports.Page) ([]domain.Comment, error) {
	return m.comments.List(ctx, page)
}

// ByStatus pages through active comments in a moderation state.
func (m *Moderation) ByStatus(ctx context.Context, status domain.CommentStatus, page ports.Page) ([]domain.Comment, error) {
	return m.comments.ListByStatus(ctx, status, page)
}

// Pending pages through comments awaiting moderation.
func (m *Moderation) Pending(ctx context.Context, page ports.Page) ([]domain.Comment, error) {
	return m.comments.ListPending(ctx, page)
}

// Recent pages through the latest active comments.
func (m *Moderation) Recent(ctx context.Context, page ports.Page) ([]domain.Comment, error) {
	return m.comments.ListRecent(ctx, page)
}

// Search pages through comments whose content matches term.
func (m *Moderation) Search(ctx context.Context, term string, page ports.Page) ([]domain.Comment, error) {
	return m.comments.Search(ctx, term, page)
}

// CountAll counts active comments.
func (m *Moderation) CountAll(ctx context.Context) (int64, error) {
	return m.comments.CountAll(ctx)
}

// CountPending counts comments awaiting moderation.
func (m *Moderation) CountPending(ctx context.Context) (int64, error) {
	return m.comments.CountPending(ctx)
}

// CountBetween counts active comments created inside [from, to].
func (m *Moderation) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return m.comments.CountBetween(ctx, from, to)
}

// CountByStatus counts active comments in the given moderation state.
func (m *Moderation) CountByStatus(ctx context.Context, status domain.CommentStatus) (int64, error) {
	return m.comments.CountByStatus(ctx, status)
}

// CountApprovedByArticle counts visible comments on an article.
func (m *Moderation) CountApprovedByArticle(ctx context.Context, articleID int64) (int64, error) {
	return m.comments.CountApprovedByArticle(ctx, articleID)
}

// TopCommenters returns the most active approved authors, busiest first.
func (m *Moderation) TopCommenters(ctx context.Context, limit int) ([]domain.CommenterStat, error) {
	return m.comments.TopCommenters(ctx, limit)
}

func cleanWebsiteURL(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}
	return website
}

func linkCount(content string) int {
	return strings.Count(strings.ToLower(content), "http")
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
