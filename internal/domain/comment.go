package domain

import "time"

// CommentStatus tracks the moderation lifecycle of a comment.
type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
	CommentSpam     CommentStatus = "spam"
)

// Comment is a reader-submitted comment attached to a news article.
// ParentID is non-zero for threaded replies; a parent always belongs to the
// same article as the reply.
type Comment struct {
	ID            int64
	ArticleID     int64
	ParentID      int64
	AuthorName    string
	AuthorEmail   string
	AuthorWebsite string
	Content       string
	IPAddress     string
	UserAgent     string
	Approved      bool
	Status        CommentStatus
	Active        bool
	CreatedAt     time.Time
}

// WithApproval returns a copy with the approval flag and status set together,
// so "approved implies status=approved" holds everywhere a comment is built.
func (c Comment) WithApproval(approved bool) Comment {
	c.Approved = approved
	if approved {
		c.Status = CommentApproved
	} else {
		c.Status = CommentPending
	}
	return c
}

// Approve marks the comment visible. Idempotent.
func (c Comment) Approve() Comment {
	c.Approved = true
	c.Status = CommentApproved
	return c
}

// Reject hides the comment from public listings. Idempotent.
func (c Comment) Reject() Comment {
	c.Approved = false
	c.Status = CommentRejected
	return c
}

// Deactivate soft-deletes the comment; the row is retained for audit.
func (c Comment) Deactivate() Comment {
	c.Active = false
	return c
}

// IsReply reports whether the comment is attached to a parent comment.
func (c Comment) IsReply() bool {
	return c.ParentID != 0
}

// CommenterStat aggregates approved comment counts per author identity.
type CommenterStat struct {
	AuthorName   string
	AuthorEmail  string
	CommentCount int64
}
