package post

import (
	"time"
)

// Status is a post's publication status.
type Status string

const (
	StatusPublish Status = "publish"
	StatusFuture  Status = "future"
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusPrivate Status = "private"
	StatusTrash   Status = "trash"
)

// IsPublished reports whether the status counts as published for
// capability purposes. Scheduled posts count.
func (s Status) IsPublished() bool {
	return s == StatusPublish || s == StatusFuture
}

// Post is a content entry. AuthorID is the native owner; the attributed
// author set lives in the attribution relation, not here.
type Post struct {
	ID       int64  `json:"id" db:"id"`
	Type     string `json:"type" db:"post_type"`
	Status   Status `json:"status" db:"status"`
	AuthorID int64  `json:"author" db:"author_id"`

	// TrashMetaStatus records the status the post had before it was
	// trashed. Empty unless Status is StatusTrash.
	TrashMetaStatus Status `json:"-" db:"trash_meta_status"`

	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
