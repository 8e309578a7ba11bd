package attribution

import (
	"context"

	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/user"
)

// Service exposes the attributed-author operations for a post.
type Service interface {
	// GetAuthorIDs returns the attributed user IDs for a post. Posts of a
	// type without authorship support fall back to the owning user.
	GetAuthorIDs(ctx context.Context, p *post.Post) ([]int64, error)

	// GetAuthors returns the attributed users in attribution order. Posts
	// of a type without authorship support yield an empty slice.
	GetAuthors(ctx context.Context, p *post.Post) ([]user.User, error)

	// SetAuthors replaces the attributed authors of a post and returns the
	// resolved users. All user IDs must resolve or nothing is written.
	SetAuthors(ctx context.Context, p *post.Post, userIDs []int64) ([]user.User, error)

	// UserIsAuthor reports whether the user is attributed to the post. For
	// post types without authorship support it compares against the owner.
	UserIsAuthor(ctx context.Context, userID int64, p *post.Post) (bool, error)

	// ValidateAuthors checks an attribution list before any post exists,
	// so requests can be rejected up front. Returns ErrUnsupportedPostType
	// or ErrInvalidAuthors.
	ValidateAuthors(ctx context.Context, postType string, userIDs []int64) error
}
