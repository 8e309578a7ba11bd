package attribution

import "context"

// Repository persists the ordered post-to-author relation.
type Repository interface {
	// AuthorIDs returns the attributed user IDs for a post in stored order.
	// A post with no attribution rows yields an empty slice, not an error.
	AuthorIDs(ctx context.Context, postID int64) ([]int64, error)

	// Replace swaps the full author list for a post in one transaction.
	Replace(ctx context.Context, postID int64, userIDs []int64) error
}
