package post

import (
	"context"
)

// Repository is the data access contract for posts.
type Repository interface {
	// Create inserts a new post and populates its ID and timestamps.
	Create(ctx context.Context, p *Post) (*Post, error)

	// Update rewrites the stored post.
	// Returns ErrPostNotFound if the post does not exist.
	Update(ctx context.Context, p *Post) (*Post, error)

	// GetByID returns the post with the given ID.
	GetByID(ctx context.Context, id int64) (*Post, error)

	// List executes the query, including its author filters, and returns
	// matching posts in ascending ID order.
	List(ctx context.Context, q *Query) ([]Post, error)
}
