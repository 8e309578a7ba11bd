package post

import "context"

// Service is the post save and listing surface. Saves run the default
// attribution pass so every new post of a participating type ends up
// with an author list.
type Service interface {
	Create(ctx context.Context, input *SaveInput) (*Post, error)
	Update(ctx context.Context, id int64, input *UpdateInput) (*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)

	// List executes a query with the author vars rewritten against the
	// attribution relation.
	List(ctx context.Context, q *Query) ([]Post, error)
}
