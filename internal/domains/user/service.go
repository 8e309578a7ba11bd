package user

import "context"

// Service is the user-facing surface for authentication and author
// management.
type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetByID(ctx context.Context, id int64) (*User, error)

	// SearchAuthors finds users by display name or login. Returns the
	// matching page and the total match count.
	SearchAuthors(ctx context.Context, filter *SearchFilter) ([]User, int64, error)

	// CreateGuestAuthor provisions an unprivileged user that exists only
	// to be attributed. The email is recorded only when includeEmail is
	// true; login, password and role are always generated server side.
	CreateGuestAuthor(ctx context.Context, req *CreateGuestAuthorRequest, includeEmail bool) (*User, error)
}
