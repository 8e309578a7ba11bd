package user

import (
	"context"
)

// SearchFilter describes a restricted user search.
type SearchFilter struct {
	Search  string
	OrderBy string // "id" or "name"
	Page    int
	PerPage int
}

// Repository is the data access contract for users.
type Repository interface {
	// Create inserts a new user and populates its ID.
	// Returns ErrLoginInUse if the login is already taken.
	Create(ctx context.Context, u *User) error

	// FindByID returns the user with the given ID on any site.
	// Returns ErrUserNotFound if it does not exist.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByLogin returns the user with the given login.
	FindByLogin(ctx context.Context, login string) (*User, error)

	// FindBySlug returns the user with the given slug.
	FindBySlug(ctx context.Context, slug string) (*User, error)

	// FindByIDs resolves the given IDs to users, ordered to match the input
	// order. IDs that do not resolve are silently dropped. A siteID of 0
	// spans every site in the deployment.
	FindByIDs(ctx context.Context, ids []int64, siteID int64) ([]User, error)

	// Search returns users whose display name or login matches the search
	// term, with the total number of matches.
	Search(ctx context.Context, filter SearchFilter) ([]User, int64, error)
}
