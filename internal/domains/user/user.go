package user

import (
	"time"
)

// Role is a named set of primitive capabilities.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleEditor        Role = "editor"
	RoleAuthor        Role = "author"
	RoleContributor   Role = "contributor"
	RoleSubscriber    Role = "subscriber"

	// RoleGuestAuthor is assigned to accounts created purely as attribution
	// targets. It grants no capabilities and the account cannot log in.
	RoleGuestAuthor Role = "guest-author"
)

// User is a site member or a guest author.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Login        string    `json:"login" db:"login"`
	Slug         string    `json:"slug" db:"slug"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	SiteID       int64     `json:"site_id" db:"site_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CanLogIn reports whether the account is usable for authentication.
// Guest authors carry a generated password hash that never matches.
func (u *User) CanLogIn() bool {
	return u.Role != RoleGuestAuthor
}
