package user

import (
	"crypto/md5"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AuthorResponse is the restricted user representation exposed by the
// authorship endpoints. It is a deliberate subset of the full user record.
type AuthorResponse struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Link       string            `json:"link"`
	Slug       string            `json:"slug"`
	AvatarURLs map[string]string `json:"avatar_urls"`
	Roles      []string          `json:"roles,omitempty"`
}

// ToAuthorResponse converts a User to the restricted author representation.
// includeRoles is set on creation responses only.
func (u *User) ToAuthorResponse(includeRoles bool) *AuthorResponse {
	resp := &AuthorResponse{
		ID:         u.ID,
		Name:       u.DisplayName,
		Link:       fmt.Sprintf("/author/%s/", u.Slug),
		Slug:       u.Slug,
		AvatarURLs: avatarURLs(u.Email),
	}

	if includeRoles {
		resp.Roles = []string{string(u.Role)}
	}

	return resp
}

// avatarURLs builds gravatar-style URLs keyed by pixel size.
func avatarURLs(email string) map[string]string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	urls := make(map[string]string, 3)
	for _, size := range []int{24, 48, 96} {
		urls[fmt.Sprintf("%d", size)] = fmt.Sprintf("https://secure.gravatar.com/avatar/%x?s=%d&d=mm", hash, size)
	}

	return urls
}

// CreateGuestAuthorRequest - POST /authorship/v1/users
type CreateGuestAuthorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (r CreateGuestAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.Length(0, 255)),
	)
}

// LoginRequest - POST /auth/login
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
