package capability

import (
	"context"
	"errors"

	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/user"
)

// Named capabilities introduced on top of the host's primitive set.
const (
	// CapCreateGuestAuthors gates guest author creation. Granted to
	// anyone who can edit others' posts.
	CapCreateGuestAuthors = "create_guest_authors"

	// CapAttributePostType gates attributing authors for a post type. It
	// takes the post type name as its argument.
	CapAttributePostType = "attribute_post_type"
)

// AuthorChecker answers attribution membership questions.
type AuthorChecker interface {
	UserIsAuthor(ctx context.Context, userID int64, p *post.Post) (bool, error)
}

// PostGetter loads posts for meta capability checks.
type PostGetter interface {
	GetByID(ctx context.Context, id int64) (*post.Post, error)
}

// Checker resolves capability checks for users, including the authorship
// rewrite for attributed authors and the named capabilities above.
type Checker struct {
	types   *post.TypeRegistry
	authors AuthorChecker
	posts   PostGetter
}

// NewChecker creates a capability checker.
func NewChecker(types *post.TypeRegistry, authors AuthorChecker, posts PostGetter) *Checker {
	return &Checker{
		types:   types,
		authors: authors,
		posts:   posts,
	}
}

// metaCapActions maps the per-post meta capabilities to their action.
// The post's own type decides which capability group applies, so the
// _post and _page spellings are equivalent.
var metaCapActions = map[string]Action{
	"edit_post":   ActionEdit,
	"edit_page":   ActionEdit,
	"delete_post": ActionDelete,
	"delete_page": ActionDelete,
	"read_post":   ActionRead,
	"read_page":   ActionRead,
}

// UserCan reports whether the user holds a capability. Meta capabilities
// take the target post ID as argument; attribute_post_type takes a post
// type name. A missing post resolves to a plain denial, not an error.
func (c *Checker) UserCan(ctx context.Context, u *user.User, capability string, args ...interface{}) (bool, error) {
	if u == nil {
		return false, nil
	}

	switch capability {
	case CapCreateGuestAuthors:
		return RoleHasCap(u.Role, "edit_others_posts"), nil

	case CapAttributePostType:
		typeName, ok := argString(args)
		if !ok {
			return false, nil
		}
		t, ok := c.types.Get(typeName)
		if !ok {
			return false, nil
		}
		return RoleHasCap(u.Role, t.Cap.EditOthersPosts), nil
	}

	if action, ok := metaCapActions[capability]; ok {
		return c.checkMetaCap(ctx, u, action, args)
	}

	return RoleHasCap(u.Role, capability), nil
}

func (c *Checker) checkMetaCap(ctx context.Context, u *user.User, action Action, args []interface{}) (bool, error) {
	postID, ok := argInt64(args)
	if !ok {
		return false, nil
	}

	p, err := c.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			return false, nil
		}
		return false, err
	}

	t, ok := c.types.Get(p.Type)
	if !ok {
		return false, nil
	}

	caps := MapMetaCap(action, u.ID, p, t)

	if t.SupportsAuthor {
		isAuthor, err := c.authors.UserIsAuthor(ctx, u.ID, p)
		if err != nil {
			return false, err
		}
		if isAuthor {
			caps = RewritePostCaps(action, t, p, caps)
		}
	}

	for _, cap := range caps {
		if cap == "do_not_allow" || !RoleHasCap(u.Role, cap) {
			return false, nil
		}
	}

	return true, nil
}

func argString(args []interface{}) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok && s != ""
}

func argInt64(args []interface{}) (int64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	switch v := args[0].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}
