package capability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/user"
)

type fakeAuthorChecker struct {
	authors map[int64][]int64
}

func (f *fakeAuthorChecker) UserIsAuthor(_ context.Context, userID int64, p *post.Post) (bool, error) {
	for _, id := range f.authors[p.ID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakePostGetter struct {
	posts map[int64]*post.Post
}

func (f *fakePostGetter) GetByID(_ context.Context, id int64) (*post.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	return p, nil
}

func newTestChecker(posts map[int64]*post.Post, authors map[int64][]int64) *Checker {
	return NewChecker(
		post.NewTypeRegistry(),
		&fakeAuthorChecker{authors: authors},
		&fakePostGetter{posts: posts},
	)
}

func TestRewritePostCaps(t *testing.T) {
	types := post.NewTypeRegistry()
	postType, _ := types.Get("post")

	tests := []struct {
		name   string
		action Action
		p      *post.Post
		caps   []string
		want   []string
	}{
		{
			name:   "editing a draft requires the base capability",
			action: ActionEdit,
			p:      &post.Post{Status: post.StatusDraft},
			caps:   []string{"edit_others_posts"},
			want:   []string{"edit_posts"},
		},
		{
			name:   "editing a published post requires the published capability",
			action: ActionEdit,
			p:      &post.Post{Status: post.StatusPublish},
			caps:   []string{"edit_others_posts", "edit_published_posts"},
			want:   []string{"edit_published_posts"},
		},
		{
			name:   "scheduled posts count as published",
			action: ActionEdit,
			p:      &post.Post{Status: post.StatusFuture},
			caps:   []string{"edit_others_posts", "edit_published_posts"},
			want:   []string{"edit_published_posts"},
		},
		{
			name:   "private posts lose the private variant",
			action: ActionEdit,
			p:      &post.Post{Status: post.StatusPrivate},
			caps:   []string{"edit_others_posts", "edit_private_posts"},
			want:   []string{"edit_posts"},
		},
		{
			name:   "trashed post judged on its pre-trash status",
			action: ActionDelete,
			p:      &post.Post{Status: post.StatusTrash, TrashMetaStatus: post.StatusPublish},
			caps:   []string{"delete_others_posts", "delete_published_posts"},
			want:   []string{"delete_published_posts"},
		},
		{
			name:   "trashed draft falls back to the base capability",
			action: ActionDelete,
			p:      &post.Post{Status: post.StatusTrash, TrashMetaStatus: post.StatusDraft},
			caps:   []string{"delete_others_posts"},
			want:   []string{"delete_posts"},
		},
		{
			name:   "reading drops the private read variant",
			action: ActionRead,
			p:      &post.Post{Status: post.StatusPrivate},
			caps:   []string{"read_private_posts"},
			want:   []string{"read"},
		},
		{
			name:   "unrelated capabilities survive the rewrite",
			action: ActionEdit,
			p:      &post.Post{Status: post.StatusDraft},
			caps:   []string{"moderate_comments", "edit_others_posts"},
			want:   []string{"moderate_comments", "edit_posts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewritePostCaps(tt.action, postType, tt.p, tt.caps)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUserCanEditAttributedPost(t *testing.T) {
	posts := map[int64]*post.Post{
		1: {ID: 1, Type: "post", Status: post.StatusPublish, AuthorID: 10},
		2: {ID: 2, Type: "post", Status: post.StatusPublish, AuthorID: 10},
	}
	authors := map[int64][]int64{
		1: {10, 20},
	}
	checker := newTestChecker(posts, authors)
	ctx := context.Background()

	author := &user.User{ID: 20, Role: user.RoleAuthor}

	// Attributed on post 1, so the others' requirement is lifted.
	can, err := checker.UserCan(ctx, author, "edit_post", int64(1))
	require.NoError(t, err)
	require.True(t, can)

	// Not attributed on post 2, and authors cannot edit others' posts.
	can, err = checker.UserCan(ctx, author, "edit_post", int64(2))
	require.NoError(t, err)
	require.False(t, can)
}

func TestUserCanContributorCannotEditPublished(t *testing.T) {
	posts := map[int64]*post.Post{
		1: {ID: 1, Type: "post", Status: post.StatusPublish, AuthorID: 10},
		2: {ID: 2, Type: "post", Status: post.StatusDraft, AuthorID: 10},
	}
	authors := map[int64][]int64{
		1: {30},
		2: {30},
	}
	checker := newTestChecker(posts, authors)
	ctx := context.Background()

	contributor := &user.User{ID: 30, Role: user.RoleContributor}

	// Attribution lifts the others' requirement, but a published post
	// still needs edit_published_posts, which contributors lack.
	can, err := checker.UserCan(ctx, contributor, "edit_post", int64(1))
	require.NoError(t, err)
	require.False(t, can)

	can, err = checker.UserCan(ctx, contributor, "edit_post", int64(2))
	require.NoError(t, err)
	require.True(t, can)
}

func TestUserCanOwnerUnaffectedByAttribution(t *testing.T) {
	posts := map[int64]*post.Post{
		1: {ID: 1, Type: "post", Status: post.StatusDraft, AuthorID: 10},
	}
	checker := newTestChecker(posts, map[int64][]int64{})
	ctx := context.Background()

	owner := &user.User{ID: 10, Role: user.RoleAuthor}

	can, err := checker.UserCan(ctx, owner, "edit_post", int64(1))
	require.NoError(t, err)
	require.True(t, can)
}

func TestUserCanMissingPost(t *testing.T) {
	checker := newTestChecker(map[int64]*post.Post{}, map[int64][]int64{})

	can, err := checker.UserCan(context.Background(), &user.User{ID: 1, Role: user.RoleAdministrator}, "edit_post", int64(99))
	require.NoError(t, err)
	require.False(t, can)
}

func TestUserCanNamedCapabilities(t *testing.T) {
	checker := newTestChecker(map[int64]*post.Post{}, map[int64][]int64{})
	ctx := context.Background()

	tests := []struct {
		name       string
		role       user.Role
		capability string
		args       []interface{}
		want       bool
	}{
		{"editor can create guest authors", user.RoleEditor, CapCreateGuestAuthors, nil, true},
		{"author cannot create guest authors", user.RoleAuthor, CapCreateGuestAuthors, nil, false},
		{"guest author holds nothing", user.RoleGuestAuthor, CapCreateGuestAuthors, nil, false},
		{"editor can attribute posts", user.RoleEditor, CapAttributePostType, []interface{}{"post"}, true},
		{"editor can attribute pages", user.RoleEditor, CapAttributePostType, []interface{}{"page"}, true},
		{"author cannot attribute posts", user.RoleAuthor, CapAttributePostType, []interface{}{"post"}, false},
		{"unknown type cannot be attributed", user.RoleAdministrator, CapAttributePostType, []interface{}{"revision"}, false},
		{"missing type argument denies", user.RoleAdministrator, CapAttributePostType, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			can, err := checker.UserCan(ctx, &user.User{ID: 1, Role: tt.role}, tt.capability, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, can)
		})
	}
}

func TestUserCanNilUser(t *testing.T) {
	checker := newTestChecker(map[int64]*post.Post{}, map[int64][]int64{})

	can, err := checker.UserCan(context.Background(), nil, CapCreateGuestAuthors)
	require.NoError(t, err)
	require.False(t, can)
}
