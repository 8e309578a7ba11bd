package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/post/query"
	"github.com/humanmade/authorship/internal/domains/user"
)

type fakePostRepo struct {
	posts  map[int64]*post.Post
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[int64]*post.Post{}, nextID: 1}
}

func (f *fakePostRepo) Create(_ context.Context, p *post.Post) (*post.Post, error) {
	created := *p
	created.ID = f.nextID
	f.nextID++
	f.posts[created.ID] = &created
	return &created, nil
}

func (f *fakePostRepo) Update(_ context.Context, p *post.Post) (*post.Post, error) {
	if _, ok := f.posts[p.ID]; !ok {
		return nil, post.ErrPostNotFound
	}
	updated := *p
	f.posts[p.ID] = &updated
	return &updated, nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id int64) (*post.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakePostRepo) List(_ context.Context, _ *post.Query) ([]post.Post, error) {
	var out []post.Post
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

type nilUserResolver struct{}

func (nilUserResolver) FindBySlug(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func newTestPostService(repo *fakePostRepo, attr *fakeAttribution, defaults DefaultAuthorsFunc) post.Service {
	rewriter := query.NewRewriter(post.NewTypeRegistry(), nilUserResolver{})
	return NewPostService(repo, attr, rewriter, defaults)
}

func TestCreateUsesInjectedDefaultAuthors(t *testing.T) {
	repo := newFakePostRepo()
	attr := &fakeAttribution{existing: map[int64][]int64{}}

	// A deployment-supplied default that attributes a staff account
	// alongside the owner.
	defaults := func(p *post.Post) []int64 {
		return []int64{p.AuthorID, 500}
	}
	svc := newTestPostService(repo, attr, defaults)

	created, err := svc.Create(context.Background(), &post.SaveInput{
		Type:     "post",
		Title:    "Hello",
		AuthorID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, [][]int64{{7, 500}}, attr.setCalls)
	require.Equal(t, post.StatusDraft, created.Status)
}

func TestCreateNilDefaultsAttributeOwner(t *testing.T) {
	repo := newFakePostRepo()
	attr := &fakeAttribution{existing: map[int64][]int64{}}
	svc := newTestPostService(repo, attr, nil)

	_, err := svc.Create(context.Background(), &post.SaveInput{
		Type:     "post",
		Title:    "Hello",
		AuthorID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, [][]int64{{7}}, attr.setCalls)
}

func TestUpdateTrashAndRestore(t *testing.T) {
	repo := newFakePostRepo()
	attr := &fakeAttribution{existing: map[int64][]int64{}}
	svc := newTestPostService(repo, attr, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, &post.SaveInput{
		Type:     "post",
		Title:    "Hello",
		Status:   post.StatusPublish,
		AuthorID: 7,
	})
	require.NoError(t, err)

	trash := post.StatusTrash
	trashed, err := svc.Update(ctx, created.ID, &post.UpdateInput{Status: &trash})
	require.NoError(t, err)
	require.Equal(t, post.StatusTrash, trashed.Status)
	require.Equal(t, post.StatusPublish, trashed.TrashMetaStatus)

	draft := post.StatusDraft
	restored, err := svc.Update(ctx, created.ID, &post.UpdateInput{Status: &draft})
	require.NoError(t, err)
	require.Equal(t, post.StatusDraft, restored.Status)
	require.Empty(t, restored.TrashMetaStatus)
}
