package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/humanmade/authorship/internal/domains/attribution"
	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/user"
)

type fakeRepo struct {
	authors  map[int64][]int64
	replaced int
}

func (f *fakeRepo) AuthorIDs(_ context.Context, postID int64) ([]int64, error) {
	return f.authors[postID], nil
}

func (f *fakeRepo) Replace(_ context.Context, postID int64, userIDs []int64) error {
	f.authors[postID] = userIDs
	f.replaced++
	return nil
}

type fakeUserRepo struct {
	users map[int64]user.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *user.User) error { return nil }

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByLogin(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) FindBySlug(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []int64, _ int64) ([]user.User, error) {
	var out []user.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Search(_ context.Context, _ user.SearchFilter) ([]user.User, int64, error) {
	return nil, 0, nil
}

type noopCache struct{}

func (noopCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) { return false, nil }
func (noopCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (noopCache) Delete(_ context.Context, _ ...string) error       { return nil }
func (noopCache) DeletePattern(_ context.Context, _ string) error   { return nil }
func (noopCache) Ping(_ context.Context) error                      { return nil }

func newTestService(repo *fakeRepo, users *fakeUserRepo) attribution.Service {
	return NewAttributionService(repo, users, post.NewTypeRegistry(), noopCache{})
}

func standardUsers() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]user.User{
		1: {ID: 1, DisplayName: "Alice"},
		2: {ID: 2, DisplayName: "Bob"},
		3: {ID: 3, DisplayName: "Carol"},
	}}
}

func TestSetAuthorsRoundTripKeepsOrder(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{}}
	svc := newTestService(repo, standardUsers())
	ctx := context.Background()

	p := &post.Post{ID: 1, Type: "post"}

	users, err := svc.SetAuthors(ctx, p, []int64{3, 1, 2})
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "Carol", users[0].DisplayName)
	require.Equal(t, "Alice", users[1].DisplayName)
	require.Equal(t, "Bob", users[2].DisplayName)

	ids, err := svc.GetAuthorIDs(ctx, p)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1, 2}, ids)
}

func TestSetAuthorsNormalizesInput(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{}}
	svc := newTestService(repo, standardUsers())

	_, err := svc.SetAuthors(context.Background(), &post.Post{ID: 1, Type: "post"}, []int64{2, 0, 2, -5, 1})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 1}, repo.authors[1])
}

func TestSetAuthorsUnsupportedType(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{}}
	svc := newTestService(repo, standardUsers())

	_, err := svc.SetAuthors(context.Background(), &post.Post{ID: 1, Type: "revision"}, []int64{1})
	require.ErrorIs(t, err, attribution.ErrUnsupportedPostType)
	require.Zero(t, repo.replaced)
}

func TestSetAuthorsInvalidUserWritesNothing(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{1: {3}}}
	svc := newTestService(repo, standardUsers())

	_, err := svc.SetAuthors(context.Background(), &post.Post{ID: 1, Type: "post"}, []int64{1, 99})
	require.ErrorIs(t, err, attribution.ErrInvalidAuthors)
	require.Zero(t, repo.replaced)
	require.Equal(t, []int64{3}, repo.authors[1])
}

func TestGetAuthorsUnsupportedTypeIsEmpty(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{}}
	svc := newTestService(repo, standardUsers())

	users, err := svc.GetAuthors(context.Background(), &post.Post{ID: 1, Type: "revision", AuthorID: 2})
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestGetAuthorIDsUnsupportedTypeFallsBackToOwner(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{}}
	svc := newTestService(repo, standardUsers())

	ids, err := svc.GetAuthorIDs(context.Background(), &post.Post{ID: 1, Type: "revision", AuthorID: 2})
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids)
}

func TestUserIsAuthor(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{1: {1, 3}}}
	svc := newTestService(repo, standardUsers())
	ctx := context.Background()

	supported := &post.Post{ID: 1, Type: "post", AuthorID: 2}

	is, err := svc.UserIsAuthor(ctx, 3, supported)
	require.NoError(t, err)
	require.True(t, is)

	// The owner column does not count for participating types.
	is, err = svc.UserIsAuthor(ctx, 2, supported)
	require.NoError(t, err)
	require.False(t, is)

	// For non-participating types the owner is the author.
	unsupported := &post.Post{ID: 2, Type: "revision", AuthorID: 2}
	is, err = svc.UserIsAuthor(ctx, 2, unsupported)
	require.NoError(t, err)
	require.True(t, is)
}

func TestValidateAuthors(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{}}
	svc := newTestService(repo, standardUsers())
	ctx := context.Background()

	require.NoError(t, svc.ValidateAuthors(ctx, "post", []int64{1, 2}))
	require.ErrorIs(t, svc.ValidateAuthors(ctx, "revision", []int64{1}), attribution.ErrUnsupportedPostType)
	require.ErrorIs(t, svc.ValidateAuthors(ctx, "post", []int64{1, 99}), attribution.ErrInvalidAuthors)
}

type recordingCache struct {
	noopCache
	ttls []time.Duration
}

func (r *recordingCache) Set(_ context.Context, _ string, _ interface{}, ttl time.Duration) error {
	r.ttls = append(r.ttls, ttl)
	return nil
}

func TestResolvedAuthorsCacheShortLived(t *testing.T) {
	repo := &fakeRepo{authors: map[int64][]int64{1: {1, 2}}}
	cache := &recordingCache{}
	svc := NewAttributionService(repo, standardUsers(), post.NewTypeRegistry(), cache)

	_, err := svc.GetAuthors(context.Background(), &post.Post{ID: 1, Type: "post"})
	require.NoError(t, err)
	require.Len(t, cache.ttls, 1)
	require.Equal(t, 30*time.Second, cache.ttls[0])
}
