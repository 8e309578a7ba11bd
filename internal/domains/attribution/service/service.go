package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/humanmade/authorship/internal/domains/attribution"
	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/user"
	"github.com/humanmade/authorship/pkg/cache"
	"github.com/humanmade/authorship/pkg/logger"
)

const (
	userSetCacheKeyPrefix = "authorship:users:"

	// Attribution changes must show up quickly, so the resolved user
	// sets are only cached for a short window.
	userSetCacheTTL = 30 * time.Second
)

type attributionService struct {
	repo  attribution.Repository
	users user.Repository
	types *post.TypeRegistry
	cache cache.Cache
}

// NewAttributionService creates a new attribution service instance.
func NewAttributionService(
	repo attribution.Repository,
	users user.Repository,
	types *post.TypeRegistry,
	cache cache.Cache,
) attribution.Service {
	return &attributionService{
		repo:  repo,
		users: users,
		types: types,
		cache: cache,
	}
}

func (s *attributionService) GetAuthorIDs(ctx context.Context, p *post.Post) ([]int64, error) {
	if !s.types.IsSupported(p.Type) {
		return []int64{p.AuthorID}, nil
	}

	return s.repo.AuthorIDs(ctx, p.ID)
}

func (s *attributionService) GetAuthors(ctx context.Context, p *post.Post) ([]user.User, error) {
	if !s.types.IsSupported(p.Type) {
		return []user.User{}, nil
	}

	ids, err := s.repo.AuthorIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []user.User{}, nil
	}

	return s.resolveUsers(ctx, ids)
}

func (s *attributionService) SetAuthors(ctx context.Context, p *post.Post, userIDs []int64) ([]user.User, error) {
	if !s.types.IsSupported(p.Type) {
		return nil, attribution.ErrUnsupportedPostType
	}

	ids := normalizeIDs(userIDs)

	users, err := s.users.FindByIDs(ctx, ids, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authors: %w", err)
	}
	if len(users) != len(ids) {
		return nil, attribution.ErrInvalidAuthors
	}

	if err := s.repo.Replace(ctx, p.ID, ids); err != nil {
		return nil, fmt.Errorf("%w: %v", attribution.ErrPersistence, err)
	}

	return users, nil
}

func (s *attributionService) UserIsAuthor(ctx context.Context, userID int64, p *post.Post) (bool, error) {
	if !s.types.IsSupported(p.Type) {
		return p.AuthorID == userID, nil
	}

	ids, err := s.repo.AuthorIDs(ctx, p.ID)
	if err != nil {
		return false, err
	}

	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}

	return false, nil
}

func (s *attributionService) ValidateAuthors(ctx context.Context, postType string, userIDs []int64) error {
	if !s.types.IsSupported(postType) {
		return attribution.ErrUnsupportedPostType
	}

	ids := normalizeIDs(userIDs)
	if len(ids) == 0 {
		return nil
	}

	users, err := s.users.FindByIDs(ctx, ids, 0)
	if err != nil {
		return fmt.Errorf("failed to resolve authors: %w", err)
	}
	if len(users) != len(ids) {
		return attribution.ErrInvalidAuthors
	}

	return nil
}

// resolveUsers looks up a set of users with a content-keyed cache. The key
// is derived from the ID list itself, so a changed list is a cache miss and
// no invalidation is needed when attributions move.
func (s *attributionService) resolveUsers(ctx context.Context, ids []int64) ([]user.User, error) {
	key := userSetCacheKey(ids)

	var cached []user.User
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	users, err := s.users.FindByIDs(ctx, ids, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authors: %w", err)
	}

	if err := s.cache.Set(ctx, key, users, userSetCacheTTL); err != nil {
		logger.Warn("failed to cache author set", err)
	}

	return users, nil
}

func userSetCacheKey(ids []int64) string {
	h := fnv.New64a()
	for _, id := range ids {
		fmt.Fprintf(h, "%d,", id)
	}
	return fmt.Sprintf("%s%x", userSetCacheKeyPrefix, h.Sum64())
}

// normalizeIDs drops non-positive IDs and duplicates while keeping order.
func normalizeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
