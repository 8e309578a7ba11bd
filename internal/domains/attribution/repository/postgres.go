package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/humanmade/authorship/internal/domains/attribution"
	"github.com/humanmade/authorship/pkg/cache"
	"github.com/humanmade/authorship/pkg/logger"
)

const (
	postAuthorsCacheKeyPrefix = "authorship:post:"
	postAuthorsCacheTTL       = 30 * time.Second
)

// postgresRepository implements attribution.Repository on pgxpool with a
// short-lived read cache in front of the relation table.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new attribution repository instance.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) attribution.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

func cacheKey(postID int64) string {
	return fmt.Sprintf("%s%d", postAuthorsCacheKeyPrefix, postID)
}

func (r *postgresRepository) AuthorIDs(ctx context.Context, postID int64) ([]int64, error) {
	key := cacheKey(postID)

	var cached []int64
	if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	rows, err := r.pool.Query(ctx, `
        SELECT user_id FROM post_authors
        WHERE post_id = $1
        ORDER BY position ASC
    `, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query post authors: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan author id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post authors: %w", err)
	}

	if err := r.cache.Set(ctx, key, ids, postAuthorsCacheTTL); err != nil {
		logger.Warn("failed to cache post authors", err)
	}

	return ids, nil
}

func (r *postgresRepository) Replace(ctx context.Context, postID int64, userIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM post_authors WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear post authors: %w", err)
	}

	for position, userID := range userIDs {
		_, err := tx.Exec(ctx, `
            INSERT INTO post_authors (post_id, user_id, position)
            VALUES ($1, $2, $3)
        `, postID, userID, position)
		if err != nil {
			return fmt.Errorf("failed to insert post author: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit post authors: %w", err)
	}

	if err := r.cache.Delete(ctx, cacheKey(postID)); err != nil {
		logger.Warn("failed to invalidate post authors cache", err)
	}

	return nil
}
