package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/humanmade/authorship/internal/domains/post"
)

// postgresRepository implements post.Repository on pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new post repository instance.
func NewPostgresRepository(pool *pgxpool.Pool) post.Repository {
	return &postgresRepository{pool: pool}
}

const postColumns = `id, post_type, status, author_id, trash_meta_status, title, slug, created_at, updated_at`

func scanPost(row pgx.Row, p *post.Post) error {
	return row.Scan(
		&p.ID,
		&p.Type,
		&p.Status,
		&p.AuthorID,
		&p.TrashMetaStatus,
		&p.Title,
		&p.Slug,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *postgresRepository) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	query := fmt.Sprintf(`
        INSERT INTO posts (post_type, status, author_id, trash_meta_status, title, slug)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING %s
    `, postColumns)

	var created post.Post
	err := scanPost(r.pool.QueryRow(
		ctx,
		query,
		p.Type,
		p.Status,
		p.AuthorID,
		p.TrashMetaStatus,
		p.Title,
		p.Slug,
	), &created)

	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &created, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	query := fmt.Sprintf(`
        UPDATE posts
        SET post_type = $1,
            status = $2,
            author_id = $3,
            trash_meta_status = $4,
            title = $5,
            slug = $6,
            updated_at = NOW()
        WHERE id = $7
        RETURNING %s
    `, postColumns)

	var updated post.Post
	err := scanPost(r.pool.QueryRow(
		ctx,
		query,
		p.Type,
		p.Status,
		p.AuthorID,
		p.TrashMetaStatus,
		p.Title,
		p.Slug,
		p.ID,
	), &updated)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return &updated, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*post.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)

	var p post.Post
	if err := scanPost(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return &p, nil
}

// List builds and runs the SQL for the query object. Native author vars
// still present on the query (the rewriter clears them for participating
// post types) generate clauses against the posts.author_id column; author
// filters generate clauses against the attribution relation.
func (r *postgresRepository) List(ctx context.Context, q *post.Query) ([]post.Post, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM posts WHERE 1=1`, postColumns))

	args := []interface{}{}
	argPos := 1

	addArg := func(value interface{}) string {
		args = append(args, value)
		placeholder := fmt.Sprintf("$%d", argPos)
		argPos++
		return placeholder
	}

	if len(q.PostType) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND post_type = ANY(%s)", addArg(q.PostType)))
	}

	if len(q.Status) > 0 {
		statuses := make([]string, len(q.Status))
		for i, s := range q.Status {
			statuses[i] = string(s)
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND status = ANY(%s)", addArg(statuses)))
	}

	// Native author vars against the owner column.
	include, exclude := nativeAuthorIDs(q)
	if len(include) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND author_id = ANY(%s)", addArg(include)))
	}
	if len(exclude) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND NOT (author_id = ANY(%s))", addArg(exclude)))
	}
	if q.AuthorName != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND author_id = (SELECT id FROM users WHERE slug = %s)", addArg(q.AuthorName)))
	}

	// Attribution relation filters.
	for _, filter := range q.AuthorFilters {
		clause := "EXISTS"
		if filter.Operator == post.FilterExclude {
			clause = "NOT EXISTS"
		}
		queryBuilder.WriteString(fmt.Sprintf(
			" AND %s (SELECT 1 FROM post_authors pa WHERE pa.post_id = posts.id AND pa.user_id = ANY(%s))",
			clause,
			addArg(filter.UserIDs),
		))
	}

	if q.WithoutAuthors {
		queryBuilder.WriteString(" AND NOT EXISTS (SELECT 1 FROM post_authors pa WHERE pa.post_id = posts.id)")
	}

	if q.WithOwner {
		queryBuilder.WriteString(" AND author_id <> 0")
	}

	queryBuilder.WriteString(" ORDER BY id ASC")

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %s OFFSET %s", addArg(perPage), addArg((page-1)*perPage)))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []post.Post
	for rows.Next() {
		var p post.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// nativeAuthorIDs splits the native author vars into include and exclude
// ID lists. Negative IDs in the `author` var mean exclusion.
func nativeAuthorIDs(q *post.Query) (include, exclude []int64) {
	if q.Author != "" {
		for _, part := range strings.Split(q.Author, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				continue
			}
			if id < 0 {
				exclude = append(exclude, -id)
			} else {
				include = append(include, id)
			}
		}
	}

	include = append(include, q.AuthorIn...)
	exclude = append(exclude, q.AuthorNotIn...)

	return include, exclude
}
