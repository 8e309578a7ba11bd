package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/humanmade/authorship/internal/domains/user"
)

// postgresRepository implements user.Repository on pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new user repository instance.
func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `id, login, slug, display_name, email, password_hash, role, site_id, created_at`

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.Login,
		&u.Slug,
		&u.DisplayName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.SiteID,
		&u.CreatedAt,
	)
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
        INSERT INTO users (login, slug, display_name, email, password_hash, role, site_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `

	err := r.pool.QueryRow(
		ctx,
		query,
		u.Login,
		u.Slug,
		u.DisplayName,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.SiteID,
	).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return user.ErrLoginInUse
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var u user.User
	if err := scanUser(r.pool.QueryRow(ctx, query, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

func (r *postgresRepository) FindByLogin(ctx context.Context, login string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE login = $1`, userColumns)

	var u user.User
	if err := scanUser(r.pool.QueryRow(ctx, query, login), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}

	return &u, nil
}

func (r *postgresRepository) FindBySlug(ctx context.Context, slug string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE slug = $1`, userColumns)

	var u user.User
	if err := scanUser(r.pool.QueryRow(ctx, query, slug), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by slug: %w", err)
	}

	return &u, nil
}

func (r *postgresRepository) FindByIDs(ctx context.Context, ids []int64, siteID int64) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ANY($1)`, userColumns)
	args := []interface{}{ids}

	// A site ID of 0 checks all sites in the deployment.
	if siteID != 0 {
		query += ` AND site_id = $2`
		args = append(args, siteID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]user.User, len(ids))
	for rows.Next() {
		var u user.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		byID[u.ID] = u
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	// Preserve the caller's ordering. IDs that did not resolve are dropped.
	users := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}

	return users, nil
}

func (r *postgresRepository) Search(ctx context.Context, filter user.SearchFilter) ([]user.User, int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM users WHERE 1=1`, userColumns))

	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (display_name ILIKE $%d OR login ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	sortColumn := "id"
	if filter.OrderBy == "name" {
		sortColumn = "display_name"
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC", sortColumn))

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM users WHERE 1=1`
	countArgs := []interface{}{}
	if filter.Search != "" {
		countQuery += " AND (display_name ILIKE $1 OR login ILIKE $1)"
		countArgs = append(countArgs, "%"+filter.Search+"%")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return users, total, nil
}
