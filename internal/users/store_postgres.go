// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

// PostgreSQL implementation of the users storage layer.
//
// # Architecture
//
// The repository is strictly separated from domain logic. It implements the
// domain-defined [Repository] interface using the [pgxpool.Pool] connection
// manager.
//
// # Error Mapping
//
// pgx.ErrNoRows is mapped to apperr.NotFound here. Constraint violations are
// passed through wrapped so the service layer can translate them into
// field-specific conflict messages.

package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velkore/critiq/internal/platform/apperr"
)

// Named unique constraints on the users table. The service layer matches on
// these to produce precise conflict messages.
const (
	ConstraintUsername = "uq_users_username"
	ConstraintEmail    = "uq_users_email"
)

const userColumns = `id, username, email, first_name, last_name, bio, role, is_superuser, created_at, updated_at`

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new user record into the users table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Unique-constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, username, email, first_name, last_name, bio, role, is_superuser, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return repository.scanOne(repository.pool.QueryRow(context, query, id), "postgres_user_repo_find_by_id_failed")
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for administration and profile resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1`

	return repository.scanOne(repository.pool.QueryRow(context, query, username), "postgres_user_repo_find_by_username_failed")
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`

	return repository.scanOne(repository.pool.QueryRow(context, query, email), "postgres_user_repo_find_by_email_failed")
}

/*
List retrieves a page of user accounts ordered by username.

Description: Supports an optional case-insensitive username substring filter
used by the admin search box.

Parameters:
  - context: context.Context
  - search: string
  - limit: int
  - offset: int

Returns:
  - []User: Page of accounts
  - int: Total matching count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]User, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM users
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')
		ORDER BY username
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	result := make([]User, 0, limit)
	for rows.Next() {
		var user User
		if err := scanUser(rows, &user); err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		result = append(result, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return result, total, nil
}

/*
Update persists changes to a user's mutable fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updated_at timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Unique-constraint violations or update failures
*/
func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users
		SET username = $2, email = $3, first_name = $4, last_name = $5, bio = $6, role = $7, updated_at = $8
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete permanently removes a user account by username.

Description: Hard deletion. Reviews and comments authored by the user are
removed by cascading foreign keys.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound when no account matched, or execution failures
*/
func (repository *PostgresRepository) Delete(context context.Context, username string) error {
	const query = "DELETE FROM users WHERE username = $1"

	tag, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// scanOne hydrates a single user from a query row, mapping empty results to NotFound.
func (repository *PostgresRepository) scanOne(row pgx.Row, action string) (*User, error) {
	user := &User{}
	if err := scanUser(row, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return user, nil
}

// scanUser reads the canonical user column set into the entity.
func scanUser(row pgx.Row, user *User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
