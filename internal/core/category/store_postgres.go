// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package category

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/dberr"
)

// ConstraintSlug is the named unique constraint on the categories table.
const ConstraintSlug = "uq_categories_slug"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-backed [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	const query = `INSERT INTO categories (name, slug) VALUES ($1, $2)`

	_, err := repository.pool.Exec(context, query, category.Name, category.Slug)
	if err != nil {
		if dberr.IsUniqueViolation(err, ConstraintSlug) {
			return apperr.Conflict("A category with this slug already exists")
		}
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	const query = `SELECT name, slug FROM categories WHERE slug = $1`

	category := &Category{}
	err := repository.pool.QueryRow(context, query, slug).Scan(&category.Name, &category.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}

	return category, nil
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]Category, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM categories
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_categories")
	}

	const query = `
		SELECT name, slug
		FROM categories
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	result := make([]Category, 0, limit)
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.Name, &category.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		result = append(result, category)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories_rows")
	}

	return result, total, nil
}

func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	const query = `DELETE FROM categories WHERE slug = $1`

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}
