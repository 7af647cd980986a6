// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velkore/critiq/internal/core/category"
	"github.com/velkore/critiq/internal/core/genre"
	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/dberr"
)

// ConstraintCategoryNameYear is the named unique constraint preventing
// duplicate works inside one category.
const ConstraintCategoryNameYear = "uq_titles_category_name_year"

// titleSelect is the canonical hydrating projection. Scores are averaged in
// SQL; AVG ignores NULL scores and yields NULL when no scored review exists.
const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, c.name, c.slug, AVG(r.score)::float8
	FROM titles t
	LEFT JOIN categories c ON c.slug = t.category_slug
	LEFT JOIN reviews r ON r.title_id = t.id
	%s
	GROUP BY t.id, c.name, c.slug
	%s`

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-backed [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new title and its genre links atomically.

Description: Inserts the title row and the title_genres link rows inside one
transaction, so a partially linked title can never be observed.

Parameters:
  - context: context.Context
  - title: *Title
  - genreSlugs: []string

Returns:
  - error: Unique-constraint violations or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, title *Title, genreSlugs []string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "create_title_begin")
	}
	defer func() { _ = transaction.Rollback(context) }()

	const insertQuery = `
		INSERT INTO titles (name, year, description, category_slug)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err = transaction.QueryRow(context, insertQuery,
		title.Name,
		title.Year,
		title.Description,
		categorySlugOf(title),
	).Scan(&title.ID)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_create_failed: %w", err)
	}

	for _, genreSlug := range genreSlugs {
		const linkQuery = `INSERT INTO title_genres (title_id, genre_slug) VALUES ($1, $2)`
		if _, err := transaction.Exec(context, linkQuery, title.ID, genreSlug); err != nil {
			return fmt.Errorf("postgres_title_repo_link_genre_failed: %w", err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "create_title_commit")
	}

	return nil
}

/*
FindByID retrieves a fully hydrated title.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Title: Title with category, genres, and rating
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(titleSelect, "WHERE t.id = $1", "")

	title := &Title{}
	if err := scanTitle(repository.pool.QueryRow(context, query, id), title); err != nil {
		return nil, dberr.Wrap(err, "get_title_by_id")
	}

	genresByTitle, err := repository.loadGenres(context, []int64{id})
	if err != nil {
		return nil, err
	}
	title.Genres = genresByTitle[id]
	if title.Genres == nil {
		title.Genres = make([]genre.Genre, 0)
	}

	return title, nil
}

/*
List retrieves a page of hydrated titles matching the filter.

Description: Builds the WHERE clause dynamically from the populated filter
fields, aggregates ratings in the same query, then attaches genre sets with
one follow-up query for the whole page.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []Title: Page of titles
  - int: Total matching count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]Title, int, error) {
	where, args := buildFilter(filter)

	countQuery := "SELECT COUNT(*) FROM titles t " + where
	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_titles")
	}

	pageArgs := append(args, limit, offset)
	tail := fmt.Sprintf("ORDER BY t.name, t.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	query := fmt.Sprintf(titleSelect, where, tail)

	rows, err := repository.pool.Query(context, query, pageArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	result := make([]Title, 0, limit)
	ids := make([]int64, 0, limit)
	for rows.Next() {
		var title Title
		if err := scanTitle(rows, &title); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		result = append(result, title)
		ids = append(ids, title.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles_rows")
	}

	genresByTitle, err := repository.loadGenres(context, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range result {
		result[i].Genres = genresByTitle[result[i].ID]
		if result[i].Genres == nil {
			result[i].Genres = make([]genre.Genre, 0)
		}
	}

	return result, total, nil
}

/*
Update persists changes to a title, optionally replacing its genre links.

Parameters:
  - context: context.Context
  - title: *Title
  - genreSlugs: *[]string (nil leaves links untouched)

Returns:
  - error: Unique-constraint violations or storage failures
*/
func (repository *PostgresRepository) Update(context context.Context, title *Title, genreSlugs *[]string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "update_title_begin")
	}
	defer func() { _ = transaction.Rollback(context) }()

	const updateQuery = `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_slug = $5
		WHERE id = $1`

	if _, err := transaction.Exec(context, updateQuery,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		categorySlugOf(title),
	); err != nil {
		return fmt.Errorf("postgres_title_repo_update_failed: %w", err)
	}

	if genreSlugs != nil {
		// Wholesale replacement keeps the link set equal to the request.
		if _, err := transaction.Exec(context, `DELETE FROM title_genres WHERE title_id = $1`, title.ID); err != nil {
			return fmt.Errorf("postgres_title_repo_unlink_genres_failed: %w", err)
		}
		for _, genreSlug := range *genreSlugs {
			const linkQuery = `INSERT INTO title_genres (title_id, genre_slug) VALUES ($1, $2)`
			if _, err := transaction.Exec(context, linkQuery, title.ID, genreSlug); err != nil {
				return fmt.Errorf("postgres_title_repo_link_genre_failed: %w", err)
			}
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "update_title_commit")
	}

	return nil
}

/*
Delete removes a title by ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound when no title matched, or execution failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// # Internals

// scanRow is the minimal scan surface shared by pgx.Row and pgx.Rows.
type scanRow interface {
	Scan(dest ...any) error
}

// scanTitle hydrates the canonical projection including the nullable category
// and the nullable average rating.
func scanTitle(row scanRow, title *Title) error {
	var categoryName, categorySlug *string

	if err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&categoryName,
		&categorySlug,
		&title.Rating,
	); err != nil {
		return err
	}

	if categorySlug != nil {
		title.Category = &category.Category{Name: *categoryName, Slug: *categorySlug}
	}

	return nil
}

// buildFilter converts the populated filter fields into a WHERE clause with
// positional arguments.
func buildFilter(filter Filter) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		clauses = append(clauses, fmt.Sprintf("t.category_slug = $%d", len(args)))
	}
	if len(filter.GenreSlugs) > 0 {
		args = append(args, filter.GenreSlugs)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM title_genres tg WHERE tg.title_id = t.id AND tg.genre_slug = ANY($%d))", len(args)))
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		clauses = append(clauses, fmt.Sprintf("t.name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		clauses = append(clauses, fmt.Sprintf("t.year = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// loadGenres fetches the genre sets for a batch of titles in one query.
func (repository *PostgresRepository) loadGenres(context context.Context, titleIDs []int64) (map[int64][]genre.Genre, error) {
	if len(titleIDs) == 0 {
		return map[int64][]genre.Genre{}, nil
	}

	const query = `
		SELECT tg.title_id, g.name, g.slug
		FROM title_genres tg
		JOIN genres g ON g.slug = tg.genre_slug
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name`

	rows, err := repository.pool.Query(context, query, titleIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "load_title_genres")
	}
	defer rows.Close()

	genresByTitle := make(map[int64][]genre.Genre, len(titleIDs))
	for rows.Next() {
		var titleID int64
		var item genre.Genre
		if err := rows.Scan(&titleID, &item.Name, &item.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_title_genre")
		}
		genresByTitle[titleID] = append(genresByTitle[titleID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "load_title_genres_rows")
	}

	return genresByTitle, nil
}

// categorySlugOf extracts the nullable category slug for persistence.
func categorySlugOf(title *Title) *string {
	if title.Category == nil {
		return nil
	}
	return &title.Category.Slug
}
