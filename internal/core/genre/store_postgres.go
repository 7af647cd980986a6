package genre

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/dberr"
)

const ConstraintSlug = "uq_genres_slug"

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, genre *Genre) error {
	const query = `INSERT INTO genres (name, slug) VALUES ($1, $2)`

	_, err := repository.pool.Exec(context, query, genre.Name, genre.Slug)
	if err != nil {
		if dberr.IsUniqueViolation(err, ConstraintSlug) {
			return apperr.Conflict("A genre with this slug already exists")
		}
		return dberr.Wrap(err, "create_genre")
	}

	return nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Genre, error) {
	const query = `SELECT name, slug FROM genres WHERE slug = $1`

	genre := &Genre{}
	err := repository.pool.QueryRow(context, query, slug).Scan(&genre.Name, &genre.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre_by_slug")
	}

	return genre, nil
}

// FindBySlugs resolves a set of slugs, preserving alphabetical order.
// Missing slugs are simply absent from the result; callers compare lengths.
func (repository *PostgresRepository) FindBySlugs(context context.Context, slugs []string) ([]Genre, error) {
	const query = `SELECT name, slug FROM genres WHERE slug = ANY($1) ORDER BY name`

	rows, err := repository.pool.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genres_by_slugs")
	}
	defer rows.Close()

	result := make([]Genre, 0, len(slugs))
	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.Name, &genre.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_genre")
		}
		result = append(result, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "get_genres_by_slugs_rows")
	}

	return result, nil
}

func (repository *PostgresRepository) List(context context.Context, search string, limit, offset int) ([]Genre, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM genres
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	const query = `
		SELECT name, slug
		FROM genres
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, search, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	result := make([]Genre, 0, limit)
	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.Name, &genre.Slug); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		result = append(result, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres_rows")
	}

	return result, total, nil
}

func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	const query = `DELETE FROM genres WHERE slug = $1`

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}

	return nil
}
