// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/dberr"
)

// ConstraintAuthorTitle is the named unique constraint enforcing one review
// per author and title. Raised under concurrency no matter how requests
// interleave.
const ConstraintAuthorTitle = "uq_reviews_author_title"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-backed [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Reviews

/*
CreateReview persists a new review row.

Description: The publication timestamp is assigned by the database. A
violation of the one-review-per-author constraint surfaces as a wrapped
unique-violation error for the service to translate.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: Unique-constraint violations or storage failures
*/
func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	const query = `
		INSERT INTO reviews (title_id, author_id, text, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pub_date`

	err := repository.pool.QueryRow(context, query,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
	).Scan(&review.ID, &review.PubDate)

	if err != nil {
		return fmt.Errorf("postgres_review_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindReview retrieves a review scoped to its title.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64

Returns:
  - *Review: Hydrated review with the author's username
  - error: apperr.NotFound when the pairing does not exist
*/
func (repository *PostgresRepository) FindReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	const query = `
		SELECT r.id, r.title_id, r.text, r.score, r.author_id, u.username, r.pub_date
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1 AND r.title_id = $2`

	review := &Review{}
	err := repository.pool.QueryRow(context, query, reviewID, titleID).Scan(
		&review.ID,
		&review.TitleID,
		&review.Text,
		&review.Score,
		&review.AuthorID,
		&review.Author,
		&review.PubDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_review")
	}

	return review, nil
}

/*
ListReviews retrieves a page of reviews for a title, oldest first.

Parameters:
  - context: context.Context
  - titleID: int64
  - limit: int
  - offset: int

Returns:
  - []Review: Page of reviews
  - int: Total count for the title
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, limit, offset int) ([]Review, int, error) {
	var total int
	if err := repository.pool.QueryRow(context,
		`SELECT COUNT(*) FROM reviews WHERE title_id = $1`, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	const query = `
		SELECT r.id, r.title_id, r.text, r.score, r.author_id, u.username, r.pub_date
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1
		ORDER BY r.pub_date, r.id
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	result := make([]Review, 0, limit)
	for rows.Next() {
		var review Review
		if err := rows.Scan(
			&review.ID,
			&review.TitleID,
			&review.Text,
			&review.Score,
			&review.AuthorID,
			&review.Author,
			&review.PubDate,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		result = append(result, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews_rows")
	}

	return result, total, nil
}

/*
UpdateReview persists text and score changes.

Description: Only text and score are writable; the publication timestamp is
immutable by omission from the statement.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	const query = `UPDATE reviews SET text = $2, score = $3 WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, review.ID, review.Text, review.Score); err != nil {
		return fmt.Errorf("postgres_review_repo_update_failed: %w", err)
	}

	return nil
}

/*
DeleteReview removes a review scoped to its title. Comments cascade away.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64

Returns:
  - error: apperr.NotFound when the pairing does not exist
*/
func (repository *PostgresRepository) DeleteReview(context context.Context, titleID, reviewID int64) error {
	const query = `DELETE FROM reviews WHERE id = $1 AND title_id = $2`

	tag, err := repository.pool.Exec(context, query, reviewID, titleID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

// # Comments

/*
CreateComment persists a new comment row.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Storage failures
*/
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO comments (review_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, pub_date`

	err := repository.pool.QueryRow(context, query,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
	).Scan(&comment.ID, &comment.PubDate)

	if err != nil {
		return fmt.Errorf("postgres_comment_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindComment retrieves a comment scoped to its review.

Parameters:
  - context: context.Context
  - reviewID: int64
  - commentID: int64

Returns:
  - *Comment: Hydrated comment with the author's username
  - error: apperr.NotFound when the pairing does not exist
*/
func (repository *PostgresRepository) FindComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	const query = `
		SELECT c.id, c.review_id, c.text, c.author_id, u.username, c.pub_date
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1 AND c.review_id = $2`

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, commentID, reviewID).Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.Text,
		&comment.AuthorID,
		&comment.Author,
		&comment.PubDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_comment")
	}

	return comment, nil
}

/*
ListComments retrieves a page of comments for a review, oldest first.

Parameters:
  - context: context.Context
  - reviewID: int64
  - limit: int
  - offset: int

Returns:
  - []Comment: Page of comments
  - int: Total count for the review
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, limit, offset int) ([]Comment, int, error) {
	var total int
	if err := repository.pool.QueryRow(context,
		`SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	const query = `
		SELECT c.id, c.review_id, c.text, c.author_id, u.username, c.pub_date
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1
		ORDER BY c.pub_date, c.id
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	result := make([]Comment, 0, limit)
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ReviewID,
			&comment.Text,
			&comment.AuthorID,
			&comment.Author,
			&comment.PubDate,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		result = append(result, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments_rows")
	}

	return result, total, nil
}

/*
UpdateComment persists text changes.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	const query = `UPDATE comments SET text = $2 WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, comment.ID, comment.Text); err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}

	return nil
}

/*
DeleteComment removes a comment scoped to its review.

Parameters:
  - context: context.Context
  - reviewID: int64
  - commentID: int64

Returns:
  - error: apperr.NotFound when the pairing does not exist
*/
func (repository *PostgresRepository) DeleteComment(context context.Context, reviewID, commentID int64) error {
	const query = `DELETE FROM comments WHERE id = $1 AND review_id = $2`

	tag, err := repository.pool.Exec(context, query, commentID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
