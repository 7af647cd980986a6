// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/velkore/critiq/internal/authz"
	"github.com/velkore/critiq/internal/core/title"
	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/dberr"
	"github.com/velkore/critiq/internal/platform/validate"
	"github.com/velkore/critiq/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for reviews and comments.
//
// Object-level authorization happens here, after the target entity is
// loaded, so ownership is always checked against stored state.
type Service struct {
	repository      Repository
	titleRepository title.Repository
	logger          *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(repository Repository, titleRepo title.Repository, logger *slog.Logger) *Service {
	return &Service{
		repository:      repository,
		titleRepository: titleRepo,
		logger:          logger,
	}
}

// # Reviews

// CreateReviewInput holds the fields for a new review.
type CreateReviewInput struct {
	Text  string
	Score *int
}

/*
CreateReview publishes a review on a title.

Description: The title must exist, the caller must be authenticated, and the
one-review-per-author rule is enforced by the storage constraint so it holds
under concurrent requests.

Parameters:
  - context: context.Context
  - actor: authz.Actor
  - titleID: int64
  - input: CreateReviewInput

Returns:
  - *Review: The published review, hydrated with the author's username
  - error: Authorization, validation, not-found, or conflict failures
*/
func (service *Service) CreateReview(context context.Context, actor authz.Actor, titleID int64, input CreateReviewInput) (*Review, error) {
	if err := authz.Decide(authz.ReviewMutation, actor, authz.ActionCreate, nil); err != nil {
		return nil, err
	}

	if _, err := service.titleRepository.FindByID(context, titleID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		Score(FieldScore, input.Score)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	review := &Review{
		TitleID:  titleID,
		Text:     input.Text,
		Score:    input.Score,
		AuthorID: actor.ID,
	}

	if err := service.repository.CreateReview(context, review); err != nil {
		if dberr.IsUniqueViolation(err, ConstraintAuthorTitle) {
			return nil, apperr.Conflict("You have already reviewed this title")
		}
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.logger.Info("review_published",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.String("author_id", actor.ID),
	)

	// Re-read to attach the author's username.
	return service.repository.FindReview(context, titleID, review.ID)
}

/*
GetReview retrieves a single review addressed through its title.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64

Returns:
  - *Review: Hydrated review
  - error: apperr.NotFound when the pairing does not exist
*/
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	return service.repository.FindReview(context, titleID, reviewID)
}

/*
ListReviews retrieves a page of reviews for a title.

Parameters:
  - context: context.Context
  - titleID: int64
  - params: pagination.Params

Returns:
  - []Review: Page of reviews, oldest first
  - int: Total count
  - error: apperr.NotFound for an unknown title, or retrieval failures
*/
func (service *Service) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]Review, int, error) {
	if _, err := service.titleRepository.FindByID(context, titleID); err != nil {
		return nil, 0, err
	}

	return service.repository.ListReviews(context, titleID, params.Limit, params.Offset())
}

// UpdateReviewInput defines the mutable subset of review fields.
type UpdateReviewInput struct {
	Text  *string
	Score *int
}

/*
UpdateReview applies a partial change to a review.

Description: Only the author, a moderator, or an admin may edit. The
publication timestamp is immutable, and editing never re-runs the duplicate
check since the (author, title) pairing cannot change.

Parameters:
  - context: context.Context
  - actor: authz.Actor
  - titleID: int64
  - reviewID: int64
  - input: UpdateReviewInput

Returns:
  - *Review: The updated review
  - error: Authorization, validation, or not-found failures
*/
func (service *Service) UpdateReview(context context.Context, actor authz.Actor, titleID, reviewID int64, input UpdateReviewInput) (*Review, error) {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authz.Decide(authz.ReviewMutation, actor, authz.ActionUpdate, review); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required(FieldText, *input.Text)
	}
	validator.Score(FieldScore, input.Score)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = input.Score
	}

	if err := service.repository.UpdateReview(context, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.logger.Info("review_updated", slog.Int64("review_id", review.ID))

	return review, nil
}

/*
DeleteReview removes a review and its comment thread.

Parameters:
  - context: context.Context
  - actor: authz.Actor
  - titleID: int64
  - reviewID: int64

Returns:
  - error: Authorization or not-found failures
*/
func (service *Service) DeleteReview(context context.Context, actor authz.Actor, titleID, reviewID int64) error {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := authz.Decide(authz.ReviewMutation, actor, authz.ActionDelete, review); err != nil {
		return err
	}

	if err := service.repository.DeleteReview(context, titleID, reviewID); err != nil {
		return err
	}

	service.logger.Info("review_deleted",
		slog.Int64("review_id", reviewID),
		slog.String("actor_id", actor.ID),
	)

	return nil
}

// # Comments

/*
CreateComment publishes a comment under a review.

Description: The review is resolved through the declared title, so a comment
can never be attached through a mismatched title path.

Parameters:
  - context: context.Context
  - actor: authz.Actor
  - titleID: int64
  - reviewID: int64
  - text: string

Returns:
  - *Comment: The published comment
  - error: Authorization, validation, or not-found failures
*/
func (service *Service) CreateComment(context context.Context, actor authz.Actor, titleID, reviewID int64, text string) (*Comment, error) {
	if err := authz.Decide(authz.ReviewMutation, actor, authz.ActionCreate, nil); err != nil {
		return nil, err
	}

	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: review.ID,
		Text:     text,
		AuthorID: actor.ID,
	}

	if err := service.repository.CreateComment(context, comment); err != nil {
		return nil, fmt.Errorf("review_service_create_comment_failed: %w", err)
	}

	service.logger.Info("comment_published",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", review.ID),
	)

	return service.repository.FindComment(context, review.ID, comment.ID)
}

/*
GetComment retrieves a comment addressed through its title and review.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64
  - commentID: int64

Returns:
  - *Comment: Hydrated comment
  - error: apperr.NotFound when any link in the path is wrong
*/
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	return service.repository.FindComment(context, review.ID, commentID)
}

/*
ListComments retrieves a page of comments for a review.

Parameters:
  - context: context.Context
  - titleID: int64
  - reviewID: int64
  - params: pagination.Params

Returns:
  - []Comment: Page of comments, oldest first
  - int: Total count
  - error: apperr.NotFound for a wrong title/review pairing
*/
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, params pagination.Params) ([]Comment, int, error) {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, 0, err
	}

	return service.repository.ListComments(context, review.ID, params.Limit, params.Offset())
}

/*
UpdateComment applies a text change to a comment.

Parameters:
  - context: context.Context
  - actor: authz.Actor
  - titleID: int64
  - reviewID: int64
  - commentID: int64
  - text: *string (nil leaves the text unchanged)

Returns:
  - *Comment: The updated comment
  - error: Authorization, validation, or not-found failures
*/
func (service *Service) UpdateComment(context context.Context, actor authz.Actor, titleID, reviewID, commentID int64, text *string) (*Comment, error) {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comment, err := service.repository.FindComment(context, review.ID, commentID)
	if err != nil {
		return nil, err
	}

	if err := authz.Decide(authz.ReviewMutation, actor, authz.ActionUpdate, comment); err != nil {
		return nil, err
	}

	if text != nil {
		validator := &validate.Validator{}
		validator.Required(FieldText, *text)
		if err := validator.Err(); err != nil {
			return nil, err
		}
		comment.Text = *text
	}

	if err := service.repository.UpdateComment(context, comment); err != nil {
		return nil, fmt.Errorf("review_service_update_comment_failed: %w", err)
	}

	service.logger.Info("comment_updated", slog.Int64("comment_id", comment.ID))

	return comment, nil
}

/*
DeleteComment removes a comment.

Parameters:
  - context: context.Context
  - actor: authz.Actor
  - titleID: int64
  - reviewID: int64
  - commentID: int64

Returns:
  - error: Authorization or not-found failures
*/
func (service *Service) DeleteComment(context context.Context, actor authz.Actor, titleID, reviewID, commentID int64) error {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	comment, err := service.repository.FindComment(context, review.ID, commentID)
	if err != nil {
		return err
	}

	if err := authz.Decide(authz.ReviewMutation, actor, authz.ActionDelete, comment); err != nil {
		return err
	}

	if err := service.repository.DeleteComment(context, review.ID, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.Int64("comment_id", commentID),
		slog.String("actor_id", actor.ID),
	)

	return nil
}
