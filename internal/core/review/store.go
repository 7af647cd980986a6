// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review

import "context"

// Repository defines the persistence contract for reviews and comments.
//
// Scoped lookups take the parent ID as well as the entity ID and resolve to
// NotFound when the pairing is wrong, which is what keeps cross-title and
// cross-review addressing impossible.
type Repository interface {
	// CreateReview persists a new review. ID and PubDate are filled on success.
	CreateReview(context context.Context, review *Review) error

	// FindReview retrieves a review scoped to its title.
	// Returns apperr.NotFound if the review does not exist under that title.
	FindReview(context context.Context, titleID, reviewID int64) (*Review, error)

	// ListReviews retrieves a page of reviews for a title, oldest first.
	ListReviews(context context.Context, titleID int64, limit, offset int) ([]Review, int, error)

	// UpdateReview persists text and score changes. PubDate never changes.
	UpdateReview(context context.Context, review *Review) error

	// DeleteReview removes a review scoped to its title.
	DeleteReview(context context.Context, titleID, reviewID int64) error

	// CreateComment persists a new comment. ID and PubDate are filled on success.
	CreateComment(context context.Context, comment *Comment) error

	// FindComment retrieves a comment scoped to its review.
	FindComment(context context.Context, reviewID, commentID int64) (*Comment, error)

	// ListComments retrieves a page of comments for a review, oldest first.
	ListComments(context context.Context, reviewID int64, limit, offset int) ([]Comment, int, error)

	// UpdateComment persists text changes. PubDate never changes.
	UpdateComment(context context.Context, comment *Comment) error

	// DeleteComment removes a comment scoped to its review.
	DeleteComment(context context.Context, reviewID, commentID int64) error
}
