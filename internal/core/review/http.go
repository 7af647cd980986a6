// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
HTTP delivery layer for reviews and comments.

The router is mounted under /titles/{titleID}/reviews, so every handler
reads the title ID from the parent route pattern before resolving deeper.
*/

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velkore/critiq/internal/authz"
	requestutil "github.com/velkore/critiq/internal/platform/request"
	"github.com/velkore/critiq/internal/platform/respond"
	"github.com/velkore/critiq/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements review and comment HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with review and comment routes.
//
// # Endpoints
//   - GET    /                                  : Lists reviews for a title (public).
//   - POST   /                                  : Publishes a review (authenticated).
//   - GET    /{reviewID}                        : Returns a review (public).
//   - PATCH  /{reviewID}                        : Edits a review (author/staff).
//   - DELETE /{reviewID}                        : Removes a review (author/staff).
//   - GET    /{reviewID}/comments               : Lists comments (public).
//   - POST   /{reviewID}/comments               : Publishes a comment (authenticated).
//   - GET    /{reviewID}/comments/{commentID}   : Returns a comment (public).
//   - PATCH  /{reviewID}/comments/{commentID}   : Edits a comment (author/staff).
//   - DELETE /{reviewID}/comments/{commentID}   : Removes a comment (author/staff).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)
	router.Get("/{reviewID}", handler.getReview)
	router.Patch("/{reviewID}", handler.updateReview)
	router.Delete("/{reviewID}", handler.deleteReview)

	router.Get("/{reviewID}/comments", handler.listComments)
	router.Post("/{reviewID}/comments", handler.createComment)
	router.Get("/{reviewID}/comments/{commentID}", handler.getComment)
	router.Patch("/{reviewID}/comments/{commentID}", handler.updateComment)
	router.Delete("/{reviewID}/comments/{commentID}", handler.deleteComment)

	return router
}

// # Request Payloads

type createReviewRequest struct {
	Text  string `json:"text"`
	Score *int   `json:"score"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type updateCommentRequest struct {
	Text *string `json:"text"`
}

func actorFrom(request *http.Request) authz.Actor {
	return authz.ActorFromClaims(requestutil.Claims(request))
}

// # Review Handlers

/*
ListReviews returns a page of reviews for a title.

GET /api/v1/titles/{titleID}/reviews?page=&limit=

Response:
  - 200: []Review: Page of reviews with pagination metadata
  - 404: ErrNotFound: No such title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	result, total, err := handler.service.ListReviews(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
CreateReview publishes a review on a title.

POST /api/v1/titles/{titleID}/reviews

Request:
  - Body: createReviewRequest (Text, Score)

Response:
  - 201: Review: Published review
  - 401: ErrUnauthorized: Anonymous caller
  - 404: ErrNotFound: No such title
  - 409: ErrConflict: Caller already reviewed this title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), actorFrom(request), titleID, CreateReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

/*
GetReview returns a single review.

GET /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review: The review
  - 404: ErrNotFound: Wrong title/review pairing
*/
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
UpdateReview applies a partial change to a review.

PATCH /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review: Updated review
  - 403: ErrForbidden: Caller is neither author nor staff
  - 404: ErrNotFound: Wrong title/review pairing
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), actorFrom(request), titleID, reviewID, UpdateReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
DeleteReview removes a review and its comments.

DELETE /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 204: No Content: Review removed
  - 403: ErrForbidden: Caller is neither author nor staff
  - 404: ErrNotFound: Wrong title/review pairing
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), actorFrom(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Handlers

/*
ListComments returns a page of comments under a review.

GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments?page=&limit=

Response:
  - 200: []Comment: Page of comments with pagination metadata
  - 404: ErrNotFound: Wrong title/review pairing
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	result, total, err := handler.service.ListComments(request.Context(), titleID, reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
CreateComment publishes a comment under a review.

POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments

Request:
  - Body: commentRequest (Text)

Response:
  - 201: Comment: Published comment
  - 401: ErrUnauthorized: Anonymous caller
  - 404: ErrNotFound: Wrong title/review pairing
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), actorFrom(request), titleID, reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
GetComment returns a single comment.

GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 200: Comment: The comment
  - 404: ErrNotFound: Wrong pairing anywhere along the path
*/
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
UpdateComment applies a text change to a comment.

PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 200: Comment: Updated comment
  - 403: ErrForbidden: Caller is neither author nor staff
  - 404: ErrNotFound: Wrong pairing anywhere along the path
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), actorFrom(request), titleID, reviewID, commentID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
DeleteComment removes a comment.

DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 204: No Content: Comment removed
  - 403: ErrForbidden: Caller is neither author nor staff
  - 404: ErrNotFound: Wrong pairing anywhere along the path
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), actorFrom(request), titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Path Helpers

func reviewPath(request *http.Request) (titleID, reviewID int64, err error) {
	if titleID, err = requestutil.IntParam(request, "titleID"); err != nil {
		return 0, 0, err
	}
	if reviewID, err = requestutil.IntParam(request, "reviewID"); err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

func commentPath(request *http.Request) (titleID, reviewID, commentID int64, err error) {
	if titleID, reviewID, err = reviewPath(request); err != nil {
		return 0, 0, 0, err
	}
	if commentID, err = requestutil.IntParam(request, "commentID"); err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
