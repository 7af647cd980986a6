// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package review_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velkore/critiq/internal/authz"
	"github.com/velkore/critiq/internal/core/review"
	"github.com/velkore/critiq/internal/core/title"
	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/sec"
	"github.com/velkore/critiq/pkg/pointer"
)

// stubRepository plays back canned reviews and comments keyed by their
// scoping pair, the way the real store resolves them.
type stubRepository struct {
	reviews   map[[2]int64]*review.Review // (titleID, reviewID)
	comments  map[[2]int64]*review.Comment
	createErr error

	updatedReview  *review.Review
	updatedComment *review.Comment
	deletedReview  bool
	deletedComment bool
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		reviews:  map[[2]int64]*review.Review{},
		comments: map[[2]int64]*review.Comment{},
	}
}

func (s *stubRepository) CreateReview(_ context.Context, r *review.Review) error {
	if s.createErr != nil {
		return s.createErr
	}
	r.ID = 100
	r.PubDate = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	copied := *r
	copied.Author = "author"
	s.reviews[[2]int64{r.TitleID, r.ID}] = &copied
	return nil
}

func (s *stubRepository) FindReview(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	if r, ok := s.reviews[[2]int64{titleID, reviewID}]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, apperr.NotFound("Review")
}

func (s *stubRepository) ListReviews(context.Context, int64, int, int) ([]review.Review, int, error) {
	return nil, 0, nil
}

func (s *stubRepository) UpdateReview(_ context.Context, r *review.Review) error {
	s.updatedReview = r
	return nil
}

func (s *stubRepository) DeleteReview(_ context.Context, titleID, reviewID int64) error {
	if _, ok := s.reviews[[2]int64{titleID, reviewID}]; !ok {
		return apperr.NotFound("Review")
	}
	s.deletedReview = true
	return nil
}

func (s *stubRepository) CreateComment(_ context.Context, c *review.Comment) error {
	if s.createErr != nil {
		return s.createErr
	}
	c.ID = 200
	c.PubDate = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	copied := *c
	copied.Author = "commenter"
	s.comments[[2]int64{c.ReviewID, c.ID}] = &copied
	return nil
}

func (s *stubRepository) FindComment(_ context.Context, reviewID, commentID int64) (*review.Comment, error) {
	if c, ok := s.comments[[2]int64{reviewID, commentID}]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (s *stubRepository) ListComments(context.Context, int64, int, int) ([]review.Comment, int, error) {
	return nil, 0, nil
}

func (s *stubRepository) UpdateComment(_ context.Context, c *review.Comment) error {
	s.updatedComment = c
	return nil
}

func (s *stubRepository) DeleteComment(_ context.Context, reviewID, commentID int64) error {
	if _, ok := s.comments[[2]int64{reviewID, commentID}]; !ok {
		return apperr.NotFound("Comment")
	}
	s.deletedComment = true
	return nil
}

// stubTitleRepository knows a single title.
type stubTitleRepository struct {
	knownID int64
}

func (s *stubTitleRepository) Create(context.Context, *title.Title, []string) error { return nil }

func (s *stubTitleRepository) FindByID(_ context.Context, id int64) (*title.Title, error) {
	if id != s.knownID {
		return nil, apperr.NotFound("Title")
	}
	return &title.Title{ID: id, Name: "The Departure", Year: 2001}, nil
}

func (s *stubTitleRepository) List(context.Context, title.Filter, int, int) ([]title.Title, int, error) {
	return nil, 0, nil
}

func (s *stubTitleRepository) Update(context.Context, *title.Title, *[]string) error { return nil }

func (s *stubTitleRepository) Delete(context.Context, int64) error { return nil }

func newService(repo *stubRepository) *review.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return review.NewService(repo, &stubTitleRepository{knownID: 1}, logger)
}

func member(id string) authz.Actor {
	return authz.Actor{ID: id, Role: sec.RoleUser, Authenticated: true}
}

func moderator() authz.Actor {
	return authz.Actor{ID: "mod-1", Role: sec.RoleModerator, Authenticated: true}
}

func admin() authz.Actor {
	return authz.Actor{ID: "adm-1", Role: sec.RoleAdmin, Authenticated: true}
}

func seedReview(repo *stubRepository, authorID string) *review.Review {
	r := &review.Review{
		ID:       10,
		TitleID:  1,
		Text:     "Slow burn, worth it.",
		Score:    pointer.To(8),
		Author:   "author",
		AuthorID: authorID,
		PubDate:  time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
	repo.reviews[[2]int64{1, 10}] = r
	return r
}

func seedComment(repo *stubRepository, authorID string) *review.Comment {
	c := &review.Comment{
		ID:       20,
		ReviewID: 10,
		Text:     "Agreed.",
		Author:   "commenter",
		AuthorID: authorID,
		PubDate:  time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC),
	}
	repo.comments[[2]int64{10, 20}] = c
	return c
}

func TestService_CreateReview_Success(t *testing.T) {
	repo := newStubRepository()

	created, err := newService(repo).CreateReview(context.Background(), member("u-1"), 1, review.CreateReviewInput{
		Text:  "A quiet masterpiece.",
		Score: pointer.To(9),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)
	assert.Equal(t, "author", created.Author)
	assert.False(t, created.PubDate.IsZero())
}

func TestService_CreateReview_Anonymous(t *testing.T) {
	repo := newStubRepository()

	_, err := newService(repo).CreateReview(context.Background(), authz.Anonymous, 1, review.CreateReviewInput{
		Text: "Drive-by opinion.",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

func TestService_CreateReview_UnknownTitle(t *testing.T) {
	repo := newStubRepository()

	_, err := newService(repo).CreateReview(context.Background(), member("u-1"), 404, review.CreateReviewInput{
		Text: "On nothing.",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_CreateReview_ScoreValidation(t *testing.T) {
	tests := []struct {
		name  string
		score int
	}{
		{"below_range", 0},
		{"above_range", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(newStubRepository()).CreateReview(context.Background(), member("u-1"), 1, review.CreateReviewInput{
				Text:  "Scored wrong.",
				Score: pointer.To(tt.score),
			})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, "score", ae.Details[0].Field)
		})
	}
}

func TestService_CreateReview_Duplicate(t *testing.T) {
	// The one-review rule binds everyone, staff included.
	actors := []struct {
		name  string
		actor authz.Actor
	}{
		{"member", member("u-1")},
		{"moderator", moderator()},
		{"admin", admin()},
	}

	for _, tt := range actors {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubRepository()
			repo.createErr = &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: review.ConstraintAuthorTitle,
			}

			_, err := newService(repo).CreateReview(context.Background(), tt.actor, 1, review.CreateReviewInput{
				Text: "Again.",
			})

			require.Error(t, err)
			assert.True(t, apperr.IsConflict(err))
		})
	}
}

func TestService_UpdateReview_OwnerEdits(t *testing.T) {
	repo := newStubRepository()
	original := seedReview(repo, "u-1")

	updated, err := newService(repo).UpdateReview(context.Background(), member("u-1"), 1, 10, review.UpdateReviewInput{
		Text:  pointer.To("Reconsidered on rewatch."),
		Score: pointer.To(6),
	})

	require.NoError(t, err)
	assert.Equal(t, "Reconsidered on rewatch.", updated.Text)
	assert.Equal(t, 6, *updated.Score)

	// Publication timestamp survives the edit.
	assert.Equal(t, original.PubDate, updated.PubDate)
}

func TestService_UpdateReview_ForeignMember(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")

	_, err := newService(repo).UpdateReview(context.Background(), member("u-2"), 1, 10, review.UpdateReviewInput{
		Text: pointer.To("Hijacked."),
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
	assert.Nil(t, repo.updatedReview)
}

func TestService_UpdateReview_StaffEditsForeign(t *testing.T) {
	for _, tt := range []struct {
		name  string
		actor authz.Actor
	}{
		{"moderator", moderator()},
		{"admin", admin()},
		{"superuser", authz.Actor{ID: "su-1", Role: sec.RoleUser, Superuser: true, Authenticated: true}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubRepository()
			seedReview(repo, "u-1")

			updated, err := newService(repo).UpdateReview(context.Background(), tt.actor, 1, 10, review.UpdateReviewInput{
				Text: pointer.To("Moderated."),
			})

			require.NoError(t, err)
			assert.Equal(t, "Moderated.", updated.Text)
		})
	}
}

func TestService_UpdateReview_CrossTitle(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")

	// Right review ID, wrong title in the path.
	_, err := newService(repo).UpdateReview(context.Background(), member("u-1"), 2, 10, review.UpdateReviewInput{
		Text: pointer.To("Misaddressed."),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_DeleteReview_Owner(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")

	err := newService(repo).DeleteReview(context.Background(), member("u-1"), 1, 10)

	require.NoError(t, err)
	assert.True(t, repo.deletedReview)
}

func TestService_DeleteReview_ForeignMember(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")

	err := newService(repo).DeleteReview(context.Background(), member("u-2"), 1, 10)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
	assert.False(t, repo.deletedReview)
}

func TestService_CreateComment_Success(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")

	created, err := newService(repo).CreateComment(context.Background(), member("u-2"), 1, 10, "Well put.")

	require.NoError(t, err)
	assert.Equal(t, int64(200), created.ID)
	assert.Equal(t, "commenter", created.Author)
}

func TestService_CreateComment_Anonymous(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")

	_, err := newService(repo).CreateComment(context.Background(), authz.Anonymous, 1, 10, "Anon.")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

func TestService_GetComment_CrossReview(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")
	seedComment(repo, "u-2")

	// Comment 20 belongs to review 10; review 11 does not exist under title 1.
	_, err := newService(repo).GetComment(context.Background(), 1, 11, 20)

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_UpdateComment_ForeignMember(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")
	seedComment(repo, "u-2")

	_, err := newService(repo).UpdateComment(context.Background(), member("u-3"), 1, 10, 20, pointer.To("Hijacked."))

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
	assert.Nil(t, repo.updatedComment)
}

func TestService_UpdateComment_Moderator(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")
	original := seedComment(repo, "u-2")

	updated, err := newService(repo).UpdateComment(context.Background(), moderator(), 1, 10, 20, pointer.To("Cleaned up."))

	require.NoError(t, err)
	assert.Equal(t, "Cleaned up.", updated.Text)
	assert.Equal(t, original.PubDate, updated.PubDate)
}

func TestService_DeleteComment_Owner(t *testing.T) {
	repo := newStubRepository()
	seedReview(repo, "u-1")
	seedComment(repo, "u-2")

	err := newService(repo).DeleteComment(context.Background(), member("u-2"), 1, 10, 20)

	require.NoError(t, err)
	assert.True(t, repo.deletedComment)
}
