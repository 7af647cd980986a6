// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package title_test

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

	"github.com/velkore/critiq/internal/core/category"
	"github.com/velkore/critiq/internal/core/genre"
	"github.com/velkore/critiq/internal/core/title"
	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/pkg/pointer"
)

// stubTitleRepository records calls and plays back canned results.
type stubTitleRepository struct {
	createErr  error
	created    *title.Title
	linked     []string
	updateErr  error
	findResult *title.Title
}

func (s *stubTitleRepository) Create(_ context.Context, t *title.Title, genreSlugs []string) error {
	if s.createErr != nil {
		return s.createErr
	}
	t.ID = 1
	s.created = t
	s.linked = genreSlugs
	return nil
}

func (s *stubTitleRepository) FindByID(_ context.Context, id int64) (*title.Title, error) {
	if s.findResult == nil {
		return nil, apperr.NotFound("Title")
	}
	return s.findResult, nil
}

func (s *stubTitleRepository) List(context.Context, title.Filter, int, int) ([]title.Title, int, error) {
	return nil, 0, nil
}

func (s *stubTitleRepository) Update(_ context.Context, t *title.Title, genreSlugs *[]string) error {
	return s.updateErr
}

func (s *stubTitleRepository) Delete(context.Context, int64) error { return nil }

// stubCategoryRepository resolves a fixed set of category slugs.
type stubCategoryRepository struct {
	known map[string]string // slug -> name
}

func (s *stubCategoryRepository) Create(context.Context, *category.Category) error { return nil }

func (s *stubCategoryRepository) FindBySlug(_ context.Context, slug string) (*category.Category, error) {
	name, ok := s.known[slug]
	if !ok {
		return nil, apperr.NotFound("Category")
	}
	return &category.Category{Name: name, Slug: slug}, nil
}

func (s *stubCategoryRepository) List(context.Context, string, int, int) ([]category.Category, int, error) {
	return nil, 0, nil
}

func (s *stubCategoryRepository) Delete(context.Context, string) error { return nil }

// stubGenreRepository resolves a fixed set of genre slugs.
type stubGenreRepository struct {
	known map[string]string
}

func (s *stubGenreRepository) Create(context.Context, *genre.Genre) error { return nil }

func (s *stubGenreRepository) FindBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	name, ok := s.known[slug]
	if !ok {
		return nil, apperr.NotFound("Genre")
	}
	return &genre.Genre{Name: name, Slug: slug}, nil
}

func (s *stubGenreRepository) FindBySlugs(_ context.Context, slugs []string) ([]genre.Genre, error) {
	result := make([]genre.Genre, 0, len(slugs))
	for _, slug := range slugs {
		if name, ok := s.known[slug]; ok {
			result = append(result, genre.Genre{Name: name, Slug: slug})
		}
	}
	return result, nil
}

func (s *stubGenreRepository) List(context.Context, string, int, int) ([]genre.Genre, int, error) {
	return nil, 0, nil
}

func (s *stubGenreRepository) Delete(context.Context, string) error { return nil }

func newService(repo *stubTitleRepository) *title.Service {
	categories := &stubCategoryRepository{known: map[string]string{"movies": "Movies"}}
	genres := &stubGenreRepository{known: map[string]string{"drama": "Drama", "comedy": "Comedy"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return title.NewService(repo, categories, genres, logger)
}

func TestService_Create_Success(t *testing.T) {
	repo := &stubTitleRepository{}

	created, err := newService(repo).Create(context.Background(), title.CreateInput{
		Name:         "The Departure",
		Year:         2001,
		CategorySlug: "movies",
		GenreSlugs:   []string{"Drama", "drama", "comedy"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	require.NotNil(t, created.Category)
	assert.Equal(t, "movies", created.Category.Slug)

	// Duplicate genre slugs collapse before linking.
	assert.Equal(t, []string{"drama", "comedy"}, repo.linked)
	assert.Nil(t, created.Rating)
}

func TestService_Create_NoCategory(t *testing.T) {
	repo := &stubTitleRepository{}

	created, err := newService(repo).Create(context.Background(), title.CreateInput{
		Name: "Uncatalogued",
		Year: 1999,
	})

	require.NoError(t, err)
	assert.Nil(t, created.Category)
	assert.Empty(t, created.Genres)
}

func TestService_Create_Validation(t *testing.T) {
	futureYear := time.Now().Year() + 1

	tests := []struct {
		name  string
		input title.CreateInput
		field string
	}{
		{"missing_name", title.CreateInput{Year: 2000}, "name"},
		{"future_year", title.CreateInput{Name: "Soon", Year: futureYear}, "year"},
		{"negative_year", title.CreateInput{Name: "Ancient", Year: -44}, "year"},
		{"unknown_category", title.CreateInput{Name: "X", Year: 2000, CategorySlug: "podcasts"}, "category"},
		{"unknown_genre", title.CreateInput{Name: "X", Year: 2000, GenreSlugs: []string{"noir"}}, "genre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(&stubTitleRepository{}).Create(context.Background(), tt.input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

func TestService_Create_DuplicateInCategory(t *testing.T) {
	repo := &stubTitleRepository{
		createErr: &pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: title.ConstraintCategoryNameYear,
		},
	}

	_, err := newService(repo).Create(context.Background(), title.CreateInput{
		Name: "The Departure",
		Year: 2001,
	})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestService_Update_YearStillBounded(t *testing.T) {
	repo := &stubTitleRepository{
		findResult: &title.Title{ID: 7, Name: "Old", Year: 1990},
	}

	_, err := newService(repo).Update(context.Background(), 7, title.UpdateInput{
		Year: pointer.To(time.Now().Year() + 10),
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestService_Update_UnknownTitle(t *testing.T) {
	repo := &stubTitleRepository{}

	_, err := newService(repo).Update(context.Background(), 404, title.UpdateInput{
		Name: pointer.To("Renamed"),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
