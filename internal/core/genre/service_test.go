package genre_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velkore/critiq/internal/core/genre"
	"github.com/velkore/critiq/internal/platform/apperr"
)

type stubRepository struct {
	created *genre.Genre
	err     error
}

func (s *stubRepository) Create(_ context.Context, g *genre.Genre) error {
	s.created = g
	return s.err
}

func (s *stubRepository) FindBySlug(context.Context, string) (*genre.Genre, error) {
	return nil, apperr.NotFound("Genre")
}

func (s *stubRepository) FindBySlugs(context.Context, []string) ([]genre.Genre, error) {
	return nil, nil
}

func (s *stubRepository) List(context.Context, string, int, int) ([]genre.Genre, int, error) {
	return nil, 0, nil
}

func (s *stubRepository) Delete(context.Context, string) error { return s.err }

func newService(repo *stubRepository) *genre.Service {
	return genre.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_Create_DerivesSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    genre.CreateInput
		wantSlug string
	}{
		{"from_simple_name", genre.CreateInput{Name: "Drama"}, "drama"},
		{"from_multi_word_name", genre.CreateInput{Name: "Film Noir"}, "film-noir"},
		{"from_accented_name", genre.CreateInput{Name: "Chambara Épique"}, "chambara-epique"},
		{"explicit_slug_kept", genre.CreateInput{Name: "Drama", Slug: "dramatic"}, "dramatic"},
		{"explicit_slug_lowercased", genre.CreateInput{Name: "Drama", Slug: "DRAMATIC"}, "dramatic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{}
			created, err := newService(repo).Create(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, created.Slug)
			require.NotNil(t, repo.created)
			assert.Equal(t, tt.wantSlug, repo.created.Slug)
		})
	}
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input genre.CreateInput
		field string
	}{
		{"missing_name", genre.CreateInput{Slug: "ok"}, "name"},
		{"invalid_slug", genre.CreateInput{Name: "Drama", Slug: "not a slug!"}, "slug"},
		{"slug_too_long", genre.CreateInput{
			Name: "Drama",
			Slug: "an-extremely-long-slug-that-overflows-the-fifty-character-limit",
		}, "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(&stubRepository{}).Create(context.Background(), tt.input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

func TestService_Create_ConflictPassesThrough(t *testing.T) {
	repo := &stubRepository{err: apperr.Conflict("A genre with this slug already exists")}

	_, err := newService(repo).Create(context.Background(), genre.CreateInput{Name: "Drama"})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}
