package genre

import (
	"context"
	"log/slog"
	"strings"

	"github.com/velkore/critiq/internal/platform/constants"
	"github.com/velkore/critiq/internal/platform/validate"
	"github.com/velkore/critiq/pkg/pagination"
	"github.com/velkore/critiq/pkg/slug"
)

type Service struct {
	repository Repository
	logger     *slog.Logger
}

func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

type CreateInput struct {
	Name string
	Slug string
}

func (service *Service) Create(context context.Context, input CreateInput) (*Genre, error) {
	if input.Slug == "" {
		input.Slug = deriveSlug(input.Name)
	}
	input.Slug = strings.ToLower(input.Slug)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, constants.NameMaxLength).
		Required(FieldSlug, input.Slug).
		Slug(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, constants.SlugMaxLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	genre := &Genre{Name: input.Name, Slug: input.Slug}
	if err := service.repository.Create(context, genre); err != nil {
		return nil, err
	}

	service.logger.Info("genre_created", slog.String("slug", genre.Slug))

	return genre, nil
}

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]Genre, int, error) {
	return service.repository.List(context, search, params.Limit, params.Offset())
}

func (service *Service) Delete(context context.Context, genreSlug string) error {
	if err := service.repository.Delete(context, strings.ToLower(genreSlug)); err != nil {
		return err
	}

	service.logger.Info("genre_deleted", slog.String("slug", genreSlug))

	return nil
}

func deriveSlug(name string) string {
	derived := slug.From(name)
	if len(derived) > constants.SlugMaxLength {
		derived = strings.Trim(derived[:constants.SlugMaxLength], "-")
	}
	return derived
}
