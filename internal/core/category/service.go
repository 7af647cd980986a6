// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/velkore/critiq/internal/platform/constants"
	"github.com/velkore/critiq/internal/platform/validate"
	"github.com/velkore/critiq/pkg/pagination"
	"github.com/velkore/critiq/pkg/slug"
)

// Service orchestrates category reference data management.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// CreateInput holds the fields for a new category. Slug is optional and is
// derived from the name when omitted.
type CreateInput struct {
	Name string
	Slug string
}

// Create validates and persists a new category.
//
// Slugs are stored lowercase so uniqueness is case-insensitive.
func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
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

	category := &Category{Name: input.Name, Slug: input.Slug}
	if err := service.repository.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created", slog.String("slug", category.Slug))

	return category, nil
}

// List retrieves a page of categories, optionally filtered by name.
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]Category, int, error) {
	return service.repository.List(context, search, params.Limit, params.Offset())
}

// Delete removes a category by slug.
func (service *Service) Delete(context context.Context, categorySlug string) error {
	if err := service.repository.Delete(context, strings.ToLower(categorySlug)); err != nil {
		return err
	}

	service.logger.Info("category_deleted", slog.String("slug", categorySlug))

	return nil
}

// deriveSlug builds a slug from the name, bounded to the storage limit.
func deriveSlug(name string) string {
	derived := slug.From(name)
	if len(derived) > constants.SlugMaxLength {
		derived = strings.Trim(derived[:constants.SlugMaxLength], "-")
	}
	return derived
}
