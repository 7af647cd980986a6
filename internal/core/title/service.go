// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/velkore/critiq/internal/core/category"
	"github.com/velkore/critiq/internal/core/genre"
	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/constants"
	"github.com/velkore/critiq/internal/platform/dberr"
	"github.com/velkore/critiq/internal/platform/validate"
	"github.com/velkore/critiq/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for the title catalogue.
//
// It validates catalogue rules (year bounds, reference data existence) and
// translates storage conflicts into client errors.
type Service struct {
	repository         Repository
	categoryRepository category.Repository
	genreRepository    genre.Repository
	logger             *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	repository Repository,
	categoryRepo category.Repository,
	genreRepo genre.Repository,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository:         repository,
		categoryRepository: categoryRepo,
		genreRepository:    genreRepo,
		logger:             logger,
	}
}

// CreateInput holds the fields for a new catalogue entry. Categories and
// genres are referenced by slug.
type CreateInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

/*
Create validates and persists a new title.

Description: Checks the year bound, resolves category and genre slugs to
existing reference data, and persists the entry with its genre links.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Title: The created entry (rating starts null)
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, constants.NameMaxLength).
		Year(FieldYear, input.Year)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	resolvedCategory, err := service.resolveCategory(context, input.CategorySlug)
	if err != nil {
		return nil, err
	}

	resolvedGenres, genreSlugs, err := service.resolveGenres(context, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	title := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    resolvedCategory,
		Genres:      resolvedGenres,
	}

	if err := service.repository.Create(context, title, genreSlugs); err != nil {
		if dberr.IsUniqueViolation(err, ConstraintCategoryNameYear) {
			return nil, apperr.Conflict("This title already exists in this category")
		}
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	service.logger.Info("title_created",
		slog.Int64("title_id", title.ID),
		slog.String("name", title.Name),
	)

	return title, nil
}

/*
Get retrieves a fully hydrated title by ID.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Title: Title with category, genres, and rating
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repository.FindByID(context, id)
}

/*
List retrieves a page of titles matching the filter.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []Title: Page of titles
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]Title, int, error) {
	return service.repository.List(context, filter, params.Limit, params.Offset())
}

// UpdateInput defines the mutable subset of title fields.
// Nil pointers mean "leave unchanged". An empty CategorySlug clears the
// category; a non-nil GenreSlugs replaces the genre set wholesale.
type UpdateInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

/*
Update applies a partial set of changes to a title.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateInput

Returns:
  - *Title: The updated entry, re-read for a fresh rating
  - error: Not found, validation, or conflict failures
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Title, error) {
	title, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).
			MaxLen(FieldName, *input.Name, constants.NameMaxLength)
	}
	if input.Year != nil {
		validator.Year(FieldYear, *input.Year)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if input.CategorySlug != nil {
		resolvedCategory, err := service.resolveCategory(context, *input.CategorySlug)
		if err != nil {
			return nil, err
		}
		title.Category = resolvedCategory
	}

	var genreSlugs *[]string
	if input.GenreSlugs != nil {
		_, slugs, err := service.resolveGenres(context, *input.GenreSlugs)
		if err != nil {
			return nil, err
		}
		genreSlugs = &slugs
	}

	if err := service.repository.Update(context, title, genreSlugs); err != nil {
		if dberr.IsUniqueViolation(err, ConstraintCategoryNameYear) {
			return nil, apperr.Conflict("This title already exists in this category")
		}
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}

	service.logger.Info("title_updated", slog.Int64("title_id", title.ID))

	// Re-read so the response carries the current rating and genre order.
	return service.repository.FindByID(context, id)
}

/*
Delete removes a title and, through cascades, its reviews and comments.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("title_deleted", slog.Int64("title_id", id))

	return nil
}

// # Internals

// resolveCategory maps a slug to reference data. Unknown slugs surface as a
// field validation error, not a 404: the path addresses the title, the slug
// is payload.
func (service *Service) resolveCategory(context context.Context, slug string) (*category.Category, error) {
	if slug == "" {
		return nil, nil
	}

	resolved, err := service.categoryRepository.FindBySlug(context, strings.ToLower(slug))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, validate.RequiredError(FieldCategory, fmt.Sprintf("Unknown category %q", slug))
		}
		return nil, fmt.Errorf("title_service_resolve_category_failed: %w", err)
	}

	return resolved, nil
}

// resolveGenres maps a slug set to reference data, deduplicating input and
// rejecting unknown slugs.
func (service *Service) resolveGenres(context context.Context, slugs []string) ([]genre.Genre, []string, error) {
	unique := uniqueLower(slugs)
	if len(unique) == 0 {
		return make([]genre.Genre, 0), unique, nil
	}

	resolved, err := service.genreRepository.FindBySlugs(context, unique)
	if err != nil {
		return nil, nil, fmt.Errorf("title_service_resolve_genres_failed: %w", err)
	}

	if len(resolved) != len(unique) {
		known := make(map[string]bool, len(resolved))
		for _, item := range resolved {
			known[item.Slug] = true
		}
		for _, slug := range unique {
			if !known[slug] {
				return nil, nil, validate.RequiredError(FieldGenre, fmt.Sprintf("Unknown genre %q", slug))
			}
		}
	}

	return resolved, unique, nil
}

// uniqueLower lowercases and deduplicates a slug list, preserving order.
func uniqueLower(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		lowered := strings.ToLower(strings.TrimSpace(value))
		if lowered == "" || seen[lowered] {
			continue
		}
		seen[lowered] = true
		result = append(result, lowered)
	}
	return result
}
