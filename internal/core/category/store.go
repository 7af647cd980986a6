// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package category

import "context"

// Repository defines the persistence contract for categories.
type Repository interface {
	// Create persists a new category.
	Create(context context.Context, category *Category) error

	// FindBySlug retrieves a category by its unique slug.
	// Returns apperr.NotFound if absent.
	FindBySlug(context context.Context, slug string) (*Category, error)

	// List retrieves a page of categories ordered by name, optionally
	// filtered by a case-insensitive name substring.
	List(context context.Context, search string, limit, offset int) ([]Category, int, error)

	// Delete removes a category by slug. Titles referencing it keep existing
	// with their category cleared.
	Delete(context context.Context, slug string) error
}
