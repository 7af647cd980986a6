// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package title

import "context"

// Repository defines the persistence contract for titles.
//
// Every read hydrates the category, the genre set, and the derived rating.
type Repository interface {
	/*
		Create persists a new title and its genre links atomically.

		Parameters:
		  - context: context.Context
		  - title: *Title (ID is filled on success)
		  - genreSlugs: []string (Links to create)

		Returns:
		  - error: Unique-constraint violations or storage failures
	*/
	Create(context context.Context, title *Title, genreSlugs []string) error

	/*
		FindByID retrieves a fully hydrated title.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Title: Title with category, genres, and rating
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*Title, error)

	/*
		List retrieves a page of hydrated titles matching the filter.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []Title: Page of titles
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]Title, int, error)

	/*
		Update persists changes to a title. When genreSlugs is non-nil the
		genre link set is replaced wholesale.

		Parameters:
		  - context: context.Context
		  - title: *Title
		  - genreSlugs: *[]string (nil leaves links untouched)

		Returns:
		  - error: Unique-constraint violations or storage failures
	*/
	Update(context context.Context, title *Title, genreSlugs *[]string) error

	/*
		Delete removes a title. Its reviews and comments cascade away.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, id int64) error
}
