// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package users

import "context"

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		Create persists a new user record.

		Parameters:
		  - context: context.Context
		  - user: *User (Entity to persist)

		Returns:
		  - error: Unique-constraint violations or connectivity errors
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *User: Hydrated account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername retrieves a user record by their unique username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail retrieves a user record by their unique email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List retrieves a page of user accounts ordered by username.

		Parameters:
		  - context: context.Context
		  - search: string (Optional username substring filter; empty matches all)
		  - limit: int
		  - offset: int

		Returns:
		  - []User: Page of accounts
		  - int: Total matching count for pagination metadata
		  - error: Retrieval failures
	*/
	List(context context.Context, search string, limit, offset int) ([]User, int, error)

	/*
		Update persists changes to a user's mutable fields.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity with changes)

		Returns:
		  - error: Unique-constraint violations or storage failures
	*/
	Update(context context.Context, user *User) error

	/*
		Delete permanently removes a user account by username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, username string) error
}
