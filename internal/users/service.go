// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/constants"
	"github.com/velkore/critiq/internal/platform/dberr"
	"github.com/velkore/critiq/internal/platform/sec"
	"github.com/velkore/critiq/internal/platform/validate"
	"github.com/velkore/critiq/pkg/pagination"
	"github.com/velkore/critiq/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for user account administration.
//
// It enforces identity validation rules and the role model before any
// persistence happens, and translates storage conflicts into field-specific
// client errors.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// # Account Administration

/*
List retrieves a page of user accounts, optionally filtered by a username
substring.

Parameters:
  - context: context.Context
  - search: string (Optional filter; empty matches all)
  - params: pagination.Params

Returns:
  - []User: Page of accounts
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]User, int, error) {
	result, total, err := service.repository.List(context, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("users_service_list_failed: %w", err)
	}
	return result, total, nil
}

// CreateInput defines the fields accepted when an administrator provisions
// a new account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

/*
Create provisions a new user account on behalf of an administrator.

Description: Validates identity fields, defaults the role to "user" when
omitted, and persists the account. Accounts created this way still need the
signup flow to obtain a confirmation code before they can request a token.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *User: The created account
  - error: Validation or conflict failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*User, error) {
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, constants.EmailMaxLength).
		MaxLen(FieldFirstName, input.FirstName, constants.UsernameMaxLength).
		MaxLen(FieldLastName, input.LastName, constants.UsernameMaxLength).
		OneOf(FieldRole, input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, mapWriteError(err)
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetByUsername retrieves a single account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetByUsername(context context.Context, username string) (*User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("users_service_get_failed: %w", err)
	}
	return user, nil
}

// UpdateInput defines the mutable subset of account fields.
// Nil pointers mean "leave unchanged".
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

/*
Update applies a partial set of changes to an account identified by username.

Description: Fetches the existing state, overlays the provided fields after
validation, and synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - username: string (Current username of the target account)
  - input: UpdateInput

Returns:
  - *User: The updated account
  - error: Not found, validation, or conflict failures
*/
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("users_service_update_lookup_failed: %w", err)
	}

	if err := applyUpdate(user, input); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, mapWriteError(err)
	}

	service.logger.Info("user_updated", slog.String("user_id", user.ID))

	return user, nil
}

/*
Delete permanently removes an account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Delete(context context.Context, username string) error {
	if err := service.repository.Delete(context, username); err != nil {
		return fmt.Errorf("users_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_deleted", slog.String("username", username))

	return nil
}

// # Self-Service Profile

/*
GetProfile retrieves the account of the authenticated caller.

Parameters:
  - context: context.Context
  - userID: string (Taken from verified token claims)

Returns:
  - *User: The caller's account
  - error: Not found or retrieval failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("users_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
UpdateProfile applies a partial set of changes to the caller's own account.

Description: Works like [Service.Update] with one restriction: the role field
is silently discarded unless the caller already holds admin privileges.
Regular members cannot promote themselves, and the request still succeeds so
profile edits are not lost.

Parameters:
  - context: context.Context
  - userID: string (Taken from verified token claims)
  - input: UpdateInput

Returns:
  - *User: The updated account
  - error: Not found, validation, or conflict failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateInput) (*User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("users_service_update_profile_lookup_failed: %w", err)
	}

	if input.Role != nil && !user.IsAdmin() {
		service.logger.Info("user_role_change_discarded",
			slog.String("user_id", user.ID),
			slog.String("requested_role", *input.Role),
		)
		input.Role = nil
	}

	if err := applyUpdate(user, input); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, mapWriteError(err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", user.ID))

	return user, nil
}

// # Internals

// applyUpdate validates the provided fields and overlays them onto the entity.
func applyUpdate(user *User, input UpdateInput) error {
	validator := &validate.Validator{}

	if input.Username != nil {
		validator.Required(FieldUsername, *input.Username).
			Username(FieldUsername, *input.Username)
	}
	if input.Email != nil {
		validator.Required(FieldEmail, *input.Email).
			Email(FieldEmail, *input.Email).
			MaxLen(FieldEmail, *input.Email, constants.EmailMaxLength)
	}
	if input.FirstName != nil {
		validator.MaxLen(FieldFirstName, *input.FirstName, constants.UsernameMaxLength)
	}
	if input.LastName != nil {
		validator.MaxLen(FieldLastName, *input.LastName, constants.UsernameMaxLength)
	}
	if input.Role != nil {
		validator.OneOf(FieldRole, *input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	return nil
}

// mapWriteError translates unique-constraint violations into field-specific
// conflicts, falling back to the generic storage error mapping.
func mapWriteError(err error) error {
	if dberr.IsUniqueViolation(err, ConstraintUsername) {
		return apperr.Conflict("A user with this username already exists")
	}
	if dberr.IsUniqueViolation(err, ConstraintEmail) {
		return apperr.Conflict("A user with this email already exists")
	}
	return dberr.Wrap(err, "users_service_write_failed")
}
