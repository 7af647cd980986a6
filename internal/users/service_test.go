// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package users_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/sec"
	"github.com/velkore/critiq/internal/users"
	"github.com/velkore/critiq/pkg/pointer"
)

// stubRepository implements users.Repository with overridable behaviors.
type stubRepository struct {
	createFn         func(ctx context.Context, user *users.User) error
	findByIDFn       func(ctx context.Context, id string) (*users.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*users.User, error)
	findByEmailFn    func(ctx context.Context, email string) (*users.User, error)
	listFn           func(ctx context.Context, search string, limit, offset int) ([]users.User, int, error)
	updateFn         func(ctx context.Context, user *users.User) error
	deleteFn         func(ctx context.Context, username string) error
}

func (s *stubRepository) Create(ctx context.Context, user *users.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, user)
}

func (s *stubRepository) FindByID(ctx context.Context, id string) (*users.User, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubRepository) FindByUsername(ctx context.Context, username string) (*users.User, error) {
	return s.findByUsernameFn(ctx, username)
}

func (s *stubRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return s.findByEmailFn(ctx, email)
}

func (s *stubRepository) List(ctx context.Context, search string, limit, offset int) ([]users.User, int, error) {
	return s.listFn(ctx, search, limit, offset)
}

func (s *stubRepository) Update(ctx context.Context, user *users.User) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, user)
}

func (s *stubRepository) Delete(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// uniqueViolation fabricates the storage error raised by a named constraint.
func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

func TestService_Create_DefaultsRole(t *testing.T) {
	var saved *users.User
	repo := &stubRepository{
		createFn: func(_ context.Context, user *users.User) error {
			saved = user
			return nil
		},
	}
	service := users.NewService(repo, testLogger())

	user, err := service.Create(context.Background(), users.CreateInput{
		Username: "reader",
		Email:    "reader@example.com",
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
}

func TestService_Create_Validation(t *testing.T) {
	service := users.NewService(&stubRepository{}, testLogger())

	tests := []struct {
		name  string
		input users.CreateInput
		field string
	}{
		{"reserved_username", users.CreateInput{Username: "me", Email: "a@b.com"}, "username"},
		{"reserved_username_case_insensitive", users.CreateInput{Username: "ME", Email: "a@b.com"}, "username"},
		{"forbidden_characters", users.CreateInput{Username: "bad name!", Email: "a@b.com"}, "username"},
		{"invalid_email", users.CreateInput{Username: "reader", Email: "not-an-email"}, "email"},
		{"unknown_role", users.CreateInput{Username: "reader", Email: "a@b.com", Role: "owner"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

func TestService_Create_Conflicts(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		message    string
	}{
		{"duplicate_username", users.ConstraintUsername, "A user with this username already exists"},
		{"duplicate_email", users.ConstraintEmail, "A user with this email already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{
				createFn: func(context.Context, *users.User) error {
					return uniqueViolation(tt.constraint)
				},
			}
			service := users.NewService(repo, testLogger())

			_, err := service.Create(context.Background(), users.CreateInput{
				Username: "reader",
				Email:    "reader@example.com",
			})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
			assert.Equal(t, tt.message, ae.Message)
		})
	}
}

func TestService_Update_PatchSemantics(t *testing.T) {
	existing := &users.User{
		ID:        "u1",
		Username:  "reader",
		Email:     "reader@example.com",
		FirstName: "Rae",
		Bio:       "old bio",
		Role:      sec.RoleUser,
	}
	repo := &stubRepository{
		findByUsernameFn: func(context.Context, string) (*users.User, error) {
			copied := *existing
			return &copied, nil
		},
	}
	service := users.NewService(repo, testLogger())

	user, err := service.Update(context.Background(), "reader", users.UpdateInput{
		Bio: pointer.To("new bio"),
	})

	require.NoError(t, err)
	assert.Equal(t, "new bio", user.Bio)

	// Untouched fields survive the patch.
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Equal(t, "Rae", user.FirstName)
	assert.Equal(t, sec.RoleUser, user.Role)
}

func TestService_UpdateProfile_RoleDiscardedForMember(t *testing.T) {
	repo := &stubRepository{
		findByIDFn: func(context.Context, string) (*users.User, error) {
			return &users.User{ID: "u1", Username: "reader", Email: "r@e.com", Role: sec.RoleUser}, nil
		},
	}
	service := users.NewService(repo, testLogger())

	user, err := service.UpdateProfile(context.Background(), "u1", users.UpdateInput{
		Bio:  pointer.To("hello"),
		Role: pointer.To("admin"),
	})

	// The patch succeeds but the self-promotion is dropped.
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Equal(t, "hello", user.Bio)
}

func TestService_UpdateProfile_RoleAppliedForAdmin(t *testing.T) {
	repo := &stubRepository{
		findByIDFn: func(context.Context, string) (*users.User, error) {
			return &users.User{ID: "u1", Username: "boss", Email: "b@e.com", Role: sec.RoleAdmin}, nil
		},
	}
	service := users.NewService(repo, testLogger())

	user, err := service.UpdateProfile(context.Background(), "u1", users.UpdateInput{
		Role: pointer.To("moderator"),
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
}

func TestService_UpdateProfile_SuperuserMayChangeRole(t *testing.T) {
	repo := &stubRepository{
		findByIDFn: func(context.Context, string) (*users.User, error) {
			return &users.User{ID: "u1", Username: "root", Email: "s@e.com", Role: sec.RoleUser, IsSuperuser: true}, nil
		},
	}
	service := users.NewService(repo, testLogger())

	user, err := service.UpdateProfile(context.Background(), "u1", users.UpdateInput{
		Role: pointer.To("admin"),
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)
}
