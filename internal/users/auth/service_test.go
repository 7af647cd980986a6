// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth_test

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

	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/sec"
	"github.com/velkore/critiq/internal/users"
	"github.com/velkore/critiq/internal/users/auth"
)

// memoryUserRepository is an in-memory users.Repository for flow tests.
type memoryUserRepository struct {
	accounts  []*users.User
	createErr error
}

func (m *memoryUserRepository) Create(_ context.Context, user *users.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.accounts = append(m.accounts, user)
	return nil
}

func (m *memoryUserRepository) FindByID(_ context.Context, id string) (*users.User, error) {
	for _, user := range m.accounts {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUserRepository) FindByUsername(_ context.Context, username string) (*users.User, error) {
	for _, user := range m.accounts {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUserRepository) FindByEmail(_ context.Context, email string) (*users.User, error) {
	for _, user := range m.accounts {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUserRepository) List(context.Context, string, int, int) ([]users.User, int, error) {
	return nil, 0, nil
}

func (m *memoryUserRepository) Update(context.Context, *users.User) error { return nil }

func (m *memoryUserRepository) Delete(context.Context, string) error { return nil }

// memoryCodeRepository is an in-memory auth.CodeRepository.
type memoryCodeRepository struct {
	codes map[string]string
}

func newMemoryCodeRepository() *memoryCodeRepository {
	return &memoryCodeRepository{codes: make(map[string]string)}
}

func (m *memoryCodeRepository) Set(_ context.Context, username, codeHash string, _ time.Duration) error {
	m.codes[username] = codeHash
	return nil
}

func (m *memoryCodeRepository) Get(_ context.Context, username string) (string, error) {
	codeHash, ok := m.codes[username]
	if !ok {
		return "", apperr.NotFound("Confirmation code")
	}
	return codeHash, nil
}

func (m *memoryCodeRepository) Delete(_ context.Context, username string) error {
	delete(m.codes, username)
	return nil
}

// captureSender records the last dispatched confirmation code.
type captureSender struct {
	email    string
	username string
	code     string
	sends    int
}

func (c *captureSender) SendConfirmationCode(_ context.Context, email, username, code string) error {
	c.email = email
	c.username = username
	c.code = code
	c.sends++
	return nil
}

// stubTokenProvider returns a fixed signed token.
type stubTokenProvider struct {
	lastRole      string
	lastSuperuser bool
}

func (s *stubTokenProvider) GenerateAccessToken(_, _, role string, isSuperuser bool, _ time.Duration) (string, error) {
	s.lastRole = role
	s.lastSuperuser = isSuperuser
	return "signed-token", nil
}

type fixture struct {
	service  *auth.Service
	userRepo *memoryUserRepository
	codeRepo *memoryCodeRepository
	sender   *captureSender
	tokens   *stubTokenProvider
}

func newFixture() *fixture {
	userRepo := &memoryUserRepository{}
	codeRepo := newMemoryCodeRepository()
	sender := &captureSender{}
	tokens := &stubTokenProvider{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:  auth.NewService(userRepo, codeRepo, sender, tokens, logger),
		userRepo: userRepo,
		codeRepo: codeRepo,
		sender:   sender,
		tokens:   tokens,
	}
}

func TestService_Signup_CreatesAccount(t *testing.T) {
	f := newFixture()

	user, err := f.service.Signup(context.Background(), auth.SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	require.Len(t, f.userRepo.accounts, 1)

	// A code was dispatched and its hash stored.
	assert.Equal(t, 1, f.sender.sends)
	assert.Equal(t, "reader@example.com", f.sender.email)
	storedHash := f.codeRepo.codes["reader"]
	require.NotEmpty(t, storedHash)
	assert.True(t, sec.CheckCodeHash(f.sender.code, storedHash))
}

func TestService_Signup_ResendsForMatchingPair(t *testing.T) {
	f := newFixture()

	first, err := f.service.Signup(context.Background(), auth.SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	second, err := f.service.Signup(context.Background(), auth.SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})

	// Same pair means resend, not conflict, and no duplicate account.
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.userRepo.accounts, 1)
	assert.Equal(t, 2, f.sender.sends)
}

func TestService_Signup_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignupInput
	}{
		{"username_taken_with_other_email", auth.SignupInput{Username: "reader", Email: "other@example.com"}},
		{"email_taken_with_other_username", auth.SignupInput{Username: "other", Email: "reader@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.service.Signup(context.Background(), auth.SignupInput{
				Username: "reader",
				Email:    "reader@example.com",
			})
			require.NoError(t, err)

			_, err = f.service.Signup(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperr.IsConflict(err))
			assert.Len(t, f.userRepo.accounts, 1)
		})
	}
}

func TestService_Signup_ConcurrentCreateLoserGetsConflict(t *testing.T) {
	// Two racing signups can both pass the lookups; the loser's insert
	// trips the unique constraint and must surface as a 409, not a 500.
	tests := []struct {
		name       string
		constraint string
	}{
		{"username_constraint", users.ConstraintUsername},
		{"email_constraint", users.ConstraintEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.userRepo.createErr = &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: tt.constraint,
			}

			_, err := f.service.Signup(context.Background(), auth.SignupInput{
				Username: "reader",
				Email:    "reader@example.com",
			})

			require.Error(t, err)
			assert.True(t, apperr.IsConflict(err))

			// No code is issued for an account that was never created.
			assert.Equal(t, 0, f.sender.sends)
		})
	}
}

func TestService_Signup_ReservedUsername(t *testing.T) {
	f := newFixture()

	_, err := f.service.Signup(context.Background(), auth.SignupInput{
		Username: "me",
		Email:    "me@example.com",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestService_Token_Success(t *testing.T) {
	f := newFixture()

	_, err := f.service.Signup(context.Background(), auth.SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	token, err := f.service.Token(context.Background(), "reader", f.sender.code)

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, "user", f.tokens.lastRole)
}

func TestService_Token_CodeIsSingleUse(t *testing.T) {
	f := newFixture()

	_, err := f.service.Signup(context.Background(), auth.SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	_, err = f.service.Token(context.Background(), "reader", f.sender.code)
	require.NoError(t, err)

	// Replaying the burned code must fail.
	_, err = f.service.Token(context.Background(), "reader", f.sender.code)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

func TestService_Token_UnknownUser(t *testing.T) {
	f := newFixture()

	_, err := f.service.Token(context.Background(), "ghost", "ABCDEFGH")

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_Token_WrongCode(t *testing.T) {
	f := newFixture()

	_, err := f.service.Signup(context.Background(), auth.SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	_, err = f.service.Token(context.Background(), "reader", "WRONGCODE")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)

	// A failed attempt does not burn the pending code.
	_, stillThere := f.codeRepo.codes["reader"]
	assert.True(t, stillThere)
}
