// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package auth implements passwordless registration and token issuance.

Instead of passwords, accounts are activated through short-lived confirmation
codes delivered over email. Presenting a valid username and code at the token
endpoint yields a signed JWT access token.

Architecture:

  - Service: Orchestrates business logic (Signup, Token).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Codes).
  - Security: Bcrypt-hashed codes and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/constants"
	"github.com/velkore/critiq/internal/platform/dberr"
	"github.com/velkore/critiq/internal/platform/sec"
	"github.com/velkore/critiq/internal/platform/validate"
	"github.com/velkore/critiq/internal/users"
	"github.com/velkore/critiq/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - isSuperuser: The internal operator flag, folded into admin checks.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAccessToken(userID, username, role string, isSuperuser bool, timeToLive time.Duration) (string, error)
}

// CodeRepository defines the cache contract for confirmation code hashes.
//
// Codes are stored hashed and expire automatically; a verified code must be
// deleted so it cannot be replayed.
type CodeRepository interface {
	// Set stores a code hash for a username with the given TTL.
	Set(context context.Context, username, codeHash string, ttl time.Duration) error

	// Get retrieves the stored code hash for a username.
	// Returns apperr.NotFound if absent or expired.
	Get(context context.Context, username string) (string, error)

	// Delete removes the stored code hash for a username.
	Delete(context context.Context, username string) error
}

// CodeSender delivers confirmation codes to users.
//
// Email transport is an external collaborator; the service only depends on
// this contract so delivery can be swapped without touching the flow.
type CodeSender interface {
	// SendConfirmationCode delivers a plain-text code to the given address.
	SendConfirmationCode(context context.Context, email, username, code string) error
}

// Service implements the registration and token issuance use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code issuance or
// token logic must be reviewed by the security team.
type Service struct {
	userRepository users.Repository
	codeRepository CodeRepository
	codeSender     CodeSender
	tokenProvider  TokenProvider
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo users.Repository,
	codeRepo CodeRepository,
	sender CodeSender,
	tokenProv TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeRepository: codeRepo,
		codeSender:     sender,
		tokenProvider:  tokenProv,
		logger:         logger,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers a new account or re-issues a confirmation code.

Description: The username/email pair is matched against existing accounts.
When BOTH fields match the same account, the request is treated as a code
resend so users who lost their email can recover. When only one field
matches (or the two fields match different accounts), the request is a
conflict. When neither matches, a fresh account is created with the member
role and a confirmation code is issued.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *users.User: The account a code was issued for
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*users.User, error) {
	validator := &validate.Validator{}
	validator.Required(users.FieldUsername, input.Username).
		Username(users.FieldUsername, input.Username).
		Required(users.FieldEmail, input.Email).
		Email(users.FieldEmail, input.Email).
		MaxLen(users.FieldEmail, input.Email, constants.EmailMaxLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	byUsername, usernameErr := service.userRepository.FindByUsername(context, input.Username)
	byEmail, emailErr := service.userRepository.FindByEmail(context, input.Email)

	usernameTaken := usernameErr == nil
	emailTaken := emailErr == nil

	switch {
	case usernameTaken && emailTaken && byUsername.ID == byEmail.ID:
		// Both fields point at the same account: re-issue the code.
		if err := service.issueCode(context, byUsername); err != nil {
			return nil, err
		}
		return byUsername, nil

	case usernameTaken:
		return nil, apperr.Conflict("A user with this username already exists")

	case emailTaken:
		return nil, apperr.Conflict("A user with this email already exists")
	}

	if usernameErr != nil && !apperr.IsNotFound(usernameErr) {
		return nil, fmt.Errorf("auth_service_signup_username_lookup_failed: %w", usernameErr)
	}
	if emailErr != nil && !apperr.IsNotFound(emailErr) {
		return nil, fmt.Errorf("auth_service_signup_email_lookup_failed: %w", emailErr)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &users.User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		// Two concurrent signups can both pass the lookups above; the loser
		// trips the unique constraint and must still read as a conflict.
		if dberr.IsUniqueViolation(err, users.ConstraintUsername) {
			return nil, apperr.Conflict("A user with this username already exists")
		}
		if dberr.IsUniqueViolation(err, users.ConstraintEmail) {
			return nil, apperr.Conflict("A user with this email already exists")
		}
		return nil, fmt.Errorf("auth_service_signup_create_failed: %w", err)
	}

	if err := service.issueCode(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_signed_up",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// issueCode generates, stores, and delivers a fresh confirmation code.
//
// The plain code exists only in memory and in the outgoing email; storage
// holds a bcrypt hash under a TTL-bound key.
func (service *Service) issueCode(context context.Context, user *users.User) error {
	code, err := sec.GenerateConfirmationCode(constants.ConfirmationCodeLength)
	if err != nil {
		return fmt.Errorf("auth_service_code_generate_failed: %w", err)
	}

	codeHash, err := sec.HashCode(code)
	if err != nil {
		return fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	if err := service.codeRepository.Set(context, user.Username, codeHash, constants.ConfirmationCodeTTL); err != nil {
		return fmt.Errorf("auth_service_code_store_failed: %w", err)
	}

	if err := service.codeSender.SendConfirmationCode(context, user.Email, user.Username, code); err != nil {
		return fmt.Errorf("auth_service_code_send_failed: %w", err)
	}

	return nil
}

// # Token Issuance

// TokenOutput carries the issued access token and its metadata.
type TokenOutput struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}

/*
Token exchanges a username and confirmation code for a JWT access token.

Description: Resolves the account, verifies the presented code against the
stored hash, burns the code, and signs an access token carrying the user's
identity and role.

Parameters:
  - context: context.Context
  - username: string
  - code: string (Plain-text confirmation code)

Returns:
  - *TokenOutput: Signed token and metadata
  - error: apperr.NotFound (unknown user), apperr.Unauthorized (bad code), or signing failures
*/
func (service *Service) Token(context context.Context, username, code string) (*TokenOutput, error) {
	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		// Unknown usernames read as missing resources, not failed logins.
		return nil, fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}

	codeHash, err := service.codeRepository.Get(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Confirmation code is invalid or expired")
		}
		return nil, fmt.Errorf("auth_service_token_code_lookup_failed: %w", err)
	}

	if !sec.CheckCodeHash(code, codeHash) {
		return nil, apperr.Unauthorized("Confirmation code is invalid or expired")
	}

	// Single use: a verified code must never authenticate twice.
	if err := service.codeRepository.Delete(context, username); err != nil {
		return nil, fmt.Errorf("auth_service_token_code_burn_failed: %w", err)
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID,
		user.Username,
		string(user.Role),
		user.IsSuperuser,
		constants.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_sign_failed: %w", err)
	}

	service.logger.Info("access_token_issued", slog.String("user_id", user.ID))

	return &TokenOutput{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   constants.AccessTokenTTL,
	}, nil
}
