// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
HTTP delivery layer for registration and token issuance.

# Architecture

The handler acts as a thin mediation layer between the web and the domain
service:
  - Protocol: Standard RESTful JSON interface.
  - Security: Both endpoints are public; everything sensitive happens in [Service].
  - Verification: Enforces strict input validation before passing to [Service].
*/

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/velkore/critiq/internal/platform/request"
	"github.com/velkore/critiq/internal/platform/respond"
	"github.com/velkore/critiq/internal/platform/validate"
	"github.com/velkore/critiq/internal/users"
)

// # Field Identifiers

const (
	FieldConfirmationCode = "confirmation_code"
	FieldAccessToken      = "access_token"
	FieldTokenType        = "token_type"
	FieldExpiresIn        = "expires_in"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /signup : Registers an account and emails a confirmation code.
//   - POST /token  : Exchanges a username and code for a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
Signup registers a new account or re-issues a confirmation code.

POST /api/v1/auth/signup

Description: Validates input, resolves the XOR matching rule against
existing accounts, and dispatches a confirmation code over email.

Request:
  - Body: signupRequest (Username, Email)

Response:
  - 200: Identity echo: Username and email the code was sent to
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or email belongs to another account
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Echo back the identity only; the code travels exclusively over email.
	respond.OK(writer, map[string]string{
		users.FieldUsername: user.Username,
		users.FieldEmail:    user.Email,
	})
}

/*
Token exchanges a username and confirmation code for an access token.

POST /api/v1/auth/token

Request:
  - Body: tokenRequest (Username, ConfirmationCode)

Response:
  - 200: TokenOutput: Signed bearer token
  - 400: ErrInvalidJSON: Missing fields
  - 401: ErrUnauthorized: Wrong or expired code
  - 404: ErrNotFound: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(users.FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Token(request.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: token.AccessToken,
		FieldTokenType:   token.TokenType,
		FieldExpiresIn:   token.ExpiresIn / time.Second,
	})
}
