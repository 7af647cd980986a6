// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
HTTP delivery layer for user account administration.

# Architecture

The handler acts as a thin mediation layer between the web and the domain
service:
  - Protocol: Standard RESTful JSON interface.
  - Security: Admin-only management endpoints plus self-service "/me" routes.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velkore/critiq/internal/authz"
	"github.com/velkore/critiq/internal/platform/middleware"
	requestutil "github.com/velkore/critiq/internal/platform/request"
	"github.com/velkore/critiq/internal/platform/respond"
	"github.com/velkore/critiq/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements user administration HTTP endpoints.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Routes returns a [chi.Router] configured with user management routes.
//
// # Endpoints
//   - GET    /            : Lists accounts (admin).
//   - POST   /            : Provisions an account (admin).
//   - GET    /me          : Returns the caller's profile.
//   - PATCH  /me          : Updates the caller's profile.
//   - GET    /{username}  : Returns an account (admin).
//   - PATCH  /{username}  : Updates an account (admin).
//   - DELETE /{username}  : Removes an account (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	// Static segment takes precedence over the wildcard below. The self
	// service routes reject anonymous callers at the router boundary.
	router.Group(func(me chi.Router) {
		me.Use(middleware.RequireAuth)
		me.Get("/me", handler.me)
		me.Patch("/me", handler.updateMe)
	})

	router.Get("/{username}", handler.get)
	router.Patch("/{username}", handler.update)
	router.Delete("/{username}", handler.delete)

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// actorFrom builds the authorization actor for the current request.
func actorFrom(request *http.Request) authz.Actor {
	return authz.ActorFromClaims(requestutil.Claims(request))
}

/*
List returns a page of user accounts.

GET /api/v1/users?search=&page=&limit=

Description: Admin-only listing with an optional username substring filter.

Response:
  - 200: []User: Page of accounts with pagination metadata
  - 401: ErrUnauthorized: Missing credentials
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Decide(authz.IsAdmin, actorFrom(request), authz.ActionRead, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	result, total, err := handler.userService.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create provisions a new user account.

POST /api/v1/users

Description: Admin-only account creation with an optional role assignment.

Request:
  - Body: createUserRequest (Username, Email, FirstName, LastName, Bio, Role)

Response:
  - 201: User: Created account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or email already exists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Decide(authz.IsAdmin, actorFrom(request), authz.ActionCreate, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.userService.Create(request.Context(), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Get returns a single account by username.

GET /api/v1/users/{username}

Response:
  - 200: User: The account
  - 403: ErrForbidden: Caller is not an admin
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Decide(authz.IsAdmin, actorFrom(request), authz.ActionRead, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.userService.GetByUsername(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Update applies a partial change to an account.

PATCH /api/v1/users/{username}

Response:
  - 200: User: Updated account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 404: ErrNotFound: No such account
  - 409: ErrConflict: Username or email already exists
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Decide(authz.IsAdmin, actorFrom(request), authz.ActionUpdate, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.userService.Update(request.Context(), requestutil.Param(request, "username"), UpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Delete permanently removes an account.

DELETE /api/v1/users/{username}

Response:
  - 204: No Content: Account removed
  - 403: ErrForbidden: Caller is not an admin
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Decide(authz.IsAdmin, actorFrom(request), authz.ActionDelete, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.Delete(request.Context(), requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Me returns the authenticated caller's profile.

GET /api/v1/users/me

Response:
  - 200: User: The caller's account
  - 401: ErrUnauthorized: Missing credentials
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.userService.GetProfile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateMe applies a partial change to the caller's own profile.

PATCH /api/v1/users/me

Description: Role changes are silently discarded for non-admin callers; the
rest of the patch still applies.

Response:
  - 200: User: Updated account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: Missing credentials
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.userService.UpdateProfile(request.Context(), claims.UserID, UpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
