// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
HTTP delivery layer for the title catalogue.

Reads are public for anonymous browsing; catalogue mutations are reserved
for administrators.
*/

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/velkore/critiq/internal/authz"
	requestutil "github.com/velkore/critiq/internal/platform/request"
	"github.com/velkore/critiq/internal/platform/respond"
	"github.com/velkore/critiq/pkg/pagination"
	"github.com/velkore/critiq/pkg/query"
)

// # Definitions & Constructors

// Handler implements title catalogue HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with catalogue routes.
//
// # Endpoints
//   - GET    /           : Lists titles with filters (public).
//   - POST   /           : Creates a title (admin).
//   - GET    /{titleID}  : Returns a title (public).
//   - PATCH  /{titleID}  : Updates a title (admin).
//   - DELETE /{titleID}  : Removes a title (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{titleID}", handler.get)
	router.Patch("/{titleID}", handler.update)
	router.Delete("/{titleID}", handler.delete)

	return router
}

// # Request Payloads

type createTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type updateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

/*
List returns a page of titles.

GET /api/v1/titles?category=&genre=&name=&year=&page=&limit=

Description: Supports filtering by category slug, a comma-separated genre
slug list, a name substring, and an exact year.

Response:
  - 200: []Title: Page of titles with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	values := request.URL.Query()

	filter := Filter{
		CategorySlug: values.Get("category"),
		GenreSlugs:   query.StringSlice(values.Get("genre")),
		Name:         values.Get("name"),
	}
	if rawYear := values.Get("year"); rawYear != "" {
		if year, err := strconv.Atoi(rawYear); err == nil {
			filter.Year = &year
		}
	}

	result, total, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create adds a new title to the catalogue.

POST /api/v1/titles

Request:
  - Body: createTitleRequest (Name, Year, Description, Category, Genre)

Response:
  - 201: Title: Created entry
  - 400: ErrInvalidJSON: Bad input, future year, or unknown reference slug
  - 409: ErrConflict: Duplicate (category, name, year)
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor := authz.ActorFromClaims(requestutil.Claims(request))
	if err := authz.Decide(authz.IsAdminOrReadOnly, actor, authz.ActionCreate, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), CreateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
Get returns a single title.

GET /api/v1/titles/{titleID}

Response:
  - 200: Title: The entry with its current rating
  - 404: ErrNotFound: No such title
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Update applies a partial change to a title.

PATCH /api/v1/titles/{titleID}

Response:
  - 200: Title: Updated entry
  - 400: ErrInvalidJSON: Bad input or unknown reference slug
  - 404: ErrNotFound: No such title
  - 409: ErrConflict: Duplicate (category, name, year)
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor := authz.ActorFromClaims(requestutil.Claims(request))
	if err := authz.Decide(authz.IsAdminOrReadOnly, actor, authz.ActionUpdate, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, UpdateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Delete removes a title from the catalogue.

DELETE /api/v1/titles/{titleID}

Response:
  - 204: No Content: Title removed
  - 404: ErrNotFound: No such title
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor := authz.ActorFromClaims(requestutil.Claims(request))
	if err := authz.Decide(authz.IsAdminOrReadOnly, actor, authz.ActionDelete, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
