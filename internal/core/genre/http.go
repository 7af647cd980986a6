package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velkore/critiq/internal/authz"
	requestutil "github.com/velkore/critiq/internal/platform/request"
	"github.com/velkore/critiq/internal/platform/respond"
	"github.com/velkore/critiq/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{slug}", handler.delete)

	return router
}

type createGenreRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	result, total, err := handler.service.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor := authz.ActorFromClaims(requestutil.Claims(request))
	if err := authz.Decide(authz.IsAdminOrReadOnly, actor, authz.ActionCreate, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createGenreRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.service.Create(request.Context(), CreateInput{
		Name: input.Name,
		Slug: input.Slug,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, genre)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor := authz.ActorFromClaims(requestutil.Claims(request))
	if err := authz.Decide(authz.IsAdminOrReadOnly, actor, authz.ActionDelete, nil); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
