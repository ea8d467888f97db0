// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadali/newsroom/internal/platform/middleware"
	requestutil "github.com/vadali/newsroom/internal/platform/request"
	"github.com/vadali/newsroom/internal/platform/respond"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/platform/validate"
	"github.com/vadali/newsroom/pkg/pagination"
)

// # Handler Implementation

// Handler exposes article endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new article [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the article router. Nested feature routes (comments) are
// registered through extensions on the same router.
//
//   - Reads and view counting are public; visibility depends on the token.
//   - Writing and review require AUTHOR, EDITOR or ADMIN.
func (handler *Handler) Routes(extensions ...func(chi.Router)) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/slug/{slug}", handler.getBySlug)
	router.Get("/{id}", handler.get)
	router.Post("/{id}/views", handler.recordView)

	router.Group(func(writers chi.Router) {
		writers.Use(middleware.RequireRoles(sec.RoleAuthor, sec.RoleEditor, sec.RoleAdmin))

		writers.Post("/", handler.create)
		writers.Put("/{id}", handler.update)
		writers.Delete("/{id}", handler.delete)
		writers.Patch("/{id}/status", handler.changeStatus)
	})

	for _, extend := range extensions {
		extend(router)
	}
	return router
}

/*
GET /api/v1/articles.

Request:
  - categoryId | categorySlug | category: string
  - tag, authorId, query: string
  - status: string (default Published, ALL for every status)
  - featured, isAdvertisement: bool
  - sort: createdAt | publishedAt | views
  - limit, cursor: pagination

Response:
  - 200: list envelope of Article
  - 400, 401, 403
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	featured, err := firstBool(request, "featured", "isFeatured")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	advertisement, err := firstBool(request, "isAdvertisement", "advertisement")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Category:      firstQuery(request, "categoryId", "categorySlug", "category"),
		Tag:           requestutil.Query(request, "tag"),
		AuthorID:      requestutil.Query(request, "authorId"),
		Query:         firstQuery(request, "query", "q"),
		Status:        requestutil.Query(request, "status"),
		Featured:      featured,
		Advertisement: advertisement,
		Sort:          requestutil.Query(request, "sort"),
	}

	page, err := handler.service.List(request.Context(), requestutil.Claims(request), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, page)
}

// GET /api/v1/articles/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.service.Get(request.Context(), requestutil.Claims(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

// GET /api/v1/articles/slug/{slug}.
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.service.GetBySlug(request.Context(), requestutil.Claims(request), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

/*
POST /api/v1/articles.

Request (Body): Article fields; title is required.

Response:
  - 201: Article
  - 400, 403, 409
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, input, ok := decodeInput(writer, request)
	if !ok {
		return
	}

	article, err := handler.service.Create(request.Context(), claims, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, article)
}

// PUT /api/v1/articles/{id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, input, ok := decodeInput(writer, request)
	if !ok {
		return
	}

	article, err := handler.service.Update(request.Context(), claims, requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

// DELETE /api/v1/articles/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), claims, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
PATCH /api/v1/articles/{id}/status.

Request (Body):
  - status: string (Required)
  - reason: string (Required when rejecting)
  - publishAt: RFC 3339 instant (optional, schedules publication)

Response:
  - 200: Article
  - 400, 403, 404, 422
*/
func (handler *Handler) changeStatus(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input StatusInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.ChangeStatus(request.Context(), claims, requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, article)
}

type viewCount struct {
	ID    string `json:"id"`
	Views int64  `json:"views"`
}

// POST /api/v1/articles/{id}/views.
func (handler *Handler) recordView(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	views, err := handler.service.RecordView(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, viewCount{ID: id, Views: views})
}

// # Request Helpers

func decodeInput(writer http.ResponseWriter, request *http.Request) (*sec.AuthClaims, Input, bool) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return nil, Input{}, false
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return nil, Input{}, false
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return nil, Input{}, false
	}
	return claims, input, true
}

func firstQuery(request *http.Request, names ...string) string {
	for _, name := range names {
		if value := requestutil.Query(request, name); value != "" {
			return value
		}
	}
	return ""
}

func firstBool(request *http.Request, names ...string) (*bool, error) {
	for _, name := range names {
		value, err := requestutil.QueryBool(request, name)
		if err != nil || value != nil {
			return value, err
		}
	}
	return nil, nil
}
