// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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

// Handler exposes category endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new category [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the category router.
//
//   - Reads are public.
//   - Create and update require EDITOR or ADMIN.
//   - Delete requires ADMIN.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/slug/{slug}", handler.getBySlug)
	router.Get("/{id}", handler.get)

	router.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireRoles(sec.RoleEditor, sec.RoleAdmin))
		staff.Post("/", handler.create)
		staff.Put("/{id}", handler.update)
	})

	router.With(middleware.RequireRoles(sec.RoleAdmin)).Delete("/{id}", handler.delete)

	return router
}

/*
GET /api/v1/categories.

Request:
  - header: bool (only categories shown in the site header)
  - limit, cursor: pagination

Response:
  - 200: list envelope of Category
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	header, err := requestutil.QueryBool(request, "header")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.List(request.Context(), pagination.FromRequest(request), header != nil && *header)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, page)
}

// GET /api/v1/categories/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

// GET /api/v1/categories/slug/{slug}.
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
POST /api/v1/categories.

Request (Body):
  - name: string (Required)
  - slug, description, parentCategoryId: string
  - showInHeader: bool (default true)

Response:
  - 201: Category
  - 400, 409
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

// PUT /api/v1/categories/{id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

// DELETE /api/v1/categories/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
