// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

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

// Handler exposes user administration endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the user router.
//
//   - List, create and delete require ADMIN.
//   - Get and update require a token; the service allows self or ADMIN.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRoles(sec.RoleAdmin))
		admin.Get("/", handler.list)
		admin.Post("/", handler.create)
		admin.Delete("/{id}", handler.delete)
	})

	return router
}

// GET /api/v1/users.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, page)
}

// GET /api/v1/users/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.Get(request.Context(), claims, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
POST /api/v1/users.

Request (Body):
  - name, email: string (Required)
  - password: string (optional, min 8)
  - role: PUBLIC | AUTHOR | EDITOR | ADMIN (default AUTHOR)

Response:
  - 201: Profile
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

	profile, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, profile)
}

// PUT /api/v1/users/{id}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.Update(request.Context(), claims, requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

// DELETE /api/v1/users/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
