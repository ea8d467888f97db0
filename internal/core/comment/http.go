// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

// Handler exposes comment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ArticleRoutes registers the comment endpoints nested under an article
// router, which owns the {id} parameter.
func (handler *Handler) ArticleRoutes(router chi.Router) {
	router.Post("/{id}/comments", handler.create)
	router.With(middleware.RequireRoles(sec.RoleEditor, sec.RoleAdmin)).
		Patch("/{id}/comments/{commentId}", handler.moderate)
}

// Routes returns the moderation queue router for EDITOR and ADMIN.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRoles(sec.RoleEditor, sec.RoleAdmin))
	router.Get("/", handler.queue)
	return router
}

/*
POST /api/v1/articles/{id}/comments.

Request (Body):
  - text: string (Required)

Response:
  - 201: Comment (PENDING, Anonymous User)
  - 400, 404
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

	comment, err := handler.service.Create(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

type moderateRequest struct {
	Status string `json:"status" validate:"notblank"`
}

// PATCH /api/v1/articles/{id}/comments/{commentId}.
func (handler *Handler) moderate(writer http.ResponseWriter, request *http.Request) {
	var input moderateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.Moderate(request.Context(),
		requestutil.Param(request, "id"), requestutil.Param(request, "commentId"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// GET /api/v1/comments?status=PENDING.
func (handler *Handler) queue(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.Queue(request.Context(), pagination.FromRequest(request), requestutil.Query(request, "status"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, page)
}
