// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscriber

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadali/newsroom/internal/platform/middleware"
	requestutil "github.com/vadali/newsroom/internal/platform/request"
	"github.com/vadali/newsroom/internal/platform/respond"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/pkg/pagination"
)

// Handler exposes the newsletter endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new subscriber [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the newsletter endpoints at the API root.
//
// # Endpoints
//   - POST /subscribe, /unsubscribe
//   - GET  /subscribers (ADMIN)
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/subscribe", handler.subscribe)
	router.Post("/unsubscribe", handler.unsubscribe)
	router.With(middleware.RequireAuth, middleware.RequireRoles(sec.RoleAdmin)).Get("/subscribers", handler.list)
}

/*
POST /api/v1/subscribe.

Response:
  - 201: New subscription
  - 200: Reactivated subscription
  - 400, 409
*/
func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	subscriber, created, err := handler.service.Subscribe(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if created {
		respond.Created(writer, subscriber)
		return
	}
	respond.OK(writer, subscriber)
}

// POST /api/v1/unsubscribe.
func (handler *Handler) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Unsubscribe(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// GET /api/v1/subscribers.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, page)
}
