// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadali/newsroom/internal/platform/middleware"
	requestutil "github.com/vadali/newsroom/internal/platform/request"
	"github.com/vadali/newsroom/internal/platform/respond"
	"github.com/vadali/newsroom/pkg/pagination"
)

// Handler exposes the notification inbox.
type Handler struct {
	service *Service
}

// NewHandler constructs a new notification [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the notification router. Every endpoint requires a token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/user/{userId}", handler.listForUser)
	router.Patch("/{id}/read", handler.markRead)

	return router
}

// GET /api/v1/notifications/user/{userId}.
func (handler *Handler) listForUser(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.ListForUser(request.Context(), claims, requestutil.Param(request, "userId"), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, page)
}

// PATCH /api/v1/notifications/{id}/read.
func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	notification, err := handler.service.MarkRead(request.Context(), claims, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, notification)
}
