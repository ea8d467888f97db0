// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadali/newsroom/internal/platform/respond"
	"github.com/vadali/newsroom/pkg/pagination"
)

type Handler struct {
	service *Service
}

// NewHandler constructs a new tag [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the tag cloud to a router mounted at /tags.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTags)
}

// GET /api/v1/tags.
func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	counts, err := handler.service.ListTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.List(writer, pagination.NewPage(counts, "", false))
}
