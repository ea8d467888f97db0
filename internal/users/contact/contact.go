// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package contact accepts contact-form messages. Messages are written to the
// log only.
package contact

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/vadali/newsroom/internal/platform/request"
	"github.com/vadali/newsroom/internal/platform/respond"
	"github.com/vadali/newsroom/internal/platform/validate"
)

// Message is one contact-form submission.
type Message struct {
	Name    string `json:"name" validate:"notblank,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject,omitempty" validate:"max=200"`
	Message string `json:"message" validate:"notblank,max=5000"`
}

// Service records contact messages.
type Service struct {
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Submit validates and logs a message.
func (service *Service) Submit(context context.Context, message Message) error {
	if err := validate.Struct(message); err != nil {
		return err
	}

	service.logger.InfoContext(context, "contact_message_received",
		slog.String("name", strings.TrimSpace(message.Name)),
		slog.String("email", strings.TrimSpace(message.Email)),
		slog.String("subject", message.Subject),
		slog.Int("message_length", len(message.Message)),
	)
	return nil
}

// Handler exposes POST /contact.
type Handler struct {
	service *Service
}

// NewHandler constructs a new contact [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the contact endpoint at the API root.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/contact", handler.submit)
}

// POST /api/v1/contact.
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var message Message
	if err := requestutil.DecodeJSON(request, &message); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Submit(request.Context(), message); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
