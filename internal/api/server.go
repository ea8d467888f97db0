// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It is the composition root: repositories, services and handlers are
    built here from injected infrastructure (store, sessions, tokens).
  - Only this package and cmd/api import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vadali/newsroom/internal/core/article"
	"github.com/vadali/newsroom/internal/core/category"
	"github.com/vadali/newsroom/internal/core/comment"
	"github.com/vadali/newsroom/internal/core/tag"
	"github.com/vadali/newsroom/internal/platform/config"
	"github.com/vadali/newsroom/internal/platform/constants"
	"github.com/vadali/newsroom/internal/platform/middleware"
	"github.com/vadali/newsroom/internal/users/account"
	"github.com/vadali/newsroom/internal/users/auth"
	"github.com/vadali/newsroom/internal/users/contact"
	"github.com/vadali/newsroom/internal/users/notification"
	"github.com/vadali/newsroom/internal/users/subscriber"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	Auth          *auth.Handler
	Articles      *article.Handler
	Comments      *comment.Handler
	Categories    *category.Handler
	Users         *account.Handler
	Notifications *notification.Handler
	Tags          *tag.Handler
	Subscribers   *subscriber.Handler
	Contact       *contact.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		h.Auth.RegisterRoutes(api)
		h.Subscribers.RegisterRoutes(api)
		h.Contact.RegisterRoutes(api)

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/articles", h.Articles.Routes(h.Comments.ArticleRoutes))
		api.Mount("/comments", h.Comments.Routes())
		api.Mount("/categories", h.Categories.Routes())
		api.Mount("/users", h.Users.Routes())
		api.Mount("/notifications", h.Notifications.Routes())
		api.Route("/tags", h.Tags.RegisterRoutes)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
