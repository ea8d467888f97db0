// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadali/newsroom/internal/platform/middleware"
	requestutil "github.com/vadali/newsroom/internal/platform/request"
	"github.com/vadali/newsroom/internal/platform/respond"
	"github.com/vadali/newsroom/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns the /auth router.
//
// # Endpoints
//   - POST /register, /login, /refresh, /logout
//   - GET  /me (token required)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	handler.RegisterRoutes(router)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.With(middleware.RequireAuth).Get("/me", handler.me)

	return router
}

// RegisterRoutes mounts login and register on an existing router, so they
// are also reachable at the API root.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"notblank"`
}

/*
POST /api/v1/register.

Request:
  - Body: name, email, password (optional)

Response:
  - 201: Profile
  - 400, 409
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, profile)
}

/*
POST /api/v1/login.

Response:
  - 200: {user, token, refreshToken}
  - 400: missing fields
  - 401: invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session)
}

// POST /api/v1/auth/refresh.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session)
}

// POST /api/v1/auth/logout.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// GET /api/v1/auth/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.authService.Me(request.Context(), claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}
