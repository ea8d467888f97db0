// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/dberr"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/users/account"
	"github.com/vadali/newsroom/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use cases.
type Service struct {
	users    account.Repository
	fallback account.Repository
	sessions SessionRepository
	tokens   TokenProvider
	ttl      TokenTTL
	logger   *slog.Logger
}

// NewService constructs a new [Service]. fallback may be nil; when set, it
// answers logins while the primary user store is failing.
func NewService(users, fallback account.Repository, sessions SessionRepository, tokens TokenProvider, ttl TokenTTL, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		fallback: fallback,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string `json:"name" validate:"notblank,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

/*
Register creates an account. The very first account becomes ADMIN; every
later one starts as AUTHOR.

Returns:
  - *account.Profile: Created profile
  - error: Conflict when the email is registered, storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*account.Profile, error) {
	email := account.NormalizeEmail(input.Email)
	if err := account.EnsureEmailFree(context, service.users, email, ""); err != nil {
		return nil, err
	}

	empty, err := service.users.IsEmpty(context)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	role := sec.RoleAuthor
	if empty {
		role = sec.RoleAdmin
	}

	user := &account.User{Name: strings.TrimSpace(input.Name), Email: email, Role: role}
	if input.Password != "" {
		hash, err := sec.HashPassword(input.Password)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
		}
		user.Password = hash
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID), slog.String("role", string(role)))
	return user.Profile(), nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

/*
Login verifies credentials and issues a token pair.

Description: The email is tried as given, then lowercased. When the primary
store fails outright the fallback store is consulted instead.

Returns:
  - *Session: Profile and tokens
  - error: A generic 401 for any credential mismatch
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	user, repo, err := service.findForLogin(context, strings.TrimSpace(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !sec.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperr.Unauthorized(errInvalidCredentials)
	}

	session, err := service.issue(context, repo, user)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

// findForLogin resolves the user and the repository that holds it.
func (service *Service) findForLogin(context context.Context, email string) (*account.User, account.Repository, error) {
	user, err := lookupEmail(context, service.users, email)
	if err == nil {
		return user, service.users, nil
	}
	if service.fallback == nil {
		return nil, nil, apperr.Internal(err)
	}

	service.logger.Warn("login_primary_store_failed_using_fallback", slog.Any("error", err))
	user, err = lookupEmail(context, service.fallback, email)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return user, service.fallback, nil
}

// lookupEmail tries the exact then the lowercased address. A nil user with a
// nil error means neither matched; any other error is a store failure.
func lookupEmail(context context.Context, repo account.Repository, email string) (*account.User, error) {
	candidates := []string{email}
	if lowered := strings.ToLower(email); lowered != email {
		candidates = append(candidates, lowered)
	}

	for _, candidate := range candidates {
		user, err := repo.FindByEmail(context, candidate)
		switch {
		case err == nil:
			return user, nil
		case errors.Is(err, docstore.ErrNotFound):
			continue
		default:
			return nil, err
		}
	}
	return nil, nil
}

// # Session Management

/*
Refresh rotates a refresh token into a new token pair.

Description: The session is rotated in whichever repository holds the
token, so sessions issued by a fallback login stay refreshable.

Returns:
  - *Session: New tokens
  - error: 401 when the token is unknown, expired or superseded
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {
	invalid := apperr.Unauthorized("Invalid or expired refresh token")

	userID, err := service.sessions.Lookup(context, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, invalid
		}
		return nil, apperr.Internal(err)
	}

	user, repo, err := service.sessionHolder(context, userID, refreshToken)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = service.sessions.Delete(context, refreshToken)
		return nil, invalid
	}

	if err := service.sessions.Delete(context, refreshToken); err != nil {
		return nil, apperr.Internal(err)
	}
	return service.issue(context, repo, user)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	userID, err := service.sessions.Lookup(context, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return apperr.Internal(err)
	}
	if err := service.sessions.Delete(context, refreshToken); err != nil {
		return apperr.Internal(err)
	}

	user, repo, err := service.sessionHolder(context, userID, refreshToken)
	if err != nil || user == nil {
		return err
	}
	if err := repo.SetRefreshToken(context, user.ID, ""); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return apperr.Internal(err)
	}
	return nil
}

/*
sessionHolder finds the user whose record still carries token, looking in
the primary repository and then the fallback.

Returns:
  - *account.User: nil when no record holds the token
  - account.Repository: The repository the user was found in
  - error: 500 when the primary store fails and no fallback holds the token
*/
func (service *Service) sessionHolder(context context.Context, userID, token string) (*account.User, account.Repository, error) {
	user, primaryErr := service.users.FindByID(context, userID)
	if primaryErr == nil && user.RefreshToken == token {
		return user, service.users, nil
	}
	if errors.Is(primaryErr, docstore.ErrNotFound) {
		primaryErr = nil
	}

	if service.fallback != nil {
		user, err := service.fallback.FindByID(context, userID)
		switch {
		case err == nil && user.RefreshToken == token:
			return user, service.fallback, nil
		case err != nil && !errors.Is(err, docstore.ErrNotFound):
			return nil, nil, apperr.Internal(err)
		}
	}

	if primaryErr != nil {
		return nil, nil, apperr.Internal(primaryErr)
	}
	return nil, nil, nil
}

// Me returns the profile of the token holder, consulting the fallback
// repository when the primary has no usable record.
func (service *Service) Me(context context.Context, claims *sec.AuthClaims) (*account.Profile, error) {
	user, err := service.users.FindByID(context, claims.UserID)
	if err != nil && service.fallback != nil {
		if fallbackUser, fallbackErr := service.fallback.FindByID(context, claims.UserID); fallbackErr == nil {
			user, err = fallbackUser, nil
		}
	}
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user.Profile(), nil
}

// issue signs an access token, mints a refresh token and records it on the
// user and in the session store.
func (service *Service) issue(context context.Context, repo account.Repository, user *account.User) (*Session, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role), service.ttl.Access)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	refreshToken := uuid.Random()
	if err := repo.SetRefreshToken(context, user.ID, refreshToken); err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_token_failed: %w", err))
	}
	if err := service.sessions.Save(context, refreshToken, user.ID, service.ttl.Refresh); err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_session_creation_failed: %w", err))
	}

	return &Session{User: user.Profile(), Token: accessToken, RefreshToken: refreshToken}, nil
}
