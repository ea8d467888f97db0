// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/constants"
	"github.com/vadali/newsroom/internal/platform/ctxutil"
	"github.com/vadali/newsroom/internal/platform/respond"
	"github.com/vadali/newsroom/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. No Authorization header: the request proceeds as anonymous.
//  2. The header must be exactly "Bearer <token>", otherwise 401.
//  3. The token is verified via [TokenVerifier]; invalid or expired is 401.
//  4. [*sec.AuthClaims] are injected into the context and the request logger
//     gains a user_id attribute.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			tokenStr, ok := strings.CutPrefix(authHeader, constants.BearerPrefix)
			if !ok || tokenStr == "" || strings.ContainsAny(tokenStr, " \t") {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return RequireRoles()(next)
}

// RequireRoles blocks requests whose authenticated role is not one of roles.
//
// # Flow
//  1. Missing claims: 401.
//  2. Non-empty roles and the caller's role is not a member: 403.
//
// Membership is exact. A route open to editors and admins lists both.
func RequireRoles(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if len(roles) > 0 && !claims.Role.In(roles...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
