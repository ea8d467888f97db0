// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vadali/newsroom/internal/platform/ctxutil"
	"github.com/vadali/newsroom/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies the default fallback and the injected logger.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthUser verifies that AuthClaims round-trip through the context
and that role membership is exact.
*/
func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.False(t, ctxutil.HasRole(ctx, sec.RoleAdmin))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{
		UserID: "user-123",
		Email:  "editor@vadali.com",
		Role:   sec.RoleEditor,
	})

	retrieved := ctxutil.GetAuthUser(ctx)
	if assert.NotNil(t, retrieved) {
		assert.Equal(t, "user-123", retrieved.UserID)
		assert.Equal(t, sec.RoleEditor, retrieved.Role)
	}

	assert.True(t, ctxutil.HasRole(ctx, sec.RoleEditor, sec.RoleAdmin))
	assert.False(t, ctxutil.HasRole(ctx, sec.RoleAuthor))
	assert.False(t, ctxutil.HasRole(ctx, sec.RoleAdmin))
}
