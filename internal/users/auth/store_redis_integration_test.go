// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package auth_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	platformredis "github.com/vadali/newsroom/internal/platform/redis"
	"github.com/vadali/newsroom/internal/users/auth"
)

func TestRedisSessionRepository(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)

	client, err := platformredis.NewClient(ctx, fmt.Sprintf("redis://%s/0", endpoint), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sessions := auth.NewRedisSessionRepository(client)

	require.NoError(t, sessions.Save(ctx, "token-1", "user-1", time.Hour))
	userID, err := sessions.Lookup(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	ttl, err := client.TTL(ctx, "auth:session:token-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, sessions.Delete(ctx, "token-1"))
	_, err = sessions.Lookup(ctx, "token-1")
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}
