// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vadali/newsroom/internal/platform/constants"
)

// RedisSessionRepository implements [SessionRepository] using Redis key expiry.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a Redis-backed [SessionRepository].
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

/*
Save stores the token with its userID and TTL.

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionRepository) Save(context context.Context, token, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, sessionKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
Lookup retrieves the userID for a token.

Returns:
  - string: Owning userID
  - error: ErrSessionNotFound or connectivity errors
*/
func (repository *RedisSessionRepository) Lookup(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return userID, nil
}

// Delete removes the token from Redis.
func (repository *RedisSessionRepository) Delete(context context.Context, token string) error {
	if err := repository.client.Del(context, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return constants.RedisPrefixSession + token
}
