// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for unknown or expired refresh tokens.
var ErrSessionNotFound = errors.New("auth: session not found")

// # Session Data Access

// SessionRepository stores refresh-token sessions.
type SessionRepository interface {

	/*
		Save maps a refresh token to its user for ttl.

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, token, userID string, ttl time.Duration) error

	/*
		Lookup returns the user a live refresh token belongs to.

		Returns:
		  - error: ErrSessionNotFound when unknown or expired
	*/
	Lookup(context context.Context, token string) (string, error)

	// Delete forgets a refresh token. Unknown tokens are not an error.
	Delete(context context.Context, token string) error
}

// MemorySessionRepository keeps sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// NewMemorySessionRepository creates an empty in-memory session store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: map[string]memorySession{}, now: time.Now}
}

func (repository *MemorySessionRepository) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	now := repository.now()
	for key, session := range repository.sessions {
		if !session.expiresAt.After(now) {
			delete(repository.sessions, key)
		}
	}
	repository.sessions[token] = memorySession{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (repository *MemorySessionRepository) Lookup(_ context.Context, token string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	session, ok := repository.sessions[token]
	if !ok || !session.expiresAt.After(repository.now()) {
		delete(repository.sessions, token)
		return "", ErrSessionNotFound
	}
	return session.userID, nil
}

func (repository *MemorySessionRepository) Delete(_ context.Context, token string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.sessions, token)
	return nil
}
