// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements login, registration and refresh-token sessions.

Access tokens are short-lived JWTs carrying userId, email and role. Refresh
tokens are random UUIDs kept both on the user record and in a session store
(Redis, or memory when no Redis is configured) with their own TTL.
*/
package auth

import (
	"time"

	"github.com/vadali/newsroom/internal/users/account"
)

// # Domain Types

// Session is the result of a successful login or refresh.
type Session struct {
	User         *account.Profile `json:"user"`
	Token        string           `json:"token"`
	RefreshToken string           `json:"refreshToken"`
}

// TokenTTL configures token lifetimes.
type TokenTTL struct {
	Access  time.Duration
	Refresh time.Duration
}

// # Field Identifiers

const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRefreshToken = "refreshToken"
)

// errInvalidCredentials covers both unknown users and wrong passwords.
const errInvalidCredentials = "Invalid email or password"
