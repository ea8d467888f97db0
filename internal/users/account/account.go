// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account owns user records and their administration.

The stored [User] carries the password hash and the latest refresh token;
neither ever leaves the service. Every response uses [Profile].
*/
package account

import (
	"strings"
	"time"

	"github.com/vadali/newsroom/internal/platform/sec"
)

// # Domain Entities

// User is a registered member as stored.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"password,omitempty"` // bcrypt hash
	Role         sec.Role  `json:"role"`
	AvatarURL    string    `json:"avatarUrl"`
	Bio          string    `json:"bio"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the public view of a user.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      sec.Role  `json:"role"`
	AvatarURL string    `json:"avatarUrl"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile strips credentials from the user.
func (user *User) Profile() *Profile {
	return &Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NormalizeEmail trims and lowercases an address for storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Field Identifiers

const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRole         = "role"
	FieldRefreshToken = "refreshToken"
)
