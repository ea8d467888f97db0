// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # User Roles

// Role represents the authorization level granted to an account.
//
// Roles are a flat set. No role implies another; gates list every role they
// admit.
type Role string

const (
	// Read-only visitor account
	RolePublic Role = "PUBLIC"

	// Writes and submits their own articles
	RoleAuthor Role = "AUTHOR"

	// Reviews, schedules and publishes articles, moderates comments
	RoleEditor Role = "EDITOR"

	// Manages users, categories and subscribers
	RoleAdmin Role = "ADMIN"
)

// Roles lists every valid role.
var Roles = []Role{RolePublic, RoleAuthor, RoleEditor, RoleAdmin}

// In reports whether r is one of the given roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r.In(Roles...)
}

// ParseRole maps a case-insensitive role name to a [Role].
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	return role, role.Valid()
}
