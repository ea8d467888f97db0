// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides the identifiers used across the newsroom.

Entity keys are Version 7 values, so lexical order of keys is creation order
and a key-ordered scan returns items in insertion order. Opaque secrets such
as refresh tokens are random Version 4 values.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Random generates a random UUIDv4 string, unrelated to time.
func Random() string {
	return uuid.NewString()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
