// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Lists are cursor based. A request carries a "limit" and an opaque "cursor"
// (the legacy "lastEvaluatedKey" name is still accepted) and every list
// response uses the same [Page] envelope. Clients pass the cursor back
// verbatim and stop when HasMore is false.
package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
)

// Params holds the parsed limit and continuation cursor of a list request.
type Params struct {
	Limit  int
	Cursor string
}

// Page is the list envelope returned by every list endpoint.
type Page[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"hasMore"`
}

// NewPage builds a [Page], replacing a nil slice with an empty one so the
// envelope always serialises "items" as an array.
func NewPage[T any](items []T, cursor string, hasMore bool) Page[T] {
	if items == nil {
		items = []T{}
	}
	if !hasMore {
		cursor = ""
	}
	return Page[T]{Items: items, Cursor: cursor, HasMore: hasMore}
}

// FromRequest parses "limit" and "cursor" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or negative limits fall back to [DefaultLimit]; limits above
// [MaxLimit] are clamped to it.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()

	limit := DefaultLimit
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	cursor := query.Get("cursor")
	if cursor == "" {
		cursor = query.Get("lastEvaluatedKey")
	}

	return Params{Limit: limit, Cursor: cursor}
}
