// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tag aggregates the free-text tags of published articles.
package tag

// Count is how many published articles carry a tag. Name keeps the casing
// first seen.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
