// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category manages the section tree used for article classification
and header navigation.

Categories form a tree through ParentCategoryID. The service rejects a parent
that does not exist or would close a cycle.
*/
package category

import "time"

// Category is a section of the publication.
type Category struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ParentCategoryID string    `json:"parentCategoryId,omitempty"`
	ShowInHeader     bool      `json:"showInHeader"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Patch holds the mutable fields of an update. Nil means unchanged; an
// empty ParentCategoryID detaches the category from its parent.
type Patch struct {
	Name             *string `json:"name,omitempty"`
	Slug             *string `json:"slug,omitempty"`
	Description      *string `json:"description,omitempty"`
	ParentCategoryID *string `json:"parentCategoryId,omitempty"`
	ShowInHeader     *bool   `json:"showInHeader,omitempty"`
}

// # Field Identifiers

const (
	FieldName             = "name"
	FieldSlug             = "slug"
	FieldParentCategoryID = "parentCategoryId"
)
