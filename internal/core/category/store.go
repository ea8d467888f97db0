// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"

	"github.com/vadali/newsroom/pkg/pagination"
)

// Repository defines the data access contract for categories.
type Repository interface {

	/*
		FindByID returns the category with the given ID.

		Returns:
		  - error: docstore.ErrNotFound when absent
	*/
	FindByID(context context.Context, id string) (*Category, error)

	/*
		FindBySlug returns the category with the given slug.

		Returns:
		  - error: docstore.ErrNotFound when absent
	*/
	FindBySlug(context context.Context, slug string) (*Category, error)

	// List returns one page of categories in creation order.
	List(context context.Context, params pagination.Params, headerOnly bool) (pagination.Page[*Category], error)

	// All returns every category, used for ancestry checks.
	All(context context.Context) ([]*Category, error)

	// Create stamps ID and timestamps and persists a new category.
	Create(context context.Context, category *Category) error

	// Update merges the patch and refreshes UpdatedAt.
	Update(context context.Context, id string, patch Patch) (*Category, error)

	// Delete hard-deletes the category.
	Delete(context context.Context, id string) error
}
