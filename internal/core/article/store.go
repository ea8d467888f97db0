// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"

	"github.com/vadali/newsroom/pkg/pagination"
)

// Repository defines the data access contract for articles.
//
// Every write strips publishedAt from non-published records and never
// persists hydrated comments.
type Repository interface {
	FindByID(context context.Context, id string) (*Article, error)
	FindBySlug(context context.Context, slug string) (*Article, error)

	/*
		Find collects articles accepted by keep in storage order.

		Parameters:
		  - status: restricts the read to the status index when non-empty
		  - cursor: continuation from a previous page
		  - limit: page size, zero returns every match

		Returns:
		  - pagination.Page[*Article]: one page of matches
	*/
	Find(context context.Context, status Status, keep func(*Article) bool, cursor string, limit int) (pagination.Page[*Article], error)

	// Create stamps ID and timestamps and stores a new article.
	Create(context context.Context, article *Article) error

	// Save merges the mutable fields of article into the stored record and
	// refreshes UpdatedAt. The views counter is never overwritten.
	Save(context context.Context, article *Article) (*Article, error)

	// IncrementViews atomically adds delta to the views counter.
	IncrementViews(context context.Context, id string, delta int64) (int64, error)

	Delete(context context.Context, id string) error
}
