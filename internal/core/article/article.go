// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package article is the editorial core: article storage, the review
lifecycle, visibility-aware listing and view counting.

# Lifecycle

Articles move between Draft, Pending Review, Published and Rejected.
Authors write and submit; editors and admins review. A published article
carries a publishedAt instant which may lie in the future, in which case it
stays hidden from readers until then.
*/
package article

import (
	"time"

	"github.com/vadali/newsroom/internal/core/comment"
)

// Article is a news story.
type Article struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary"`
	Content         string     `json:"content"`
	CoverImageURL   string     `json:"coverImageUrl"`
	ImageURLs       []string   `json:"imageUrls"`
	VideoURL        string     `json:"videoUrl,omitempty"`
	CategoryID      string     `json:"categoryId"`
	Tags            []string   `json:"tags"`
	AuthorID        string     `json:"authorId"`
	Status          Status     `json:"status"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	IsAdvertisement bool       `json:"isAdvertisement"`
	IsFeatured      bool       `json:"isFeatured"`
	Views           int64      `json:"views"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Comments is filled on single reads and never stored.
	Comments []*comment.Comment `json:"comments,omitempty"`
}

// IsLive reports whether readers can see the article at the given instant.
func (article *Article) IsLive(at time.Time) bool {
	if article.Status != StatusPublished {
		return false
	}
	return article.PublishedAt == nil || !article.PublishedAt.After(at)
}

// Input carries create and update payloads. Nil fields are left unchanged
// on update and defaulted on create.
type Input struct {
	Title           *string    `json:"title" validate:"omitempty,max=300"`
	Slug            *string    `json:"slug" validate:"omitempty,max=320"`
	Summary         *string    `json:"summary" validate:"omitempty,max=2000"`
	Content         *string    `json:"content"`
	CoverImageURL   *string    `json:"coverImageUrl"`
	ImageURLs       *[]string  `json:"imageUrls"`
	VideoURL        *string    `json:"videoUrl"`
	CategoryID      *string    `json:"categoryId"`
	Tags            *[]string  `json:"tags"`
	AuthorID        *string    `json:"authorId"`
	Status          *string    `json:"status"`
	PublishedAt     *time.Time `json:"publishedAt"`
	RejectionReason *string    `json:"rejectionReason"`
	IsAdvertisement *bool      `json:"isAdvertisement"`
	IsFeatured      *bool      `json:"isFeatured"`
}

// StatusInput is the body of a review transition.
type StatusInput struct {
	Status    string     `json:"status" validate:"notblank"`
	Reason    string     `json:"reason"`
	PublishAt *time.Time `json:"publishAt"`
}

// # Field Identifiers

const (
	FieldID              = "id"
	FieldSlug            = "slug"
	FieldTitle           = "title"
	FieldStatus          = "status"
	FieldCategoryID      = "categoryId"
	FieldPublishedAt     = "publishedAt"
	FieldRejectionReason = "rejectionReason"
	FieldVideoURL        = "videoUrl"
	FieldViews           = "views"
	FieldReason          = "reason"
	FieldSort            = "sort"
	FieldCreatedAt       = "createdAt"
	FieldComments        = "comments"
)
