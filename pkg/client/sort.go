// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"slices"
	"time"
)

// Sort keys accepted by [SortArticles] and the API's sort parameter.
const (
	SortCreatedAt   = "createdAt"
	SortPublishedAt = "publishedAt"
	SortViews       = "views"
)

// SortArticles orders articles in place, newest or highest first. Ties keep
// their incoming order. Unknown keys leave the slice untouched.
func SortArticles(articles []Article, key string) {
	var compare func(a, b *Article) int
	switch key {
	case SortCreatedAt:
		compare = func(a, b *Article) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortPublishedAt:
		compare = func(a, b *Article) int { return publishedOf(b).Compare(publishedOf(a)) }
	case SortViews:
		compare = func(a, b *Article) int {
			switch {
			case a.Views > b.Views:
				return -1
			case a.Views < b.Views:
				return 1
			}
			return 0
		}
	default:
		return
	}
	slices.SortStableFunc(articles, func(a, b Article) int { return compare(&a, &b) })
}

// publishedOf treats a missing publishedAt as the oldest possible instant.
func publishedOf(article *Article) time.Time {
	if article.PublishedAt == nil {
		return time.Time{}
	}
	return *article.PublishedAt
}
