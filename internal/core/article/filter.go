// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/dberr"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/platform/validate"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/slice"
)

// Filter narrows an article listing. Empty fields do not filter.
type Filter struct {
	Category      string // ID or slug
	Tag           string
	AuthorID      string
	Query         string
	Status        string // empty: Published, "ALL": any
	Featured      *bool
	Advertisement *bool
	Sort          string // createdAt, publishedAt or views, descending
}

// # Sorting

const (
	SortCreatedAt   = "createdAt"
	SortPublishedAt = "publishedAt"
	SortViews       = "views"
)

var sorters = map[string]func(a, b *Article) int{
	SortCreatedAt: func(a, b *Article) int { return b.CreatedAt.Compare(a.CreatedAt) },
	SortPublishedAt: func(a, b *Article) int {
		return cmp.Compare(publishedUnix(b), publishedUnix(a))
	},
	SortViews: func(a, b *Article) int { return cmp.Compare(b.Views, a.Views) },
}

func publishedUnix(article *Article) int64 {
	if article.PublishedAt == nil {
		return 0
	}
	return article.PublishedAt.UnixNano()
}

// scope is the status and ownership window a caller may list.
type scope struct {
	status   Status // empty reads every status
	authorID string // non-empty restricts to one author
}

/*
resolveScope decides which statuses the caller may list.

Description: No status lists Published articles and "ALL" lists every
status for any caller. Any other status is an exact filter; asking for
anything other than Published requires staff, and authors only see their
own articles in that window.

Returns:
  - error: 400 on an unknown status, 401 for anonymous callers and 403 for
    readers asking for a single unpublished status
*/
func resolveScope(caller *sec.AuthClaims, raw string) (scope, error) {
	if raw == "" {
		return scope{status: StatusPublished}, nil
	}
	if strings.EqualFold(raw, StatusAll) {
		return scope{}, nil
	}

	status, err := ParseStatus(raw)
	if err != nil {
		return scope{}, err
	}
	if status == StatusPublished {
		return scope{status: StatusPublished}, nil
	}

	switch {
	case caller == nil:
		return scope{}, apperr.Unauthorized("Authentication required to list unpublished articles")
	case isStaff(caller):
		return scope{status: status}, nil
	case caller.Role == sec.RoleAuthor:
		return scope{status: status, authorID: caller.UserID}, nil
	default:
		return scope{}, apperr.Forbidden("Insufficient permissions to list unpublished articles")
	}
}

/*
List returns one page of articles matching the filter.

Description: Filters apply in a fixed order: category, tag, author, free
text, status, featured, advertisement. Without a sort the page follows
storage order and the cursor resumes after its last item. With a sort the
full match set is ordered (newest or highest first, ties in storage order)
and paged by offset.

Returns:
  - pagination.Page[*Article]: The page, without comments
  - error: 400 on an invalid status or sort, 401/403 for a single unpublished status
*/
func (service *Service) List(context context.Context, caller *sec.AuthClaims, filter Filter, params pagination.Params) (pagination.Page[*Article], error) {
	window, err := resolveScope(caller, filter.Status)
	if err != nil {
		return pagination.Page[*Article]{}, err
	}

	var sorter func(a, b *Article) int
	if filter.Sort != "" {
		var ok bool
		if sorter, ok = sorters[filter.Sort]; !ok {
			return pagination.Page[*Article]{}, validate.RequiredError(FieldSort, "Must be one of: createdAt, publishedAt, views")
		}
	}

	categoryID := ""
	if filter.Category != "" {
		found, err := service.categories.Resolve(context, filter.Category)
		if err != nil {
			return pagination.Page[*Article]{}, err
		}
		if found == nil {
			return pagination.NewPage([]*Article{}, "", false), nil
		}
		categoryID = found.ID
	}

	query := strings.ToLower(filter.Query)
	keep := func(article *Article) bool {
		switch {
		case categoryID != "" && article.CategoryID != categoryID:
			return false
		case filter.Tag != "" && !slice.ContainsFold(article.Tags, filter.Tag):
			return false
		case filter.AuthorID != "" && article.AuthorID != filter.AuthorID:
			return false
		case query != "" && !strings.Contains(strings.ToLower(article.Title), query) &&
			!strings.Contains(strings.ToLower(article.Summary), query):
			return false
		case window.status != "" && article.Status != window.status:
			return false
		case window.authorID != "" && article.AuthorID != window.authorID:
			return false
		case filter.Featured != nil && article.IsFeatured != *filter.Featured:
			return false
		case filter.Advertisement != nil && article.IsAdvertisement != *filter.Advertisement:
			return false
		}
		// Scheduled articles stay hidden from readers until their instant.
		return article.Status != StatusPublished || service.visible(caller, article)
	}

	if sorter == nil {
		page, err := service.repo.Find(context, window.status, keep, params.Cursor, params.Limit)
		if err != nil {
			return pagination.Page[*Article]{}, dberr.Wrap(err, resourceName)
		}
		return page, nil
	}

	all, err := service.repo.Find(context, window.status, keep, "", 0)
	if err != nil {
		return pagination.Page[*Article]{}, dberr.Wrap(err, resourceName)
	}
	items := slices.Clone(all.Items)
	slices.SortStableFunc(items, sorter)

	items, next, hasMore, err := docstore.Window(items, params.Cursor, params.Limit)
	if err != nil {
		return pagination.Page[*Article]{}, dberr.Wrap(err, resourceName)
	}
	return pagination.NewPage(items, next, hasMore), nil
}
