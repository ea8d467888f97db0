// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/dberr"
	"github.com/vadali/newsroom/internal/platform/validate"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/pointer"
	"github.com/vadali/newsroom/pkg/slug"
)

const resourceName = "Category"

// # Service Layer

// Service orchestrates category management and tree integrity.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateInput is the payload for a new category.
type CreateInput struct {
	Name             string `json:"name" validate:"notblank,max=120"`
	Slug             string `json:"slug" validate:"max=140"`
	Description      string `json:"description" validate:"max=2000"`
	ParentCategoryID string `json:"parentCategoryId"`
	ShowInHeader     *bool  `json:"showInHeader"`
}

// # Lookups

// List returns one page of categories, optionally only the header entries.
func (service *Service) List(context context.Context, params pagination.Params, headerOnly bool) (pagination.Page[*Category], error) {
	page, err := service.repo.List(context, params, headerOnly)
	if err != nil {
		return pagination.Page[*Category]{}, dberr.Wrap(err, resourceName)
	}
	return page, nil
}

// Get returns a category by ID.
func (service *Service) Get(context context.Context, id string) (*Category, error) {
	category, err := service.repo.FindByID(context, id)
	return category, dberr.Wrap(err, resourceName)
}

// GetBySlug returns a category by slug.
func (service *Service) GetBySlug(context context.Context, value string) (*Category, error) {
	category, err := service.repo.FindBySlug(context, value)
	return category, dberr.Wrap(err, resourceName)
}

/*
Resolve finds a category by ID first, then by slug.

Returns:
  - *Category: nil with a nil error when neither matches
  - error: storage failures only
*/
func (service *Service) Resolve(context context.Context, identifier string) (*Category, error) {
	category, err := service.repo.FindByID(context, identifier)
	if err == nil {
		return category, nil
	}
	if !apperr.IsNotFound(dberr.Wrap(err, resourceName)) {
		return nil, dberr.Wrap(err, resourceName)
	}

	category, err = service.repo.FindBySlug(context, strings.ToLower(identifier))
	if err == nil {
		return category, nil
	}
	if wrapped := dberr.Wrap(err, resourceName); !apperr.IsNotFound(wrapped) {
		return nil, wrapped
	}
	return nil, nil
}

// # Management

/*
Create validates and persists a new category.

Description: The slug is derived from the name when absent and must be
unique. ShowInHeader defaults to true.

Returns:
  - *Category: The stored category
  - error: 400 on invalid input or unknown parent, 409 on a slug collision
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
	category := &Category{
		Name:             strings.TrimSpace(input.Name),
		Slug:             strings.TrimSpace(input.Slug),
		Description:      strings.TrimSpace(input.Description),
		ParentCategoryID: strings.TrimSpace(input.ParentCategoryID),
		ShowInHeader:     pointer.Or(input.ShowInHeader, true),
	}
	if category.Slug == "" {
		category.Slug = slug.Derive(category.Name, "category")
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).Required(FieldSlug, category.Slug).Slug(FieldSlug, category.Slug)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.ensureSlugFree(context, category.Slug, ""); err != nil {
		return nil, err
	}
	if category.ParentCategoryID != "" {
		if err := service.ensureParent(context, "", category.ParentCategoryID); err != nil {
			return nil, err
		}
	}

	if err := service.repo.Create(context, category); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	service.logger.Info("category_created", slog.String("id", category.ID), slog.String("slug", category.Slug))
	return category, nil
}

/*
Update applies a partial update to a category.

Returns:
  - *Category: The updated category
  - error: 404 when absent, 400 on invalid input or a parent cycle, 409 on a slug collision
*/
func (service *Service) Update(context context.Context, id string, patch Patch) (*Category, error) {
	if _, err := service.repo.FindByID(context, id); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	validator := &validate.Validator{}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
		validator.Required(FieldName, trimmed).MaxLen(FieldName, trimmed, 120)
	}
	if patch.Slug != nil {
		trimmed := strings.TrimSpace(*patch.Slug)
		patch.Slug = &trimmed
		validator.Required(FieldSlug, trimmed).Slug(FieldSlug, trimmed)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if patch.Slug != nil {
		if err := service.ensureSlugFree(context, *patch.Slug, id); err != nil {
			return nil, err
		}
	}
	if patch.ParentCategoryID != nil {
		parentID := strings.TrimSpace(*patch.ParentCategoryID)
		patch.ParentCategoryID = &parentID
		if parentID != "" {
			if err := service.ensureParent(context, id, parentID); err != nil {
				return nil, err
			}
		}
	}

	updated, err := service.repo.Update(context, id, patch)
	return updated, dberr.Wrap(err, resourceName)
}

// Delete removes a category. Direct children are detached first.
func (service *Service) Delete(context context.Context, id string) error {
	if _, err := service.repo.FindByID(context, id); err != nil {
		return dberr.Wrap(err, resourceName)
	}

	all, err := service.repo.All(context)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	for _, child := range all {
		if child.ParentCategoryID != id {
			continue
		}
		if _, err := service.repo.Update(context, child.ID, Patch{ParentCategoryID: pointer.To("")}); err != nil {
			return dberr.Wrap(err, resourceName)
		}
	}

	if err := service.repo.Delete(context, id); err != nil {
		return dberr.Wrap(err, resourceName)
	}

	service.logger.Info("category_deleted", slog.String("id", id))
	return nil
}

// # Integrity Checks

func (service *Service) ensureSlugFree(context context.Context, value, selfID string) error {
	existing, err := service.repo.FindBySlug(context, value)
	if err != nil {
		if wrapped := dberr.Wrap(err, resourceName); !apperr.IsNotFound(wrapped) {
			return wrapped
		}
		return nil
	}
	if existing.ID != selfID {
		return apperr.Conflict("A category with this slug already exists")
	}
	return nil
}

// ensureParent checks that parentID exists and that attaching selfID under
// it keeps the tree acyclic.
func (service *Service) ensureParent(context context.Context, selfID, parentID string) error {
	invalidParent := func(message string) error {
		return validate.RequiredError(FieldParentCategoryID, message)
	}

	if parentID == selfID {
		return invalidParent("A category cannot be its own parent")
	}

	all, err := service.repo.All(context)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	parents := make(map[string]string, len(all))
	for _, category := range all {
		parents[category.ID] = category.ParentCategoryID
	}

	if _, ok := parents[parentID]; !ok {
		return invalidParent("Parent category does not exist")
	}
	if selfID == "" {
		return nil
	}

	seen := map[string]bool{}
	for current := parentID; current != ""; current = parents[current] {
		if current == selfID {
			return invalidParent("Parent would create a cycle")
		}
		if seen[current] {
			break
		}
		seen[current] = true
	}
	return nil
}
