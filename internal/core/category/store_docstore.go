// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"time"

	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/uuid"
)

// DocumentRepository implements [Repository] on a document store table.
type DocumentRepository struct {
	table     *docstore.Table[Category]
	slugIndex docstore.Index
	now       func() time.Time
}

// NewDocumentRepository binds the repository to a table and its slug index.
func NewDocumentRepository(store docstore.Store, tableName, slugIndexName string) *DocumentRepository {
	return &DocumentRepository{
		table:     docstore.NewTable[Category](store, tableName),
		slugIndex: docstore.Index{Name: slugIndexName, Attribute: FieldSlug},
		now:       time.Now,
	}
}

func (repository *DocumentRepository) FindByID(context context.Context, id string) (*Category, error) {
	return repository.table.Get(context, id)
}

func (repository *DocumentRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	return repository.table.First(context, repository.slugIndex, slug)
}

func (repository *DocumentRepository) List(context context.Context, params pagination.Params, headerOnly bool) (pagination.Page[*Category], error) {
	result, err := docstore.Collect(context, repository.table.Scan, categoryKey, params.Cursor, params.Limit,
		func(category *Category) bool { return !headerOnly || category.ShowInHeader })
	if err != nil {
		return pagination.Page[*Category]{}, err
	}
	return pagination.NewPage(result.Items, result.Cursor, result.HasMore), nil
}

func (repository *DocumentRepository) All(context context.Context) ([]*Category, error) {
	result, err := repository.table.Scan(context, docstore.Page{})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (repository *DocumentRepository) Create(context context.Context, category *Category) error {
	now := repository.now().UTC()
	if category.ID == "" {
		category.ID = uuid.New()
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return repository.table.Put(context, category, docstore.PutOptions{IfNotExists: true})
}

func (repository *DocumentRepository) Update(context context.Context, id string, patch Patch) (*Category, error) {
	current, err := repository.table.Get(context, id)
	if err != nil {
		return nil, err
	}

	set, err := docstore.Fields(patch)
	if err != nil {
		return nil, err
	}

	var remove []string
	if patch.ParentCategoryID != nil && *patch.ParentCategoryID == "" {
		delete(set, FieldParentCategoryID)
		remove = append(remove, FieldParentCategoryID)
	}
	set["updatedAt"] = docstore.NextUpdatedAt(current.UpdatedAt, repository.now())

	return repository.table.Update(context, id, docstore.Update{Set: set, Remove: remove})
}

func (repository *DocumentRepository) Delete(context context.Context, id string) error {
	return repository.table.Delete(context, id)
}

func categoryKey(category *Category) string { return category.ID }
