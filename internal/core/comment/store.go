// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"time"

	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/uuid"
)

// Repository defines persistence for comments.
type Repository interface {
	Create(context context.Context, comment *Comment) error
	FindByID(context context.Context, id string) (*Comment, error)

	// ListByArticle returns every comment on an article in posting order.
	ListByArticle(context context.Context, articleID string) ([]*Comment, error)

	// List pages through all comments, optionally restricted to one status.
	List(context context.Context, params pagination.Params, status Status) (pagination.Page[*Comment], error)

	UpdateStatus(context context.Context, id string, status Status) (*Comment, error)

	// DeleteByArticle removes every comment of an article.
	DeleteByArticle(context context.Context, articleID string) error
}

// DocumentRepository implements [Repository] on a document store table.
type DocumentRepository struct {
	table        *docstore.Table[Comment]
	articleIndex docstore.Index
	now          func() time.Time
}

// NewDocumentRepository binds the repository to its table and article index.
func NewDocumentRepository(store docstore.Store, tableName, articleIndexName string) *DocumentRepository {
	return &DocumentRepository{
		table:        docstore.NewTable[Comment](store, tableName),
		articleIndex: docstore.Index{Name: articleIndexName, Attribute: FieldArticleID},
		now:          time.Now,
	}
}

func (repository *DocumentRepository) Create(context context.Context, comment *Comment) error {
	now := repository.now().UTC()
	if comment.ID == "" {
		comment.ID = uuid.New()
	}
	comment.Date = now
	comment.UpdatedAt = now
	return repository.table.Put(context, comment, docstore.PutOptions{IfNotExists: true})
}

func (repository *DocumentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	return repository.table.Get(context, id)
}

func (repository *DocumentRepository) ListByArticle(context context.Context, articleID string) ([]*Comment, error) {
	result, err := repository.table.Query(context, repository.articleIndex, articleID, docstore.Page{})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (repository *DocumentRepository) List(context context.Context, params pagination.Params, status Status) (pagination.Page[*Comment], error) {
	result, err := docstore.Collect(context, repository.table.Scan, func(comment *Comment) string { return comment.ID },
		params.Cursor, params.Limit, func(comment *Comment) bool { return status == "" || comment.Status == status })
	if err != nil {
		return pagination.Page[*Comment]{}, err
	}
	return pagination.NewPage(result.Items, result.Cursor, result.HasMore), nil
}

func (repository *DocumentRepository) UpdateStatus(context context.Context, id string, status Status) (*Comment, error) {
	current, err := repository.table.Get(context, id)
	if err != nil {
		return nil, err
	}
	return repository.table.Update(context, id, docstore.Update{Set: map[string]any{
		FieldStatus: status,
		"updatedAt": docstore.NextUpdatedAt(current.UpdatedAt, repository.now()),
	}})
}

func (repository *DocumentRepository) DeleteByArticle(context context.Context, articleID string) error {
	comments, err := repository.ListByArticle(context, articleID)
	if err != nil {
		return err
	}
	for _, comment := range comments {
		if err := repository.table.Delete(context, comment.ID); err != nil {
			return err
		}
	}
	return nil
}
