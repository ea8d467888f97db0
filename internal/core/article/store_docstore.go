// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"time"

	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/uuid"
)

// DocumentRepository implements [Repository] on a document store table.
type DocumentRepository struct {
	table       *docstore.Table[Article]
	slugIndex   docstore.Index
	statusIndex docstore.Index
	now         func() time.Time
}

// NewDocumentRepository binds the repository to its table and indexes.
func NewDocumentRepository(store docstore.Store, tableName, slugIndexName, statusIndexName string) *DocumentRepository {
	return &DocumentRepository{
		table:       docstore.NewTable[Article](store, tableName),
		slugIndex:   docstore.Index{Name: slugIndexName, Attribute: FieldSlug},
		statusIndex: docstore.Index{Name: statusIndexName, Attribute: FieldStatus},
		now:         time.Now,
	}
}

func (repository *DocumentRepository) FindByID(context context.Context, id string) (*Article, error) {
	return repository.table.Get(context, id)
}

func (repository *DocumentRepository) FindBySlug(context context.Context, slug string) (*Article, error) {
	return repository.table.First(context, repository.slugIndex, slug)
}

func (repository *DocumentRepository) Find(context context.Context, status Status, keep func(*Article) bool, cursor string, limit int) (pagination.Page[*Article], error) {
	source := docstore.Source[Article](repository.table.Scan)
	if status != "" {
		source = repository.byStatus(status)
	}

	result, err := docstore.Collect(context, source, articleKey, cursor, limit, keep)
	if err != nil {
		return pagination.Page[*Article]{}, err
	}
	return pagination.NewPage(result.Items, result.Cursor, result.HasMore), nil
}

// byStatus pages through the status index for one status value.
func (repository *DocumentRepository) byStatus(status Status) docstore.Source[Article] {
	return func(ctx context.Context, page docstore.Page) (docstore.TypedResult[Article], error) {
		return repository.table.Query(ctx, repository.statusIndex, string(status), page)
	}
}

func (repository *DocumentRepository) Create(context context.Context, article *Article) error {
	now := repository.now().UTC()
	if article.ID == "" {
		article.ID = uuid.New()
	}
	article.CreatedAt = now
	article.UpdatedAt = now
	article.Views = 0
	stripUnpublished(article)

	stored := *article
	stored.Comments = nil
	return repository.table.Put(context, &stored, docstore.PutOptions{IfNotExists: true})
}

func (repository *DocumentRepository) Save(context context.Context, article *Article) (*Article, error) {
	current, err := repository.table.Get(context, article.ID)
	if err != nil {
		return nil, err
	}

	next := *article
	next.Comments = nil
	stripUnpublished(&next)
	next.UpdatedAt = docstore.NextUpdatedAt(current.UpdatedAt, repository.now())

	set, err := docstore.Encode(&next)
	if err != nil {
		return nil, err
	}
	for _, immutable := range []string{FieldID, FieldViews, FieldCreatedAt} {
		delete(set, immutable)
	}

	var remove []string
	for _, optional := range []string{FieldPublishedAt, FieldRejectionReason, FieldVideoURL} {
		if _, present := set[optional]; !present {
			remove = append(remove, optional)
		}
	}

	return repository.table.Update(context, article.ID, docstore.Update{Set: set, Remove: remove})
}

func (repository *DocumentRepository) IncrementViews(context context.Context, id string, delta int64) (int64, error) {
	updated, err := repository.table.Update(context, id, docstore.Update{Add: map[string]int64{FieldViews: delta}})
	if err != nil {
		return 0, err
	}
	return updated.Views, nil
}

func (repository *DocumentRepository) Delete(context context.Context, id string) error {
	return repository.table.Delete(context, id)
}

// stripUnpublished enforces that only published records carry publishedAt
// and only rejected ones carry a rejection reason.
func stripUnpublished(article *Article) {
	if article.Status != StatusPublished {
		article.PublishedAt = nil
	}
	if article.Status != StatusRejected {
		article.RejectionReason = ""
	}
}

func articleKey(article *Article) string { return article.ID }
