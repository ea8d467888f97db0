// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscriber

import (
	"context"
	"time"

	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/uuid"
)

// Repository defines persistence for newsletter subscribers.
type Repository interface {
	FindByEmail(context context.Context, email string) (*Subscriber, error)
	List(context context.Context, params pagination.Params) (pagination.Page[*Subscriber], error)
	Create(context context.Context, subscriber *Subscriber) error

	// SetActive flips the subscription flag and stamps the matching timestamp.
	SetActive(context context.Context, id string, active bool, preferences map[string]any) (*Subscriber, error)
}

// DocumentRepository implements [Repository] on a document store table.
type DocumentRepository struct {
	table      *docstore.Table[Subscriber]
	emailIndex docstore.Index
	now        func() time.Time
}

// NewDocumentRepository binds the repository to its table and email index.
func NewDocumentRepository(store docstore.Store, tableName, emailIndexName string) *DocumentRepository {
	return &DocumentRepository{
		table:      docstore.NewTable[Subscriber](store, tableName),
		emailIndex: docstore.Index{Name: emailIndexName, Attribute: FieldEmail},
		now:        time.Now,
	}
}

func (repository *DocumentRepository) FindByEmail(context context.Context, email string) (*Subscriber, error) {
	return repository.table.First(context, repository.emailIndex, email)
}

func (repository *DocumentRepository) List(context context.Context, params pagination.Params) (pagination.Page[*Subscriber], error) {
	result, err := repository.table.Scan(context, docstore.Page{Limit: params.Limit, Cursor: params.Cursor})
	if err != nil {
		return pagination.Page[*Subscriber]{}, err
	}
	return pagination.NewPage(result.Items, result.Cursor, result.HasMore), nil
}

func (repository *DocumentRepository) Create(context context.Context, subscriber *Subscriber) error {
	now := repository.now().UTC()
	if subscriber.ID == "" {
		subscriber.ID = uuid.New()
	}
	if subscriber.SubscribedAt.IsZero() {
		subscriber.SubscribedAt = now
	}
	if subscriber.Preferences == nil {
		subscriber.Preferences = map[string]any{}
	}
	subscriber.UpdatedAt = now
	return repository.table.Put(context, subscriber, docstore.PutOptions{IfNotExists: true})
}

func (repository *DocumentRepository) SetActive(context context.Context, id string, active bool, preferences map[string]any) (*Subscriber, error) {
	current, err := repository.table.Get(context, id)
	if err != nil {
		return nil, err
	}

	now := repository.now().UTC()
	set := map[string]any{
		"isActive":  active,
		"updatedAt": docstore.NextUpdatedAt(current.UpdatedAt, now),
	}
	if active {
		set["subscribedAt"] = now
		set["unsubscribedAt"] = nil
	} else {
		set["unsubscribedAt"] = now
	}
	if preferences != nil {
		set["preferences"] = preferences
	}
	return repository.table.Update(context, id, docstore.Update{Set: set})
}
