// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"time"

	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/uuid"
)

// Repository defines persistence for notifications.
type Repository interface {
	Create(context context.Context, notification *Notification) error
	FindByID(context context.Context, id string) (*Notification, error)

	// ListByUser returns every notification addressed to userID.
	ListByUser(context context.Context, userID string) ([]*Notification, error)

	MarkRead(context context.Context, id string) (*Notification, error)
}

// DocumentRepository implements [Repository] on a document store table.
type DocumentRepository struct {
	table     *docstore.Table[Notification]
	userIndex docstore.Index
	now       func() time.Time
}

// NewDocumentRepository binds the repository to its table and recipient index.
func NewDocumentRepository(store docstore.Store, tableName, userIndexName string) *DocumentRepository {
	return &DocumentRepository{
		table:     docstore.NewTable[Notification](store, tableName),
		userIndex: docstore.Index{Name: userIndexName, Attribute: FieldUserID},
		now:       time.Now,
	}
}

func (repository *DocumentRepository) Create(context context.Context, notification *Notification) error {
	now := repository.now().UTC()
	if notification.ID == "" {
		notification.ID = uuid.New()
	}
	if notification.Timestamp.IsZero() {
		notification.Timestamp = now
	}
	notification.UpdatedAt = now
	return repository.table.Put(context, notification, docstore.PutOptions{IfNotExists: true})
}

func (repository *DocumentRepository) FindByID(context context.Context, id string) (*Notification, error) {
	return repository.table.Get(context, id)
}

func (repository *DocumentRepository) ListByUser(context context.Context, userID string) ([]*Notification, error) {
	result, err := repository.table.Query(context, repository.userIndex, userID, docstore.Page{})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func (repository *DocumentRepository) MarkRead(context context.Context, id string) (*Notification, error) {
	current, err := repository.table.Get(context, id)
	if err != nil {
		return nil, err
	}
	return repository.table.Update(context, id, docstore.Update{Set: map[string]any{
		"read":      true,
		"updatedAt": docstore.NextUpdatedAt(current.UpdatedAt, repository.now()),
	}})
}
