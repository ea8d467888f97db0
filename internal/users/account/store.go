// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"time"

	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/uuid"
)

// # User Data Access

// Repository defines the data access contract for user records.
type Repository interface {

	/*
		FindByID returns the user with the given ID.

		Returns:
		  - error: docstore.ErrNotFound when absent
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the user whose stored email equals email exactly.

		Returns:
		  - error: docstore.ErrNotFound when absent
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	// List returns one page of users in registration order.
	List(context context.Context, params pagination.Params) (pagination.Page[*User], error)

	// IsEmpty reports whether no user exists yet.
	IsEmpty(context context.Context) (bool, error)

	// Create stamps ID and timestamps and stores a new user.
	Create(context context.Context, user *User) error

	// Save merges the user's fields into the stored record and refreshes UpdatedAt.
	Save(context context.Context, user *User) (*User, error)

	// SetRefreshToken records the latest refresh token issued to the user.
	SetRefreshToken(context context.Context, id, token string) error

	Delete(context context.Context, id string) error
}

// DocumentRepository implements [Repository] on a document store table.
type DocumentRepository struct {
	table      *docstore.Table[User]
	emailIndex docstore.Index
	now        func() time.Time
}

// NewDocumentRepository binds the repository to its table and email index.
func NewDocumentRepository(store docstore.Store, tableName, emailIndexName string) *DocumentRepository {
	return &DocumentRepository{
		table:      docstore.NewTable[User](store, tableName),
		emailIndex: docstore.Index{Name: emailIndexName, Attribute: FieldEmail},
		now:        time.Now,
	}
}

func (repository *DocumentRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.table.Get(context, id)
}

func (repository *DocumentRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.table.First(context, repository.emailIndex, email)
}

func (repository *DocumentRepository) List(context context.Context, params pagination.Params) (pagination.Page[*User], error) {
	result, err := repository.table.Scan(context, docstore.Page{Limit: params.Limit, Cursor: params.Cursor})
	if err != nil {
		return pagination.Page[*User]{}, err
	}
	return pagination.NewPage(result.Items, result.Cursor, result.HasMore), nil
}

func (repository *DocumentRepository) IsEmpty(context context.Context) (bool, error) {
	return repository.table.IsEmpty(context)
}

func (repository *DocumentRepository) Create(context context.Context, user *User) error {
	now := repository.now().UTC()
	if user.ID == "" {
		user.ID = uuid.New()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return repository.table.Put(context, user, docstore.PutOptions{IfNotExists: true})
}

func (repository *DocumentRepository) Save(context context.Context, user *User) (*User, error) {
	current, err := repository.table.Get(context, user.ID)
	if err != nil {
		return nil, err
	}

	next := *user
	next.UpdatedAt = docstore.NextUpdatedAt(current.UpdatedAt, repository.now())

	set, err := docstore.Encode(&next)
	if err != nil {
		return nil, err
	}
	delete(set, "id")
	delete(set, "createdAt")

	var remove []string
	for _, optional := range []string{FieldPassword, FieldRefreshToken} {
		if _, present := set[optional]; !present {
			remove = append(remove, optional)
		}
	}

	return repository.table.Update(context, user.ID, docstore.Update{Set: set, Remove: remove})
}

func (repository *DocumentRepository) SetRefreshToken(context context.Context, id, token string) error {
	current, err := repository.table.Get(context, id)
	if err != nil {
		return err
	}
	_, err = repository.table.Update(context, id, docstore.Update{Set: map[string]any{
		FieldRefreshToken: token,
		"updatedAt":       docstore.NextUpdatedAt(current.UpdatedAt, repository.now()),
	}})
	return err
}

func (repository *DocumentRepository) Delete(context context.Context, id string) error {
	return repository.table.Delete(context, id)
}
