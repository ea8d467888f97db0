// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package seed loads a JSON fixture into the document store.

The default fixture is embedded in the binary. Plain-text passwords are
hashed on load, legacy article statuses are normalized and every table is
written with BatchPut, so an unprocessed item aborts the run.
*/
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vadali/newsroom/internal/core/article"
	"github.com/vadali/newsroom/internal/core/category"
	"github.com/vadali/newsroom/internal/core/comment"
	"github.com/vadali/newsroom/internal/platform/config"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/users/account"
	"github.com/vadali/newsroom/internal/users/subscriber"
	"github.com/vadali/newsroom/pkg/slug"
	"github.com/vadali/newsroom/pkg/uuid"
)

//go:embed fixture.json
var defaultFixture []byte

// Dataset is the decoded fixture.
type Dataset struct {
	Users       []*account.User          `json:"users"`
	Categories  []*category.Category     `json:"categories"`
	Articles    []*article.Article       `json:"articles"`
	Comments    []*comment.Comment       `json:"comments"`
	Subscribers []*subscriber.Subscriber `json:"subscribers"`
}

// Report counts the items written per table.
type Report struct {
	Table string
	Count int
}

// Default decodes the embedded fixture.
func Default() (*Dataset, error) {
	return Parse(defaultFixture)
}

// Parse decodes a fixture and prepares it for writing.
func Parse(raw []byte) (*Dataset, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var dataset Dataset
	if err := decoder.Decode(&dataset); err != nil {
		return nil, fmt.Errorf("seed: decode fixture: %w", err)
	}
	if err := dataset.prepare(time.Now().UTC()); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// prepare fills ids, timestamps and defaults, and hashes plain passwords.
func (dataset *Dataset) prepare(now time.Time) error {
	for _, user := range dataset.Users {
		stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt, now)
		user.Email = account.NormalizeEmail(user.Email)
		if user.Role == "" {
			user.Role = sec.RoleAuthor
		}
		if _, ok := sec.ParseRole(string(user.Role)); !ok {
			return fmt.Errorf("seed: user %s: unknown role %q", user.Email, user.Role)
		}
		if user.Password != "" && !sec.IsHashed(user.Password) {
			hash, err := sec.HashPassword(user.Password)
			if err != nil {
				return fmt.Errorf("seed: hash password for %s: %w", user.Email, err)
			}
			user.Password = hash
		}
	}

	for _, item := range dataset.Categories {
		stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt, now)
		if item.Slug == "" {
			item.Slug = slug.Derive(item.Name, "category")
		}
	}

	for _, item := range dataset.Articles {
		stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt, now)
		if item.Slug == "" {
			item.Slug = slug.Derive(item.Title, "article")
		}
		item.Status = article.NormalizeStatus(string(item.Status))
		if item.Status != article.StatusPublished {
			item.PublishedAt = nil
		} else if item.PublishedAt == nil {
			item.PublishedAt = &now
		}
		if item.Status != article.StatusRejected {
			item.RejectionReason = ""
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if item.ImageURLs == nil {
			item.ImageURLs = []string{}
		}
		item.Comments = nil
	}

	for _, item := range dataset.Comments {
		var created time.Time
		stamp(&item.ID, &created, &item.UpdatedAt, now)
		if item.Date.IsZero() {
			item.Date = now
		}
		if item.AuthorName == "" {
			item.AuthorName = comment.AnonymousAuthor
		}
		status, ok := comment.ParseStatus(string(item.Status))
		if !ok {
			status = comment.StatusPending
		}
		item.Status = status
	}

	for _, item := range dataset.Subscribers {
		stamp(&item.ID, &item.SubscribedAt, &item.UpdatedAt, now)
		if item.Preferences == nil {
			item.Preferences = map[string]any{}
		}
	}
	return nil
}

func stamp(id *string, createdAt, updatedAt *time.Time, now time.Time) {
	if *id == "" {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = *createdAt
	}
}

/*
Apply writes the dataset into the store, one table at a time.

Returns:
  - []Report: Items written per table, in write order
  - error: The first failed table, including docstore.ErrUnprocessed
*/
func Apply(ctx context.Context, store docstore.Store, tables config.Tables, dataset *Dataset, logger *slog.Logger) ([]Report, error) {
	steps := []struct {
		table string
		count int
		write func(table string) error
	}{
		{tables.Users, len(dataset.Users), func(table string) error { return write(ctx, store, table, dataset.Users) }},
		{tables.Categories, len(dataset.Categories), func(table string) error { return write(ctx, store, table, dataset.Categories) }},
		{tables.Articles, len(dataset.Articles), func(table string) error { return write(ctx, store, table, dataset.Articles) }},
		{tables.Comments, len(dataset.Comments), func(table string) error { return write(ctx, store, table, dataset.Comments) }},
		{tables.Subscribers, len(dataset.Subscribers), func(table string) error { return write(ctx, store, table, dataset.Subscribers) }},
	}

	reports := make([]Report, 0, len(steps))
	for _, step := range steps {
		if step.count == 0 {
			continue
		}
		if err := step.write(step.table); err != nil {
			return reports, fmt.Errorf("seed: write %s: %w", step.table, err)
		}
		logger.Info("seed_table_written", slog.String("table", step.table), slog.Int("count", step.count))
		reports = append(reports, Report{Table: step.table, Count: step.count})
	}
	return reports, nil
}

func write[T any](ctx context.Context, store docstore.Store, table string, values []*T) error {
	return docstore.NewTable[T](store, table).BatchPut(ctx, values)
}
