// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/dberr"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/pkg/pagination"
)

const resourceName = "Notification"

// Service raises and serves notifications.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Notify stores a new unread notification for the recipient.
func (service *Service) Notify(context context.Context, input Input) error {
	if input.UserID == "" {
		return nil
	}
	notification := &Notification{
		UserID:    input.UserID,
		ArticleID: input.ArticleID,
		Message:   input.Message,
		Type:      input.Type,
	}
	if notification.Type == "" {
		notification.Type = TypeGeneral
	}
	if err := service.repo.Create(context, notification); err != nil {
		return dberr.Wrap(err, resourceName)
	}

	service.logger.Debug("notification_created",
		slog.String("user_id", notification.UserID),
		slog.String("type", string(notification.Type)),
	)
	return nil
}

/*
ListForUser returns a user's notifications, newest first.

Returns:
  - error: 403 unless the caller is the recipient or an ADMIN
*/
func (service *Service) ListForUser(context context.Context, caller *sec.AuthClaims, userID string, params pagination.Params) (pagination.Page[*Notification], error) {
	if caller.UserID != userID && caller.Role != sec.RoleAdmin {
		return pagination.Page[*Notification]{}, apperr.Forbidden("You can only read your own notifications")
	}

	items, err := service.repo.ListByUser(context, userID)
	if err != nil {
		return pagination.Page[*Notification]{}, dberr.Wrap(err, resourceName)
	}

	slices.SortStableFunc(items, func(a, b *Notification) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})

	window, next, hasMore, err := docstore.Window(items, params.Cursor, params.Limit)
	if err != nil {
		return pagination.Page[*Notification]{}, dberr.Wrap(err, resourceName)
	}
	return pagination.NewPage(window, next, hasMore), nil
}

// MarkRead flags a notification as read. Only the recipient or an ADMIN may do so.
func (service *Service) MarkRead(context context.Context, caller *sec.AuthClaims, id string) (*Notification, error) {
	notification, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	if notification.UserID != caller.UserID && caller.Role != sec.RoleAdmin {
		return nil, apperr.Forbidden("You can only update your own notifications")
	}

	updated, err := service.repo.MarkRead(context, id)
	return updated, dberr.Wrap(err, resourceName)
}
