// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscriber

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/dberr"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/platform/validate"
	"github.com/vadali/newsroom/pkg/pagination"
)

const resourceName = "Subscriber"

// Service manages the newsletter list.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
Subscribe adds an address or reactivates a lapsed one.

Returns:
  - *Subscriber: The active subscription
  - bool: True when a new row was created
  - error: Conflict when the address is already active
*/
func (service *Service) Subscribe(context context.Context, input Input) (*Subscriber, bool, error) {
	if err := validate.Struct(input); err != nil {
		return nil, false, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := service.repo.FindByEmail(context, email)
	switch {
	case err == nil && existing.IsActive:
		return nil, false, apperr.Conflict("Email is already subscribed")
	case err == nil:
		reactivated, err := service.repo.SetActive(context, existing.ID, true, input.Preferences)
		if err != nil {
			return nil, false, dberr.Wrap(err, resourceName)
		}
		service.logger.Info("subscriber_reactivated", slog.String("subscriber_id", existing.ID))
		return reactivated, false, nil
	case !errors.Is(err, docstore.ErrNotFound):
		return nil, false, dberr.Wrap(err, resourceName)
	}

	subscriber := &Subscriber{Email: email, IsActive: true, Preferences: input.Preferences}
	if err := service.repo.Create(context, subscriber); err != nil {
		return nil, false, dberr.Wrap(err, resourceName)
	}

	service.logger.Info("subscriber_created", slog.String("subscriber_id", subscriber.ID))
	return subscriber, true, nil
}

// Unsubscribe deactivates an address. Unknown addresses are 404; an already
// inactive address is left as is.
func (service *Service) Unsubscribe(context context.Context, input Input) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	existing, err := service.repo.FindByEmail(context, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if !existing.IsActive {
		return nil
	}
	if _, err := service.repo.SetActive(context, existing.ID, false, nil); err != nil {
		return dberr.Wrap(err, resourceName)
	}

	service.logger.Info("subscriber_unsubscribed", slog.String("subscriber_id", existing.ID))
	return nil
}

// List returns one page of subscribers in insertion order.
func (service *Service) List(context context.Context, params pagination.Params) (pagination.Page[*Subscriber], error) {
	page, err := service.repo.List(context, params)
	if err != nil {
		return pagination.Page[*Subscriber]{}, dberr.Wrap(err, resourceName)
	}
	return page, nil
}
