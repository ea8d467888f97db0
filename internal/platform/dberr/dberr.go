// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between document store errors and
// application errors.
package dberr

import (
	"errors"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/docstore"
)

// Wrap classifies a store error for the named resource.
//
//   - ErrNotFound: 404 "<resource> not found"
//   - ErrConditionFailed: 409 "<resource> already exists"
//   - ErrInvalidCursor: 400
//   - anything else: 500 with the cause kept for logs
//
// Errors that are already an [apperr.AppError] pass through unchanged.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}
	if apperr.As(err) != nil {
		return err
	}

	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return apperr.NotFound(resource)
	case errors.Is(err, docstore.ErrConditionFailed):
		return apperr.AlreadyExists(resource)
	case errors.Is(err, docstore.ErrInvalidCursor):
		return apperr.ValidationError("Invalid pagination cursor", apperr.FieldError{
			Field:   "cursor",
			Message: "Pass back the cursor from the previous page verbatim",
		})
	default:
		return apperr.Internal(err)
	}
}
