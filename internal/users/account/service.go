// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/dberr"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/platform/validate"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/slice"
)

const resourceName = "User"

// Service implements user administration.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Inputs

// CreateInput is an administrator-created account.
type CreateInput struct {
	Name      string `json:"name" validate:"notblank,max=120"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
	Bio       string `json:"bio" validate:"max=2000"`
}

// UpdateInput is a partial profile update. Nil fields are unchanged.
type UpdateInput struct {
	Name      *string `json:"name" validate:"omitempty,max=120"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role      *string `json:"role"`
	AvatarURL *string `json:"avatarUrl"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
}

// # Lookups

// List returns one page of profiles.
func (service *Service) List(context context.Context, params pagination.Params) (pagination.Page[*Profile], error) {
	page, err := service.repo.List(context, params)
	if err != nil {
		return pagination.Page[*Profile]{}, dberr.Wrap(err, resourceName)
	}
	return pagination.NewPage(slice.Map(page.Items, (*User).Profile), page.Cursor, page.HasMore), nil
}

// Get returns a profile. Users may read themselves; ADMIN may read anyone.
func (service *Service) Get(context context.Context, caller *sec.AuthClaims, id string) (*Profile, error) {
	if caller.UserID != id && caller.Role != sec.RoleAdmin {
		return nil, apperr.Forbidden("You can only view your own profile")
	}
	user, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return user.Profile(), nil
}

// # Management

/*
Create adds an account on behalf of an administrator.

Returns:
  - *Profile: The created profile
  - error: 400 on an unknown role, 409 when the email is taken
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Profile, error) {
	role := sec.RoleAuthor
	if input.Role != "" {
		parsed, ok := sec.ParseRole(input.Role)
		if !ok {
			return nil, roleError()
		}
		role = parsed
	}

	email := NormalizeEmail(input.Email)
	if err := EnsureEmailFree(context, service.repo, email, ""); err != nil {
		return nil, err
	}

	user := &User{
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Role:      role,
		AvatarURL: strings.TrimSpace(input.AvatarURL),
		Bio:       input.Bio,
	}
	if input.Password != "" {
		hash, err := sec.HashPassword(input.Password)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
		}
		user.Password = hash
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	service.logger.Info("user_created", slog.String("id", user.ID), slog.String("role", string(user.Role)))
	return user.Profile(), nil
}

/*
Update changes a profile. Users may edit themselves; only ADMIN may edit
others or change a role. A new password is re-hashed.

Returns:
  - *Profile: The updated profile
  - error: 403, 404, 409 on a taken email
*/
func (service *Service) Update(context context.Context, caller *sec.AuthClaims, id string, input UpdateInput) (*Profile, error) {
	isAdmin := caller.Role == sec.RoleAdmin
	if caller.UserID != id && !isAdmin {
		return nil, apperr.Forbidden("You can only edit your own profile")
	}

	user, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	if input.Role != nil {
		role, ok := sec.ParseRole(*input.Role)
		if !ok {
			return nil, roleError()
		}
		if role != user.Role && !isAdmin {
			return nil, apperr.Forbidden("Only administrators can change roles")
		}
		user.Role = role
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validate.RequiredError(FieldName, "This field is required")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if err := EnsureEmailFree(context, service.repo, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
		}
		user.Password = hash
	}
	if input.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*input.AvatarURL)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	saved, err := service.repo.Save(context, user)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return saved.Profile(), nil
}

// Delete removes an account.
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return dberr.Wrap(err, resourceName)
	}
	service.logger.Info("user_deleted", slog.String("id", id))
	return nil
}

// # Shared Rules

/*
EnsureEmailFree checks that no other user holds the address, comparing both
the given and the lowercased form.

Returns:
  - error: 409 when taken, 500 on storage failure
*/
func EnsureEmailFree(context context.Context, repo Repository, email, selfID string) error {
	candidates := []string{email}
	if lowered := strings.ToLower(email); lowered != email {
		candidates = append(candidates, lowered)
	}

	for _, candidate := range candidates {
		existing, err := repo.FindByEmail(context, candidate)
		if err != nil {
			if wrapped := dberr.Wrap(err, resourceName); !apperr.IsNotFound(wrapped) {
				return wrapped
			}
			continue
		}
		if existing.ID != selfID {
			return apperr.Conflict("Email is already registered")
		}
	}
	return nil
}

func roleError() error {
	return validate.RequiredError(FieldRole, "Must be one of: PUBLIC, AUTHOR, EDITOR, ADMIN")
}
