// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/internal/core/category"
	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/pointer"
)

func newService(t *testing.T) *category.Service {
	t.Helper()
	repo := category.NewDocumentRepository(docstore.NewMemory(), "categories", "slug-index")
	return category.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreate_DerivesSlugAndDefaults(t *testing.T) {
	service := newService(t)

	created, err := service.Create(context.Background(), category.CreateInput{Name: "Thế Giới News"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "the-gioi-news", created.Slug)
	assert.True(t, created.ShowInHeader)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := service.GetBySlug(context.Background(), "the-gioi-news")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreate_NonLatinName(t *testing.T) {
	service := newService(t)

	created, err := service.Create(context.Background(), category.CreateInput{Name: "తెలుగు వార్తలు"})
	require.NoError(t, err)
	assert.Regexp(t, `^category-[0-9a-f]{10}$`, created.Slug)

	found, err := service.GetBySlug(context.Background(), created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreate_Rejections(t *testing.T) {
	service := newService(t)
	_, err := service.Create(context.Background(), category.CreateInput{Name: "World"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input category.CreateInput
		code  string
	}{
		{"duplicate slug", category.CreateInput{Name: "World"}, apperr.CodeConflict},
		{"invalid slug", category.CreateInput{Name: "X", Slug: "Not A Slug"}, apperr.CodeValidation},
		{"unknown parent", category.CreateInput{Name: "Asia", ParentCategoryID: "missing"}, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestUpdate_ParentCycle(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	root, err := service.Create(ctx, category.CreateInput{Name: "World"})
	require.NoError(t, err)
	child, err := service.Create(ctx, category.CreateInput{Name: "Asia", ParentCategoryID: root.ID})
	require.NoError(t, err)
	grandchild, err := service.Create(ctx, category.CreateInput{Name: "Vietnam", ParentCategoryID: child.ID})
	require.NoError(t, err)

	_, err = service.Update(ctx, root.ID, category.Patch{ParentCategoryID: &grandchild.ID})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Update(ctx, root.ID, category.Patch{ParentCategoryID: &root.ID})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	detached, err := service.Update(ctx, grandchild.ID, category.Patch{ParentCategoryID: pointer.To("")})
	require.NoError(t, err)
	assert.Empty(t, detached.ParentCategoryID)
	assert.True(t, detached.UpdatedAt.After(grandchild.UpdatedAt))
}

func TestUpdate_SlugConflictIgnoresSelf(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	world, err := service.Create(ctx, category.CreateInput{Name: "World"})
	require.NoError(t, err)
	_, err = service.Create(ctx, category.CreateInput{Name: "Sport"})
	require.NoError(t, err)

	_, err = service.Update(ctx, world.ID, category.Patch{Slug: pointer.To("world")})
	assert.NoError(t, err)

	_, err = service.Update(ctx, world.ID, category.Patch{Slug: pointer.To("sport")})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = service.Update(ctx, "missing", category.Patch{Name: pointer.To("x")})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDelete_DetachesChildren(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	root, err := service.Create(ctx, category.CreateInput{Name: "World"})
	require.NoError(t, err)
	child, err := service.Create(ctx, category.CreateInput{Name: "Asia", ParentCategoryID: root.ID})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, root.ID))

	reloaded, err := service.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.ParentCategoryID)

	assert.True(t, apperr.IsNotFound(service.Delete(ctx, root.ID)))
}

func TestList_HeaderFilterAndPaging(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := service.Create(ctx, category.CreateInput{Name: name})
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, category.CreateInput{Name: "Hidden", ShowInHeader: pointer.To(false)})
	require.NoError(t, err)

	header, err := service.List(ctx, pagination.Params{Limit: 20}, true)
	require.NoError(t, err)
	assert.Len(t, header.Items, 3)

	first, err := service.List(ctx, pagination.Params{Limit: 2}, false)
	require.NoError(t, err)
	require.True(t, first.HasMore)
	assert.Equal(t, "A", first.Items[0].Name)

	second, err := service.List(ctx, pagination.Params{Limit: 2, Cursor: first.Cursor}, false)
	require.NoError(t, err)
	assert.False(t, second.HasMore)
	assert.Equal(t, []string{"C", "Hidden"}, []string{second.Items[0].Name, second.Items[1].Name})
}

func TestResolve(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	world, err := service.Create(ctx, category.CreateInput{Name: "World"})
	require.NoError(t, err)

	byID, err := service.Resolve(ctx, world.ID)
	require.NoError(t, err)
	assert.Equal(t, world.ID, byID.ID)

	bySlug, err := service.Resolve(ctx, "World")
	require.NoError(t, err)
	assert.Equal(t, world.ID, bySlug.ID)

	missing, err := service.Resolve(ctx, "nothing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
