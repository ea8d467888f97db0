// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/internal/platform/docstore"
)

func TestMemory_Contract(t *testing.T) {
	runContract(t, func(*testing.T) docstore.Store { return docstore.NewMemory() })
}

/*
TestMemory_ReturnsCopies checks that mutating a returned item never alters
stored state.
*/
func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Put(ctx, "t", docstore.Item{"id": "a", "tags": []string{"x"}}, docstore.PutOptions{}))

	item, err := store.Get(ctx, "t", "a")
	require.NoError(t, err)
	item["tags"].([]any)[0] = "mutated"

	again, err := store.Get(ctx, "t", "a")
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, again["tags"])
}

func TestMemory_AddRejectsNonNumbers(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Put(ctx, "t", docstore.Item{"id": "a", "views": "many"}, docstore.PutOptions{}))

	_, err := store.Update(ctx, "t", "a", docstore.Update{Add: map[string]int64{"views": 1}})
	assert.Error(t, err)
}

func TestCursor_RoundTrip(t *testing.T) {
	token := docstore.EncodeCursor(docstore.Cursor{Key: "0190-abc", Offset: 40})
	assert.NotContains(t, token, "=")

	cursor, err := docstore.DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, docstore.Cursor{Key: "0190-abc", Offset: 40}, cursor)

	assert.Empty(t, docstore.EncodeCursor(docstore.Cursor{}))
	empty, err := docstore.DecodeCursor("")
	require.NoError(t, err)
	assert.Equal(t, docstore.Cursor{}, empty)
}
