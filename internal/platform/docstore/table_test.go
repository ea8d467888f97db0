// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/uuid"
)

type note struct {
	ID    string   `json:"id"`
	Topic string   `json:"topic"`
	Tags  []string `json:"tags,omitempty"`
}

func seedNotes(t *testing.T, table *docstore.Table[note], topics ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(topics))
	for _, topic := range topics {
		n := &note{ID: uuid.New(), Topic: topic}
		require.NoError(t, table.Put(context.Background(), n, docstore.PutOptions{}))
		ids = append(ids, n.ID)
	}
	return ids
}

func TestTable_FirstAndEmpty(t *testing.T) {
	ctx := context.Background()
	table := docstore.NewTable[note](docstore.NewMemory(), "notes")

	empty, err := table.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	ids := seedNotes(t, table, "go", "rust", "go")
	index := docstore.Index{Name: "topic-index", Attribute: "topic"}

	first, err := table.First(ctx, index, "go")
	require.NoError(t, err)
	assert.Equal(t, ids[0], first.ID)

	_, err = table.First(ctx, index, "zig")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

/*
TestCollect_FiltersAcrossPages checks that matches are gathered across store
pages and that the cursor resumes exactly after the last returned item.
*/
func TestCollect_FiltersAcrossPages(t *testing.T) {
	ctx := context.Background()
	table := docstore.NewTable[note](docstore.NewMemory(), "notes")

	topics := make([]string, 0, 250)
	for i := range 250 {
		if i%10 == 0 {
			topics = append(topics, "keep")
		} else {
			topics = append(topics, "skip")
		}
	}
	ids := seedNotes(t, table, topics...)

	keep := func(n *note) bool { return n.Topic == "keep" }
	key := func(n *note) string { return n.ID }

	first, err := docstore.Collect(ctx, table.Scan, key, "", 20, keep)
	require.NoError(t, err)
	require.Len(t, first.Items, 20)
	assert.True(t, first.HasMore)
	assert.Equal(t, ids[0], first.Items[0].ID)

	rest, err := docstore.Collect(ctx, table.Scan, key, first.Cursor, 20, keep)
	require.NoError(t, err)
	assert.Len(t, rest.Items, 5)
	assert.False(t, rest.HasMore)
	assert.Equal(t, ids[200], rest.Items[0].ID)
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, next, more, err := docstore.Window(items, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, page)
	assert.True(t, more)

	page, next, more, err = docstore.Window(items, next, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, page)

	page, _, more, err = docstore.Window(items, next, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, page)
	assert.False(t, more)
}

func TestNextUpdatedAt_StrictlyIncreases(t *testing.T) {
	previous := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, docstore.NextUpdatedAt(previous, previous).After(previous))
	assert.True(t, docstore.NextUpdatedAt(previous, previous.Add(-time.Hour)).After(previous))

	later := previous.Add(time.Second)
	assert.Equal(t, later, docstore.NextUpdatedAt(previous, later))
}

func TestFields_OmitsUnset(t *testing.T) {
	type patch struct {
		Topic *string `json:"topic,omitempty"`
		Tags  []string `json:"tags,omitempty"`
	}
	topic := "go"
	fields, err := docstore.Fields(patch{Topic: &topic})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"topic": "go"}, fields)
}
