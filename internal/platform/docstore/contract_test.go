// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/pkg/uuid"
)

/*
runContract exercises the behavior every backend must share. Each backend
test passes a constructor returning an empty store.
*/
func runContract(t *testing.T, newStore func(t *testing.T) docstore.Store) {
	ctx := context.Background()
	const table = "vadali-test-articles"

	t.Run("put_get_roundtrip", func(t *testing.T) {
		store := newStore(t)
		id := uuid.New()
		require.NoError(t, store.Put(ctx, table, docstore.Item{
			"id": id, "title": "Hello", "tags": []string{"AI"}, "views": 3, "isFeatured": false,
		}, docstore.PutOptions{}))

		item, err := store.Get(ctx, table, id)
		require.NoError(t, err)
		assert.Equal(t, "Hello", item["title"])
		assert.Equal(t, []any{"AI"}, item["tags"])
		assert.Equal(t, float64(3), item["views"])
		assert.Equal(t, false, item["isFeatured"])
	})

	t.Run("missing_item", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(ctx, table, "nope")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, table, "nope"), docstore.ErrNotFound)

		_, err = store.Update(ctx, table, "nope", docstore.Update{Set: map[string]any{"a": 1}})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("put_if_not_exists", func(t *testing.T) {
		store := newStore(t)
		item := docstore.Item{"id": uuid.New(), "email": "a@vadali.com"}
		require.NoError(t, store.Put(ctx, table, item, docstore.PutOptions{IfNotExists: true}))
		err := store.Put(ctx, table, item, docstore.PutOptions{IfNotExists: true})
		assert.ErrorIs(t, err, docstore.ErrConditionFailed)
	})

	t.Run("update_set_remove_add", func(t *testing.T) {
		store := newStore(t)
		id := uuid.New()
		require.NoError(t, store.Put(ctx, table, docstore.Item{
			"id": id, "status": "Published", "publishedAt": "2026-01-01T00:00:00Z",
		}, docstore.PutOptions{}))

		item, err := store.Update(ctx, table, id, docstore.Update{
			Set:    map[string]any{"status": "Draft", "id": "hijack"},
			Remove: []string{"publishedAt"},
			Add:    map[string]int64{"views": 2},
		})
		require.NoError(t, err)
		assert.Equal(t, id, item["id"])
		assert.Equal(t, "Draft", item["status"])
		assert.NotContains(t, item, "publishedAt")
		assert.Equal(t, float64(2), item["views"])
	})

	t.Run("update_set_time_reads_back_as_text", func(t *testing.T) {
		store := newStore(t)
		id := uuid.New()
		require.NoError(t, store.Put(ctx, table, docstore.Item{"id": id}, docstore.PutOptions{}))

		stamp := time.Date(2026, 10, 14, 17, 9, 52, 615000000, time.UTC)
		_, err := store.Update(ctx, table, id, docstore.Update{Set: map[string]any{"updatedAt": stamp}})
		require.NoError(t, err)

		item, err := store.Get(ctx, table, id)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-14T17:09:52.615Z", item["updatedAt"])

		type stamped struct {
			ID        string    `json:"id"`
			UpdatedAt time.Time `json:"updatedAt"`
		}
		decoded, err := docstore.NewTable[stamped](store, table).Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, stamp.Equal(decoded.UpdatedAt))
	})

	t.Run("concurrent_add_is_exact", func(t *testing.T) {
		store := newStore(t)
		id := uuid.New()
		require.NoError(t, store.Put(ctx, table, docstore.Item{"id": id, "views": 10}, docstore.PutOptions{}))

		const workers = 40
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Update(ctx, table, id, docstore.Update{Add: map[string]int64{"views": 1}})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		item, err := store.Get(ctx, table, id)
		require.NoError(t, err)
		assert.Equal(t, float64(10+workers), item["views"])
	})

	t.Run("scan_pages_in_insertion_order", func(t *testing.T) {
		store := newStore(t)
		var want []string
		for i := range 7 {
			id := uuid.New()
			want = append(want, id)
			require.NoError(t, store.Put(ctx, table, docstore.Item{"id": id, "n": i}, docstore.PutOptions{}))
		}

		var got []string
		page := docstore.Page{Limit: 3}
		for calls := 0; ; calls++ {
			require.Less(t, calls, 5)
			result, err := store.Scan(ctx, table, page)
			require.NoError(t, err)
			for _, item := range result.Items {
				got = append(got, item["id"].(string))
			}
			if !result.HasMore {
				assert.Empty(t, result.Cursor)
				break
			}
			page.Cursor = result.Cursor
		}
		assert.Equal(t, want, got)
	})

	t.Run("query_by_attribute", func(t *testing.T) {
		store := newStore(t)
		for i, status := range []string{"Draft", "Published", "Published", "Rejected"} {
			require.NoError(t, store.Put(ctx, table, docstore.Item{
				"id": uuid.New(), "status": status, "title": fmt.Sprintf("t%d", i),
			}, docstore.PutOptions{}))
		}

		result, err := store.Query(ctx, table, docstore.Index{Name: "status-index", Attribute: "status"}, "Published", docstore.Page{})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "t1", result.Items[0]["title"])
		assert.False(t, result.HasMore)
	})

	t.Run("batch_put_over_limit", func(t *testing.T) {
		store := newStore(t)
		items := make([]docstore.Item, 0, 60)
		for i := range 60 {
			items = append(items, docstore.Item{"id": uuid.New(), "n": i})
		}
		require.NoError(t, store.BatchPut(ctx, table, items))

		result, err := store.Scan(ctx, table, docstore.Page{})
		require.NoError(t, err)
		assert.Len(t, result.Items, 60)
	})

	t.Run("tables_are_isolated", func(t *testing.T) {
		store := newStore(t)
		id := uuid.New()
		require.NoError(t, store.Put(ctx, table, docstore.Item{"id": id}, docstore.PutOptions{}))
		_, err := store.Get(ctx, "vadali-test-users", id)
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("invalid_cursor", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Scan(ctx, table, docstore.Page{Cursor: "%%%"})
		assert.ErrorIs(t, err, docstore.ErrInvalidCursor)
	})
}
