// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Memory is a process-local [Store]. A single mutex serialises all access,
// which makes every operation atomic at the item level.
type Memory struct {
	mu     sync.Mutex
	tables map[string]map[string]Item
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]map[string]Item)}
}

// Get returns a copy of the item, or ErrNotFound.
func (store *Memory) Get(_ context.Context, table, id string) (Item, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	item, ok := store.tables[table][id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(item), nil
}

// Put writes the item, replacing any existing one unless opts.IfNotExists.
func (store *Memory) Put(_ context.Context, table string, item Item, opts PutOptions) error {
	id, err := keyOf(item)
	if err != nil {
		return err
	}
	stored, err := normalize(item)
	if err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	rows := store.table(table)
	if _, exists := rows[id]; exists && opts.IfNotExists {
		return ErrConditionFailed
	}
	rows[id] = stored
	return nil
}

// Update applies Set, Remove and Add to an existing item and returns the
// updated copy.
func (store *Memory) Update(_ context.Context, table, id string, update Update) (Item, error) {
	set, err := normalize(update.Set)
	if err != nil {
		return nil, err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	item, ok := store.tables[table][id]
	if !ok {
		return nil, ErrNotFound
	}

	for attr, value := range set {
		if attr == KeyAttribute {
			continue
		}
		item[attr] = value
	}
	for _, attr := range update.Remove {
		if attr != KeyAttribute {
			delete(item, attr)
		}
	}
	for attr, delta := range update.Add {
		current, err := numberOf(item[attr])
		if err != nil {
			return nil, fmt.Errorf("docstore: add to %q: %w", attr, err)
		}
		item[attr] = current + float64(delta)
	}

	return clone(item), nil
}

// Delete removes the item, or returns ErrNotFound.
func (store *Memory) Delete(_ context.Context, table, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.tables[table][id]; !ok {
		return ErrNotFound
	}
	delete(store.tables[table], id)
	return nil
}

// Query returns items whose index attribute equals value, in key order.
func (store *Memory) Query(_ context.Context, table string, index Index, value any, page Page) (Result, error) {
	return store.list(table, page, func(item Item) bool {
		return matches(item[index.Attribute], value)
	})
}

// Scan returns every item of the table in key order.
func (store *Memory) Scan(_ context.Context, table string, page Page) (Result, error) {
	return store.list(table, page, func(Item) bool { return true })
}

// BatchPut writes items in chunks of BatchLimit.
func (store *Memory) BatchPut(ctx context.Context, table string, items []Item) error {
	return writeChunked(ctx, store, table, items)
}

func (store *Memory) writeBatch(ctx context.Context, table string, items []Item) ([]Item, error) {
	for _, item := range items {
		if err := store.Put(ctx, table, item, PutOptions{}); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// Ping always succeeds.
func (store *Memory) Ping(context.Context) error { return nil }

// Reset drops every table.
func (store *Memory) Reset() {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.tables = make(map[string]map[string]Item)
}

func (store *Memory) list(table string, page Page, keep func(Item) bool) (Result, error) {
	cursor, err := DecodeCursor(page.Cursor)
	if err != nil {
		return Result{}, err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	rows := store.tables[table]
	keys := slices.Sorted(maps.Keys(rows))

	result := Result{Items: []Item{}}
	for _, key := range keys {
		if cursor.Key != "" && key <= cursor.Key {
			continue
		}
		if !keep(rows[key]) {
			continue
		}
		if page.Limit > 0 && len(result.Items) == page.Limit {
			result.HasMore = true
			break
		}
		result.Items = append(result.Items, clone(rows[key]))
	}

	if result.HasMore {
		last, _ := keyOf(result.Items[len(result.Items)-1])
		result.Cursor = EncodeCursor(Cursor{Key: last})
	}
	return result, nil
}

func (store *Memory) table(name string) map[string]Item {
	rows, ok := store.tables[name]
	if !ok {
		rows = make(map[string]Item)
		store.tables[name] = rows
	}
	return rows
}

// clone deep-copies an item so callers never alias stored state.
func clone(item Item) Item {
	out, err := normalize(item)
	if err != nil {
		// stored items were normalized on write; a failure here is a bug
		panic(err)
	}
	return out
}

func numberOf(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("attribute is not a number (%T)", value)
	}
}
