// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Table is a typed view over one store table. T must round-trip through
// encoding/json and carry its key in the "id" field.
type Table[T any] struct {
	store Store
	name  string
}

// TypedResult is one page of decoded items.
type TypedResult[T any] struct {
	Items   []*T
	Cursor  string
	HasMore bool
}

// NewTable binds a table name to a store.
func NewTable[T any](store Store, name string) *Table[T] {
	return &Table[T]{store: store, name: name}
}

// Name returns the configured table name.
func (table *Table[T]) Name() string { return table.name }

// Get loads and decodes one item.
func (table *Table[T]) Get(ctx context.Context, id string) (*T, error) {
	item, err := table.store.Get(ctx, table.name, id)
	if err != nil {
		return nil, err
	}
	return Decode[T](item)
}

// Put encodes and writes the value.
func (table *Table[T]) Put(ctx context.Context, value *T, opts PutOptions) error {
	item, err := Encode(value)
	if err != nil {
		return err
	}
	return table.PutItem(ctx, item, opts)
}

// PutItem writes an already encoded item.
func (table *Table[T]) PutItem(ctx context.Context, item Item, opts PutOptions) error {
	return table.store.Put(ctx, table.name, item, opts)
}

// Update applies a partial update and decodes the result.
func (table *Table[T]) Update(ctx context.Context, id string, update Update) (*T, error) {
	item, err := table.store.Update(ctx, table.name, id, update)
	if err != nil {
		return nil, err
	}
	return Decode[T](item)
}

// Delete removes one item.
func (table *Table[T]) Delete(ctx context.Context, id string) error {
	return table.store.Delete(ctx, table.name, id)
}

// Query decodes one page of an attribute lookup.
func (table *Table[T]) Query(ctx context.Context, index Index, value any, page Page) (TypedResult[T], error) {
	result, err := table.store.Query(ctx, table.name, index, value, page)
	if err != nil {
		return TypedResult[T]{}, err
	}
	return decodeResult[T](result)
}

// Scan decodes one page of the whole table.
func (table *Table[T]) Scan(ctx context.Context, page Page) (TypedResult[T], error) {
	result, err := table.store.Scan(ctx, table.name, page)
	if err != nil {
		return TypedResult[T]{}, err
	}
	return decodeResult[T](result)
}

// First returns the first item matching an attribute lookup, or ErrNotFound.
func (table *Table[T]) First(ctx context.Context, index Index, value any) (*T, error) {
	result, err := table.store.Query(ctx, table.name, index, value, Page{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrNotFound
	}
	return Decode[T](result.Items[0])
}

// IsEmpty reports whether the table holds no items.
func (table *Table[T]) IsEmpty(ctx context.Context) (bool, error) {
	result, err := table.store.Scan(ctx, table.name, Page{Limit: 1})
	if err != nil {
		return false, err
	}
	return len(result.Items) == 0, nil
}

// BatchPut encodes and writes values in BatchLimit chunks.
func (table *Table[T]) BatchPut(ctx context.Context, values []*T) error {
	items := make([]Item, 0, len(values))
	for _, value := range values {
		item, err := Encode(value)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	return table.store.BatchPut(ctx, table.name, items)
}

// # Encoding

// Encode converts a value into a store item through its JSON form.
func Encode[T any](value *T) (Item, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode %T: %w", value, err)
	}
	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("docstore: encode %T: %w", value, err)
	}
	return item, nil
}

// Decode converts a store item into T.
func Decode[T any](item Item) (*T, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("docstore: decode item: %w", err)
	}
	value := new(T)
	if err := json.Unmarshal(raw, value); err != nil {
		return nil, fmt.Errorf("docstore: decode %T: %w", value, err)
	}
	return value, nil
}

// Fields encodes a partial struct (typically with omitempty pointers) into a
// Set map for [Update].
func Fields(patch any) (map[string]any, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode patch: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("docstore: encode patch: %w", err)
	}
	return fields, nil
}

func decodeResult[T any](result Result) (TypedResult[T], error) {
	typed := TypedResult[T]{Items: make([]*T, 0, len(result.Items)), Cursor: result.Cursor, HasMore: result.HasMore}
	for _, item := range result.Items {
		value, err := Decode[T](item)
		if err != nil {
			return TypedResult[T]{}, err
		}
		typed.Items = append(typed.Items, value)
	}
	return typed, nil
}

// # Timestamps

// NextUpdatedAt returns a modification time strictly after previous, so two
// updates in the same clock tick still order.
func NextUpdatedAt(previous, now time.Time) time.Time {
	now = now.UTC()
	if !now.After(previous) {
		return previous.Add(time.Millisecond).UTC()
	}
	return now
}

// # Collecting

// Source pulls one page of decoded items, either a Query or a Scan.
type Source[T any] func(ctx context.Context, page Page) (TypedResult[T], error)

// Collect pages through source from the cursor, keeping items accepted by
// keep, until limit matches are found. The returned cursor resumes after the
// last returned item. A zero limit collects every match.
func Collect[T any](ctx context.Context, source Source[T], key func(*T) string, cursor string, limit int, keep func(*T) bool) (TypedResult[T], error) {
	const fetchSize = 100

	out := TypedResult[T]{Items: []*T{}}
	page := Page{Limit: fetchSize, Cursor: cursor}

	for {
		result, err := source(ctx, page)
		if err != nil {
			return TypedResult[T]{}, err
		}

		for _, item := range result.Items {
			if !keep(item) {
				continue
			}
			if limit > 0 && len(out.Items) == limit {
				out.HasMore = true
				out.Cursor = EncodeCursor(Cursor{Key: key(out.Items[len(out.Items)-1])})
				return out, nil
			}
			out.Items = append(out.Items, item)
		}

		if !result.HasMore {
			return out, nil
		}
		page.Cursor = result.Cursor
	}
}

// Window returns the [offset, offset+limit) slice of items sorted in memory,
// with an offset cursor for the next window.
func Window[T any](items []T, cursor string, limit int) ([]T, string, bool, error) {
	decoded, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", false, err
	}

	start := min(decoded.Offset, len(items))
	end := len(items)
	if limit > 0 {
		end = min(start+limit, len(items))
	}

	hasMore := end < len(items)
	next := ""
	if hasMore {
		next = EncodeCursor(Cursor{Offset: end})
	}
	return items[start:end], next, hasMore, nil
}
