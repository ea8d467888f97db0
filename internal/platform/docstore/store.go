// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package docstore is the document store accessor shared by every repository.

Items are JSON-shaped maps keyed by a string "id". All operations are atomic
at the single-item level only. There are no multi-item transactions and no
optimistic version checks; concurrent writers to the same item race and the
last writer wins. The one exception is [Update.Add], an atomic
"add N, defaulting a missing attribute to 0".

Backends:

  - [Memory]: process-local, used by tests, development and the login fallback.
  - [Postgres]: one JSONB row per item in a shared documents table (pgx).
  - [Mongo]: one collection per table (mongo-driver).

Listing is key ordered. Keys are UUIDv7, so key order is insertion order.
*/
package docstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// # Errors

var (
	// ErrNotFound is returned when the addressed item does not exist.
	ErrNotFound = errors.New("docstore: item not found")

	// ErrConditionFailed is returned when a conditional write fails, such as
	// a Put with IfNotExists on an existing key.
	ErrConditionFailed = errors.New("docstore: conditional check failed")

	// ErrUnprocessed is returned when a batch write leaves items unwritten.
	// Callers retry the whole batch.
	ErrUnprocessed = errors.New("docstore: batch left unprocessed items")

	// ErrInvalidCursor is returned for a cursor this package did not issue.
	ErrInvalidCursor = errors.New("docstore: invalid cursor")
)

// # Types

// KeyAttribute is the primary key attribute of every item.
const KeyAttribute = "id"

// BatchLimit is the maximum number of items per batch write request.
const BatchLimit = 25

// Item is a single stored document.
type Item = map[string]any

// Index names a secondary lookup on Attribute. Backends that maintain real
// indexes use Name; the attribute drives the match.
type Index struct {
	Name      string
	Attribute string
}

// Page bounds a Query or Scan. A zero Limit returns every remaining item.
type Page struct {
	Limit  int
	Cursor string
}

// Result is one page of a Query or Scan.
type Result struct {
	Items   []Item
	Cursor  string
	HasMore bool
}

// PutOptions controls conditional writes.
type PutOptions struct {
	// IfNotExists fails the write with ErrConditionFailed when the key exists.
	IfNotExists bool
}

// Update describes a partial mutation of one item.
type Update struct {
	// Set overwrites top-level attributes.
	Set map[string]any
	// Remove deletes top-level attributes.
	Remove []string
	// Add atomically increments numeric attributes, treating missing as 0.
	Add map[string]int64
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return len(u.Set) == 0 && len(u.Remove) == 0 && len(u.Add) == 0
}

// Store is the capability set every backend provides.
type Store interface {
	Get(ctx context.Context, table, id string) (Item, error)
	Put(ctx context.Context, table string, item Item, opts PutOptions) error
	Update(ctx context.Context, table, id string, update Update) (Item, error)
	Delete(ctx context.Context, table, id string) error
	Query(ctx context.Context, table string, index Index, value any, page Page) (Result, error)
	Scan(ctx context.Context, table string, page Page) (Result, error)
	BatchPut(ctx context.Context, table string, items []Item) error
	Ping(ctx context.Context) error
}

// # Cursor

// Cursor is the decoded form of an opaque continuation token. Key is the last
// consumed item key; Offset is used by callers that page a sorted, in-memory
// result instead of the key order.
type Cursor struct {
	Key    string `json:"k,omitempty"`
	Offset int    `json:"o,omitempty"`
}

// EncodeCursor renders a cursor as URL-safe base64 JSON.
func EncodeCursor(cursor Cursor) string {
	if cursor == (Cursor{}) {
		return ""
	}
	raw, _ := json.Marshal(cursor)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by [EncodeCursor]. The empty string is
// the start of the listing.
func DecodeCursor(token string) (Cursor, error) {
	var cursor Cursor
	if token == "" {
		return cursor, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return cursor, ErrInvalidCursor
	}
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return cursor, ErrInvalidCursor
	}
	return cursor, nil
}

// # Batch writes

// batchWriter writes one chunk of at most BatchLimit items and reports the
// items it could not write.
type batchWriter interface {
	writeBatch(ctx context.Context, table string, items []Item) (unprocessed []Item, err error)
}

// writeChunked splits items into BatchLimit-sized requests. Any unprocessed
// item aborts the batch with ErrUnprocessed; there is no partial-success
// bookkeeping.
func writeChunked(ctx context.Context, writer batchWriter, table string, items []Item) error {
	for start := 0; start < len(items); start += BatchLimit {
		end := min(start+BatchLimit, len(items))

		for _, item := range items[start:end] {
			if _, err := keyOf(item); err != nil {
				return err
			}
		}

		unprocessed, err := writer.writeBatch(ctx, table, items[start:end])
		if err != nil {
			return err
		}
		if len(unprocessed) > 0 {
			return fmt.Errorf("%w: %d items in %s", ErrUnprocessed, len(unprocessed), table)
		}
	}
	return nil
}

// # Helpers

func keyOf(item Item) (string, error) {
	id, ok := item[KeyAttribute].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("docstore: item has no string %q attribute", KeyAttribute)
	}
	return id, nil
}

// normalize converts an item into plain JSON types (string, float64, bool,
// []any, map[string]any) by a JSON round-trip, so every backend returns the
// same shapes.
func normalize(item Item) (Item, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode item: %w", err)
	}
	var out Item
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("docstore: decode item: %w", err)
	}
	return out, nil
}

// matches compares a stored attribute with a lookup value by their text
// form, the same comparison the Postgres ->> operator performs.
func matches(stored, want any) bool {
	if stored == nil {
		return false
	}
	return textValue(stored) == textValue(want)
}

func textValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	raw, _ := json.Marshal(value)
	return string(raw)
}
