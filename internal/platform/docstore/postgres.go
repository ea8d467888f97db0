// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores every table in the shared "documents" relation created by
// the 000001_documents migration: one JSONB row per (collection, id).
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Get returns the stored document, or ErrNotFound.
func (store *Postgres) Get(ctx context.Context, table, id string) (Item, error) {
	var raw []byte
	err := store.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
		table, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: get %s/%s: %w", table, id, err)
	}
	return decodeDoc(raw)
}

// Put upserts the document. With IfNotExists an existing key fails with
// ErrConditionFailed.
func (store *Postgres) Put(ctx context.Context, table string, item Item, opts PutOptions) error {
	id, raw, err := encodeDoc(item)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc`
	if opts.IfNotExists {
		query = `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)
			ON CONFLICT (collection, id) DO NOTHING`
	}

	tag, err := store.pool.Exec(ctx, query, table, id, raw)
	if err != nil {
		return fmt.Errorf("docstore: put %s/%s: %w", table, id, err)
	}
	if opts.IfNotExists && tag.RowsAffected() == 0 {
		return ErrConditionFailed
	}
	return nil
}

/*
Update rewrites the document in one UPDATE statement, so the row lock makes
Add increments race-safe.

The new document is built as

	jsonb_set(((doc || $set) - $remove), '{attr}', COALESCE(doc->>attr, 0) + n)

with one jsonb_set per Add attribute.
*/
func (store *Postgres) Update(ctx context.Context, table, id string, update Update) (Item, error) {
	set := update.Set
	if set == nil {
		set = map[string]any{}
	}
	set = withoutKey(set)
	setRaw, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode update: %w", err)
	}

	remove := slices.DeleteFunc(slices.Clone(update.Remove), func(attr string) bool { return attr == KeyAttribute })
	if remove == nil {
		remove = []string{}
	}

	args := []any{table, id, setRaw, remove}
	expr := "((doc || $3::jsonb) - $4::text[])"

	for _, attr := range sortedKeys(update.Add) {
		args = append(args, attr, update.Add[attr])
		attrArg, deltaArg := len(args)-1, len(args)
		expr = fmt.Sprintf(
			"jsonb_set(%s, ARRAY[$%d::text], to_jsonb(COALESCE((doc->>$%d::text)::numeric, 0) + $%d::bigint))",
			expr, attrArg, attrArg, deltaArg,
		)
	}

	var raw []byte
	err = store.pool.QueryRow(ctx,
		"UPDATE documents SET doc = "+expr+" WHERE collection = $1 AND id = $2 RETURNING doc",
		args...,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: update %s/%s: %w", table, id, err)
	}
	return decodeDoc(raw)
}

// Delete removes the row, or returns ErrNotFound.
func (store *Postgres) Delete(ctx context.Context, table, id string) error {
	tag, err := store.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, table, id)
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Query matches doc->>attribute against the text form of value.
func (store *Postgres) Query(ctx context.Context, table string, index Index, value any, page Page) (Result, error) {
	return store.list(ctx, table, page, "doc->>$2::text = $3::text", index.Attribute, textValue(value))
}

// Scan lists the collection in key order.
func (store *Postgres) Scan(ctx context.Context, table string, page Page) (Result, error) {
	return store.list(ctx, table, page, "")
}

// BatchPut writes items in chunks of BatchLimit, one transaction per chunk.
func (store *Postgres) BatchPut(ctx context.Context, table string, items []Item) error {
	return writeChunked(ctx, store, table, items)
}

func (store *Postgres) writeBatch(ctx context.Context, table string, items []Item) ([]Item, error) {
	batch := &pgx.Batch{}
	for _, item := range items {
		id, raw, err := encodeDoc(item)
		if err != nil {
			return nil, err
		}
		batch.Queue(`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)
			ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc`, table, id, raw)
	}

	err := pgx.BeginFunc(ctx, store.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		// the transaction rolled back, so nothing in this chunk was written
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return items, nil
		}
		return nil, fmt.Errorf("docstore: batch put %s: %w", table, err)
	}
	return nil, nil
}

// Ping checks pool connectivity.
func (store *Postgres) Ping(ctx context.Context) error {
	return store.pool.Ping(ctx)
}

// list pages the collection by id. filter, when set, is an extra predicate
// whose placeholders start at $2.
func (store *Postgres) list(ctx context.Context, table string, page Page, filter string, filterArgs ...any) (Result, error) {
	cursor, err := DecodeCursor(page.Cursor)
	if err != nil {
		return Result{}, err
	}

	args := append([]any{table}, filterArgs...)
	var query strings.Builder
	query.WriteString("SELECT doc FROM documents WHERE collection = $1")
	if filter != "" {
		query.WriteString(" AND " + filter)
	}
	args = append(args, cursor.Key)
	fmt.Fprintf(&query, " AND id > $%d ORDER BY id", len(args))
	if page.Limit > 0 {
		args = append(args, page.Limit+1)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}

	rows, err := store.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return Result{}, fmt.Errorf("docstore: list %s: %w", table, err)
	}

	raws, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return Result{}, fmt.Errorf("docstore: list %s: %w", table, err)
	}

	result := Result{Items: make([]Item, 0, len(raws))}
	for _, raw := range raws {
		if page.Limit > 0 && len(result.Items) == page.Limit {
			result.HasMore = true
			break
		}
		item, err := decodeDoc(raw)
		if err != nil {
			return Result{}, err
		}
		result.Items = append(result.Items, item)
	}

	if result.HasMore {
		last, _ := keyOf(result.Items[len(result.Items)-1])
		result.Cursor = EncodeCursor(Cursor{Key: last})
	}
	return result, nil
}

func encodeDoc(item Item) (string, []byte, error) {
	id, err := keyOf(item)
	if err != nil {
		return "", nil, err
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return "", nil, fmt.Errorf("docstore: encode item: %w", err)
	}
	return id, raw, nil
}

func decodeDoc(raw []byte) (Item, error) {
	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("docstore: decode item: %w", err)
	}
	return item, nil
}

func withoutKey(set map[string]any) map[string]any {
	if _, ok := set[KeyAttribute]; !ok {
		return set
	}
	out := make(map[string]any, len(set))
	for attr, value := range set {
		if attr != KeyAttribute {
			out[attr] = value
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
