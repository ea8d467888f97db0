// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoKey = "_id"

// Mongo maps each table onto a collection of the database. The item key is
// stored as _id and stripped again on read.
type Mongo struct {
	database *mongo.Database
}

// NewMongo wraps a connected database handle.
func NewMongo(database *mongo.Database) *Mongo {
	return &Mongo{database: database}
}

// Get returns the document, or ErrNotFound.
func (store *Mongo) Get(ctx context.Context, table, id string) (Item, error) {
	var doc bson.M
	err := store.database.Collection(table).FindOne(ctx, bson.M{mongoKey: id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: get %s/%s: %w", table, id, err)
	}
	return fromBSON(doc)
}

// Put replaces (upserts) the document. IfNotExists uses InsertOne and maps a
// duplicate key to ErrConditionFailed.
func (store *Mongo) Put(ctx context.Context, table string, item Item, opts PutOptions) error {
	id, doc, err := toBSON(item)
	if err != nil {
		return err
	}

	collection := store.database.Collection(table)
	if opts.IfNotExists {
		_, err = collection.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return ErrConditionFailed
		}
	} else {
		_, err = collection.ReplaceOne(ctx, bson.M{mongoKey: id}, doc, options.Replace().SetUpsert(true))
	}
	if err != nil {
		return fmt.Errorf("docstore: put %s/%s: %w", table, id, err)
	}
	return nil
}

// Update applies $set, $unset and $inc in one FindOneAndUpdate, so Add is
// atomic on the server. Set values are reduced to JSON types first, so a
// time.Time is stored as its RFC 3339 string like the other backends.
func (store *Mongo) Update(ctx context.Context, table, id string, update Update) (Item, error) {
	if update.IsEmpty() {
		return store.Get(ctx, table, id)
	}

	set, err := normalize(withoutKey(update.Set))
	if err != nil {
		return nil, err
	}

	operators := bson.M{}
	if len(set) > 0 {
		operators["$set"] = set
	}
	if len(update.Remove) > 0 {
		unset := bson.M{}
		for _, attr := range update.Remove {
			if attr != KeyAttribute {
				unset[attr] = ""
			}
		}
		if len(unset) > 0 {
			operators["$unset"] = unset
		}
	}
	if len(update.Add) > 0 {
		inc := bson.M{}
		for attr, delta := range update.Add {
			inc[attr] = delta
		}
		operators["$inc"] = inc
	}
	if len(operators) == 0 {
		return store.Get(ctx, table, id)
	}

	var doc bson.M
	err = store.database.Collection(table).FindOneAndUpdate(ctx,
		bson.M{mongoKey: id},
		operators,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: update %s/%s: %w", table, id, err)
	}
	return fromBSON(doc)
}

// Delete removes the document, or returns ErrNotFound.
func (store *Mongo) Delete(ctx context.Context, table, id string) error {
	result, err := store.database.Collection(table).DeleteOne(ctx, bson.M{mongoKey: id})
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", table, id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Query matches the attribute exactly.
func (store *Mongo) Query(ctx context.Context, table string, index Index, value any, page Page) (Result, error) {
	return store.list(ctx, table, page, bson.M{index.Attribute: value})
}

// Scan lists the collection in _id order.
func (store *Mongo) Scan(ctx context.Context, table string, page Page) (Result, error) {
	return store.list(ctx, table, page, bson.M{})
}

// BatchPut writes items in chunks of BatchLimit with unordered bulk upserts.
func (store *Mongo) BatchPut(ctx context.Context, table string, items []Item) error {
	return writeChunked(ctx, store, table, items)
}

func (store *Mongo) writeBatch(ctx context.Context, table string, items []Item) ([]Item, error) {
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		id, doc, err := toBSON(item)
		if err != nil {
			return nil, err
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{mongoKey: id}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	_, err := store.database.Collection(table).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) {
		unprocessed := make([]Item, 0, len(bulkErr.WriteErrors))
		for _, writeErr := range bulkErr.WriteErrors {
			unprocessed = append(unprocessed, items[writeErr.Index])
		}
		return unprocessed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: batch put %s: %w", table, err)
	}
	return nil, nil
}

// Ping checks the primary.
func (store *Mongo) Ping(ctx context.Context) error {
	return store.database.Client().Ping(ctx, nil)
}

func (store *Mongo) list(ctx context.Context, table string, page Page, filter bson.M) (Result, error) {
	cursor, err := DecodeCursor(page.Cursor)
	if err != nil {
		return Result{}, err
	}
	if cursor.Key != "" {
		filter[mongoKey] = bson.M{"$gt": cursor.Key}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: mongoKey, Value: 1}})
	if page.Limit > 0 {
		findOptions.SetLimit(int64(page.Limit + 1))
	}

	rows, err := store.database.Collection(table).Find(ctx, filter, findOptions)
	if err != nil {
		return Result{}, fmt.Errorf("docstore: list %s: %w", table, err)
	}
	defer rows.Close(ctx)

	var docs []bson.M
	if err := rows.All(ctx, &docs); err != nil {
		return Result{}, fmt.Errorf("docstore: list %s: %w", table, err)
	}

	result := Result{Items: make([]Item, 0, len(docs))}
	for _, doc := range docs {
		if page.Limit > 0 && len(result.Items) == page.Limit {
			result.HasMore = true
			break
		}
		item, err := fromBSON(doc)
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

func toBSON(item Item) (string, bson.M, error) {
	id, err := keyOf(item)
	if err != nil {
		return "", nil, err
	}
	plain, err := normalize(item)
	if err != nil {
		return "", nil, err
	}
	doc := bson.M(plain)
	doc[mongoKey] = id
	return id, doc, nil
}

// fromBSON converts a decoded document to plain JSON types through relaxed
// Extended JSON and drops _id.
func fromBSON(doc bson.M) (Item, error) {
	delete(doc, mongoKey)

	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, fmt.Errorf("docstore: decode document: %w", err)
	}
	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("docstore: decode document: %w", err)
	}
	return item, nil
}
