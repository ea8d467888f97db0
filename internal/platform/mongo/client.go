// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mongo provides a managed MongoDB client for the native document
store backend.
*/
package mongo

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 2 * time.Second
	maxPoolSize    = 25
)

// NewClient connects to uri and verifies the primary is reachable.
//
// # Parameters
//   - context: Context for the initial connection and ping.
//   - uri: mongodb:// or mongodb+srv:// connection string.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, uri string, logger *slog.Logger) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetConnectTimeout(connectTimeout)

	connectCtx, cancel := stdctx.WithTimeout(context, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to connect: %w", err)
	}

	if err := Ping(context, client); err != nil {
		_ = client.Disconnect(context)
		return nil, err
	}

	logger.Info("mongo client connected", slog.Int("max_pool_size", maxPoolSize))
	return client, nil
}

// Ping verifies that the primary answers within pingTimeout.
func Ping(context stdctx.Context, client *mongo.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping failed: %w", err)
	}
	return nil
}
