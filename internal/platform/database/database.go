// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package database opens the document store selected by STORE_DRIVER.

Drivers:

  - memory: process-local [docstore.Memory].
  - postgres: pgxpool plus golang-migrate for the documents table.
  - mongo: mongo-driver database named by MONGO_DATABASE.

The api and seed binaries both open their store here.
*/
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vadali/newsroom/internal/platform/config"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/platform/migration"
	platformmongo "github.com/vadali/newsroom/internal/platform/mongo"
	"github.com/vadali/newsroom/internal/platform/postgres"
)

// Connection is an open document store and the means to release it.
type Connection struct {
	Driver string
	Store  docstore.Store

	// Memory is set for the memory driver only.
	Memory *docstore.Memory

	close func(ctx context.Context) error
}

// Ping checks that the backing store answers.
func (connection *Connection) Ping(ctx context.Context) error {
	return connection.Store.Ping(ctx)
}

// Close releases pools and clients. Safe to call on the memory driver.
func (connection *Connection) Close(ctx context.Context) error {
	if connection.close == nil {
		return nil
	}
	return connection.close(ctx)
}

/*
Open connects to the configured store. For postgres, pending migrations are
applied before the store is returned.

Returns:
  - *Connection: Ready-to-use store
  - error: Connection, ping or migration failures
*/
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Connection, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		memory := docstore.NewMemory()
		logger.Info("document_store_opened", slog.String("driver", cfg.StoreDriver))
		return &Connection{Driver: cfg.StoreDriver, Store: memory, Memory: memory}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("document_store_opened", slog.String("driver", cfg.StoreDriver))
		return &Connection{
			Driver: cfg.StoreDriver,
			Store:  docstore.NewPostgres(pool),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		client, err := platformmongo.NewClient(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("document_store_opened", slog.String("driver", cfg.StoreDriver), slog.String("database", cfg.MongoDatabase))
		return &Connection{
			Driver: cfg.StoreDriver,
			Store:  docstore.NewMongo(client.Database(cfg.MongoDatabase)),
			close:  client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("database: unknown store driver %q", cfg.StoreDriver)
}
