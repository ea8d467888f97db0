// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Vadali newsroom HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the document store (memory, postgres + migrations, or mongo).
//  4. Seed the fixture and build the login fallback dataset.
//  5. Connect to Redis for refresh sessions, or keep them in memory.
//  6. Build the token service (RS256 or HS256).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vadali/newsroom/internal/api"
	"github.com/vadali/newsroom/internal/platform/config"
	"github.com/vadali/newsroom/internal/platform/constants"
	"github.com/vadali/newsroom/internal/platform/database"
	"github.com/vadali/newsroom/internal/platform/docstore"
	redisstore "github.com/vadali/newsroom/internal/platform/redis"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/platform/seed"
	"github.com/vadali/newsroom/internal/users/account"
	"github.com/vadali/newsroom/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Vadali] service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	// Startup deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Document Store ─────────────────────────────────────────────────
	connection, err := database.Open(startupCtx, cfg, log)
	must(log, err, "open document store")
	defer func() {
		log.Info("closing document store")
		if cerr := connection.Close(context.Background()); cerr != nil {
			log.Error("document store close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Seed & Login Fallback ──────────────────────────────────────────
	dataset, err := seed.Default()
	must(log, err, "parse seed fixture")

	if cfg.SeedOnStart && connection.Memory != nil {
		_, err := seed.Apply(startupCtx, connection.Memory, cfg.Tables, dataset, log)
		must(log, err, "seed memory store")
	}

	fallbackStore := docstore.NewMemory()
	_, err = seed.Apply(startupCtx, fallbackStore, cfg.Tables, &seed.Dataset{Users: dataset.Users}, log)
	must(log, err, "build login fallback")
	fallbackUsers := account.NewDocumentRepository(fallbackStore, cfg.Tables.Users, cfg.Indexes.UserEmail)

	checks := []api.DependencyCheck{{Name: connection.Driver, Ping: connection.Ping}}

	// ── 5. Sessions ───────────────────────────────────────────────────────
	var sessions auth.SessionRepository = auth.NewMemorySessionRepository()
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		sessions = auth.NewRedisSessionRepository(rdb)
		checks = append(checks, api.DependencyCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	}

	// ── 6. Token Service ──────────────────────────────────────────────────
	var tokens *sec.TokenService
	if cfg.UsesRSA() {
		tokens, err = sec.NewRSATokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	} else {
		tokens, err = sec.NewHMACTokenService(cfg.JWTSecret, constants.AuthIssuer)
	}
	must(log, err, "initialize jwt service")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	handlers := api.NewHandlers(api.Dependencies{
		Config:        cfg,
		Store:         connection.Store,
		Sessions:      sessions,
		Tokens:        tokens,
		Logger:        log,
		FallbackUsers: fallbackUsers,
	})
	handlers.Liveness, handlers.Readiness = api.NewHealthHandlers(checks, log)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, tokens, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
