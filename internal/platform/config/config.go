// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. An optional .env file is loaded first with 'joho/godotenv'; real
environment variables always win over the file.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Table and index names default to per-environment values and are used
verbatim when set.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Store Drivers

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// # Configuration Schema

// Config holds all runtime configuration for the newsroom API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Document store backend
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`

	// Relational host (PostgreSQL JSONB documents)
	DatabaseURL string `env:"DATABASE_URL"`
	// MigrationPath overrides the embedded migrations with a directory.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Native document database (MongoDB)
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"vadali"`

	// Refresh-token session cache. Empty keeps sessions in memory.
	RedisURL string `env:"REDIS_URL"`

	// Token signing. RS256 when both key paths are set, HS256 otherwise.
	JWTSecret       string        `env:"JWT_SECRET"`
	JWTPrivKeyPath  string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath   string        `env:"JWT_PUBLIC_KEY_PATH"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Public base URL for media rewriting in pkg/client consumers
	MediaBaseURL string `env:"MEDIA_BASE_URL"`

	// Load the embedded fixture into the memory store at start
	SeedOnStart bool `env:"SEED_ON_START" envDefault:"false"`

	Tables  Tables
	Indexes Indexes
}

// Tables holds the document store table names. Empty values are filled from
// the environment name by [Load].
type Tables struct {
	Users         string `env:"USERS_TABLE"`
	Articles      string `env:"ARTICLES_TABLE"`
	Categories    string `env:"CATEGORIES_TABLE"`
	Comments      string `env:"COMMENTS_TABLE"`
	Notifications string `env:"NOTIFICATIONS_TABLE"`
	Subscribers   string `env:"SUBSCRIBERS_TABLE"`
}

// Indexes holds the secondary index names used for attribute lookups.
type Indexes struct {
	UserEmail        string `env:"USERS_EMAIL_INDEX"         envDefault:"email-index"`
	ArticleSlug      string `env:"ARTICLES_SLUG_INDEX"       envDefault:"slug-index"`
	ArticleStatus    string `env:"ARTICLES_STATUS_INDEX"     envDefault:"status-index"`
	CategorySlug     string `env:"CATEGORIES_SLUG_INDEX"     envDefault:"slug-index"`
	CommentArticle   string `env:"COMMENTS_ARTICLE_INDEX"    envDefault:"articleId-index"`
	NotificationUser string `env:"NOTIFICATIONS_USER_INDEX"  envDefault:"userId-index"`
	SubscriberEmail  string `env:"SUBSCRIBERS_EMAIL_INDEX"   envDefault:"email-index"`
}

// # Configuration Loading

// Load reads an optional .env file, then parses environment variables into
// a [Config] and validates driver requirements.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}
	return Parse()
}

// Parse maps the current environment to a [Config] without touching .env.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.Tables = cfg.Tables.withDefaults(cfg.Environment)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres store")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTSecret == "" && (c.JWTPrivKeyPath == "" || c.JWTPubKeyPath == "") {
		return errors.New("config: JWT_SECRET or both JWT key paths are required")
	}
	return nil
}

// withDefaults fills empty table names with "vadali-<environment>-<entity>".
func (t Tables) withDefaults(environment string) Tables {
	name := func(current, entity string) string {
		if current != "" {
			return current
		}
		return fmt.Sprintf("vadali-%s-%s", environment, entity)
	}

	return Tables{
		Users:         name(t.Users, "users"),
		Articles:      name(t.Articles, "articles"),
		Categories:    name(t.Categories, "categories"),
		Comments:      name(t.Comments, "comments"),
		Notifications: name(t.Notifications, "notifications"),
		Subscribers:   name(t.Subscribers, "subscribers"),
	}
}

// UsesRSA reports whether tokens are signed with the configured RSA key pair.
func (c *Config) UsesRSA() bool {
	return c.JWTPrivKeyPath != "" && c.JWTPubKeyPath != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsOriginAllowed reports whether origin is in ALLOWED_ORIGINS.
func (c *Config) IsOriginAllowed(origin string) bool {
	return slices.ContainsFunc(c.AllowedOrigins, func(allowed string) bool {
		return strings.EqualFold(strings.TrimSpace(allowed), origin)
	})
}
