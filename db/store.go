// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/uniforms/cliparse"
	"github.com/danielhkuo/uniforms/models"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document already exists")
)

// Store is the backend client every component talks through.
// Implementations give per-document atomicity only, except where noted.
type Store interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	CreateForm(ctx context.Context, form models.Form) error
	GetForm(ctx context.Context, ownerID, formID string) (models.Form, error)
	// ListForms returns the owner's forms, newest first
	ListForms(ctx context.Context, ownerID string) ([]models.Form, error)
	UpdateForm(ctx context.Context, ownerID, formID string, upd models.FormUpdate) error
	// DeleteForm also removes the form's responses and directory entry
	DeleteForm(ctx context.Context, ownerID, formID string) error

	PutDirectoryEntry(ctx context.Context, entry models.DirectoryEntry) error
	GetDirectoryEntry(ctx context.Context, formID string) (models.DirectoryEntry, error)

	AddResponse(ctx context.Context, ownerID string, resp models.Response) error
	// ListResponses returns responses oldest first
	ListResponses(ctx context.Context, ownerID, formID string) ([]models.Response, error)

	Close() error
}

// Open connects to the backend named by cfg and prepares its schema.
// When cfg.RedisAddr is set, directory lookups go through a Redis cache.
func Open(ctx context.Context, cfg cliparse.Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.DatabaseType {
	case cliparse.DatabaseSQLite, cliparse.DatabasePostgres:
		store, err = OpenSQL(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	case cliparse.DatabaseMongo:
		store, err = OpenMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr == "" {
		return store, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		store.Close()
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	slog.Info("directory cache enabled", "redis", cfg.RedisAddr)

	return NewCachedStore(store, NewRedisDirectoryCache(client, DirectoryCacheTTL)), nil
}
