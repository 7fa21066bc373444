// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/uniforms/models"
)

// DirectoryCacheTTL bounds how long a stale entry can survive a missed invalidation
const DirectoryCacheTTL = 10 * time.Minute

const directoryKeyPrefix = "uniforms:directory:"

// DirectoryCache holds form id -> owner lookups in front of the store
type DirectoryCache interface {
	Get(ctx context.Context, formID string) (models.DirectoryEntry, bool, error)
	Set(ctx context.Context, entry models.DirectoryEntry) error
	Delete(ctx context.Context, formID string) error
}

// RedisDirectoryCache stores entries as JSON strings with a TTL
type RedisDirectoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDirectoryCache(client *redis.Client, ttl time.Duration) *RedisDirectoryCache {
	return &RedisDirectoryCache{client: client, ttl: ttl}
}

func (c *RedisDirectoryCache) Get(ctx context.Context, formID string) (models.DirectoryEntry, bool, error) {
	raw, err := c.client.Get(ctx, directoryKeyPrefix+formID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.DirectoryEntry{}, false, nil
	}
	if err != nil {
		return models.DirectoryEntry{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var entry models.DirectoryEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.DirectoryEntry{}, false, fmt.Errorf("bad cached directory entry: %w", err)
	}
	return entry, true, nil
}

func (c *RedisDirectoryCache) Set(ctx context.Context, entry models.DirectoryEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, directoryKeyPrefix+entry.FormID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisDirectoryCache) Delete(ctx context.Context, formID string) error {
	if err := c.client.Del(ctx, directoryKeyPrefix+formID).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool
func (c *RedisDirectoryCache) Close() error {
	return c.client.Close()
}

// CachedStore serves directory lookups from a cache and falls back to the
// wrapped store. Cache failures are logged and never fail the request.
type CachedStore struct {
	Store
	cache DirectoryCache
}

func NewCachedStore(store Store, cache DirectoryCache) *CachedStore {
	return &CachedStore{Store: store, cache: cache}
}

func (s *CachedStore) GetDirectoryEntry(ctx context.Context, formID string) (models.DirectoryEntry, error) {
	entry, ok, err := s.cache.Get(ctx, formID)
	if err != nil {
		slog.Warn("directory cache read failed", "form_id", formID, "error", err)
	}
	if ok {
		return entry, nil
	}

	entry, err = s.Store.GetDirectoryEntry(ctx, formID)
	if err != nil {
		return models.DirectoryEntry{}, err
	}

	if err := s.cache.Set(ctx, entry); err != nil {
		slog.Warn("directory cache write failed", "form_id", formID, "error", err)
	}
	return entry, nil
}

func (s *CachedStore) PutDirectoryEntry(ctx context.Context, entry models.DirectoryEntry) error {
	if err := s.Store.PutDirectoryEntry(ctx, entry); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, entry); err != nil {
		slog.Warn("directory cache write failed", "form_id", entry.FormID, "error", err)
	}
	return nil
}

func (s *CachedStore) DeleteForm(ctx context.Context, ownerID, formID string) error {
	if err := s.Store.DeleteForm(ctx, ownerID, formID); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, formID); err != nil {
		slog.Warn("directory cache delete failed", "form_id", formID, "error", err)
	}
	return nil
}

func (s *CachedStore) Close() error {
	err := s.Store.Close()
	if closer, ok := s.cache.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
