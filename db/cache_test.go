// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/uniforms/cliparse"
	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/models"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string]models.DirectoryEntry
	fail    bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]models.DirectoryEntry)}
}

var errCacheDown = errors.New("cache down")

func (c *mapCache) Get(ctx context.Context, formID string) (models.DirectoryEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return models.DirectoryEntry{}, false, errCacheDown
	}
	e, ok := c.entries[formID]
	return e, ok, nil
}

func (c *mapCache) Set(ctx context.Context, entry models.DirectoryEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errCacheDown
	}
	c.entries[entry.FormID] = entry
	return nil
}

func (c *mapCache) Delete(ctx context.Context, formID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errCacheDown
	}
	delete(c.entries, formID)
	return nil
}

// countingStore counts directory reads that reach the backend
type countingStore struct {
	db.Store
	mu    sync.Mutex
	reads int
}

func (s *countingStore) GetDirectoryEntry(ctx context.Context, formID string) (models.DirectoryEntry, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return s.Store.GetDirectoryEntry(ctx, formID)
}

func setupCachedStore(t *testing.T) (*db.CachedStore, *countingStore, *mapCache, models.Form) {
	t.Helper()
	ctx := context.Background()

	lite, err := db.OpenSQL(ctx, cliparse.DatabaseSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	backend := &countingStore{Store: lite}
	cache := newMapCache()
	store := db.NewCachedStore(backend, cache)
	t.Cleanup(func() { store.Close() })

	owner := newOwner(t, store)
	form := newForm(owner.ID, "Cached", time.Now().UTC())
	if err := store.CreateForm(ctx, form); err != nil {
		t.Fatalf("CreateForm failed: %v", err)
	}
	return store, backend, cache, form
}

func TestCachedStoreDirectory(t *testing.T) {
	store, backend, cache, form := setupCachedStore(t)
	ctx := context.Background()
	entry := models.DirectoryEntry{FormID: form.ID, UserID: form.OwnerID}

	if err := store.PutDirectoryEntry(ctx, entry); err != nil {
		t.Fatalf("PutDirectoryEntry failed: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, form.ID); !ok {
		t.Fatal("Expected write-through to the cache")
	}

	for i := 0; i < 3; i++ {
		got, err := store.GetDirectoryEntry(ctx, form.ID)
		if err != nil || got != entry {
			t.Fatalf("Expected %+v, got %+v (%v)", entry, got, err)
		}
	}
	if backend.reads != 0 {
		t.Errorf("Expected cache hits only, got %d backend reads", backend.reads)
	}

	if err := store.DeleteForm(ctx, form.OwnerID, form.ID); err != nil {
		t.Fatalf("DeleteForm failed: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, form.ID); ok {
		t.Error("Expected cache entry invalidated on delete")
	}
	if _, err := store.GetDirectoryEntry(ctx, form.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if backend.reads != 1 {
		t.Errorf("Expected one backend read after invalidation, got %d", backend.reads)
	}
}

func TestCachedStoreFillsOnMiss(t *testing.T) {
	store, backend, cache, form := setupCachedStore(t)
	ctx := context.Background()
	entry := models.DirectoryEntry{FormID: form.ID, UserID: form.OwnerID}

	// Written behind the cache's back
	if err := backend.Store.PutDirectoryEntry(ctx, entry); err != nil {
		t.Fatalf("PutDirectoryEntry failed: %v", err)
	}

	if _, err := store.GetDirectoryEntry(ctx, form.ID); err != nil {
		t.Fatalf("GetDirectoryEntry failed: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, form.ID); !ok {
		t.Error("Expected miss to fill the cache")
	}

	// Misses are not cached
	if _, err := store.GetDirectoryEntry(ctx, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "missing"); ok {
		t.Error("Negative result was cached")
	}
}

func TestCachedStoreSurvivesCacheFailure(t *testing.T) {
	store, _, cache, form := setupCachedStore(t)
	ctx := context.Background()
	cache.fail = true

	entry := models.DirectoryEntry{FormID: form.ID, UserID: form.OwnerID}
	if err := store.PutDirectoryEntry(ctx, entry); err != nil {
		t.Fatalf("PutDirectoryEntry failed with cache down: %v", err)
	}
	got, err := store.GetDirectoryEntry(ctx, form.ID)
	if err != nil || got != entry {
		t.Errorf("Expected backend read with cache down, got %+v (%v)", got, err)
	}
	if err := store.DeleteForm(ctx, form.OwnerID, form.ID); err != nil {
		t.Errorf("DeleteForm failed with cache down: %v", err)
	}
}
