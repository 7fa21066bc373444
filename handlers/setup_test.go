// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielhkuo/uniforms/auth"
	"github.com/danielhkuo/uniforms/cliparse"
	"github.com/danielhkuo/uniforms/live"
	"github.com/danielhkuo/uniforms/middleware"
	"github.com/danielhkuo/uniforms/models"
	"github.com/danielhkuo/uniforms/testutil"
)

// testEnv is one signed-in user over a fresh in-memory store
type testEnv struct {
	store    *testutil.SpyStore
	provider *auth.Provider
	hub      *live.Hub
	cfg      cliparse.Config
	userID   string
	token    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := testutil.NewSpyStore(testutil.SetupTestStore(t))
	provider := testutil.NewTestProvider(store)
	userID, token := testutil.CreateTestUser(t, provider, "owner@example.com")
	store.Reset()

	return &testEnv{
		store:    store,
		provider: provider,
		hub:      live.NewHub(),
		cfg:      testutil.GetTestConfig(),
		userID:   userID,
		token:    token,
	}
}

// as attaches userID to the request the way RequireAuth does
func as(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// withPath sets path values the mux would have extracted
func withPath(req *http.Request, kv ...string) *http.Request {
	for i := 0; i+1 < len(kv); i += 2 {
		req.SetPathValue(kv[i], kv[i+1])
	}
	return req
}

func (e *testEnv) loadForm(t *testing.T, formID string) models.Form {
	t.Helper()
	form, err := e.store.Store.GetForm(context.Background(), e.userID, formID)
	if err != nil {
		t.Fatalf("Failed to load form %s: %v", formID, err)
	}
	return form
}
