// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/uniforms/live"
	"github.com/danielhkuo/uniforms/models"
	"github.com/danielhkuo/uniforms/testutil"
)

func setupRouter(t *testing.T) (*http.ServeMux, string, string) {
	t.Helper()

	store := testutil.SetupTestStore(t)
	provider := testutil.NewTestProvider(store)
	userID, token := testutil.CreateTestUser(t, provider, "router@example.com")

	mux := NewRouter(store, provider, live.NewHub(), testutil.GetTestConfig())

	formID := testutil.CreateTestForm(t, store, userID, "Routed", nil)
	return mux, token, formID
}

func TestHealthEndpoint(t *testing.T) {
	mux, _, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	expected := "UniForms API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestUnknownPath(t *testing.T) {
	mux, _, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/no-such-page", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	mux, _, _ := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/forms"},
		{"POST", "/forms"},
		{"DELETE", "/forms/f1"},
		{"GET", "/forms/subscribe"},
		{"POST", "/form"},
		{"GET", "/form/f1"},
		{"PATCH", "/form/f1"},
		{"POST", "/form/f1/questions"},
		{"PATCH", "/form/f1/questions/q1"},
		{"DELETE", "/form/f1/questions/q1"},
		{"POST", "/form/f1/questions/q1/choices"},
		{"DELETE", "/form/f1/questions/q1/choices/0"},
		{"POST", "/form/f1/link"},
		{"GET", "/responses/f1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without token, got %d", w.Code)
			}
		})
	}
}

func TestPublicRoutesExist(t *testing.T) {
	mux, _, _ := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/auth/signup"},
		{"POST", "/auth/signin"},
		{"POST", "/auth/signout"},
		{"GET", "/fill/f1"},
		{"POST", "/fill/f1"},
		{"GET", "/view-responses/u1/f1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// 400 and 404 are valid handler answers; 401 and 405 mean bad wiring
			if w.Code == http.StatusMethodNotAllowed || w.Code == http.StatusUnauthorized {
				t.Errorf("Route %s %s returned %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _, _ := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"PUT", "/form/f1"},
		{"PUT", "/forms"},
		{"DELETE", "/fill/f1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux, token, formID := setupRouter(t)

	req := testutil.MakeRequest("GET", "/form/"+formID, nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var state models.EditorState
	testutil.AssertJSON(t, w, &state)
	if state.FormID != formID {
		t.Errorf("Expected form_id %s, got %s", formID, state.FormID)
	}
	if !state.Saved {
		t.Error("Expected saved editor state for an existing form")
	}
}
