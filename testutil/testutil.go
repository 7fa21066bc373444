// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/uniforms/auth"
	"github.com/danielhkuo/uniforms/cliparse"
	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/models"
)

// TestJWTSecret signs every token issued in tests
const TestJWTSecret = "test-jwt-secret"

// SetupTestStore opens a fresh in-memory SQLite store with the full schema
func SetupTestStore(t *testing.T) *db.SQLStore {
	t.Helper()

	store, err := db.OpenSQL(context.Background(), cliparse.DatabaseSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: cliparse.DatabaseSQLite,
		DatabaseURL:  ":memory:",
		JWTSecret:    TestJWTSecret,
		TokenTTL:     time.Hour,
		BaseURL:      "http://localhost:3318",
	}
}

// NewTestProvider returns an auth provider over users using the test secret
func NewTestProvider(users auth.UserStore) *auth.Provider {
	cfg := GetTestConfig()
	return auth.NewProvider(users, cfg.JWTSecret, cfg.TokenTTL)
}

// CreateTestUser signs up a user and returns its id and session token
func CreateTestUser(t *testing.T, provider *auth.Provider, email string) (userID, token string) {
	t.Helper()

	session, err := provider.SignUp(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return session.UserID, session.Token
}

// CreateTestForm stores a form owned by ownerID and returns its id
func CreateTestForm(t *testing.T, store db.Store, ownerID, title string, questions []models.Question) string {
	t.Helper()

	if questions == nil {
		questions = []models.Question{}
	}
	now := time.Now().UTC()
	form := models.Form{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: "A test form",
		Questions:   questions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreateForm(context.Background(), form); err != nil {
		t.Fatalf("Failed to create test form: %v", err)
	}
	return form.ID
}

// PublishTestForm writes the directory entry that makes a form fillable
func PublishTestForm(t *testing.T, store db.Store, ownerID, formID string) {
	t.Helper()

	entry := models.DirectoryEntry{FormID: formID, UserID: ownerID}
	if err := store.PutDirectoryEntry(context.Background(), entry); err != nil {
		t.Fatalf("Failed to publish test form: %v", err)
	}
}

// AddTestResponse stores a submission and returns its id
func AddTestResponse(t *testing.T, store db.Store, ownerID, formID string, entries []models.AnswerEntry, at time.Time) string {
	t.Helper()

	resp := models.Response{
		ID:          uuid.NewString(),
		FormID:      formID,
		Entries:     entries,
		SubmittedAt: at.UTC(),
	}
	if err := store.AddResponse(context.Background(), ownerID, resp); err != nil {
		t.Fatalf("Failed to add test response: %v", err)
	}
	return resp.ID
}

// AuthHeader returns the header map for a session token
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// SpyStore counts calls per operation before passing them to Store
type SpyStore struct {
	db.Store

	mu    sync.Mutex
	calls map[string]int
}

func NewSpyStore(store db.Store) *SpyStore {
	return &SpyStore{Store: store, calls: make(map[string]int)}
}

// Calls returns how many times op was called
func (s *SpyStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Total returns the number of calls across all operations
func (s *SpyStore) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Reset clears the counters
func (s *SpyStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

func (s *SpyStore) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
}

func (s *SpyStore) CreateUser(ctx context.Context, user models.User) error {
	s.record("CreateUser")
	return s.Store.CreateUser(ctx, user)
}

func (s *SpyStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.record("GetUserByEmail")
	return s.Store.GetUserByEmail(ctx, email)
}

func (s *SpyStore) CreateForm(ctx context.Context, form models.Form) error {
	s.record("CreateForm")
	return s.Store.CreateForm(ctx, form)
}

func (s *SpyStore) GetForm(ctx context.Context, ownerID, formID string) (models.Form, error) {
	s.record("GetForm")
	return s.Store.GetForm(ctx, ownerID, formID)
}

func (s *SpyStore) ListForms(ctx context.Context, ownerID string) ([]models.Form, error) {
	s.record("ListForms")
	return s.Store.ListForms(ctx, ownerID)
}

func (s *SpyStore) UpdateForm(ctx context.Context, ownerID, formID string, upd models.FormUpdate) error {
	s.record("UpdateForm")
	return s.Store.UpdateForm(ctx, ownerID, formID, upd)
}

func (s *SpyStore) DeleteForm(ctx context.Context, ownerID, formID string) error {
	s.record("DeleteForm")
	return s.Store.DeleteForm(ctx, ownerID, formID)
}

func (s *SpyStore) PutDirectoryEntry(ctx context.Context, entry models.DirectoryEntry) error {
	s.record("PutDirectoryEntry")
	return s.Store.PutDirectoryEntry(ctx, entry)
}

func (s *SpyStore) GetDirectoryEntry(ctx context.Context, formID string) (models.DirectoryEntry, error) {
	s.record("GetDirectoryEntry")
	return s.Store.GetDirectoryEntry(ctx, formID)
}

func (s *SpyStore) AddResponse(ctx context.Context, ownerID string, resp models.Response) error {
	s.record("AddResponse")
	return s.Store.AddResponse(ctx, ownerID, resp)
}

func (s *SpyStore) ListResponses(ctx context.Context, ownerID, formID string) ([]models.Response, error) {
	s.record("ListResponses")
	return s.Store.ListResponses(ctx, ownerID, formID)
}
