// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/models"
	"github.com/danielhkuo/uniforms/testutil"
)

func TestListForms(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFormListHandler(env.store, env.hub)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	forms := []models.Form{
		{ID: "older", OwnerID: env.userID, Title: "First", Description: "d1", CreatedAt: base, UpdatedAt: base},
		{ID: "newer", OwnerID: env.userID, Title: "", Description: "", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: "foreign", OwnerID: "someone-else", Title: "Not mine", CreatedAt: base, UpdatedAt: base},
	}
	for _, f := range forms {
		if err := env.store.Store.CreateForm(context.Background(), f); err != nil {
			t.Fatalf("Failed to create form: %v", err)
		}
	}

	req := as(httptest.NewRequest("GET", "/forms", nil), env.userID)
	w := httptest.NewRecorder()

	handler.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.FormListResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Forms) != 2 {
		t.Fatalf("Expected 2 forms, got %d", len(resp.Forms))
	}
	if resp.Forms[0].ID != "newer" || resp.Forms[1].ID != "older" {
		t.Errorf("Expected newest first, got %s then %s", resp.Forms[0].ID, resp.Forms[1].ID)
	}
	if resp.Forms[0].Title != models.DefaultFormTitle {
		t.Errorf("Expected placeholder title, got %q", resp.Forms[0].Title)
	}
	if resp.Forms[0].Description != models.DefaultFormDescription {
		t.Errorf("Expected placeholder description, got %q", resp.Forms[0].Description)
	}
}

func TestCreateForm(t *testing.T) {
	testCases := []struct {
		name         string
		body         models.CreateFormRequest
		expectStatus int
		expectDesc   string
	}{
		{"with description", models.CreateFormRequest{Title: "Lunch", Description: "Where to eat"}, http.StatusCreated, "Where to eat"},
		{"default description", models.CreateFormRequest{Title: "Lunch"}, http.StatusCreated, models.DefaultFormDescription},
		{"blank title", models.CreateFormRequest{Title: "   "}, http.StatusBadRequest, ""},
		{"missing title", models.CreateFormRequest{Description: "x"}, http.StatusBadRequest, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			handler := NewFormListHandler(env.store, env.hub)
			changes, cancel := env.hub.Subscribe(env.userID)
			defer cancel()

			req := as(testutil.MakeRequest("POST", "/forms", tc.body, nil), env.userID)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tc.expectStatus)

			if tc.expectStatus != http.StatusCreated {
				if env.store.Total() != 0 {
					t.Errorf("Expected no store calls on rejection, got %d", env.store.Total())
				}
				return
			}

			var resp models.CreateFormResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Redirect != "/form/"+resp.FormID {
				t.Errorf("Expected redirect to editor, got %s", resp.Redirect)
			}

			form := env.loadForm(t, resp.FormID)
			if form.Description != tc.expectDesc {
				t.Errorf("Expected description %q, got %q", tc.expectDesc, form.Description)
			}
			if len(form.Questions) != 0 {
				t.Errorf("Expected no questions, got %d", len(form.Questions))
			}

			select {
			case <-changes:
			default:
				t.Error("Expected a change notification")
			}
		})
	}
}

func TestDeleteForm(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFormListHandler(env.store, env.hub)

	formID := testutil.CreateTestForm(t, env.store.Store, env.userID, "Doomed", sampleQuestions())
	testutil.PublishTestForm(t, env.store.Store, env.userID, formID)
	testutil.AddTestResponse(t, env.store.Store, env.userID, formID, nil, time.Now())

	req := withPath(as(httptest.NewRequest("DELETE", "/forms/"+formID, nil), env.userID), "formId", formID)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	testutil.AssertStatus(t, w, http.StatusNoContent)

	ctx := context.Background()
	if _, err := env.store.Store.GetForm(ctx, env.userID, formID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Expected form gone, got %v", err)
	}
	if _, err := env.store.Store.GetDirectoryEntry(ctx, formID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Expected directory entry gone, got %v", err)
	}
	responses, err := env.store.Store.ListResponses(ctx, env.userID, formID)
	if err != nil || len(responses) != 0 {
		t.Errorf("Expected responses gone, got %d (%v)", len(responses), err)
	}

	// Next list no longer has it
	listReq := as(httptest.NewRequest("GET", "/forms", nil), env.userID)
	lw := httptest.NewRecorder()
	handler.List(lw, listReq)

	var list models.FormListResponse
	testutil.AssertJSON(t, lw, &list)
	for _, f := range list.Forms {
		if f.ID == formID {
			t.Error("Deleted form still listed")
		}
	}
}

func TestDeleteFormNotFound(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFormListHandler(env.store, env.hub)

	// Another user's form is as good as missing
	otherID := testutil.CreateTestForm(t, env.store.Store, "someone-else", "Theirs", nil)

	for _, formID := range []string{"missing", otherID} {
		req := withPath(as(httptest.NewRequest("DELETE", "/forms/"+formID, nil), env.userID), "formId", formID)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	}

	if _, err := env.store.Store.GetForm(context.Background(), "someone-else", otherID); err != nil {
		t.Errorf("Expected other user's form untouched, got %v", err)
	}
}
