// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/uniforms/models"
	"github.com/danielhkuo/uniforms/testutil"
)

func TestResponsesViewer(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResponsesHandler(env.store)

	formID := testutil.CreateTestForm(t, env.store.Store, env.userID, "Survey", sampleQuestions())
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	testutil.AddTestResponse(t, env.store.Store, env.userID, formID, []models.AnswerEntry{
		{QuestionID: "q1", QuestionText: "Old name question", Answer: "Ada"},
		{QuestionID: "q2", Answer: "A"},
		{QuestionID: "gone", Answer: "orphan"},
	}, base)
	testutil.AddTestResponse(t, env.store.Store, env.userID, formID, []models.AnswerEntry{
		{QuestionID: "q1", QuestionText: "Name?", Answer: "Grace"},
	}, base.Add(time.Minute))

	testCases := []struct {
		name       string
		req        *http.Request
		serve      http.HandlerFunc
		expectBack string
	}{
		{
			name:       "owner",
			req:        withPath(as(httptest.NewRequest("GET", "/responses/"+formID, nil), env.userID), "formId", formID),
			serve:      handler.Owner,
			expectBack: "/form/" + formID,
		},
		{
			name:       "public",
			req:        withPath(httptest.NewRequest("GET", "/view-responses/"+env.userID+"/"+formID, nil), "userId", env.userID, "formId", formID),
			serve:      handler.Public,
			expectBack: "/",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			tc.serve(w, tc.req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var view models.ResponsesView
			testutil.AssertJSON(t, w, &view)
			if view.State != models.StateSuccess || view.FormTitle != "Survey" {
				t.Errorf("Unexpected view: %+v", view)
			}
			if view.BackPath != tc.expectBack {
				t.Errorf("Expected back path %s, got %s", tc.expectBack, view.BackPath)
			}
			if view.Count != 2 || len(view.Responses) != 2 {
				t.Fatalf("Expected 2 responses, got %d", len(view.Responses))
			}

			first := view.Responses[0].Answers
			if first[0].Label != "Old name question" {
				t.Errorf("Expected frozen label, got %q", first[0].Label)
			}
			if first[1].Label != "Pick one" {
				t.Errorf("Expected current text label, got %q", first[1].Label)
			}
			if first[2].Label != "gone" {
				t.Errorf("Expected id label, got %q", first[2].Label)
			}
			if view.Responses[1].Answers[0].Answer != "Grace" {
				t.Errorf("Expected oldest first, got %+v", view.Responses)
			}
		})
	}
}

func TestResponsesViewerEmpty(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResponsesHandler(env.store)
	formID := testutil.CreateTestForm(t, env.store.Store, env.userID, "Quiet", nil)

	req := withPath(as(httptest.NewRequest("GET", "/responses/"+formID, nil), env.userID), "formId", formID)
	w := httptest.NewRecorder()

	handler.Owner(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.ResponsesView
	testutil.AssertJSON(t, w, &view)
	if view.Count != 0 || view.Responses == nil {
		t.Errorf("Expected empty non-nil list, got %+v", view)
	}
}

func TestResponsesViewerNotFound(t *testing.T) {
	env := newTestEnv(t)
	handler := NewResponsesHandler(env.store)
	formID := testutil.CreateTestForm(t, env.store.Store, env.userID, "Survey", nil)

	testCases := []struct {
		name   string
		userID string
		formID string
	}{
		{"unknown form", env.userID, "missing"},
		{"wrong owner", "someone-else", formID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := withPath(httptest.NewRequest("GET", "/view-responses/"+tc.userID+"/"+tc.formID, nil), "userId", tc.userID, "formId", tc.formID)
			w := httptest.NewRecorder()

			handler.Public(w, req)

			testutil.AssertStatus(t, w, http.StatusNotFound)

			var view models.ResponsesView
			testutil.AssertJSON(t, w, &view)
			if view.State != models.StateNotFound {
				t.Errorf("Expected not_found, got %s", view.State)
			}
		})
	}
}
