// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/middleware"
	"github.com/danielhkuo/uniforms/models"
	"github.com/danielhkuo/uniforms/views"
)

// FillHandler serves the public side of a form. The owner is always
// resolved through the directory, never taken from the request.
type FillHandler struct {
	store db.Store
	now   func() time.Time
}

func NewFillHandler(store db.Store) *FillHandler {
	return &FillHandler{store: store, now: time.Now}
}

// GetForm handles GET /fill/{formId}
func (h *FillHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("formId")

	form, status, msg := h.resolve(r, formID)
	if status != http.StatusOK {
		h.writeView(w, r, status, failedFillView(status, msg), false)
		return
	}

	view, err := BuildFillView(form)
	if err != nil {
		slog.Error("failed to build fill view", "form_id", formID, "error", err)
		h.writeView(w, r, http.StatusInternalServerError, failedFillView(http.StatusInternalServerError, "Failed to load form"), false)
		return
	}

	h.writeView(w, r, http.StatusOK, view, false)
}

// Submit handles POST /fill/{formId}. Accepts {"answers": {...}} as JSON
// or an urlencoded form with q_<questionId> fields.
func (h *FillHandler) Submit(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("formId")

	answers, err := readAnswers(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid submission: "+err.Error())
		return
	}

	// Resolved again rather than trusting anything from the earlier load
	form, status, msg := h.resolve(r, formID)
	if status != http.StatusOK {
		h.writeView(w, r, status, failedFillView(status, msg), false)
		return
	}

	resp := models.Response{
		ID:          uuid.NewString(),
		FormID:      form.ID,
		Entries:     BuildAnswers(form.Questions, answers),
		SubmittedAt: h.now().UTC(),
	}
	if err := h.store.AddResponse(r.Context(), form.OwnerID, resp); err != nil {
		slog.Error("failed to store response", "form_id", formID, "error", err)
		h.writeView(w, r, http.StatusInternalServerError, failedFillView(http.StatusInternalServerError, "Failed to submit form"), false)
		return
	}

	answered := 0
	for _, e := range resp.Entries {
		if e.Answer != "" {
			answered++
		}
	}
	slog.Info("response submitted", "form_id", formID, "response_id", resp.ID, "answered", answered)

	if wantsHTML(r) {
		view := models.FillView{State: models.StateSuccess, FormID: form.ID, Title: form.Title, Description: form.Description}
		h.writeView(w, r, http.StatusOK, view, true)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.SubmitFillResponse{
		ResponseID: resp.ID,
		Answered:   answered,
	})
}

// resolve finds the owner through the directory and loads the form.
// A directory miss returns before any form read.
func (h *FillHandler) resolve(r *http.Request, formID string) (models.Form, int, string) {
	entry, err := h.store.GetDirectoryEntry(r.Context(), formID)
	if errors.Is(err, db.ErrNotFound) {
		return models.Form{}, http.StatusNotFound, "Form not found"
	}
	if err != nil {
		slog.Error("failed to read form directory", "form_id", formID, "error", err)
		return models.Form{}, http.StatusInternalServerError, "Failed to load form"
	}

	form, err := h.store.GetForm(r.Context(), entry.UserID, formID)
	if errors.Is(err, db.ErrNotFound) {
		return models.Form{}, http.StatusNotFound, "Form not found"
	}
	if err != nil {
		slog.Error("failed to load form", "form_id", formID, "error", err)
		return models.Form{}, http.StatusInternalServerError, "Failed to load form"
	}
	return form, http.StatusOK, ""
}

func (h *FillHandler) writeView(w http.ResponseWriter, r *http.Request, status int, view models.FillView, submitted bool) {
	if !wantsHTML(r) {
		middleware.JSONResponse(w, status, view)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page := views.FillPage{View: view, Action: r.URL.Path, Submitted: submitted}
	if err := views.RenderFill(w, page); err != nil {
		slog.Error("failed to render fill page", "path", r.URL.Path, "error", err)
	}
}

func failedFillView(status int, msg string) models.FillView {
	state := models.StateError
	if status == http.StatusNotFound {
		state = models.StateNotFound
	}
	return models.FillView{State: state, Message: msg}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func readAnswers(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		answers := make(map[string]string)
		for key, values := range r.PostForm {
			id, ok := strings.CutPrefix(key, views.FieldPrefix)
			if !ok || id == "" || len(values) == 0 {
				continue
			}
			answers[id] = values[0]
		}
		return answers, nil
	default:
		var req models.SubmitFillRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			return nil, err
		}
		if req.Answers == nil {
			req.Answers = map[string]string{}
		}
		return req.Answers, nil
	}
}
