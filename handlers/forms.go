// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/live"
	"github.com/danielhkuo/uniforms/middleware"
	"github.com/danielhkuo/uniforms/models"
)

const (
	snapshotWriteWait = 10 * time.Second
	subscriberPong    = 60 * time.Second
	subscriberPing    = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	// Any origin may subscribe; the session token gates access
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type FormListHandler struct {
	store db.Store
	hub   *live.Hub
	now   func() time.Time
}

func NewFormListHandler(store db.Store, hub *live.Hub) *FormListHandler {
	return &FormListHandler{store: store, hub: hub, now: time.Now}
}

// List handles GET /forms
func (h *FormListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	snapshot, err := h.snapshot(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list forms", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load forms")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snapshot)
}

// Create handles POST /forms
func (h *FormListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.CreateFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Title is required")
		return
	}
	description := req.Description
	if strings.TrimSpace(description) == "" {
		description = models.DefaultFormDescription
	}

	now := h.now().UTC()
	form := models.Form{
		ID:          uuid.NewString(),
		OwnerID:     userID,
		Title:       req.Title,
		Description: description,
		Questions:   []models.Question{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateForm(r.Context(), form); err != nil {
		slog.Error("failed to create form", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create form")
		return
	}

	slog.Info("form created", "form_id", form.ID, "user_id", userID)
	h.hub.Publish(userID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateFormResponse{
		FormID:   form.ID,
		Redirect: editorPath(form.ID),
	})
}

// Delete handles DELETE /forms/{formId}
func (h *FormListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	formID := r.PathValue("formId")
	if formID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "form_id is required")
		return
	}

	err := h.store.DeleteForm(r.Context(), userID, formID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete form", "form_id", formID, "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete form")
		return
	}

	slog.Info("form deleted", "form_id", formID, "user_id", userID)
	h.hub.Publish(userID)

	w.WriteHeader(http.StatusNoContent)
}

// Subscribe handles GET /forms/subscribe. It sends the current list on
// connect and a fresh list after every change until the client leaves.
func (h *FormListHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		slog.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}
	defer conn.Close()

	changes, cancel := h.hub.Subscribe(userID)
	defer cancel()

	slog.Info("form list subscriber connected", "user_id", userID)
	defer slog.Info("form list subscriber disconnected", "user_id", userID)

	// The server's read timeout outlives the hijack; pongs keep pushing it out
	conn.SetReadDeadline(time.Now().Add(subscriberPong))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(subscriberPong))
	})

	// The read loop only notices the client going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := r.Context()
	if err := h.sendSnapshot(ctx, conn, userID); err != nil {
		return
	}

	ping := time.NewTicker(subscriberPing)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			return
		case <-ctx.Done():
			return
		case <-changes:
			if err := h.sendSnapshot(ctx, conn, userID); err != nil {
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(snapshotWriteWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func (h *FormListHandler) sendSnapshot(ctx context.Context, conn *websocket.Conn, userID string) error {
	snapshot, err := h.snapshot(ctx, userID)
	if err != nil {
		slog.Error("failed to load form list snapshot", "user_id", userID, "error", err)
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(snapshotWriteWait))
	if err := conn.WriteJSON(snapshot); err != nil {
		slog.Warn("failed to send form list snapshot", "user_id", userID, "error", err)
		return err
	}
	return nil
}

func (h *FormListHandler) snapshot(ctx context.Context, userID string) (models.FormListResponse, error) {
	forms, err := h.store.ListForms(ctx, userID)
	if err != nil {
		return models.FormListResponse{}, err
	}

	summaries := make([]models.FormSummary, 0, len(forms))
	for _, f := range forms {
		summaries = append(summaries, summarize(f))
	}
	return models.FormListResponse{Forms: summaries}, nil
}

func summarize(f models.Form) models.FormSummary {
	title := f.Title
	if strings.TrimSpace(title) == "" {
		title = models.DefaultFormTitle
	}
	description := f.Description
	if strings.TrimSpace(description) == "" {
		description = models.DefaultFormDescription
	}
	return models.FormSummary{
		ID:          f.ID,
		Title:       title,
		Description: description,
		CreatedAt:   f.CreatedAt,
	}
}

func editorPath(formID string) string {
	return "/form/" + formID
}
