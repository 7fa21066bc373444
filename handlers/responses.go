// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/middleware"
	"github.com/danielhkuo/uniforms/models"
)

type ResponsesHandler struct {
	store db.Store
}

func NewResponsesHandler(store db.Store) *ResponsesHandler {
	return &ResponsesHandler{store: store}
}

// Owner handles GET /responses/{formId} for the signed-in owner
func (h *ResponsesHandler) Owner(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	formID := r.PathValue("formId")
	h.render(w, r, userID, formID, editorPath(formID))
}

// Public handles GET /view-responses/{userId}/{formId}. Access rests on
// both ids being unguessable.
func (h *ResponsesHandler) Public(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, r.PathValue("userId"), r.PathValue("formId"), homePath)
}

func (h *ResponsesHandler) render(w http.ResponseWriter, r *http.Request, ownerID, formID, backPath string) {
	view := models.ResponsesView{
		FormID:    formID,
		BackPath:  backPath,
		Responses: []models.ResponseView{},
	}

	form, err := h.store.GetForm(r.Context(), ownerID, formID)
	if errors.Is(err, db.ErrNotFound) {
		view.State = models.StateNotFound
		view.Message = "Form not found"
		middleware.JSONResponse(w, http.StatusNotFound, view)
		return
	}
	if err != nil {
		slog.Error("failed to load form", "form_id", formID, "user_id", ownerID, "error", err)
		view.State = models.StateError
		view.Message = "Failed to load responses"
		middleware.JSONResponse(w, http.StatusInternalServerError, view)
		return
	}

	responses, err := h.store.ListResponses(r.Context(), ownerID, formID)
	if err != nil {
		slog.Error("failed to list responses", "form_id", formID, "user_id", ownerID, "error", err)
		view.State = models.StateError
		view.Message = "Failed to load responses"
		middleware.JSONResponse(w, http.StatusInternalServerError, view)
		return
	}

	view.State = models.StateSuccess
	view.FormTitle = form.Title
	view.Responses = JoinResponses(form.Questions, responses)
	view.Count = len(view.Responses)
	middleware.JSONResponse(w, http.StatusOK, view)
}
