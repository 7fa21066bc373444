// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/uniforms/cliparse"
	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/live"
	"github.com/danielhkuo/uniforms/middleware"
	"github.com/danielhkuo/uniforms/models"
)

type EditorHandler struct {
	store db.Store
	hub   *live.Hub
	cfg   cliparse.Config
	now   func() time.Time
}

func NewEditorHandler(store db.Store, hub *live.Hub, cfg cliparse.Config) *EditorHandler {
	return &EditorHandler{store: store, hub: hub, cfg: cfg, now: time.Now}
}

// Load handles GET /form/{formId}. A missing form loads as a blank,
// unsaved editor rather than an error.
func (h *EditorHandler) Load(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	formID := r.PathValue("formId")

	form, err := h.store.GetForm(r.Context(), userID, formID)
	if errors.Is(err, db.ErrNotFound) {
		slog.Warn("editor opened missing form", "form_id", formID, "user_id", userID)
		middleware.JSONResponse(w, http.StatusOK, blankEditorState())
		return
	}
	if err != nil {
		slog.Error("failed to load form", "form_id", formID, "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load form")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, editorState(form))
}

// Provision handles POST /form: a new blank form for the editor
func (h *EditorHandler) Provision(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	now := h.now().UTC()
	form := models.Form{
		ID:          uuid.NewString(),
		OwnerID:     userID,
		Title:       models.DefaultFormTitle,
		Description: "",
		Questions:   []models.Question{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateForm(r.Context(), form); err != nil {
		slog.Error("failed to provision form", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create form")
		return
	}

	slog.Info("form created", "form_id", form.ID, "user_id", userID)
	h.hub.Publish(userID)

	state := editorState(form)
	state.Redirect = editorPath(form.ID)
	middleware.JSONResponse(w, http.StatusCreated, state)
}

// Save handles PATCH /form/{formId}. Only the fields present in the body
// are written.
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	formID := r.PathValue("formId")

	var req models.UpdateFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Title == nil && req.Description == nil && req.Questions == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nothing to save")
		return
	}

	upd := models.FormUpdate{
		Title:       req.Title,
		Description: req.Description,
		UpdatedAt:   h.now().UTC(),
	}
	if req.Questions != nil {
		questions, err := ValidateQuestions(*req.Questions)
		if err != nil {
			writeQuestionError(w, err)
			return
		}
		upd.Questions = &questions
	}

	err := h.store.UpdateForm(r.Context(), userID, formID, upd)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to save form", "form_id", formID, "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save form")
		return
	}

	slog.Info("form saved", "form_id", formID,
		"title", req.Title != nil, "description", req.Description != nil, "questions", req.Questions != nil)
	h.hub.Publish(userID)

	form, err := h.store.GetForm(r.Context(), userID, formID)
	if err != nil {
		slog.Error("failed to reload form", "form_id", formID, "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load form")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, editorState(form))
}

// AddQuestion handles POST /form/{formId}/questions
func (h *EditorHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.AddQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	h.rewriteQuestions(w, r, http.StatusCreated, func(qs []models.Question) ([]models.Question, error) {
		out, _, err := AddQuestion(qs, req)
		return out, err
	})
}

// EditQuestion handles PATCH /form/{formId}/questions/{questionId}
func (h *EditorHandler) EditQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("questionId")

	var req models.EditQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == nil && req.Choices == nil && req.Required == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nothing to save")
		return
	}

	h.rewriteQuestions(w, r, http.StatusOK, func(qs []models.Question) ([]models.Question, error) {
		return EditQuestion(qs, questionID, req)
	})
}

// RemoveQuestion handles DELETE /form/{formId}/questions/{questionId}
func (h *EditorHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("questionId")

	h.rewriteQuestions(w, r, http.StatusOK, func(qs []models.Question) ([]models.Question, error) {
		return RemoveQuestion(qs, questionID)
	})
}

// AddChoice handles POST /form/{formId}/questions/{questionId}/choices
func (h *EditorHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("questionId")

	h.rewriteQuestions(w, r, http.StatusOK, func(qs []models.Question) ([]models.Question, error) {
		return AddChoice(qs, questionID)
	})
}

// RemoveChoice handles DELETE /form/{formId}/questions/{questionId}/choices/{index}
func (h *EditorHandler) RemoveChoice(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("questionId")
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Choice index must be a number")
		return
	}

	h.rewriteQuestions(w, r, http.StatusOK, func(qs []models.Question) ([]models.Question, error) {
		return RemoveChoice(qs, questionID, index)
	})
}

// GenerateLink handles POST /form/{formId}/link. Writing the directory
// entry here is what makes the form fillable.
func (h *EditorHandler) GenerateLink(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	formID := r.PathValue("formId")

	_, err := h.store.GetForm(r.Context(), userID, formID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to load form", "form_id", formID, "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate link")
		return
	}

	entry := models.DirectoryEntry{FormID: formID, UserID: userID}
	if err := h.store.PutDirectoryEntry(r.Context(), entry); err != nil {
		slog.Error("failed to publish form", "form_id", formID, "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate link")
		return
	}

	slog.Info("form link generated", "form_id", formID, "user_id", userID)

	base := strings.TrimRight(h.cfg.BaseURL, "/")
	middleware.JSONResponse(w, http.StatusOK, models.LinkResponse{
		Link:    base + "/" + userID + "/" + formID,
		FillURL: base + "/fill/" + formID,
	})
}

// rewriteQuestions loads the form, applies op to its question list and
// writes the whole list back
func (h *EditorHandler) rewriteQuestions(w http.ResponseWriter, r *http.Request, status int,
	op func([]models.Question) ([]models.Question, error)) {
	userID := middleware.UserID(r.Context())
	formID := r.PathValue("formId")

	form, err := h.store.GetForm(r.Context(), userID, formID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to load form", "form_id", formID, "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load form")
		return
	}

	questions, err := op(form.Questions)
	if err != nil {
		writeQuestionError(w, err)
		return
	}

	upd := models.FormUpdate{Questions: &questions, UpdatedAt: h.now().UTC()}
	err = h.store.UpdateForm(r.Context(), userID, formID, upd)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Form not found")
		return
	}
	if err != nil {
		slog.Error("failed to save questions", "form_id", formID, "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save questions")
		return
	}

	slog.Info("questions saved", "form_id", formID, "count", len(questions))
	h.hub.Publish(userID)

	middleware.JSONResponse(w, status, models.QuestionsResponse{Questions: questions})
}

// validationErrors are the question errors a client can fix by changing its request
var validationErrors = []error{
	ErrEmptyQuestionText, ErrEmptyChoice, ErrDuplicateChoice, ErrNoChoices, ErrTooManyChoices,
	ErrChoicesOnText, ErrChoiceIndex, ErrDuplicateID, ErrMissingKind, models.ErrUnknownKind,
}

func writeQuestionError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrQuestionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	slog.Error("question update failed", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update questions")
}

func editorState(form models.Form) models.EditorState {
	questions := form.Questions
	if questions == nil {
		questions = []models.Question{}
	}
	return models.EditorState{
		FormID:        form.ID,
		Title:         form.Title,
		Description:   form.Description,
		Questions:     questions,
		Saved:         true,
		ResponsesPath: "/responses/" + form.ID,
	}
}

func blankEditorState() models.EditorState {
	return models.EditorState{
		Title:     models.DefaultFormTitle,
		Questions: []models.Question{},
	}
}
