// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/uniforms/auth"
	"github.com/danielhkuo/uniforms/middleware"
	"github.com/danielhkuo/uniforms/models"
)

// Where a client goes after each auth action
const (
	formsPath = "/forms"
	homePath  = "/"
)

type AuthHandler struct {
	provider *auth.Provider
}

func NewAuthHandler(provider *auth.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Checked here so a rejected form never reaches the provider
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	session, err := h.provider.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, "sign up", err)
		return
	}

	slog.Info("user signed up", "user_id", session.UserID)

	middleware.JSONResponse(w, http.StatusCreated, models.SessionResponse{
		UserID:   session.UserID,
		Email:    session.Email,
		Token:    session.Token,
		Redirect: formsPath,
	})
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	session, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, "sign in", err)
		return
	}

	slog.Info("user signed in", "user_id", session.UserID)

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		UserID:   session.UserID,
		Email:    session.Email,
		Token:    session.Token,
		Redirect: formsPath,
	})
}

// SignOut handles POST /auth/signout. Tokens are stateless, so the
// client just drops its copy.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.RedirectResponse{Redirect: homePath})
}

// writeAuthError passes provider messages through unchanged
func writeAuthError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredential):
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrEmailInUse):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("auth provider failed", "action", action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Authentication failed")
	}
}
