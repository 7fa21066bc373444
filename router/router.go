// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/uniforms/auth"
	"github.com/danielhkuo/uniforms/cliparse"
	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/handlers"
	"github.com/danielhkuo/uniforms/live"
	"github.com/danielhkuo/uniforms/middleware"
)

func NewRouter(store db.Store, provider *auth.Provider, hub *live.Hub, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(provider)
	formListHandler := handlers.NewFormListHandler(store, hub)
	editorHandler := handlers.NewEditorHandler(store, hub, cfg)
	fillHandler := handlers.NewFillHandler(store)
	responsesHandler := handlers.NewResponsesHandler(store)

	// public wraps a handler with logging only; private also requires a session
	public := middleware.WithLogging
	private := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(provider, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session
	mux.HandleFunc("POST /auth/signup", public(authHandler.SignUp))
	mux.HandleFunc("POST /auth/signin", public(authHandler.SignIn))
	mux.HandleFunc("POST /auth/signout", public(authHandler.SignOut))

	// Form list
	mux.HandleFunc("GET /forms", private(formListHandler.List))
	mux.HandleFunc("POST /forms", private(formListHandler.Create))
	mux.HandleFunc("DELETE /forms/{formId}", private(formListHandler.Delete))
	mux.HandleFunc("GET /forms/subscribe", private(formListHandler.Subscribe))

	// Editor
	mux.HandleFunc("POST /form", private(editorHandler.Provision))
	mux.HandleFunc("GET /form/{formId}", private(editorHandler.Load))
	mux.HandleFunc("PATCH /form/{formId}", private(editorHandler.Save))
	mux.HandleFunc("POST /form/{formId}/questions", private(editorHandler.AddQuestion))
	mux.HandleFunc("PATCH /form/{formId}/questions/{questionId}", private(editorHandler.EditQuestion))
	mux.HandleFunc("DELETE /form/{formId}/questions/{questionId}", private(editorHandler.RemoveQuestion))
	mux.HandleFunc("POST /form/{formId}/questions/{questionId}/choices", private(editorHandler.AddChoice))
	mux.HandleFunc("DELETE /form/{formId}/questions/{questionId}/choices/{index}", private(editorHandler.RemoveChoice))
	mux.HandleFunc("POST /form/{formId}/link", private(editorHandler.GenerateLink))

	// Fill (public)
	mux.HandleFunc("GET /fill/{formId}", public(fillHandler.GetForm))
	mux.HandleFunc("POST /fill/{formId}", public(fillHandler.Submit))

	// Responses
	mux.HandleFunc("GET /responses/{formId}", private(responsesHandler.Owner))
	mux.HandleFunc("GET /view-responses/{userId}/{formId}", public(responsesHandler.Public))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("UniForms API v1"))
	})

	return mux
}
