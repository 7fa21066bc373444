// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the UniForms API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, provider, hub, cfg)

# Endpoints

Health:

	GET /health

Session (public):

	POST /auth/signup  - Create account, returns token
	POST /auth/signin  - Returns token
	POST /auth/signout - Returns redirect

Form list (requires Authorization: Bearer <token>):

	GET    /forms           - List own forms, newest first
	POST   /forms           - Create form with title
	DELETE /forms/{formId}  - Delete form, its responses and link
	GET    /forms/subscribe - Websocket; list snapshot on every change

Editor (requires token):

	POST   /form                                                - New blank form
	GET    /form/{formId}                                       - Load editor state
	PATCH  /form/{formId}                                       - Save title/description/questions
	POST   /form/{formId}/questions                             - Add question
	PATCH  /form/{formId}/questions/{questionId}                - Edit question
	DELETE /form/{formId}/questions/{questionId}                - Remove question
	POST   /form/{formId}/questions/{questionId}/choices        - Add empty choice
	DELETE /form/{formId}/questions/{questionId}/choices/{index} - Remove choice
	POST   /form/{formId}/link                                  - Publish and get share link

Fill (public, JSON or HTML by Accept header):

	GET  /fill/{formId} - Blank fields
	POST /fill/{formId} - Submit answers

Responses:

	GET /responses/{formId}                 - Owner view (requires token)
	GET /view-responses/{userId}/{formId}   - Shared view (public)

# Handler Initialization

The router creates handler instances with dependency injection:

	authHandler := handlers.NewAuthHandler(provider)
	formListHandler := handlers.NewFormListHandler(store, hub)
	editorHandler := handlers.NewEditorHandler(store, hub, cfg)

Every route is wrapped in middleware.WithLogging; signed-in routes also go
through middleware.RequireAuth.
*/
package router
