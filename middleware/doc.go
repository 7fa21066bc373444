// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (duration_ms).

# Authentication

RequireAuth checks the session token and stores the user id in the
request context:

	mux.HandleFunc("GET /forms", middleware.WithLogging(
		middleware.RequireAuth(provider, formsHandler.List)))

	func (h *FormListHandler) List(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		...
	}

Tokens are read from "Authorization: Bearer <token>". The "token" query
parameter is accepted when no Authorization header is present, since
browser websockets cannot set headers.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PATCH, DELETE, OPTIONS with headers
Content-Type and Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreateFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
