// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the UniForms API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - AuthHandler: Sign up, sign in, sign out
  - FormListHandler: The signed-in user's forms, plus live updates
  - EditorHandler: Title, description, questions and share links
  - FillHandler: Public form filling
  - ResponsesHandler: Submitted answers, for the owner or by link

Handlers are created via constructor functions:

	editorHandler := handlers.NewEditorHandler(store, hub, cfg)

Signed-in handlers read the user id from the request context, set by
middleware.RequireAuth.

# Form Lifecycle

	POST /forms                → Create (title required)
	PATCH /form/{formId}       → Save (only fields present are written)
	POST /form/{formId}/link   → GenerateLink (makes the form fillable)
	DELETE /forms/{formId}     → Delete (responses and link go too)

Question edits are pure functions in questions.go; the editor loads the
form, applies one and writes the whole question list back:

	qs, q, err := AddQuestion(form.Questions, req)

# Filling

The fill flow never trusts an owner id from the client. The form id is
looked up in the directory, which is only written by GenerateLink:

	GET /fill/{formId}  → GetForm (JSON, or HTML for browsers)
	POST /fill/{formId} → Submit (JSON or q_<questionId> form fields)

Each stored response has exactly one entry per question, in question
order, with the question text frozen at submission time.

# Live Updates

	GET /forms/subscribe → Subscribe (websocket)

The socket receives the full form list on connect and again after every
change the user makes.
*/
package handlers
