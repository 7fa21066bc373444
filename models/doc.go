// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignUpRequest: email, password, confirm_password
  - SignInRequest: email, password
  - CreateFormRequest: title, description
  - UpdateFormRequest: title, description, questions (each optional)
  - AddQuestionRequest: text, type, choices
  - EditQuestionRequest: text, choices (each optional)
  - SubmitFillRequest: answers (map[string]string keyed by question id)

# Response Types

  - SessionResponse: user_id, email, token, redirect
  - FormListResponse: forms (FormSummary list)
  - CreateFormResponse: form_id, redirect
  - EditorState: the editor's view of one form
  - LinkResponse: link, fill_url
  - FillView / FillField: public fill screen
  - ResponsesView / ResponseView / AnswerView: responses screen
  - ErrorResponse: error, message

# Domain Types

  - User: account created by the auth provider
  - Form: title, description and ordered questions
  - Question: one field; Kind is a closed QuestionKind
  - DirectoryEntry: form id → owning user id
  - Response / AnswerEntry: one submission with frozen question text

Domain types carry bson tags matching the document store layout
(camelCase field names, _id keys).

# Question Kinds

	KindText           = "text"
	KindMultipleChoice = "multiple-choice"

The legacy spelling "multipleChoice" is accepted when decoding and always
re-encoded as "multiple-choice". Anything else fails with ErrUnknownKind.

# View States

	StateSuccess  = "success"
	StateNotFound = "not_found"
	StateError    = "error"
*/
package models
