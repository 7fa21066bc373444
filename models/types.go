package models

import "time"

// Placeholder values shown when a form field is blank
const (
	DefaultFormTitle       = "Untitled Form"
	DefaultFormDescription = "No description"
)

// View states for the fill and responses screens
const (
	StateSuccess  = "success"
	StateNotFound = "not_found"
	StateError    = "error"
)

// Request types

type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateFormRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateFormRequest carries only the fields being saved; nil means untouched
type UpdateFormRequest struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Questions   *[]Question `json:"questions,omitempty"`
}

type AddQuestionRequest struct {
	Text     string       `json:"text"`
	Kind     QuestionKind `json:"type"`
	Choices  []string     `json:"choices,omitempty"`
	Required bool         `json:"required"`
}

type EditQuestionRequest struct {
	Text     *string   `json:"text,omitempty"`
	Choices  *[]string `json:"choices,omitempty"`
	Required *bool     `json:"required,omitempty"`
}

// questionId -> answer
type SubmitFillRequest struct {
	Answers map[string]string `json:"answers"`
}

// Response types

type SessionResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	Redirect string `json:"redirect"`
}

type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

type FormSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type FormListResponse struct {
	Forms []FormSummary `json:"forms"`
}

type CreateFormResponse struct {
	FormID   string `json:"form_id"`
	Redirect string `json:"redirect"`
}

type EditorState struct {
	FormID        string     `json:"form_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Questions     []Question `json:"questions"`
	Saved         bool       `json:"saved"`
	ResponsesPath string     `json:"responses_path,omitempty"`
	Redirect      string     `json:"redirect,omitempty"`
}

type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type LinkResponse struct {
	Link    string `json:"link"`
	FillURL string `json:"fill_url"`
}

type FillField struct {
	QuestionID string       `json:"question_id"`
	Label      string       `json:"label"`
	Kind       QuestionKind `json:"type"`
	Input      string       `json:"input"` // "text" or "radio"
	Options    []string     `json:"options,omitempty"`
	Value      string       `json:"value"`
	Required   bool         `json:"required"`
}

type FillView struct {
	State       string      `json:"state"`
	FormID      string      `json:"form_id,omitempty"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Fields      []FillField `json:"fields,omitempty"`
	Message     string      `json:"message,omitempty"`
}

type SubmitFillResponse struct {
	ResponseID string `json:"response_id"`
	Answered   int    `json:"answered"`
}

type AnswerView struct {
	QuestionID string `json:"question_id"`
	Label      string `json:"label"`
	Answer     string `json:"answer"`
}

type ResponseView struct {
	ID          string       `json:"id"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Answers     []AnswerView `json:"answers"`
}

type ResponsesView struct {
	State     string         `json:"state"`
	FormID    string         `json:"form_id,omitempty"`
	FormTitle string         `json:"form_title,omitempty"`
	Count     int            `json:"count"`
	Responses []ResponseView `json:"responses"`
	BackPath  string         `json:"back_path"`
	Message   string         `json:"message,omitempty"`
}

// Domain types

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
}

type Form struct {
	ID          string     `json:"id" bson:"_id"`
	OwnerID     string     `json:"owner_id" bson:"userId"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Questions   []Question `json:"questions" bson:"questions"`
	CreatedAt   time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updatedAt"`
}

// FormUpdate is a field-scoped write; UpdatedAt is always written
type FormUpdate struct {
	Title       *string
	Description *string
	Questions   *[]Question
	UpdatedAt   time.Time
}

type DirectoryEntry struct {
	FormID string `json:"form_id" bson:"_id"`
	UserID string `json:"user_id" bson:"userId"`
}

type AnswerEntry struct {
	QuestionID   string `json:"question_id" bson:"questionId"`
	QuestionText string `json:"question_text,omitempty" bson:"questionText,omitempty"`
	Answer       string `json:"answer" bson:"answer"`
}

type Response struct {
	ID          string        `json:"id" bson:"_id"`
	FormID      string        `json:"form_id" bson:"formId"`
	Entries     []AnswerEntry `json:"responses" bson:"responses"`
	SubmittedAt time.Time     `json:"submitted_at" bson:"submittedAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
