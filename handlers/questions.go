// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/uniforms/auth"
	"github.com/danielhkuo/uniforms/models"
)

// Question edits are pure: each takes the current list and returns a new one.
// The input slice is never modified.

var (
	ErrEmptyQuestionText = errors.New("question text is required")
	ErrEmptyChoice       = errors.New("all choices must be filled in")
	ErrDuplicateChoice   = errors.New("choices must be different from each other")
	ErrNoChoices         = errors.New("a multiple-choice question needs at least one choice")
	ErrTooManyChoices    = fmt.Errorf("a question can have at most %d choices", models.MaxChoices)
	ErrChoicesOnText     = errors.New("text questions do not take choices")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrChoiceIndex       = errors.New("choice index out of range")
	ErrDuplicateID       = errors.New("duplicate question id")
	ErrMissingKind       = errors.New("question type is required")
)

// AddQuestion appends a new question with a fresh id unique within qs
func AddQuestion(qs []models.Question, req models.AddQuestionRequest) ([]models.Question, models.Question, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, models.Question{}, ErrEmptyQuestionText
	}

	q := models.Question{Text: req.Text, Kind: req.Kind, Required: req.Required}
	switch req.Kind {
	case models.KindText:
		if len(req.Choices) > 0 {
			return nil, models.Question{}, ErrChoicesOnText
		}
	case models.KindMultipleChoice:
		if len(req.Choices) == 0 {
			return nil, models.Question{}, ErrNoChoices
		}
		if len(req.Choices) > models.MaxChoices {
			return nil, models.Question{}, ErrTooManyChoices
		}
		for _, c := range req.Choices {
			if strings.TrimSpace(c) == "" {
				return nil, models.Question{}, ErrEmptyChoice
			}
		}
		if err := checkDistinctChoices(req.Choices); err != nil {
			return nil, models.Question{}, err
		}
		q.Choices = append([]string(nil), req.Choices...)
	case "":
		return nil, models.Question{}, ErrMissingKind
	default:
		return nil, models.Question{}, fmt.Errorf("%w: %q", models.ErrUnknownKind, string(req.Kind))
	}

	id, err := auth.NewQuestionID(questionIDs(qs))
	if err != nil {
		return nil, models.Question{}, err
	}
	q.ID = id

	out := make([]models.Question, 0, len(qs)+1)
	out = append(out, qs...)
	out = append(out, q)
	return out, q, nil
}

// EditQuestion changes a question's text and/or choices in place.
// Blank text and blank choices are allowed here; they are mid-edit states.
func EditQuestion(qs []models.Question, id string, req models.EditQuestionRequest) ([]models.Question, error) {
	i := indexOf(qs, id)
	if i < 0 {
		return nil, ErrQuestionNotFound
	}

	out := cloneQuestions(qs)
	if req.Text != nil {
		out[i].Text = *req.Text
	}
	if req.Required != nil {
		out[i].Required = *req.Required
	}
	if req.Choices != nil {
		switch out[i].Kind {
		case models.KindText:
			return nil, ErrChoicesOnText
		case models.KindMultipleChoice:
			if len(*req.Choices) > models.MaxChoices {
				return nil, ErrTooManyChoices
			}
			if err := checkDistinctChoices(*req.Choices); err != nil {
				return nil, err
			}
			out[i].Choices = append([]string(nil), *req.Choices...)
		default:
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, string(out[i].Kind))
		}
	}
	return out, nil
}

// RemoveQuestion drops the question with id; a missing id is an error
func RemoveQuestion(qs []models.Question, id string) ([]models.Question, error) {
	if indexOf(qs, id) < 0 {
		return nil, ErrQuestionNotFound
	}
	out := make([]models.Question, 0, len(qs)-1)
	for _, q := range qs {
		if q.ID != id {
			out = append(out, q)
		}
	}
	return out, nil
}

// AddChoice appends an empty choice to a multiple-choice question
func AddChoice(qs []models.Question, id string) ([]models.Question, error) {
	i := indexOf(qs, id)
	if i < 0 {
		return nil, ErrQuestionNotFound
	}

	switch qs[i].Kind {
	case models.KindText:
		return nil, ErrChoicesOnText
	case models.KindMultipleChoice:
		if len(qs[i].Choices) >= models.MaxChoices {
			return nil, ErrTooManyChoices
		}
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, string(qs[i].Kind))
	}

	out := cloneQuestions(qs)
	out[i].Choices = append(out[i].Choices, "")
	return out, nil
}

// RemoveChoice drops the choice at index. The last remaining choice stays.
func RemoveChoice(qs []models.Question, id string, index int) ([]models.Question, error) {
	i := indexOf(qs, id)
	if i < 0 {
		return nil, ErrQuestionNotFound
	}

	switch qs[i].Kind {
	case models.KindText:
		return nil, ErrChoicesOnText
	case models.KindMultipleChoice:
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, string(qs[i].Kind))
	}

	choices := qs[i].Choices
	if index < 0 || index >= len(choices) {
		return nil, ErrChoiceIndex
	}

	out := cloneQuestions(qs)
	if len(choices) <= 1 {
		return out, nil
	}
	kept := make([]string, 0, len(choices)-1)
	kept = append(kept, choices[:index]...)
	kept = append(kept, choices[index+1:]...)
	out[i].Choices = kept
	return out, nil
}

// ValidateQuestions checks a whole replacement list and returns its
// normalised form: missing ids are generated, text questions lose choices.
func ValidateQuestions(qs []models.Question) ([]models.Question, error) {
	taken := make(map[string]bool, len(qs))
	for _, q := range qs {
		if q.ID == "" {
			continue
		}
		if taken[q.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, q.ID)
		}
		taken[q.ID] = true
	}

	out := cloneQuestions(qs)
	for i := range out {
		switch out[i].Kind {
		case models.KindText:
			out[i].Choices = nil
		case models.KindMultipleChoice:
			if len(out[i].Choices) > models.MaxChoices {
				return nil, ErrTooManyChoices
			}
			if err := checkDistinctChoices(out[i].Choices); err != nil {
				return nil, err
			}
		case "":
			return nil, ErrMissingKind
		default:
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, string(out[i].Kind))
		}

		if out[i].ID == "" {
			id, err := auth.NewQuestionID(taken)
			if err != nil {
				return nil, err
			}
			taken[id] = true
			out[i].ID = id
		}
	}
	return out, nil
}

// BuildAnswers makes one entry per current question, in question order.
// Answers for ids that are not in qs are dropped; missing answers are "".
func BuildAnswers(qs []models.Question, answers map[string]string) []models.AnswerEntry {
	entries := make([]models.AnswerEntry, 0, len(qs))
	for _, q := range qs {
		entries = append(entries, models.AnswerEntry{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Answer:       answers[q.ID],
		})
	}
	return entries
}

// JoinResponses labels every answer for display. The label is the text
// frozen at submission, else the question's current text, else its id.
func JoinResponses(qs []models.Question, responses []models.Response) []models.ResponseView {
	current := make(map[string]string, len(qs))
	for _, q := range qs {
		current[q.ID] = q.Text
	}

	views := make([]models.ResponseView, 0, len(responses))
	for _, resp := range responses {
		answers := make([]models.AnswerView, 0, len(resp.Entries))
		for _, e := range resp.Entries {
			label := e.QuestionText
			if label == "" {
				label = current[e.QuestionID]
			}
			if label == "" {
				label = e.QuestionID
			}
			answers = append(answers, models.AnswerView{
				QuestionID: e.QuestionID,
				Label:      label,
				Answer:     e.Answer,
			})
		}
		views = append(views, models.ResponseView{
			ID:          resp.ID,
			SubmittedAt: resp.SubmittedAt,
			Answers:     answers,
		})
	}
	return views
}

// BuildFillView turns a form into blank input fields
func BuildFillView(form models.Form) (models.FillView, error) {
	fields := make([]models.FillField, 0, len(form.Questions))
	for _, q := range form.Questions {
		field := models.FillField{
			QuestionID: q.ID,
			Label:      q.Text,
			Kind:       q.Kind,
			Required:   q.Required,
		}
		switch q.Kind {
		case models.KindText:
			field.Input = "text"
		case models.KindMultipleChoice:
			field.Input = "radio"
			field.Options = append([]string{}, q.Choices...)
		default:
			return models.FillView{}, fmt.Errorf("%w: %q in question %s", models.ErrUnknownKind, string(q.Kind), q.ID)
		}
		fields = append(fields, field)
	}

	return models.FillView{
		State:       models.StateSuccess,
		FormID:      form.ID,
		Title:       form.Title,
		Description: form.Description,
		Fields:      fields,
	}, nil
}

// checkDistinctChoices rejects two filled-in choices with the same text.
// Blank choices are mid-edit placeholders and may repeat.
func checkDistinctChoices(choices []string) error {
	seen := make(map[string]bool, len(choices))
	for _, c := range choices {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if seen[c] {
			return fmt.Errorf("%w: %q", ErrDuplicateChoice, c)
		}
		seen[c] = true
	}
	return nil
}

func questionIDs(qs []models.Question) map[string]bool {
	ids := make(map[string]bool, len(qs))
	for _, q := range qs {
		ids[q.ID] = true
	}
	return ids
}

func indexOf(qs []models.Question, id string) int {
	for i, q := range qs {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func cloneQuestions(qs []models.Question) []models.Question {
	out := make([]models.Question, len(qs))
	for i, q := range qs {
		out[i] = q
		if q.Choices != nil {
			out[i].Choices = append([]string(nil), q.Choices...)
		}
	}
	return out
}
