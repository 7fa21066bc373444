// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// MaxChoices is the most choices a multiple-choice question may carry
const MaxChoices = 5

// QuestionKind is a closed set: KindText or KindMultipleChoice.
// Switches over it should handle both and reject anything else.
type QuestionKind string

const (
	KindText           QuestionKind = "text"
	KindMultipleChoice QuestionKind = "multiple-choice"
)

// legacyMultipleChoice is the spelling used by older clients
const legacyMultipleChoice = "multipleChoice"

var ErrUnknownKind = errors.New("unknown question type")

// ParseQuestionKind normalises a wire value into a QuestionKind
func ParseQuestionKind(s string) (QuestionKind, error) {
	switch s {
	case string(KindText):
		return KindText, nil
	case string(KindMultipleChoice), legacyMultipleChoice:
		return KindMultipleChoice, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k QuestionKind) MarshalText() ([]byte, error) {
	switch k {
	case KindText, KindMultipleChoice:
		return []byte(k), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

func (k *QuestionKind) UnmarshalText(b []byte) error {
	parsed, err := ParseQuestionKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Question is a single field of a form
type Question struct {
	ID      string       `json:"id" bson:"id"`
	Text    string       `json:"text" bson:"text"`
	Kind    QuestionKind `json:"type" bson:"type"`
	Choices []string     `json:"choices,omitempty" bson:"choices,omitempty"`
	// Required is enforced by the filler's browser, not by submit
	Required bool `json:"required" bson:"required"`
}
