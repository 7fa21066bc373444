// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrIDSpaceExhausted = errors.New("could not generate a unique question id")
	ErrIDGeneration     = errors.New("failed to generate question id")
)

const (
	questionIDLen      = 8
	questionIDAttempts = 16
	base36Chars        = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewQuestionID creates a short base-36 token that is not in taken.
// Uniqueness only matters within one form, so the caller passes that form's ids.
func NewQuestionID(taken map[string]bool) (string, error) {
	for i := 0; i < questionIDAttempts; i++ {
		id, err := base36Token(questionIDLen)
		if err != nil {
			return "", err
		}
		if !taken[id] {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

func base36Token(n int) (string, error) {
	max := big.NewInt(int64(len(base36Chars)))
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrIDGeneration, err)
		}
		out[i] = base36Chars[v.Int64()]
	}
	return string(out), nil
}

// HashPassword returns a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
