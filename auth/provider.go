// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/danielhkuo/uniforms/db"
	"github.com/danielhkuo/uniforms/models"
)

// MinPasswordLen matches the rule most hosted auth providers apply
const MinPasswordLen = 6

var (
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrEmailInUse        = errors.New("email address is already in use")
	ErrWeakPassword      = fmt.Errorf("password should be at least %d characters", MinPasswordLen)
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidToken      = errors.New("invalid or expired token")
)

// UserStore is the slice of the backend the provider needs
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Session is what a successful sign-in or sign-up hands back
type Session struct {
	UserID string
	Email  string
	Token  string
}

type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Provider checks credentials and issues signed session tokens
type Provider struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewProvider(users UserStore, secret string, ttl time.Duration) *Provider {
	return &Provider{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SignUp creates an account and returns a session for it
func (p *Provider) SignUp(ctx context.Context, email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if len(password) < MinPasswordLen {
		return Session{}, ErrWeakPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return Session{}, ErrEmailInUse
		}
		return Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	return p.session(user)
}

// SignIn checks the credentials and returns a session
func (p *Provider) SignIn(ctx context.Context, email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return Session{}, ErrInvalidCredential
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredential
	}

	return p.session(user)
}

// ParseToken validates a session token and returns the user id it names
func (p *Provider) ParseToken(tokenStr string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(t *jwt.Token) (any, error) {
			return p.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (p *Provider) session(user models.User) (Session, error) {
	now := p.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Session{UserID: user.ID, Email: user.Email, Token: signed}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
