// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides accounts, session tokens and id generation.

# Provider

Provider checks credentials against a UserStore and issues sessions:

	provider := auth.NewProvider(store, cfg.JWTSecret, cfg.TokenTTL)
	session, err := provider.SignUp(ctx, email, password)
	session, err := provider.SignIn(ctx, email, password)

Emails are trimmed and lower-cased before use. Sign-up requires a valid
address, a password of at least MinPasswordLen characters and an unused
email. Sign-in reports an unknown email and a wrong password with the same
ErrInvalidCredential.

# Session Tokens

Sessions are HS256 JWTs with the user id as subject:

	userID, err := provider.ParseToken(token)

Tokens are stateless; signing out is the client discarding its copy.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

# Question IDs

Questions get 8-character base-36 ids from crypto/rand:

	id, err := auth.NewQuestionID(takenIDs)

A draw that collides with an id already in the form is retried.
*/
package auth
