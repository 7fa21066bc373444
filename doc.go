// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the UniForms API server.

UniForms is a small form builder. Signed-in users create forms with
free-text and multiple-choice questions, publish a share link, and read the
responses people submit through it.

# Starting the Server

The server needs a JWT secret; everything else has a default:

	JWT_SECRET=change-me go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret change-me

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): HMAC key for session tokens
  - DATABASE_URL (-d): required unless DATABASE_TYPE is sqlite

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or mongo (default: sqlite)
  - MONGO_DB (-mongo-db): Mongo database name (default: uniforms)
  - TOKEN_TTL (-token-ttl): Session lifetime (default: 72h)
  - BASE_URL (-base-url): Prefix for share links
  - REDIS_ADDR (-redis), REDIS_PASSWORD, REDIS_DB: Directory cache

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, form list, editor, fill, responses)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, session auth, JSON helpers
  - models: Domain and request/response types
  - auth: Accounts, JWT sessions, question ids
  - db: Store interface with SQLite, PostgreSQL and MongoDB backends
  - live: Per-user change notifications for the form list
  - views: Server-rendered fill page
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
