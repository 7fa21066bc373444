// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres or mongo (default: sqlite)
  - DatabaseURL: DSN or Mongo URI (default: uniforms.db for sqlite)
  - MongoDatabase: Mongo database name (default: uniforms)
  - JWTSecret: Secret for session token signing (required)
  - TokenTTL: Session lifetime (default: 72h)
  - BaseURL: Prefix for generated share links (default: origin-relative)
  - RedisAddr, RedisPassword, RedisDB: optional directory cache

# CLI Flags

	-p           Server port
	-t           Database type
	-d           Database URL
	-mongo-db    Mongo database name
	-jwt-secret  JWT signing secret
	-token-ttl   Session lifetime
	-base-url    Share link prefix
	-redis       Redis address

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_TYPE → -t
	DATABASE_URL  → -d
	MONGO_DB      → -mongo-db
	JWT_SECRET    → -jwt-secret
	TOKEN_TTL     → -token-ttl
	BASE_URL      → -base-url
	REDIS_ADDR    → -redis

REDIS_PASSWORD and REDIS_DB are read from the environment only.
CLI flags take precedence over environment variables. LoadEnvFile reads a
.env file (via godotenv) before parsing; it never overrides variables that
are already set.
*/
package cliparse
