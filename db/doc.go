// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db is the document store every component talks through.

# Opening a Store

Open picks a backend from the parsed configuration:

	store, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

Backends:

  - sqlite: modernc.org/sqlite, pure Go, file path or ":memory:"
  - postgres: lib/pq, connection URL
  - mongo: official MongoDB driver, connection URI plus database name

Setting a Redis address wraps the store in CachedStore so directory lookups
on the public fill path skip the backend on a hit.

# Schema Creation

The SQL backends run CreateSchema on open. It is safe to call multiple
times - uses IF NOT EXISTS for all tables and indexes.

# Tables and Collections

	SQL             Mongo           Holds
	app_user        users           accounts with bcrypt hashes
	form            forms           form documents; questions as JSON
	form_response   responses       submissions, scoped to owner and form
	form_directory  formDirectory   form id -> owner id

# Relationships

	app_user 1──* form
	form 1──* form_response
	form 1──? form_directory

DeleteForm removes a form's responses and directory entry with it. The SQL
backends do this in one transaction; Mongo deletes the form first.

# Errors

Lookups return ErrNotFound when nothing matches, including when the
document belongs to another owner. Unique email violations return
ErrConflict.
*/
package db
