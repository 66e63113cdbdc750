// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements the poll persistence backends.

# Backends

SQLStore talks to the vote table directly over database/sql:

	s, err := store.OpenSQL(ctx, db.DialectPostgres, "postgres://...")
	s, err := store.OpenSQL(ctx, db.DialectSQLite, "blockvote.db")

RESTStore talks to a hosted PostgREST (Supabase) project:

	s := store.NewRESTStore("https://xyz.supabase.co", anonKey, nil)

# Errors

Backend failures are wrapped with sentinel errors so callers can use
errors.Is:

  - ErrNotFound: the vote table does not exist (42P01, PGRST205)
  - ErrAccessDenied: privilege or row-level security failure (42501,
    SQLITE_READONLY, HTTP 401/403)
  - ErrUnreachable: the backend could not be contacted

ListPolls degrades ErrNotFound and ErrAccessDenied into an empty result.
UpdateVoteCount and InsertPoll return them.
*/
package store
