// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes the vote table for a dialect:

	if err := db.CreateSchema(conn, db.DialectPostgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for the table and index.
Hosted backends (the REST store) provision their own schema; CreateSchema
is only run for direct SQL connections.

# Tables

	vote (id, created_at, title, address, vote_num)

vote_num carries a CHECK (vote_num >= 0). Poll status is not a column; it
is derived from vote_num on read.

# Indexes

  - vote.created_at (descending, for newest-first listing)
*/
package db
