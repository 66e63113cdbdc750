// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Supported SQL dialects
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// CreateSchema creates the vote table for the given dialect.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var schema string
	switch dialect {
	case DialectPostgres:
		schema = postgresSchema
	case DialectSQLite:
		schema = sqliteSchema
	default:
		return fmt.Errorf("unsupported database type %q", dialect)
	}

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// DriverName maps a dialect to its registered database/sql driver
func DriverName(dialect string) string {
	if dialect == DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS vote (
    id BIGSERIAL PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    title TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    vote_num BIGINT NOT NULL DEFAULT 0 CHECK (vote_num >= 0)
);

CREATE INDEX IF NOT EXISTS idx_vote_created_at ON vote(created_at DESC);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS vote (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    title TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    vote_num INTEGER NOT NULL DEFAULT 0 CHECK (vote_num >= 0)
);

CREATE INDEX IF NOT EXISTS idx_vote_created_at ON vote(created_at DESC);
`
