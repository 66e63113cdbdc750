// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/blockvote/db"
	"github.com/danielhkuo/blockvote/models"
)

// PostgreSQL error codes the store distinguishes
const (
	pgInsufficientPrivilege = "42501"
	pgUndefinedTable        = "42P01"
)

// SQLStore keeps polls in a PostgreSQL or SQLite vote table.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// OpenSQL connects to the database and makes sure the schema exists
func OpenSQL(ctx context.Context, dialect, url string) (*SQLStore, error) {
	conn, err := sql.Open(db.DriverName(dialect), url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if dialect == db.DialectSQLite {
		// one writer at a time; also keeps :memory: databases on one connection
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", classify(err))
	}

	if err := db.CreateSchema(conn, dialect); err != nil {
		// A read-only role can still list and update; report and carry on.
		slog.Warn("schema creation failed", "error", err)
	}

	return &SQLStore{db: conn, dialect: dialect}, nil
}

// NewSQLStore wraps an existing connection. The schema is not created.
func NewSQLStore(conn *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: conn, dialect: dialect}
}

func (s *SQLStore) ListPolls(ctx context.Context) ([]models.VoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, title, address, vote_num
		FROM vote
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return degradeList(classify(err))
	}
	defer rows.Close()

	records := []models.VoteRecord{}
	for rows.Next() {
		var rec models.VoteRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Title, &rec.Address, &rec.VoteNum); err != nil {
			return nil, fmt.Errorf("failed to scan vote row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return degradeList(classify(err))
	}

	slog.Debug("listed polls", "count", len(records))
	return records, nil
}

// UpdateVoteCount does not report a missing row, matching the hosted
// backend where an update filtered to zero rows is not an error.
func (s *SQLStore) UpdateVoteCount(ctx context.Context, id int64, voteNum int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE vote SET vote_num = $1 WHERE id = $2
	`, voteNum, id)
	if err != nil {
		return fmt.Errorf("failed to update vote count: %w", classify(err))
	}
	return nil
}

func (s *SQLStore) InsertPoll(ctx context.Context, rec models.VoteRecord) (models.VoteRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO vote (created_at, title, address, vote_num)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, rec.CreatedAt, rec.Title, rec.Address, rec.VoteNum).Scan(&rec.ID)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to insert poll: %w", classify(err))
	}

	return rec, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// degradeList turns permission and missing-table failures into "no rows"
func degradeList(err error) ([]models.VoteRecord, error) {
	switch {
	case errors.Is(err, ErrAccessDenied):
		slog.Warn("vote table access denied, returning no rows", "error", err)
		return []models.VoteRecord{}, nil
	case errors.Is(err, ErrNotFound):
		slog.Warn("vote table does not exist, returning no rows", "error", err)
		return []models.VoteRecord{}, nil
	}
	return nil, fmt.Errorf("failed to list polls: %w", err)
}

// classify wraps driver errors with the store's sentinel errors
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgInsufficientPrivilege:
			return fmt.Errorf("%w: %s", ErrAccessDenied, pqErr.Message)
		case pgUndefinedTable:
			return fmt.Errorf("%w: %s", ErrNotFound, pqErr.Message)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_READONLY, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_PERM:
			return fmt.Errorf("%w: %s", ErrAccessDenied, liteErr.Error())
		case sqlite3.SQLITE_CANTOPEN:
			return fmt.Errorf("%w: %s", ErrUnreachable, liteErr.Error())
		}
		if strings.Contains(liteErr.Error(), "no such table") {
			return fmt.Errorf("%w: %s", ErrNotFound, liteErr.Error())
		}
		return err
	}

	var opErr *net.OpError
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, syscall.ECONNREFUSED) || errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return err
}
