// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/blockvote/cliparse"
	"github.com/danielhkuo/blockvote/db"
	"github.com/danielhkuo/blockvote/models"
	"github.com/danielhkuo/blockvote/wallet"
)

// TestAdminSalt is the admin key salt used by GetTestConfig
const TestAdminSalt = "test-admin-salt"

// SetupTestDB creates a fresh in-memory SQLite database with the vote table
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open(db.DriverName(db.DialectSQLite), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3000,
		DatabaseType: db.DialectSQLite,
		DatabaseURL:  ":memory:",
		AdminKeySalt: TestAdminSalt,
	}
}

// InsertTestPoll inserts a row and returns its id
func InsertTestPoll(t *testing.T, conn *sql.DB, title string, voteNum int64, createdAt time.Time) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO vote (created_at, title, address, vote_num)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, createdAt, title, models.ZeroAddress, voteNum).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return id
}

// GetVoteNum reads vote_num for a row
func GetVoteNum(t *testing.T, conn *sql.DB, id int64) int64 {
	t.Helper()

	var voteNum int64
	if err := conn.QueryRow(`SELECT vote_num FROM vote WHERE id = $1`, id).Scan(&voteNum); err != nil {
		t.Fatalf("Failed to read vote_num: %v", err)
	}
	return voteNum
}

// FakeStore is an in-memory store whose failures can be scripted
type FakeStore struct {
	mu        sync.Mutex
	Records   []models.VoteRecord
	ListErr   error
	UpdateErr error
	InsertErr error
	Updates   map[int64]int64
	// Block, when set, is waited on by UpdateVoteCount before returning
	Block chan struct{}
}

func (f *FakeStore) ListPolls(ctx context.Context) ([]models.VoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]models.VoteRecord, len(f.Records))
	copy(out, f.Records)
	return out, nil
}

func (f *FakeStore) UpdateVoteCount(ctx context.Context, id int64, voteNum int64) error {
	if f.Block != nil {
		<-f.Block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if f.Updates == nil {
		f.Updates = make(map[int64]int64)
	}
	f.Updates[id] = voteNum
	return nil
}

func (f *FakeStore) InsertPoll(ctx context.Context, rec models.VoteRecord) (models.VoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return models.VoteRecord{}, f.InsertErr
	}
	rec.ID = int64(len(f.Records) + 100)
	rec.CreatedAt = time.Now()
	f.Records = append([]models.VoteRecord{rec}, f.Records...)
	return rec, nil
}

func (f *FakeStore) Close() error { return nil }

// FakeProvider is a scripted wallet provider
type FakeProvider struct {
	mu          sync.Mutex
	Existing    []string
	ExistingErr error
	Requested   []string
	RequestErr  error
	// Block, when set, is waited on by RequestAccounts before returning
	Block    chan struct{}
	handlers map[string][]wallet.Handler
}

func (p *FakeProvider) Accounts(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Existing, p.ExistingErr
}

func (p *FakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	if p.Block != nil {
		<-p.Block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Requested, p.RequestErr
}

func (p *FakeProvider) Subscribe(event string, h wallet.Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handlers == nil {
		p.handlers = make(map[string][]wallet.Handler)
	}
	p.handlers[event] = append(p.handlers[event], h)
}

// Emit delivers a notification to every subscribed handler
func (p *FakeProvider) Emit(event string, payload any) {
	p.mu.Lock()
	hs := append([]wallet.Handler(nil), p.handlers[event]...)
	p.mu.Unlock()
	for _, h := range hs {
		h(payload)
	}
}

// Subscriptions returns how many handlers are registered for event
func (p *FakeProvider) Subscriptions(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers[event])
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
