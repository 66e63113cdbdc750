// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/blockvote/models"
)

// PostgREST codes for a table missing from the schema cache
const restUndefinedTable = "PGRST205"

// RESTStore talks to a hosted PostgREST (Supabase) endpoint.
type RESTStore struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
}

// restError is the error body PostgREST returns
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *restError) Error() string {
	return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
}

// NewRESTStore creates a store for the project at baseURL, authenticated
// with apiKey. A nil client uses http.DefaultClient.
func NewRESTStore(baseURL, apiKey string, client *http.Client) *RESTStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		table:   "vote",
		client:  client,
	}
}

func (s *RESTStore) ListPolls(ctx context.Context) ([]models.VoteRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var records []models.VoteRecord
	err := s.do(ctx, http.MethodGet, q, nil, "", &records)
	if err != nil {
		return degradeList(err)
	}
	if records == nil {
		records = []models.VoteRecord{}
	}

	slog.Debug("listed polls", "count", len(records))
	return records, nil
}

func (s *RESTStore) UpdateVoteCount(ctx context.Context, id int64, voteNum int64) error {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))

	body := map[string]int64{"vote_num": voteNum}
	if err := s.do(ctx, http.MethodPatch, q, body, "return=minimal", nil); err != nil {
		return fmt.Errorf("failed to update vote count: %w", err)
	}
	return nil
}

func (s *RESTStore) InsertPoll(ctx context.Context, rec models.VoteRecord) (models.VoteRecord, error) {
	row := map[string]any{
		"title":    rec.Title,
		"address":  rec.Address,
		"vote_num": rec.VoteNum,
	}

	var inserted []models.VoteRecord
	err := s.do(ctx, http.MethodPost, url.Values{"select": {"*"}}, []any{row}, "return=representation", &inserted)
	if err != nil {
		return models.VoteRecord{}, fmt.Errorf("failed to insert poll: %w", err)
	}
	if len(inserted) == 0 {
		return models.VoteRecord{}, fmt.Errorf("failed to insert poll: empty response")
	}

	return inserted[0], nil
}

func (s *RESTStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *RESTStore) do(ctx context.Context, method string, query url.Values, body any, prefer string, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	endpoint := s.baseURL + "/rest/v1/" + s.table + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	slog.Debug("backend request", "method", method, "table", s.table,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= 300 {
		return classifyREST(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

func classifyREST(resp *http.Response) error {
	var re restError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &re); err != nil || re.Message == "" {
		re.Message = strings.TrimSpace(string(data))
		if re.Message == "" {
			re.Message = http.StatusText(resp.StatusCode)
		}
	}

	switch {
	case re.Code == pgInsufficientPrivilege:
		return fmt.Errorf("%w: %v", ErrAccessDenied, &re)
	case re.Code == pgUndefinedTable || re.Code == restUndefinedTable:
		return fmt.Errorf("%w: %v", ErrNotFound, &re)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrAccessDenied, &re)
	}

	return &re
}
