// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/blockvote/events"
	"github.com/danielhkuo/blockvote/metrics"
	"github.com/danielhkuo/blockvote/testutil"
	"github.com/danielhkuo/blockvote/voting"
	"github.com/danielhkuo/blockvote/wallet"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	m := metrics.NewMetrics("blockvote_test")
	hub := events.NewHub()
	conn := wallet.NewConnection(nil, nil, hub, m)
	ctrl := voting.NewController(nil, conn, 0, hub, m)
	if err := ctrl.LoadPolls(context.Background()); err != nil {
		t.Fatal(err)
	}

	return NewRouter(conn, ctrl, hub, m, testutil.GetTestConfig())
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "blockvote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	// Each route must reach its handler, which then answers with a
	// domain status rather than the mux's 404/405
	testCases := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{"GET", "/wallet", http.StatusOK},
		{"POST", "/wallet/check", http.StatusOK},
		{"POST", "/wallet/connect", http.StatusServiceUnavailable},
		{"POST", "/wallet/disconnect", http.StatusOK},
		{"POST", "/wallet/copy", http.StatusConflict},
		{"GET", "/polls", http.StatusOK},
		{"GET", "/polls?status=ended", http.StatusOK},
		{"POST", "/polls/reload", http.StatusOK},
		{"POST", "/polls/1/vote", http.StatusUnauthorized},
		{"POST", "/polls", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("Expected a request id on logged routes")
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	// Generate a rejected vote so the counter has a sample
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/polls/1/vote", nil))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `blockvote_test_voting_votes_total{outcome="rejected"} 1`) {
		t.Errorf("Expected rejected vote sample in metrics output:\n%s", body)
	}
	if !strings.Contains(body, "blockvote_test_voting_poll_loads_total") {
		t.Error("Expected poll load counter in metrics output")
	}
}
