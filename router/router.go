// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/blockvote/cliparse"
	"github.com/danielhkuo/blockvote/events"
	"github.com/danielhkuo/blockvote/handlers"
	"github.com/danielhkuo/blockvote/metrics"
	"github.com/danielhkuo/blockvote/middleware"
	"github.com/danielhkuo/blockvote/voting"
	"github.com/danielhkuo/blockvote/wallet"
)

func NewRouter(conn *wallet.Connection, ctrl *voting.Controller, hub *events.Hub, m *metrics.Metrics, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	walletHandler := handlers.NewWalletHandler(conn)
	pollHandler := handlers.NewPollHandler(ctrl, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Wallet connection
	mux.HandleFunc("GET /wallet", middleware.WithLogging(walletHandler.GetState))
	mux.HandleFunc("POST /wallet/check", middleware.WithLogging(walletHandler.Check))
	mux.HandleFunc("POST /wallet/connect", middleware.WithLogging(walletHandler.Connect))
	mux.HandleFunc("POST /wallet/disconnect", middleware.WithLogging(walletHandler.Disconnect))
	mux.HandleFunc("POST /wallet/copy", middleware.WithLogging(walletHandler.Copy))

	// Polls and voting
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("POST /polls/reload", middleware.WithLogging(pollHandler.Reload))
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(pollHandler.Vote))

	// Poll creation (admin, requires X-Admin-Key)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))

	// Live state stream and metrics
	mux.HandleFunc("GET /events", hub.ServeWS)
	mux.Handle("GET /metrics", m.Handler())

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("blockvote API v1"))
	})

	return mux
}
