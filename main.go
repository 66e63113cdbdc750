package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/blockvote/auth"
	"github.com/danielhkuo/blockvote/cliparse"
	"github.com/danielhkuo/blockvote/events"
	"github.com/danielhkuo/blockvote/metrics"
	"github.com/danielhkuo/blockvote/middleware"
	"github.com/danielhkuo/blockvote/router"
	"github.com/danielhkuo/blockvote/store"
	"github.com/danielhkuo/blockvote/voting"
	"github.com/danielhkuo/blockvote/wallet"
)

func main() {
	var err error

	// A missing .env file is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the backend, if any
	var st store.Store
	switch cfg.DatabaseType {
	case "":
		slog.Warn("DATABASE_URL not set, votes will only be counted in memory")
	case "rest":
		st = store.NewRESTStore(cfg.DatabaseURL, cfg.DatabaseKey, nil)
		slog.Info("Using REST backend", "url", cfg.DatabaseURL)
	default:
		sqlStore, err := store.OpenSQL(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		st = sqlStore
		slog.Info("Database schema ready", "type", cfg.DatabaseType)
	}
	if st != nil {
		defer st.Close()
	}

	// Connect to the wallet, if any
	var provider wallet.Provider
	if cfg.WalletRPCURL != "" {
		rpcProvider, err := wallet.DialRPC(ctx, cfg.WalletRPCURL, cfg.WalletPollInterval)
		if err != nil {
			slog.Error("wallet connection failed", "error", err)
			os.Exit(1)
		}
		defer rpcProvider.Close()
		provider = rpcProvider
	} else {
		slog.Warn("WALLET_RPC_URL not set, wallet connection unavailable", "install_url", wallet.InstallURL)
	}

	var clip wallet.Clipboard
	if sys := (wallet.SystemClipboard{}); sys.Available() {
		clip = sys
	}

	m := metrics.NewMetrics("blockvote")
	hub := events.NewHub()
	go hub.Run(ctx)

	conn := wallet.NewConnection(provider, clip, hub, m)
	ctrl := voting.NewController(st, conn, cfg.ConfirmDelay, hub, m)

	conn.CheckExistingConnection(ctx)
	if err := ctrl.LoadPolls(ctx); err != nil {
		slog.Error("initial poll load failed", "error", err)
	}

	if cfg.AdminKeySalt != "" {
		slog.Info("Poll creation enabled", "admin_key", auth.GenerateAdminKey(auth.ScopeCreatePoll, cfg.AdminKeySalt))
	}

	// Create router
	mux := router.NewRouter(conn, ctrl, hub, m, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
