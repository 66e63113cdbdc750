// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3000)
  - DatabaseURL: backend location; empty means votes stay in memory
  - DatabaseType: postgres, sqlite or rest (inferred from the URL)
  - DatabaseKey: API key for the rest backend
  - WalletRPCURL: wallet JSON-RPC endpoint; empty means no wallet
  - WalletPollInterval: account/network change polling (default: 2s)
  - ConfirmDelay: simulated confirmation wait per vote (default: 2s)
  - AdminKeySalt: secret for admin keys; empty disables poll creation

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-k              Backend API key
	-w              Wallet RPC URL
	--wallet-poll   Wallet poll interval
	--confirm-delay Confirmation delay
	--admin-salt    Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	DATABASE_KEY         → -k
	WALLET_RPC_URL       → -w
	WALLET_POLL_INTERVAL → --wallet-poll
	CONFIRM_DELAY        → --confirm-delay
	ADMIN_KEY_SALT       → --admin-salt

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing.

# Validation

  - PORT must be an integer
  - DATABASE_TYPE must be postgres, sqlite or rest
  - DATABASE_KEY is required for the rest backend
  - durations must parse with time.ParseDuration
*/
package cliparse
