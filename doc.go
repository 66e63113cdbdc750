// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the blockvote API server.

blockvote is a poll voting demo: a user connects a browser-style wallet,
browses polls and casts votes. A poll ends once it passes 2000 votes.

# Starting the Server

Every setting has a default, so the server starts with nothing set. It
then shows three sample polls and counts votes in memory:

	go run .

With a backend and a local node standing in for the wallet:

	DATABASE_URL=postgres://... WALLET_RPC_URL=http://localhost:8545 go run .

Or with flags:

	go run . -p 3000 -d blockvote.db -w ws://localhost:8546

A .env file in the working directory is loaded first.

# Configuration

  - PORT (-p): Server port (default: 3000)
  - DATABASE_URL (-d): postgres://, https:// (PostgREST) or a SQLite file
  - DATABASE_KEY (-k): API key for the PostgREST backend
  - WALLET_RPC_URL (-w): wallet JSON-RPC endpoint
  - CONFIRM_DELAY (--confirm-delay): simulated confirmation wait (default: 2s)
  - ADMIN_KEY_SALT (--admin-salt): enables POST /polls

# Architecture

  - wallet: connection controller and wallet providers
  - voting: poll list, vote flow and seed polls
  - store: PostgreSQL, SQLite and PostgREST persistence
  - events: WebSocket hub broadcasting state changes
  - metrics: Prometheus collectors
  - handlers, router, middleware: HTTP surface
  - models: shared types
  - auth: admin keys
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
