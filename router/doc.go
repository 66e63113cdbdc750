// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the blockvote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(conn, ctrl, hub, m, cfg)

# Endpoints

Health:

	GET /health

Wallet connection:

	GET  /wallet            - Connection state
	POST /wallet/check      - Pick up an authorized account silently
	POST /wallet/connect    - Prompt the wallet for access
	POST /wallet/disconnect - Forget the address
	POST /wallet/copy       - Copy the address to the clipboard

Polls:

	GET  /polls?status=  - List polls, optionally active or ended
	POST /polls/reload   - Reload from the backend
	POST /polls/{id}/vote - Add one vote
	POST /polls          - Create poll (requires X-Admin-Key)

Streams:

	GET /events  - WebSocket feed of wallet and poll state
	GET /metrics - Prometheus exposition
*/
package router
