// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the blockvote API.

# Handler Types

  - WalletHandler: wallet connection state and actions
  - PollHandler: poll listing, voting and creation

Handlers wrap the controllers built in main:

	walletHandler := handlers.NewWalletHandler(conn)
	pollHandler := handlers.NewPollHandler(ctrl, cfg)

# Status Mapping

Connect:

	503 no wallet provider (body carries install_url)
	403 user declined
	409 request already pending, or another connect is in progress
	502 any other provider failure

Vote:

	400 id is not a positive integer
	401 wallet not connected
	404 unknown poll
	409 another vote is in flight, or the poll has ended
	502 backend failure that is not access-denied or unreachable

A backend that denies the write, or cannot be reached, still yields 200:
the vote is counted locally.

CreatePoll requires the X-Admin-Key header and answers 403 when no
admin salt is configured.
*/
package handlers
