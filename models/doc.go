// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Poll: in-memory poll with title, address, vote count
  - VoteRecord: one row of the vote table as stored by the backend
  - PollView: a poll plus its derived status, as returned to clients

# Derived Status

Status is never stored. It is recomputed from the vote count:

	models.StatusOf(1250) // "active"
	models.StatusOf(2100) // "ended"

A poll is ended iff its vote count exceeds EndedThreshold (2000).

# Request Types

  - CreatePollRequest: title, address

# Response Types

  - PollListResponse: polls, voting_id, error
  - VoteResponse: poll, message
  - CopyAddressResponse: address
  - ErrorResponse: error, message, install_url
*/
package models
