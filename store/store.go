// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/danielhkuo/blockvote/models"
)

var (
	// ErrNotFound reports a missing table (or relation) in the backend.
	ErrNotFound = errors.New("vote table not found")
	// ErrAccessDenied reports a row-level security or privilege failure.
	ErrAccessDenied = errors.New("access denied")
	// ErrUnreachable reports that the backend could not be contacted at all.
	ErrUnreachable = errors.New("backend unreachable")
)

// Store is the persistence collaborator backing poll storage.
type Store interface {
	// ListPolls returns every row ordered by created_at descending.
	// Access-denied and missing-table failures degrade to an empty result.
	ListPolls(ctx context.Context) ([]models.VoteRecord, error)
	// UpdateVoteCount sets vote_num for the row with the given id.
	UpdateVoteCount(ctx context.Context, id int64, voteNum int64) error
	// InsertPoll inserts a row and returns it with id and created_at set.
	InsertPoll(ctx context.Context, rec models.VoteRecord) (models.VoteRecord, error)
	Close() error
}
