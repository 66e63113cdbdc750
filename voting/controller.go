// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/blockvote/events"
	"github.com/danielhkuo/blockvote/metrics"
	"github.com/danielhkuo/blockvote/models"
	"github.com/danielhkuo/blockvote/store"
)

// User-facing messages
const (
	MsgWalletRequired = "Please connect your wallet first"
	MsgLoadFailed     = "Failed to load polls"
)

var (
	ErrWalletRequired = errors.New("wallet not connected")
	ErrVoteInProgress = errors.New("another vote is in progress")
	ErrPollNotFound   = errors.New("poll not found")
	ErrPollEnded      = errors.New("poll has ended")
	ErrLoadFailed     = errors.New("failed to load polls")
	ErrInvalidTitle   = errors.New("title is required")
)

// PersistenceError is a backend failure that ended a vote attempt
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "vote could not be saved: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Gate reports whether a wallet is connected
type Gate interface {
	Connected() bool
}

// Controller owns the in-memory poll list and the vote-in-flight marker.
// A nil store means no backend is configured; votes are then local-only.
type Controller struct {
	mu           sync.Mutex
	store        store.Store
	gate         Gate
	publisher    events.Publisher
	metrics      *metrics.Metrics
	confirmDelay time.Duration

	polls     []models.Poll
	seeded    bool
	votingID  int64
	lastError string
}

func NewController(st store.Store, gate Gate, confirmDelay time.Duration, publisher events.Publisher, m *metrics.Metrics) *Controller {
	return &Controller{
		store:        st,
		gate:         gate,
		publisher:    publisher,
		metrics:      m,
		confirmDelay: confirmDelay,
		polls:        []models.Poll{},
	}
}

// LoadPolls replaces the list with the backend's rows, or the seed polls
// when there are none or the backend cannot be reached.
func (c *Controller) LoadPolls(ctx context.Context) error {
	var records []models.VoteRecord
	if c.store != nil {
		var err error
		records, err = c.store.ListPolls(ctx)
		if errors.Is(err, store.ErrUnreachable) {
			// same as an empty table: show the seed polls, count votes locally
			slog.Warn("backend unreachable, using seed polls", "error", err)
			records, err = nil, nil
		}
		if err != nil {
			slog.Error("failed to load polls", "error", err)
			c.mu.Lock()
			c.polls = []models.Poll{}
			c.seeded = false
			c.lastError = MsgLoadFailed
			c.mu.Unlock()
			c.metrics.ObserveLoad("failed")
			c.publish()
			return fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
	}

	polls := make([]models.Poll, 0, len(records))
	for _, rec := range records {
		polls = append(polls, models.PollFromRecord(rec))
	}
	seeded := len(polls) == 0
	if seeded {
		polls = SeedPolls()
		c.metrics.ObserveLoad("seed")
	} else {
		c.metrics.ObserveLoad("backend")
	}

	c.mu.Lock()
	c.polls = polls
	c.seeded = seeded
	c.lastError = ""
	c.mu.Unlock()

	slog.Info("polls loaded", "count", len(polls), "seeded", seeded)
	c.publish()
	return nil
}

// Vote adds one vote to pollID. The attempt is not cancellable: it runs to
// completion even if ctx is cancelled.
func (c *Controller) Vote(ctx context.Context, pollID int64) (models.Poll, error) {
	started := time.Now()

	if !c.gate.Connected() {
		c.setError(MsgWalletRequired)
		c.metrics.ObserveVote(metrics.VoteRejected, started)
		return models.Poll{}, ErrWalletRequired
	}

	c.mu.Lock()
	if c.votingID != 0 {
		c.mu.Unlock()
		return models.Poll{}, ErrVoteInProgress
	}
	idx := c.indexOf(pollID)
	if idx < 0 {
		c.mu.Unlock()
		return models.Poll{}, ErrPollNotFound
	}
	if c.polls[idx].Status() == models.StatusEnded {
		c.mu.Unlock()
		c.metrics.ObserveVote(metrics.VoteRejected, started)
		return models.Poll{}, ErrPollEnded
	}
	current := c.polls[idx].VoteNum
	c.votingID = pollID
	c.lastError = ""
	c.mu.Unlock()
	c.publish()

	ctx = context.WithoutCancel(ctx)

	// stands in for waiting on transaction confirmation
	if c.confirmDelay > 0 {
		time.Sleep(c.confirmDelay)
	}

	outcome := metrics.VotePersisted
	if c.store == nil {
		outcome = metrics.VoteLocalOnly
		slog.Info("no backend configured, counting vote locally", "poll_id", pollID)
	} else if err := c.store.UpdateVoteCount(ctx, pollID, current+1); err != nil {
		switch {
		case errors.Is(err, store.ErrAccessDenied):
			// Writes are refused without backend credentials; the vote is
			// still counted locally.
			outcome = metrics.VoteDenied
			slog.Warn("backend denied vote update, counting locally", "poll_id", pollID, "error", err)
		case errors.Is(err, store.ErrUnreachable):
			outcome = metrics.VoteLocalOnly
			slog.Warn("backend unreachable, counting vote locally", "poll_id", pollID, "error", err)
		default:
			perr := &PersistenceError{Err: err}
			slog.Error("vote failed", "poll_id", pollID, "error", err)
			c.mu.Lock()
			c.votingID = 0
			c.lastError = perr.Error()
			c.mu.Unlock()
			c.metrics.ObserveVote(metrics.VoteFailed, started)
			c.publish()
			return models.Poll{}, perr
		}
	}

	c.mu.Lock()
	var poll models.Poll
	if idx := c.indexOf(pollID); idx >= 0 {
		c.polls[idx].VoteNum++
		poll = c.polls[idx]
	}
	c.votingID = 0
	c.mu.Unlock()

	slog.Info("vote counted", "poll_id", pollID, "vote_num", poll.VoteNum, "outcome", outcome)
	c.metrics.ObserveVote(outcome, started)
	c.publish()
	return poll, nil
}

// CreatePoll inserts a new poll and prepends it to the list. A backend
// that refuses the insert gets the same treatment as a refused vote.
func (c *Controller) CreatePoll(ctx context.Context, title, address string) (models.Poll, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Poll{}, ErrInvalidTitle
	}
	if address == "" {
		address = models.ZeroAddress
	}

	rec := models.VoteRecord{Title: title, Address: address}
	persisted := false
	if c.store != nil {
		inserted, err := c.store.InsertPoll(ctx, rec)
		switch {
		case err == nil:
			rec = inserted
			persisted = true
		case errors.Is(err, store.ErrAccessDenied), errors.Is(err, store.ErrUnreachable):
			slog.Warn("backend refused poll insert, keeping it locally", "title", title, "error", err)
		default:
			return models.Poll{}, &PersistenceError{Err: err}
		}
	}

	c.mu.Lock()
	if persisted && c.seeded {
		// the backend has rows now; seed ids would collide with them
		c.polls = []models.Poll{}
		c.seeded = false
	}
	if !persisted {
		rec.ID = c.nextID()
		rec.CreatedAt = time.Now().UTC()
	}
	poll := models.PollFromRecord(rec)
	c.polls = append([]models.Poll{poll}, c.polls...)
	c.mu.Unlock()

	slog.Info("poll created", "poll_id", poll.ID, "persisted", persisted)
	c.publish()
	return poll, nil
}

// Polls returns the polls with the given status; "" returns all of them
func (c *Controller) Polls(status string) []models.Poll {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []models.Poll{}
	for _, p := range c.polls {
		if status == "" || p.Status() == status {
			out = append(out, p)
		}
	}
	return out
}

// VotingID returns the poll currently being voted on, or 0
func (c *Controller) VotingID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.votingID
}

// Error returns the page-level error message
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// State renders the page for the given status tab
func (c *Controller) State(status string) models.PollListResponse {
	polls := c.Polls(status)
	views := make([]models.PollView, 0, len(polls))
	for _, p := range polls {
		views = append(views, models.NewPollView(p))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return models.PollListResponse{
		Polls:    views,
		VotingID: c.votingID,
		Error:    c.lastError,
	}
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.lastError = msg
	c.mu.Unlock()
	c.publish()
}

// caller holds c.mu
func (c *Controller) indexOf(pollID int64) int {
	for i, p := range c.polls {
		if p.ID == pollID {
			return i
		}
	}
	return -1
}

// caller holds c.mu
func (c *Controller) nextID() int64 {
	var highest int64
	for _, p := range c.polls {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}

func (c *Controller) publish() {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(events.TypePolls, c.State(""))
}
