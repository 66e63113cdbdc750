package models

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Poll status constants
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// EndedThreshold is the vote count above which a poll counts as ended.
const EndedThreshold = 2000

// ZeroAddress is the originating address of polls with no known creator.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// StatusOf derives a poll's status from its vote count.
func StatusOf(voteNum int64) string {
	if voteNum > EndedThreshold {
		return StatusEnded
	}
	return StatusActive
}

// Persistence types

// VoteRecord is one row of the vote table
type VoteRecord struct {
	ID        int64     `json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Title     string    `json:"title"`
	Address   string    `json:"address"`
	VoteNum   int64     `json:"vote_num"`
}

// Domain types

type Poll struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address"`
	EndDate     string    `json:"end_date,omitempty"`
	VoteNum     int64     `json:"vote_num"`
}

// Status is never stored, see StatusOf
func (p Poll) Status() string {
	return StatusOf(p.VoteNum)
}

// PollFromRecord converts a persisted row into an in-memory poll
func PollFromRecord(rec VoteRecord) Poll {
	return Poll{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Title:     rec.Title,
		Address:   rec.Address,
		VoteNum:   rec.VoteNum,
	}
}

// PollView is a poll as rendered to clients, with its derived status
type PollView struct {
	Poll
	Status     string `json:"status"`
	VotesLabel string `json:"votes_label"`
}

func NewPollView(p Poll) PollView {
	return PollView{
		Poll:       p,
		Status:     p.Status(),
		VotesLabel: humanize.Comma(p.VoteNum) + " 票",
	}
}

// Request types

type CreatePollRequest struct {
	Title   string `json:"title"`
	Address string `json:"address"`
}

// Response types

type PollListResponse struct {
	Polls    []PollView `json:"polls"`
	VotingID int64      `json:"voting_id,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type VoteResponse struct {
	Poll    PollView `json:"poll"`
	Message string   `json:"message"`
}

type CopyAddressResponse struct {
	Address string `json:"address"`
}

// Error response

type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	InstallURL string `json:"install_url,omitempty"`
}
