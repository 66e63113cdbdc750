// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/blockvote/auth"
	"github.com/danielhkuo/blockvote/cliparse"
	"github.com/danielhkuo/blockvote/middleware"
	"github.com/danielhkuo/blockvote/models"
	"github.com/danielhkuo/blockvote/voting"
)

type PollHandler struct {
	ctrl *voting.Controller
	cfg  cliparse.Config
}

func NewPollHandler(ctrl *voting.Controller, cfg cliparse.Config) *PollHandler {
	return &PollHandler{ctrl: ctrl, cfg: cfg}
}

// ListPolls handles GET /polls?status=active|ended
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", models.StatusActive, models.StatusEnded:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be active or ended")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.ctrl.State(status))
}

// Reload handles POST /polls/reload
func (h *PollHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.LoadPolls(r.Context()); err != nil {
		middleware.JSONResponse(w, http.StatusInternalServerError, h.ctrl.State(""))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.ctrl.State(""))
}

// Vote handles POST /polls/{id}/vote
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || pollID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id must be a positive integer")
		return
	}

	poll, err := h.ctrl.Vote(r.Context(), pollID)
	if err != nil {
		var perr *voting.PersistenceError
		switch {
		case errors.Is(err, voting.ErrWalletRequired):
			middleware.ErrorResponse(w, http.StatusUnauthorized, voting.MsgWalletRequired)
		case errors.Is(err, voting.ErrPollNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		case errors.Is(err, voting.ErrVoteInProgress):
			middleware.ErrorResponse(w, http.StatusConflict, "Another vote is in progress")
		case errors.Is(err, voting.ErrPollEnded):
			middleware.ErrorResponse(w, http.StatusConflict, "Poll has ended")
		case errors.As(err, &perr):
			middleware.ErrorResponse(w, http.StatusBadGateway, perr.Error())
		default:
			slog.Error("unexpected vote error", "poll_id", pollID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Vote failed")
		}
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Poll:    models.NewPollView(poll),
		Message: "Vote counted",
	})
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	// Validate admin key
	adminKey := r.Header.Get(auth.AdminKeyHeader)
	if err := auth.ValidateAdminKey(auth.ScopeCreatePoll, adminKey, h.cfg.AdminKeySalt); err != nil {
		if errors.Is(err, auth.ErrAdminDisabled) {
			middleware.ErrorResponse(w, http.StatusForbidden, "Poll creation is disabled")
			return
		}
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.ctrl.CreatePoll(r.Context(), req.Title, req.Address)
	if err != nil {
		var perr *voting.PersistenceError
		switch {
		case errors.Is(err, voting.ErrInvalidTitle):
			middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		case errors.As(err, &perr):
			slog.Error("failed to insert poll", "error", err)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to create poll")
		default:
			slog.Error("failed to create poll", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		}
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.NewPollView(poll))
}
