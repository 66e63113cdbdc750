// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/blockvote/middleware"
	"github.com/danielhkuo/blockvote/models"
	"github.com/danielhkuo/blockvote/wallet"
)

type WalletHandler struct {
	conn *wallet.Connection
}

func NewWalletHandler(conn *wallet.Connection) *WalletHandler {
	return &WalletHandler{conn: conn}
}

// GetState handles GET /wallet
func (h *WalletHandler) GetState(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.conn.State())
}

// Check handles POST /wallet/check
// Failures are silent, so this always returns the resulting state.
func (h *WalletHandler) Check(w http.ResponseWriter, r *http.Request) {
	h.conn.CheckExistingConnection(r.Context())
	middleware.JSONResponse(w, http.StatusOK, h.conn.State())
}

// Connect handles POST /wallet/connect
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	err := h.conn.TryConnect(r.Context())
	if err == nil {
		middleware.JSONResponse(w, http.StatusOK, h.conn.State())
		return
	}
	if errors.Is(err, wallet.ErrConnectInProgress) {
		middleware.ErrorResponse(w, http.StatusConflict, "Connection already in progress")
		return
	}

	msg := wallet.Message(err)
	switch {
	case errors.Is(err, wallet.ErrProviderUnavailable):
		middleware.JSONResponse(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Error:      http.StatusText(http.StatusServiceUnavailable),
			Message:    msg,
			InstallURL: wallet.InstallURL,
		})
	case errors.Is(err, wallet.ErrUserDeclined):
		middleware.ErrorResponse(w, http.StatusForbidden, msg)
	case errors.Is(err, wallet.ErrRequestPending):
		middleware.ErrorResponse(w, http.StatusConflict, msg)
	default:
		middleware.ErrorResponse(w, http.StatusBadGateway, msg)
	}
}

// Disconnect handles POST /wallet/disconnect
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.conn.Disconnect()
	middleware.JSONResponse(w, http.StatusOK, h.conn.State())
}

// Copy handles POST /wallet/copy
func (h *WalletHandler) Copy(w http.ResponseWriter, r *http.Request) {
	addr := h.conn.CopyAddress()
	if addr == "" {
		middleware.ErrorResponse(w, http.StatusConflict, "No wallet address to copy")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.CopyAddressResponse{Address: addr})
}
