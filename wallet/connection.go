// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wallet

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/blockvote/events"
	"github.com/danielhkuo/blockvote/metrics"
)

// State is a snapshot of the wallet connection
type State struct {
	Address      string `json:"address"`
	ShortAddress string `json:"short_address,omitempty"`
	Connected    bool   `json:"connected"`
	Connecting   bool   `json:"connecting"`
	ChainID      string `json:"chain_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Connection owns the wallet connection state and mediates every call
// to the provider. A nil provider means no wallet is installed.
type Connection struct {
	mu         sync.Mutex
	provider   Provider
	clipboard  Clipboard
	publisher  events.Publisher
	metrics    *metrics.Metrics
	state      State
	subscribed bool
}

func NewConnection(provider Provider, clipboard Clipboard, publisher events.Publisher, m *metrics.Metrics) *Connection {
	return &Connection{
		provider:  provider,
		clipboard: clipboard,
		publisher: publisher,
		metrics:   m,
	}
}

// HasProvider reports whether a wallet provider is installed
func (c *Connection) HasProvider() bool {
	return c.provider != nil
}

// State returns a copy of the current connection state
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Connected gates voting
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Connected
}

// CheckExistingConnection picks up an already-authorized account without
// prompting. Failures leave the state disconnected and are not surfaced.
func (c *Connection) CheckExistingConnection(ctx context.Context) {
	if c.provider == nil {
		slog.Info("no wallet provider, skipping existing connection check")
		return
	}

	accounts, err := c.provider.Accounts(ctx)
	if err != nil {
		slog.Warn("existing connection check failed", "error", err)
		return
	}
	if len(accounts) == 0 {
		return
	}

	c.mu.Lock()
	c.state.Address = normalizeAddress(accounts[0])
	c.state.Connected = true
	c.mu.Unlock()

	slog.Info("wallet already connected", "address", accounts[0])
	c.publish()
}

// Connect prompts the provider for account access.
// Re-entry while connecting is not rejected here, see TryConnect.
func (c *Connection) Connect(ctx context.Context) error {
	return c.connect(ctx, false)
}

// TryConnect is Connect, but returns ErrConnectInProgress if another
// connect has not finished yet.
func (c *Connection) TryConnect(ctx context.Context) error {
	return c.connect(ctx, true)
}

func (c *Connection) connect(ctx context.Context, exclusive bool) error {
	if c.provider == nil {
		c.fail(ErrProviderUnavailable)
		return ErrProviderUnavailable
	}

	c.mu.Lock()
	if exclusive && c.state.Connecting {
		c.mu.Unlock()
		return ErrConnectInProgress
	}
	c.state.Connecting = true
	c.state.Error = ""
	c.mu.Unlock()
	c.publish()

	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		cerr := classify(err)
		slog.Warn("wallet connect failed", "error", err)
		c.fail(cerr)
		return cerr
	}

	c.mu.Lock()
	c.state.Connecting = false
	if len(accounts) == 0 {
		c.state.Address = ""
		c.state.Connected = false
		c.mu.Unlock()
		c.metrics.ObserveConnect("no_accounts")
		c.publish()
		return nil
	}
	c.state.Address = normalizeAddress(accounts[0])
	c.state.Connected = true
	c.state.Error = ""
	subscribe := !c.subscribed
	c.subscribed = true
	c.mu.Unlock()

	if subscribe {
		c.provider.Subscribe(EventAccountsChanged, c.onAccountsChanged)
		c.provider.Subscribe(EventChainChanged, c.onChainChanged)
	}

	slog.Info("wallet connected", "address", accounts[0])
	c.metrics.ObserveConnect("connected")
	c.publish()
	return nil
}

// Disconnect forgets the address. Provider subscriptions stay registered.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	c.state.Address = ""
	c.state.Connected = false
	c.state.Error = ""
	c.mu.Unlock()

	slog.Info("wallet disconnected")
	c.publish()
}

// CopyAddress copies the current address to the clipboard and returns it.
// Clipboard failures are logged only.
func (c *Connection) CopyAddress() string {
	addr := c.State().Address
	if addr == "" {
		return ""
	}
	if c.clipboard == nil {
		slog.Warn("no clipboard available, address not copied")
		return addr
	}
	if err := c.clipboard.WriteAll(addr); err != nil {
		slog.Error("failed to copy address", "error", err)
	}
	return addr
}

func (c *Connection) onAccountsChanged(payload any) {
	accounts, ok := payload.([]string)
	if !ok {
		slog.Warn("unexpected accountsChanged payload", "payload", payload)
		return
	}

	c.mu.Lock()
	if len(accounts) == 0 {
		c.state.Address = ""
		c.state.Connected = false
	} else {
		c.state.Address = normalizeAddress(accounts[0])
		c.state.Connected = true
	}
	c.mu.Unlock()

	slog.Info("wallet accounts changed", "count", len(accounts))
	c.publish()
}

func (c *Connection) onChainChanged(payload any) {
	chainID, _ := payload.(string)

	c.mu.Lock()
	c.state.ChainID = chainID
	c.mu.Unlock()

	slog.Info("wallet network changed", "chain_id", chainID)
}

func (c *Connection) fail(err error) {
	c.mu.Lock()
	c.state.Connecting = false
	c.state.Connected = false
	c.state.Address = ""
	c.state.Error = Message(err)
	c.mu.Unlock()

	c.metrics.ObserveConnect(outcome(err))
	c.publish()
}

func (c *Connection) snapshot() State {
	s := c.state
	s.ShortAddress = ShortAddress(s.Address)
	return s
}

func (c *Connection) publish() {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(events.TypeWallet, c.State())
}

// Message is the user-facing text for a connection error
func Message(err error) string {
	var pe *ProviderError
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		return "Wallet provider not found. Install MetaMask to continue."
	case errors.Is(err, ErrUserDeclined):
		return "You declined the connection request."
	case errors.Is(err, ErrRequestPending):
		return "A connection request is already pending. Open your wallet to finish it."
	case errors.As(err, &pe):
		return "Failed to connect wallet: " + pe.Message
	}
	return "Failed to connect wallet: " + err.Error()
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, ErrUserDeclined):
		return "declined"
	case errors.Is(err, ErrRequestPending):
		return "pending"
	}
	return "error"
}

// ShortAddress abbreviates an address for display, e.g. 0x742d...f44e
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// normalizeAddress applies the EIP-55 checksum to hex addresses
func normalizeAddress(addr string) string {
	if common.IsHexAddress(addr) {
		return common.HexToAddress(addr).Hex()
	}
	return addr
}
