// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wallet

import (
	"context"
	"errors"
	"fmt"
)

// Provider notification events
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// EIP-1193 provider error codes
const (
	CodeUserRejected   = 4001
	CodeRequestPending = -32002
)

// InstallURL is where users without a wallet provider are sent
const InstallURL = "https://metamask.io/download/"

var (
	ErrProviderUnavailable = errors.New("wallet provider not found")
	ErrUserDeclined        = errors.New("user declined the connection request")
	ErrRequestPending      = errors.New("a connection request is already pending in the wallet")
	ErrConnectInProgress   = errors.New("a connection attempt is already in progress")
)

// Handler receives a notification payload: []string for accountsChanged,
// the chain id string for chainChanged.
type Handler func(payload any)

// Provider is the capability interface of a wallet.
type Provider interface {
	// Accounts returns already-authorized accounts without prompting.
	Accounts(ctx context.Context) ([]string, error)
	// RequestAccounts prompts the user for account access.
	RequestAccounts(ctx context.Context) ([]string, error)
	// Subscribe registers h for event. Subscriptions last for the
	// provider's lifetime.
	Subscribe(event string, h Handler)
}

// ProviderError is a failure reported by the wallet provider
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message)
}

// classify maps provider error codes onto the connection error taxonomy
func classify(err error) error {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return &ProviderError{Message: err.Error()}
	}
	switch pe.Code {
	case CodeUserRejected:
		return ErrUserDeclined
	case CodeRequestPending:
		return ErrRequestPending
	}
	return pe
}
