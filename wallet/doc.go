// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wallet owns the wallet connection state machine.

# State Machine

	disconnected --Connect--> connecting --success--> connected
	connecting --failure--> disconnected (error set)
	connected --Disconnect--> disconnected
	connected --accountsChanged([])--> disconnected
	connected --accountsChanged([a, ...])--> connected (address = a)

chainChanged is recorded in State.ChainID and logged; it never changes the
connection itself.

# Providers

Connection talks to a Provider:

	type Provider interface {
		Accounts(ctx) ([]string, error)        // no prompt
		RequestAccounts(ctx) ([]string, error) // prompts the user
		Subscribe(event string, h Handler)
	}

A nil Provider means no wallet is installed; Connect then fails with
ErrProviderUnavailable and callers point the user at InstallURL.

RPCProvider implements Provider over Ethereum JSON-RPC using go-ethereum's
rpc client. Account and network changes are detected by polling
eth_accounts and eth_chainId.

# Errors

Provider errors carry EIP-1193 codes:

  - 4001 → ErrUserDeclined
  - -32002 → ErrRequestPending
  - anything else → *ProviderError with the provider's message

Message converts any of these into the text shown to the user.
*/
package wallet
