// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"testing"

	"github.com/danielhkuo/blockvote/store"
	"github.com/danielhkuo/blockvote/testutil"
	"github.com/danielhkuo/blockvote/voting"
	"github.com/danielhkuo/blockvote/wallet"
)

const testAddress = "0x742d35cc6634c0532925a3b844bc454e4438f44e"

type testEnv struct {
	conn    *wallet.Connection
	ctrl    *voting.Controller
	wallets *WalletHandler
	polls   *PollHandler
}

// newTestEnv wires handlers over the given store and provider. Either may
// be nil to model a missing backend or wallet.
func newTestEnv(t *testing.T, st store.Store, provider wallet.Provider) *testEnv {
	t.Helper()

	conn := wallet.NewConnection(provider, nil, nil, nil)
	ctrl := voting.NewController(st, conn, 0, nil, nil)
	if err := ctrl.LoadPolls(context.Background()); err != nil {
		t.Fatalf("LoadPolls failed: %v", err)
	}

	cfg := testutil.GetTestConfig()
	return &testEnv{
		conn:    conn,
		ctrl:    ctrl,
		wallets: NewWalletHandler(conn),
		polls:   NewPollHandler(ctrl, cfg),
	}
}

// connectedEnv is newTestEnv with a wallet that has already connected
func connectedEnv(t *testing.T, st store.Store) *testEnv {
	t.Helper()

	env := newTestEnv(t, st, &testutil.FakeProvider{Requested: []string{testAddress}})
	if err := env.conn.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return env
}
