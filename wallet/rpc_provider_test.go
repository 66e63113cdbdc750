// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wallet_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/blockvote/wallet"
)

type codedError struct {
	code int
	msg  string
}

func (e *codedError) Error() string  { return e.msg }
func (e *codedError) ErrorCode() int { return e.code }

// fakeEth serves the eth_ namespace subset the provider uses
type fakeEth struct {
	mu         sync.Mutex
	accounts   []string
	chainID    string
	requestErr error
}

func (s *fakeEth) Accounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts
}

func (s *fakeEth) RequestAccounts() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requestErr != nil {
		return nil, s.requestErr
	}
	return s.accounts, nil
}

func (s *fakeEth) ChainId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chainID
}

func (s *fakeEth) set(accounts []string, chainID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.chainID = chainID
}

// accountsOnlyEth has no eth_chainId, like some wallet bridges
type accountsOnlyEth struct {
	mu       sync.Mutex
	accounts []string
}

func (s *accountsOnlyEth) Accounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts
}

func (s *accountsOnlyEth) RequestAccounts() []string {
	return s.Accounts()
}

func (s *accountsOnlyEth) set(accounts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
}

func newTestRPCProvider(t *testing.T, svc any) *wallet.RPCProvider {
	t.Helper()
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", svc))
	t.Cleanup(srv.Stop)

	p := wallet.NewRPCProvider(rpc.DialInProc(srv), 10*time.Millisecond)
	t.Cleanup(p.Close)
	return p
}

func TestRPCProvider_Accounts(t *testing.T) {
	svc := &fakeEth{accounts: []string{addrA}, chainID: "0x1"}
	p := newTestRPCProvider(t, svc)

	accounts, err := p.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{addrA}, accounts)

	accounts, err = p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{addrA}, accounts)

	chainID, err := p.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x1", chainID)
}

func TestRPCProvider_ErrorCodes(t *testing.T) {
	svc := &fakeEth{requestErr: &codedError{code: wallet.CodeUserRejected, msg: "User rejected the request."}}
	p := newTestRPCProvider(t, svc)

	_, err := p.RequestAccounts(context.Background())

	var pe *wallet.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, wallet.CodeUserRejected, pe.Code)

	conn := wallet.NewConnection(p, nil, nil, nil)
	require.ErrorIs(t, conn.Connect(context.Background()), wallet.ErrUserDeclined)
}

func TestRPCProvider_WatchesChanges(t *testing.T) {
	svc := &fakeEth{accounts: []string{addrA}, chainID: "0x1"}
	p := newTestRPCProvider(t, svc)

	accountsCh := make(chan []string, 4)
	chainCh := make(chan string, 4)
	p.Subscribe(wallet.EventAccountsChanged, func(payload any) {
		accountsCh <- payload.([]string)
	})
	p.Subscribe(wallet.EventChainChanged, func(payload any) {
		chainCh <- payload.(string)
	})

	// let the watcher record its baseline
	time.Sleep(50 * time.Millisecond)
	svc.set([]string{addrB}, "0x89")

	select {
	case accounts := <-accountsCh:
		assert.Equal(t, []string{addrB}, accounts)
	case <-time.After(2 * time.Second):
		t.Fatal("accountsChanged was not delivered")
	}

	select {
	case chainID := <-chainCh:
		assert.Equal(t, "0x89", chainID)
	case <-time.After(2 * time.Second):
		t.Fatal("chainChanged was not delivered")
	}
}

func TestRPCProvider_DrivesConnection(t *testing.T) {
	svc := &fakeEth{accounts: []string{addrA}, chainID: "0x1"}
	p := newTestRPCProvider(t, svc)
	conn := wallet.NewConnection(p, nil, nil, nil)

	require.NoError(t, conn.Connect(context.Background()))
	time.Sleep(50 * time.Millisecond)

	svc.set([]string{}, "0x1")

	assert.Eventually(t, func() bool { return !conn.Connected() }, 2*time.Second, 10*time.Millisecond)
}

func TestRPCProvider_AccountsChangedWithoutChainID(t *testing.T) {
	svc := &accountsOnlyEth{accounts: []string{addrA}}
	p := newTestRPCProvider(t, svc)

	_, err := p.ChainID(context.Background())
	require.Error(t, err)

	accountsCh := make(chan []string, 4)
	p.Subscribe(wallet.EventAccountsChanged, func(payload any) {
		accountsCh <- payload.([]string)
	})

	time.Sleep(50 * time.Millisecond)
	svc.set([]string{addrB})

	select {
	case accounts := <-accountsCh:
		assert.Equal(t, []string{addrB}, accounts)
	case <-time.After(2 * time.Second):
		t.Fatal("accountsChanged was not delivered")
	}
}
