// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// RPCProvider adapts an Ethereum JSON-RPC endpoint (a local node, or a
// wallet bridge exposing eth_requestAccounts) to the Provider interface.
// accountsChanged and chainChanged are synthesized by polling.
type RPCProvider struct {
	client   *rpc.Client
	interval time.Duration

	mu       sync.Mutex
	handlers map[string][]Handler
	started  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// last observations; each has its own baseline so an endpoint that
	// lacks eth_chainId still reports account changes
	accounts     []string
	haveAccounts bool
	chainID      string
	haveChain    bool
}

// DialRPC connects to an http(s), ws(s) or IPC endpoint
func DialRPC(ctx context.Context, rawurl string, interval time.Duration) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet rpc: %w", err)
	}
	return NewRPCProvider(client, interval), nil
}

func NewRPCProvider(client *rpc.Client, interval time.Duration) *RPCProvider {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &RPCProvider{
		client:   client,
		interval: interval,
		handlers: make(map[string][]Handler),
	}
}

func (p *RPCProvider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, providerError(err)
	}
	return accounts, nil
}

func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, providerError(err)
	}
	return accounts, nil
}

func (p *RPCProvider) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := p.client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return "", providerError(err)
	}
	return chainID, nil
}

// Subscribe registers h and starts the change watcher on first use
func (p *RPCProvider) Subscribe(event string, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handlers[event] = append(p.handlers[event], h)
	if p.started {
		return
	}
	p.started = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.wg.Add(1)
	go p.watch(ctx)
}

// Close stops the watcher and the underlying client
func (p *RPCProvider) Close() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	p.client.Close()
}

func (p *RPCProvider) watch(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll compares against the previous observation; the first one only
// records a baseline
func (p *RPCProvider) poll(ctx context.Context) {
	callCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	accounts, accErr := p.Accounts(callCtx)
	chainID, chainErr := p.ChainID(callCtx)
	if accErr != nil {
		slog.Debug("wallet rpc account poll failed", "error", accErr)
	}
	if chainErr != nil {
		slog.Debug("wallet rpc chain poll failed", "error", chainErr)
	}

	p.mu.Lock()
	var fire []func()
	if accErr == nil {
		if p.haveAccounts && !slices.Equal(accounts, p.accounts) {
			payload := slices.Clone(accounts)
			for _, h := range p.handlers[EventAccountsChanged] {
				fire = append(fire, func() { h(payload) })
			}
		}
		p.accounts = accounts
		p.haveAccounts = true
	}
	if chainErr == nil {
		if p.haveChain && chainID != p.chainID {
			for _, h := range p.handlers[EventChainChanged] {
				fire = append(fire, func() { h(chainID) })
			}
		}
		p.chainID = chainID
		p.haveChain = true
	}
	p.mu.Unlock()

	for _, f := range fire {
		f()
	}
}

func providerError(err error) error {
	var rerr rpc.Error
	if errors.As(err, &rerr) {
		return &ProviderError{Code: rerr.ErrorCode(), Message: rerr.Error()}
	}
	return &ProviderError{Message: err.Error()}
}
