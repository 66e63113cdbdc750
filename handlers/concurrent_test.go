// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/blockvote/models"
	"github.com/danielhkuo/blockvote/testutil"
)

// TestConcurrentVotes verifies that while one vote is in flight every
// other vote request is turned away and the count moves by exactly one
func TestConcurrentVotes(t *testing.T) {
	fake := &testutil.FakeStore{
		Records: []models.VoteRecord{
			{ID: 1, Title: "A", Address: models.ZeroAddress, VoteNum: 100, CreatedAt: time.Now()},
			{ID: 2, Title: "B", Address: models.ZeroAddress, VoteNum: 200, CreatedAt: time.Now()},
		},
		Block: make(chan struct{}),
	}
	env := connectedEnv(t, fake)

	first := make(chan int, 1)
	go func() {
		w := httptest.NewRecorder()
		env.polls.Vote(w, voteRequest("1"))
		first <- w.Code
	}()

	// Wait for the first vote to claim the in-flight marker
	deadline := time.Now().Add(2 * time.Second)
	for env.ctrl.VotingID() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first vote never started")
		}
		time.Sleep(time.Millisecond)
	}

	numVoters := 10
	var conflicts atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			id := "1"
			if i%2 == 1 {
				id = "2"
			}
			w := httptest.NewRecorder()
			env.polls.Vote(w, voteRequest(id))

			if w.Code == http.StatusConflict {
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if int(conflicts.Load()) != numVoters {
		t.Errorf("Expected %d conflicts, got %d", numVoters, conflicts.Load())
	}

	close(fake.Block)
	if code := <-first; code != http.StatusOK {
		t.Errorf("Expected first vote to succeed, got %d", code)
	}

	polls := env.ctrl.Polls("")
	counts := map[int64]int64{}
	for _, p := range polls {
		counts[p.ID] = p.VoteNum
	}
	if counts[1] != 101 || counts[2] != 200 {
		t.Errorf("Expected counts 101/200, got %d/%d", counts[1], counts[2])
	}
	if fake.Updates[1] != 101 {
		t.Errorf("Expected backend update to 101, got %d", fake.Updates[1])
	}
}

// TestConcurrentConnects verifies that a second connect request made
// while the wallet prompt is open is turned away
func TestConcurrentConnects(t *testing.T) {
	provider := &testutil.FakeProvider{Requested: []string{testAddress}, Block: make(chan struct{})}
	env := newTestEnv(t, nil, provider)

	first := make(chan int, 1)
	go func() {
		w := httptest.NewRecorder()
		env.wallets.Connect(w, testutil.MakeRequest("POST", "/wallet/connect", nil, nil))
		first <- w.Code
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !env.conn.State().Connecting {
		if time.Now().After(deadline) {
			t.Fatal("first connect never started")
		}
		time.Sleep(time.Millisecond)
	}

	numRequests := 5
	var conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			env.wallets.Connect(w, testutil.MakeRequest("POST", "/wallet/connect", nil, nil))
			if w.Code == http.StatusConflict {
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	if int(conflicts.Load()) != numRequests {
		t.Errorf("Expected %d conflicts, got %d", numRequests, conflicts.Load())
	}

	close(provider.Block)
	if code := <-first; code != http.StatusOK {
		t.Errorf("Expected first connect to succeed, got %d", code)
	}
	if !env.conn.Connected() {
		t.Error("Expected connected state")
	}
}
