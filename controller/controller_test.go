package controller

import (
	"encoding/hex"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/hodlvoice/blockheight"
	"github.com/lightninglabs/hodlvoice/cache"
	"github.com/lightninglabs/hodlvoice/clnrpc"
	"github.com/lightninglabs/hodlvoice/hodlerr"
	"github.com/lightninglabs/hodlvoice/hodlstate"
	"github.com/lightninglabs/hodlvoice/store"
)

// fakeInvoices is a fixed table of invoice terms keyed by hex payment hash,
// standing in for the host's listinvoices RPC.
type fakeInvoices struct {
	mu      sync.Mutex
	entries map[string]clnrpc.ListInvoicesEntry
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{entries: make(map[string]clnrpc.ListInvoicesEntry)}
}

func (f *fakeInvoices) add(hash chainhash.Hash, amountMsat uint64, expiresAt int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[hex.EncodeToString(hash[:])] = clnrpc.ListInvoicesEntry{
		PaymentHash: hex.EncodeToString(hash[:]),
		AmountMsat:  fmt.Sprintf("%dmsat", amountMsat),
		ExpiresAt:   expiresAt,
	}
}

func (f *fakeInvoices) ListInvoices(label, paymentHash string) ([]clnrpc.ListInvoicesEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[paymentHash]
	if !ok {
		return nil, nil
	}
	return []clnrpc.ListInvoicesEntry{e}, nil
}

// fakeStateStore is an in-memory generational store, standing in for
// *store.Store over a fake host datastore.
type fakeStateStore struct {
	mu      sync.Mutex
	entries map[chainhash.Hash]store.StateEntry
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{entries: make(map[chainhash.Hash]store.StateEntry)}
}

func (f *fakeStateStore) seed(hash chainhash.Hash, state hodlstate.HodlState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[hash] = store.StateEntry{State: state, Generation: 0}
}

func (f *fakeStateStore) GetState(hash chainhash.Hash) (*store.StateEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[hash]
	if !ok {
		return nil, hodlerr.New(hodlerr.KindMissing, "no entry")
	}
	return &e, nil
}

func (f *fakeStateStore) SetHTLCExpiry(hash chainhash.Hash, cltvExpiry uint32) error {
	return nil
}

func (f *fakeStateStore) UpdateState(hash chainhash.Hash, state hodlstate.HodlState, expectedGeneration uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[hash]
	if !ok || e.Generation != expectedGeneration {
		return 0, hodlerr.New(hodlerr.KindRPC, "cas failed")
	}
	newGen := e.Generation + 1
	f.entries[hash] = store.StateEntry{State: state, Generation: newGen}
	return newGen, nil
}

func testHash(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

// newTestController wires a Controller with short intervals so polling
// loops converge quickly under test.
func newTestController(rpc invoiceFetcher, st stateStore) *Controller {
	c := New(rpc, st, cache.New(), blockheight.New(1_000_000), 40)
	c.PollInterval = time.Millisecond
	c.RetryBackoff = time.Millisecond
	return c
}

type decisionOrError struct {
	decision Decision
	err      error
}

func awaitDecision(t *testing.T, fn func() (Decision, error)) (Decision, error) {
	t.Helper()
	done := make(chan decisionOrError, 1)
	go func() {
		d, err := fn()
		done <- decisionOrError{d, err}
	}()

	select {
	case res := <-done:
		return res.decision, res.err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a terminal decision")
		return Fail, nil
	}
}

func TestNotHodlInvoicePassesThrough(t *testing.T) {
	rpc := newFakeInvoices()
	st := newFakeStateStore()
	c := newTestController(rpc, st)

	hash := testHash(1)
	htlc := &HTLC{PaymentHash: hash, CltvExpiry: 1_100_000, AmountMsat: 1000}

	d, err := c.OnHTLCAccepted(htlc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != Continue {
		t.Fatalf("expected Continue for an untracked payment hash, got %v", d)
	}
}

// TestHoldReportsFatalOnVanishedCacheEntry exercises the Fatal-kind error
// path: if the cache entry for a live holding loop disappears (e.g. a
// concurrent cleanup/reconcile race), OnHTLCAccepted must surface a non-nil
// error rather than report the ordinary Fail decision, so the hook dispatch
// layer can propagate it to the host as a JSON-RPC error instead of a
// routine continue-or-fail outcome.
func TestHoldReportsFatalOnVanishedCacheEntry(t *testing.T) {
	rpc := newFakeInvoices()
	st := newFakeStateStore()
	c := newTestController(rpc, st)

	hash := testHash(42)
	st.seed(hash, hodlstate.Open)
	// Never covered by the HTLC amount below, so the loop keeps polling
	// instead of reaching a terminal decision on its own.
	rpc.add(hash, 10_000, time.Now().Unix()+3600)

	htlc := &HTLC{PaymentHash: hash, CltvExpiry: 1_100_000, AmountMsat: 100}

	go func() {
		for i := 0; i < 500; i++ {
			if _, ok := c.Cache.States.Get(hash); ok {
				c.Cache.States.Delete(hash)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	decision, err := awaitDecision(t, func() (Decision, error) {
		return c.OnHTLCAccepted(htlc)
	})

	if err == nil {
		t.Fatal("expected a Fatal error when the cache entry vanishes mid-loop")
	}
	if !hodlerr.Is(err, hodlerr.KindFatal) {
		t.Fatalf("expected KindFatal, got %v", err)
	}
	if decision != Fail {
		t.Fatalf("expected the accompanying decision to be Fail, got %v", decision)
	}
}

func TestHappySettle(t *testing.T) {
	rpc := newFakeInvoices()
	st := newFakeStateStore()
	c := newTestController(rpc, st)

	hash := testHash(2)
	st.seed(hash, hodlstate.Open)
	rpc.add(hash, 1000, time.Now().Unix()+3600)

	htlc := &HTLC{PaymentHash: hash, CltvExpiry: 1_100_000, AmountMsat: 1000}

	decision, err := awaitDecision(t, func() (Decision, error) {
		// Give the holding loop a moment to reach Accepted, then
		// simulate the operator settling (picked up by the
		// reconciler, which folds the authoritative state straight
		// into the cache).
		go func() {
			for i := 0; i < 200; i++ {
				if entry, ok := c.Cache.States.Get(hash); ok && entry.State == hodlstate.Accepted {
					c.Cache.States.Set(hash, cache.Entry{State: hodlstate.Settled, Generation: entry.Generation})
					return
				}
				time.Sleep(time.Millisecond)
			}
		}()
		return c.OnHTLCAccepted(htlc)
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision != Continue {
		t.Fatalf("expected Continue after settle, got %v", decision)
	}
}

func TestMultiPartHappySettle(t *testing.T) {
	rpc := newFakeInvoices()
	st := newFakeStateStore()
	c := newTestController(rpc, st)

	hash := testHash(3)
	st.seed(hash, hodlstate.Open)
	rpc.add(hash, 2000, time.Now().Unix()+3600)

	htlc1 := &HTLC{PaymentHash: hash, CltvExpiry: 1_100_000, AmountMsat: 1200}
	htlc2 := &HTLC{PaymentHash: hash, CltvExpiry: 1_100_000, AmountMsat: 900}

	var wg sync.WaitGroup
	results := make([]Decision, 2)
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); results[0], errs[0] = c.OnHTLCAccepted(htlc1) }()
	go func() { defer wg.Done(); results[1], errs[1] = c.OnHTLCAccepted(htlc2) }()

	// Once both parts are in and the invoice is fully covered, simulate
	// the operator settling.
	go func() {
		for i := 0; i < 500; i++ {
			if entry, ok := c.Cache.States.Get(hash); ok && entry.State == hodlstate.Accepted {
				c.Cache.States.Set(hash, cache.Entry{State: hodlstate.Settled, Generation: entry.Generation})
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for both HTLC parts to settle")
	}

	for i, d := range results {
		if errs[i] != nil {
			t.Fatalf("htlc %d: unexpected error: %v", i, errs[i])
		}
		if d != Continue {
			t.Fatalf("htlc %d: expected Continue, got %v", i, d)
		}
	}
}

func TestUnderpaidInvoiceExpiryCancels(t *testing.T) {
	rpc := newFakeInvoices()
	st := newFakeStateStore()
	c := newTestController(rpc, st)

	hash := testHash(4)
	st.seed(hash, hodlstate.Open)
	// Invoice is already within the expiry margin: the holding loop must
	// cancel rather than wait forever for the remaining amount.
	rpc.add(hash, 2000, time.Now().Unix()+10)

	htlc := &HTLC{PaymentHash: hash, CltvExpiry: 1_100_000, AmountMsat: 500}

	decision, err := awaitDecision(t, func() (Decision, error) {
		return c.OnHTLCAccepted(htlc)
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision != Fail {
		t.Fatalf("expected Fail for an underpaid, expiring invoice, got %v", decision)
	}

	entry, err := st.GetState(hash)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if entry.State != hodlstate.Canceled {
		t.Fatalf("expected persisted state Canceled, got %v", entry.State)
	}
}

func TestHTLCTimeoutRevertsToOpenWhenStillCovered(t *testing.T) {
	rpc := newFakeInvoices()
	st := newFakeStateStore()
	c := newTestController(rpc, st)

	hash := testHash(5)
	st.seed(hash, hodlstate.Open)
	rpc.add(hash, 1000, time.Now().Unix()+3600)

	// At height 1_000_000 with cltv-delta 40, the timeout threshold is
	// 1_000_046: both HTLCs start out held.
	htlc1 := &HTLC{PaymentHash: hash, CltvExpiry: 1_100_000, AmountMsat: 600}
	htlc2 := &HTLC{PaymentHash: hash, CltvExpiry: 1_000_050, AmountMsat: 500}

	var d1, d2 Decision
	var e1, e2 error
	done1 := make(chan struct{})
	done2 := make(chan struct{})
	go func() { defer close(done1); d1, e1 = c.OnHTLCAccepted(htlc1) }()
	go func() { defer close(done2); d2, e2 = c.OnHTLCAccepted(htlc2) }()

	// Wait for the invoice to become fully covered (Accepted), then move
	// the chain tip forward to 1_000_010 (threshold 1_000_056) so htlc2
	// (amount 500) times out while htlc1 (cltv 1_100_000) keeps holding.
	for i := 0; i < 500; i++ {
		if entry, ok := c.Cache.States.Get(hash); ok && entry.State == hodlstate.Accepted {
			break
		}
		time.Sleep(time.Millisecond)
	}
	c.Height.Set(1_000_010)

	select {
	case <-done2:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for htlc2 to time out")
	}

	if e2 != nil {
		t.Fatalf("htlc2: unexpected error: %v", e2)
	}
	if d2 != Fail {
		t.Fatalf("expected htlc2 (timed out) to Fail, got %v", d2)
	}

	// htlc1 alone (600) no longer covers the 1000 msat invoice, so the
	// controller reverts the invoice to Open.
	var entry *store.StateEntry
	for i := 0; i < 500; i++ {
		var err error
		entry, err = st.GetState(hash)
		if err != nil {
			t.Fatalf("GetState: %v", err)
		}
		if entry.State == hodlstate.Open {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if entry.State != hodlstate.Open {
		t.Fatalf("expected persisted state Open after htlc2 timed out, got %v", entry.State)
	}

	// htlc1's loop keeps polling; force it to a terminal decision by
	// expiring its cached invoice snapshot.
	select {
	case <-done1:
		t.Fatal("expected htlc1 to keep holding after htlc2 timed out")
	default:
	}
	c.Cache.Invoices.Set(hash, hodlstate.InvoiceSnapshot{
		Hash:       hash,
		AmountMsat: 1000,
		ExpiresAt:  time.Now().Unix() - 1,
	})

	select {
	case <-done1:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for htlc1 to fail on invoice expiry")
	}
	if e1 != nil {
		t.Fatalf("htlc1: unexpected error: %v", e1)
	}
	if d1 != Fail {
		t.Fatalf("expected htlc1 to Fail once the invoice expired, got %v", d1)
	}
}
