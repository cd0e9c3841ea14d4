// Package cleanup implements the cleanup task (component G): after an
// initial 60 s delay, once an hour, it purges persistent and in-memory
// state for invoices that have been terminal (paid or expired) for more
// than a grace period. Grounded on the same task-spawning idiom as
// reconcile.Task.
package cleanup

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/hodlvoice/cache"
	"github.com/lightninglabs/hodlvoice/clnrpc"
	"github.com/lightninglabs/hodlvoice/hodllog"
)

var log = hodllog.Get(hodllog.SubsystemCleanup)

const (
	initialDelay  = 60 * time.Second
	defaultPeriod = time.Hour
	graceSeconds  = int64(time.Hour / time.Second)
	statusPaid    = "paid"
	statusExpired = "expired"
)

// invoiceLister is the subset of *clnrpc.Client the cleanup task needs.
type invoiceLister interface {
	ListInvoices(label, paymentHash string) ([]clnrpc.ListInvoicesEntry, error)
}

// stateDeleter is the subset of *store.Store the cleanup task needs.
type stateDeleter interface {
	DeleteState(hash chainhash.Hash) error
	DeleteHTLCExpiry(hash chainhash.Hash) error
}

// Task periodically reaps invoices that finished a grace period ago.
type Task struct {
	RPC          invoiceLister
	Store        stateDeleter
	Cache        cache.Cache
	InitialDelay time.Duration
	Period       time.Duration

	quit chan struct{}
}

// New returns a Task with the spec's default 60 s delay / hourly period.
func New(rpc invoiceLister, st stateDeleter, c cache.Cache) *Task {
	return &Task{
		RPC:          rpc,
		Store:        st,
		Cache:        c,
		InitialDelay: initialDelay,
		Period:       defaultPeriod,
		quit:         make(chan struct{}),
	}
}

func (t *Task) initialDelay() time.Duration {
	if t.InitialDelay == 0 {
		return initialDelay
	}
	return t.InitialDelay
}

func (t *Task) period() time.Duration {
	if t.Period == 0 {
		return defaultPeriod
	}
	return t.Period
}

// Run blocks, waiting InitialDelay then running once per Period, until
// Stop is called. Intended to run in its own goroutine.
func (t *Task) Run() {
	timer := time.NewTimer(t.initialDelay())
	defer timer.Stop()

	select {
	case <-timer.C:
		t.cleanupOnce()
	case <-t.quit:
		return
	}

	ticker := time.NewTicker(t.period())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.cleanupOnce()
		case <-t.quit:
			return
		}
	}
}

// Stop signals Run to return. Safe to call once.
func (t *Task) Stop() {
	close(t.quit)
}

func (t *Task) cleanupOnce() {
	invoices, err := t.RPC.ListInvoices("", "")
	if err != nil {
		log.Errorf("cleanup: listing invoices: %v", err)
		return
	}

	now := time.Now().Unix()

	for _, inv := range invoices {
		status := strings.ToLower(inv.Status)
		if status != statusPaid && status != statusExpired {
			continue
		}
		if inv.ExpiresAt+graceSeconds > now {
			continue
		}

		hashBytes, err := hex.DecodeString(inv.PaymentHash)
		if err != nil || len(hashBytes) != chainhash.HashSize {
			log.Warnf("cleanup: invoice %s has unparseable payment_hash %q", inv.Label, inv.PaymentHash)
			continue
		}
		var hash chainhash.Hash
		copy(hash[:], hashBytes)

		t.reap(hash)
	}
}

// reap best-effort deletes both persistent fields and every in-memory
// entry for hash. Individual failures are logged, never propagated, since
// a stuck delete must not stall the hourly sweep for every other invoice.
func (t *Task) reap(hash chainhash.Hash) {
	if err := t.Store.DeleteState(hash); err != nil {
		log.Warnf("cleanup: deleting state for %x: %v", hash[:], err)
	}
	if err := t.Store.DeleteHTLCExpiry(hash); err != nil {
		log.Warnf("cleanup: deleting htlc-expiry for %x: %v", hash[:], err)
	}

	t.Cache.Forget(hash)
}
