// Package reconcile implements the reconciler task (component F): every 2 s
// it refreshes the in-memory state cache from the persistent store, so that
// a settle/cancel issued through the gRPC surface becomes visible to every
// holding loop within the 2 s convergence bound. Grounded on the teacher's
// task-spawning idiom in daemon/lnd.go (a goroutine with a ticker and a
// quit channel).
package reconcile

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/hodlvoice/cache"
	"github.com/lightninglabs/hodlvoice/hodllog"
	"github.com/lightninglabs/hodlvoice/store"
)

var log = hodllog.Get(hodllog.SubsystemReconciler)

const defaultInterval = 2 * time.Second

// stateReader is the subset of *store.Store the reconciler needs.
type stateReader interface {
	GetState(hash chainhash.Hash) (*store.StateEntry, error)
}

// Task periodically pulls persistent state into the cache.
type Task struct {
	Store    stateReader
	Cache    cache.Cache
	Interval time.Duration

	quit chan struct{}
}

// New returns a Task with the spec's default 2 s interval.
func New(st stateReader, c cache.Cache) *Task {
	return &Task{
		Store:    st,
		Cache:    c,
		Interval: defaultInterval,
		quit:     make(chan struct{}),
	}
}

func (t *Task) interval() time.Duration {
	if t.Interval == 0 {
		return defaultInterval
	}
	return t.Interval
}

// Run blocks, polling until Stop is called. Intended to be run in its own
// goroutine, one of the tasks spawned at startup.
func (t *Task) Run() {
	ticker := time.NewTicker(t.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.reconcileOnce()
		case <-t.quit:
			return
		}
	}
}

// Stop signals Run to return. Safe to call once.
func (t *Task) Stop() {
	close(t.quit)
}

// reconcileOnce performs a single pass: snapshot tracked hashes, re-read
// each one's persisted state, and swap the refreshed tuple into the cache.
// A hash whose cache entry was removed concurrently (e.g. by cleanup) is
// simply skipped rather than re-inserted, since Swap only replaces entries
// that still exist.
func (t *Task) reconcileOnce() {
	hashes := t.Cache.States.Hashes()

	for _, hash := range hashes {
		se, err := t.Store.GetState(hash)
		if err != nil {
			log.Debugf("reconcile %x: %v", hash[:], err)
			continue
		}

		fresh := cache.Entry{State: se.State, Generation: se.Generation}
		t.Cache.States.Swap(hash, fresh)
	}
}
