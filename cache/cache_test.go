package cache

import (
	"sync"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/hodlvoice/hodlstate"
)

func testHash(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

func TestStatesGetSetDelete(t *testing.T) {
	s := NewStates()
	hash := testHash(1)

	if _, ok := s.Get(hash); ok {
		t.Fatal("expected no entry in an empty cache")
	}

	s.Set(hash, Entry{State: hodlstate.Open, Generation: 3})
	entry, ok := s.Get(hash)
	if !ok || entry.State != hodlstate.Open || entry.Generation != 3 {
		t.Fatalf("unexpected entry after Set: %+v, ok=%v", entry, ok)
	}

	s.Delete(hash)
	if _, ok := s.Get(hash); ok {
		t.Fatal("expected entry to be gone after Delete")
	}
}

func TestStatesSwapOnlyReplacesExisting(t *testing.T) {
	s := NewStates()
	hash := testHash(2)

	// Swap on an absent entry must be a no-op and report false.
	if ok := s.Swap(hash, Entry{State: hodlstate.Accepted, Generation: 1}); ok {
		t.Fatal("expected Swap to report false for an absent entry")
	}
	if _, ok := s.Get(hash); ok {
		t.Fatal("Swap must not insert an entry that wasn't already present")
	}

	s.Set(hash, Entry{State: hodlstate.Open, Generation: 1})
	if ok := s.Swap(hash, Entry{State: hodlstate.Accepted, Generation: 2}); !ok {
		t.Fatal("expected Swap to report true for a present entry")
	}
	entry, _ := s.Get(hash)
	if entry.State != hodlstate.Accepted || entry.Generation != 2 {
		t.Fatalf("unexpected entry after Swap: %+v", entry)
	}
}

func TestStatesHashesSnapshot(t *testing.T) {
	s := NewStates()
	s.Set(testHash(1), Entry{})
	s.Set(testHash(2), Entry{})

	hashes := s.Hashes()
	if len(hashes) != 2 {
		t.Fatalf("expected 2 hashes, got %d", len(hashes))
	}
	if s.Len() != 2 {
		t.Fatalf("expected Len() == 2, got %d", s.Len())
	}
}

func TestAmountsAddSubFloorsAtZero(t *testing.T) {
	a := NewAmounts()
	hash := testHash(3)

	if got := a.Add(hash, 500); got != 500 {
		t.Fatalf("Add = %d, want 500", got)
	}
	if got := a.Add(hash, 300); got != 800 {
		t.Fatalf("Add = %d, want 800", got)
	}
	if got := a.Sub(hash, 1000); got != 0 {
		t.Fatalf("Sub below zero should floor at 0, got %d", got)
	}
	if got := a.Get(hash); got != 0 {
		t.Fatalf("Get after floor = %d, want 0", got)
	}
}

func TestInvoicesGetSetDelete(t *testing.T) {
	i := NewInvoices()
	hash := testHash(4)

	snap := hodlstate.InvoiceSnapshot{Hash: hash, AmountMsat: 1000, ExpiresAt: 99}
	i.Set(hash, snap)

	got, ok := i.Get(hash)
	if !ok || got != snap {
		t.Fatalf("unexpected snapshot after Set: %+v, ok=%v", got, ok)
	}

	i.Delete(hash)
	if _, ok := i.Get(hash); ok {
		t.Fatal("expected snapshot to be gone after Delete")
	}
}

func TestCacheForgetClearsAllThreeMaps(t *testing.T) {
	c := New()
	hash := testHash(5)

	c.States.Set(hash, Entry{State: hodlstate.Open})
	c.Amounts.Add(hash, 100)
	c.Invoices.Set(hash, hodlstate.InvoiceSnapshot{Hash: hash})

	c.Forget(hash)

	if _, ok := c.States.Get(hash); ok {
		t.Fatal("expected States entry removed by Forget")
	}
	if got := c.Amounts.Get(hash); got != 0 {
		t.Fatal("expected Amounts entry zeroed by Forget")
	}
	if _, ok := c.Invoices.Get(hash); ok {
		t.Fatal("expected Invoices entry removed by Forget")
	}
}

// TestStatesConcurrentAccess exercises the mutex discipline under the race
// detector: concurrent Set/Get/Swap calls on distinct and overlapping hashes
// must never corrupt the map.
func TestStatesConcurrentAccess(t *testing.T) {
	s := NewStates()
	hash := testHash(6)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			s.Set(hash, Entry{State: hodlstate.Open, Generation: uint64(i)})
		}(i)
		go func() {
			defer wg.Done()
			s.Get(hash)
		}()
		go func(i int) {
			defer wg.Done()
			s.Swap(hash, Entry{State: hodlstate.Accepted, Generation: uint64(i)})
		}(i)
	}
	wg.Wait()

	if _, ok := s.Get(hash); !ok {
		t.Fatal("expected an entry to remain after concurrent access")
	}
}
