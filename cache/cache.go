// Package cache implements the in-memory state cache (component D):
// payment_hash -> (state, generation), payment_hash -> accumulated msat, and
// payment_hash -> invoice snapshot. Each map is guarded by its own mutex,
// per spec.md §4.D / §5's lock-order discipline (states -> invoices ->
// invoice_amts). Go has no distinct "async mutex" type; States uses a plain
// sync.Mutex, and every method takes and releases it around a single map
// access, so it is never held across a host-RPC call or a sleep.
package cache

import (
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/hodlvoice/hodlstate"
)

// Entry pairs a cached state with the generation it was last observed at,
// so callers always CAS against a generation that came from the same read
// as the state they're dispatching on.
type Entry struct {
	State      hodlstate.HodlState
	Generation uint64
}

// States is the payment_hash -> (state, generation) map.
type States struct {
	mu sync.Mutex
	m  map[chainhash.Hash]Entry
}

// NewStates returns an empty States cache.
func NewStates() *States {
	return &States{m: make(map[chainhash.Hash]Entry)}
}

// Get returns the cached entry for hash, if any.
func (s *States) Get(hash chainhash.Hash) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[hash]
	return e, ok
}

// Set inserts or overwrites the cached entry for hash.
func (s *States) Set(hash chainhash.Hash, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[hash] = e
}

// Delete removes hash from the cache.
func (s *States) Delete(hash chainhash.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, hash)
}

// Hashes returns a snapshot of every tracked payment hash, for the
// reconciler to iterate without holding the lock during its RPC calls.
func (s *States) Hashes() []chainhash.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	hashes := make([]chainhash.Hash, 0, len(s.m))
	for h := range s.m {
		hashes = append(hashes, h)
	}
	return hashes
}

// Swap atomically replaces the cached entry for hash with fresh, but only
// if an entry is still present (the controller may have deleted it via
// cleanup concurrently). Returns whether the swap happened.
func (s *States) Swap(hash chainhash.Hash, fresh Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[hash]; !ok {
		return false
	}
	s.m[hash] = fresh
	return true
}

// Len reports how many payment hashes are currently tracked.
func (s *States) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.m)
}

// Amounts is the payment_hash -> accumulated msat map (component D's
// invoice_amts).
type Amounts struct {
	mu sync.Mutex
	m  map[chainhash.Hash]hodlstate.MilliSatoshi
}

// NewAmounts returns an empty Amounts cache.
func NewAmounts() *Amounts {
	return &Amounts{m: make(map[chainhash.Hash]hodlstate.MilliSatoshi)}
}

// Add adds delta to hash's accumulator, initializing it to zero if absent,
// and returns the new total.
func (a *Amounts) Add(hash chainhash.Hash, delta hodlstate.MilliSatoshi) hodlstate.MilliSatoshi {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.m[hash] += delta
	return a.m[hash]
}

// Sub subtracts delta from hash's accumulator. It never goes below zero;
// callers are expected to subtract only contributions they previously
// added.
func (a *Amounts) Sub(hash chainhash.Hash, delta hodlstate.MilliSatoshi) hodlstate.MilliSatoshi {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.m[hash] < delta {
		a.m[hash] = 0
	} else {
		a.m[hash] -= delta
	}
	return a.m[hash]
}

// Get returns the current accumulator value for hash.
func (a *Amounts) Get(hash chainhash.Hash) hodlstate.MilliSatoshi {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.m[hash]
}

// Delete removes hash from the cache.
func (a *Amounts) Delete(hash chainhash.Hash) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.m, hash)
}

// Invoices is the payment_hash -> invoice snapshot map.
type Invoices struct {
	mu sync.Mutex
	m  map[chainhash.Hash]hodlstate.InvoiceSnapshot
}

// NewInvoices returns an empty Invoices cache.
func NewInvoices() *Invoices {
	return &Invoices{m: make(map[chainhash.Hash]hodlstate.InvoiceSnapshot)}
}

// Get returns the cached invoice snapshot for hash, if any.
func (i *Invoices) Get(hash chainhash.Hash) (hodlstate.InvoiceSnapshot, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	inv, ok := i.m[hash]
	return inv, ok
}

// Set inserts or overwrites the cached invoice snapshot for hash.
func (i *Invoices) Set(hash chainhash.Hash, inv hodlstate.InvoiceSnapshot) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.m[hash] = inv
}

// Delete removes hash from the cache.
func (i *Invoices) Delete(hash chainhash.Hash) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.m, hash)
}

// Cache bundles the three maps that make up component D. It's a small
// value of pointers, meant to be passed by value into every task spawned at
// startup rather than reached for through a package-level singleton.
type Cache struct {
	States   *States
	Amounts  *Amounts
	Invoices *Invoices
}

// New returns an empty Cache.
func New() Cache {
	return Cache{
		States:   NewStates(),
		Amounts:  NewAmounts(),
		Invoices: NewInvoices(),
	}
}

// Forget removes hash from all three maps. Used by the cleanup task.
func (c Cache) Forget(hash chainhash.Hash) {
	c.States.Delete(hash)
	c.Amounts.Delete(hash)
	c.Invoices.Delete(hash)
}
