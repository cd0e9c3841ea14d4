// Package store adapts the host's generational key/value datastore to the
// {plugin-name, payment-hash, field} key layout hodlvoice persists its
// per-invoice state under. Grounded on state.rs's datastore_* helpers.
package store

import (
	"encoding/hex"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/hodlvoice/clnrpc"
	"github.com/lightninglabs/hodlvoice/hodlerr"
	"github.com/lightninglabs/hodlvoice/hodlstate"
)

// PluginName is the first component of every key this plugin writes to the
// host's datastore.
const PluginName = "hodlvoice"

const (
	fieldState  = "state"
	fieldExpiry = "expiry"
)

// datastoreClient is the subset of *clnrpc.Client this package needs.
// Accepting the interface rather than the concrete client lets tests
// exercise Store's key-building and CAS logic against a fake.
type datastoreClient interface {
	Datastore(key []string, value string, mode clnrpc.DatastoreMode, generation *uint64) (*clnrpc.DatastoreResult, error)
	ListDatastore(prefix []string) ([]clnrpc.ListDatastoreEntry, error)
	DelDatastore(key []string) error
}

// Store is a thin adapter over a host RPC client implementing the
// persistent half of hodlvoice's state machine.
type Store struct {
	rpc datastoreClient
}

// New returns a Store backed by rpc.
func New(rpc datastoreClient) *Store {
	return &Store{rpc: rpc}
}

func stateKey(hash chainhash.Hash) []string {
	return []string{PluginName, hex.EncodeToString(hash[:]), fieldState}
}

func expiryKey(hash chainhash.Hash) []string {
	return []string{PluginName, hex.EncodeToString(hash[:]), fieldExpiry}
}

// StateEntry is a persisted state value together with the generation it was
// read at, which callers use as the expected generation for a subsequent
// CAS.
type StateEntry struct {
	State      hodlstate.HodlState
	Generation uint64
}

// NewState creates the state field for hash, failing if it already exists.
func (s *Store) NewState(hash chainhash.Hash, state hodlstate.HodlState) error {
	_, err := s.rpc.Datastore(stateKey(hash), state.String(), clnrpc.ModeMustCreate, nil)
	if err != nil {
		return hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	return nil
}

// UpdateState performs a compare-and-set: it succeeds only if the current
// generation on disk matches expectedGeneration. On success it returns the
// new generation, for the caller to fold straight back into its cache entry
// without a round trip through GetState.
func (s *Store) UpdateState(hash chainhash.Hash, state hodlstate.HodlState, expectedGeneration uint64) (uint64, error) {
	gen := expectedGeneration
	res, err := s.rpc.Datastore(stateKey(hash), state.String(), clnrpc.ModeMustReplace, &gen)
	if err != nil {
		return 0, hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	return res.Generation, nil
}

// UpdateStateForced replaces the state field regardless of its current
// generation. Used by the gRPC settle/cancel handlers, whose operator
// intent always wins over a racing controller CAS.
func (s *Store) UpdateStateForced(hash chainhash.Hash, state hodlstate.HodlState) (uint64, error) {
	res, err := s.rpc.Datastore(stateKey(hash), state.String(), clnrpc.ModeCreateOrReplace, nil)
	if err != nil {
		return 0, hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	return res.Generation, nil
}

// SetHTLCExpiry records cltvExpiry for hash, creating the field if absent
// and overwriting it otherwise; no comparison with a stored value is made.
func (s *Store) SetHTLCExpiry(hash chainhash.Hash, cltvExpiry uint32) error {
	value := strconv.FormatUint(uint64(cltvExpiry), 10)
	_, err := s.rpc.Datastore(expiryKey(hash), value, clnrpc.ModeCreateOrReplace, nil)
	if err != nil {
		return hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	return nil
}

// GetState reads the state field and its generation.
func (s *Store) GetState(hash chainhash.Hash) (*StateEntry, error) {
	entries, err := s.rpc.ListDatastore(stateKey(hash))
	if err != nil {
		return nil, hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	if len(entries) == 0 {
		return nil, hodlerr.New(hodlerr.KindMissing,
			"no state entry for payment_hash %s", hash)
	}

	parsed, err := hodlstate.Parse(entries[0].String)
	if err != nil {
		return nil, err
	}

	return &StateEntry{State: parsed, Generation: entries[0].Generation}, nil
}

// GetHTLCExpiry reads the htlc-expiry field.
func (s *Store) GetHTLCExpiry(hash chainhash.Hash) (uint32, error) {
	entries, err := s.rpc.ListDatastore(expiryKey(hash))
	if err != nil {
		return 0, hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	if len(entries) == 0 {
		return 0, hodlerr.New(hodlerr.KindMissing,
			"no htlc-expiry entry for payment_hash %s", hash)
	}

	v, err := strconv.ParseUint(entries[0].String, 10, 32)
	if err != nil {
		return 0, hodlerr.New(hodlerr.KindParse,
			"htlc-expiry %q is not numeric: %v", entries[0].String, err)
	}

	return uint32(v), nil
}

// DeleteState removes the state field. Any error the host reports,
// including one for a missing key, is returned as KindRPC.
func (s *Store) DeleteState(hash chainhash.Hash) error {
	if err := s.rpc.DelDatastore(stateKey(hash)); err != nil {
		return hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	return nil
}

// DeleteHTLCExpiry removes the htlc-expiry field. Any error the host
// reports, including one for a missing key, is returned as KindRPC.
func (s *Store) DeleteHTLCExpiry(hash chainhash.Hash) error {
	if err := s.rpc.DelDatastore(expiryKey(hash)); err != nil {
		return hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	return nil
}

// ListAll returns every datastore entry under this plugin's key prefix, in
// a single RPC, as the host lists them.
func (s *Store) ListAll() ([]clnrpc.ListDatastoreEntry, error) {
	entries, err := s.rpc.ListDatastore([]string{PluginName})
	if err != nil {
		return nil, hodlerr.Wrap(hodlerr.KindRPC, err)
	}
	return entries, nil
}
