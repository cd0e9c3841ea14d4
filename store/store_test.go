package store

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/hodlvoice/clnrpc"
	"github.com/lightninglabs/hodlvoice/hodlerr"
	"github.com/lightninglabs/hodlvoice/hodlstate"
)

// fakeDatastore is an in-memory stand-in for the host's generational
// key/value store, implementing just enough of must-create/must-replace/
// create-or-replace semantics to exercise Store's CAS logic.
type fakeDatastore struct {
	entries map[string]fakeEntry
}

type fakeEntry struct {
	value      string
	generation uint64
}

func newFakeDatastore() *fakeDatastore {
	return &fakeDatastore{entries: make(map[string]fakeEntry)}
}

func keyString(key []string) string {
	s := ""
	for _, k := range key {
		s += k + "/"
	}
	return s
}

func (f *fakeDatastore) Datastore(key []string, value string, mode clnrpc.DatastoreMode, generation *uint64) (*clnrpc.DatastoreResult, error) {
	k := keyString(key)
	existing, exists := f.entries[k]

	switch mode {
	case clnrpc.ModeMustCreate:
		if exists {
			return nil, hodlerr.New(hodlerr.KindRPC, "key %s already exists", k)
		}
	case clnrpc.ModeMustReplace:
		if !exists {
			return nil, hodlerr.New(hodlerr.KindRPC, "key %s does not exist", k)
		}
		if generation != nil && *generation != existing.generation {
			return nil, hodlerr.New(hodlerr.KindRPC, "generation mismatch on key %s", k)
		}
	case clnrpc.ModeCreateOrReplace:
		// Always succeeds.
	}

	newGen := uint64(0)
	if exists {
		newGen = existing.generation + 1
	}
	f.entries[k] = fakeEntry{value: value, generation: newGen}

	return &clnrpc.DatastoreResult{Key: key, Generation: newGen, String: value}, nil
}

func (f *fakeDatastore) ListDatastore(prefix []string) ([]clnrpc.ListDatastoreEntry, error) {
	p := keyString(prefix)
	var out []clnrpc.ListDatastoreEntry
	for k, e := range f.entries {
		if len(k) >= len(p) && k[:len(p)] == p {
			out = append(out, clnrpc.ListDatastoreEntry{Generation: e.generation, String: e.value})
		}
	}
	return out, nil
}

func (f *fakeDatastore) DelDatastore(key []string) error {
	delete(f.entries, keyString(key))
	return nil
}

func testHash() chainhash.Hash {
	var h chainhash.Hash
	h[0] = 0xAB
	return h
}

func TestNewStateThenGetState(t *testing.T) {
	s := New(newFakeDatastore())
	hash := testHash()

	if err := s.NewState(hash, hodlstate.Open); err != nil {
		t.Fatalf("NewState: %v", err)
	}

	entry, err := s.GetState(hash)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if entry.State != hodlstate.Open {
		t.Fatalf("expected Open, got %v", entry.State)
	}
}

func TestNewStateFailsOnDuplicate(t *testing.T) {
	s := New(newFakeDatastore())
	hash := testHash()

	if err := s.NewState(hash, hodlstate.Open); err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if err := s.NewState(hash, hodlstate.Open); err == nil {
		t.Fatal("expected NewState to fail on an existing key")
	}
}

func TestUpdateStateCASSucceedsOnMatchingGeneration(t *testing.T) {
	s := New(newFakeDatastore())
	hash := testHash()

	if err := s.NewState(hash, hodlstate.Open); err != nil {
		t.Fatalf("NewState: %v", err)
	}
	entry, err := s.GetState(hash)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}

	newGen, err := s.UpdateState(hash, hodlstate.Accepted, entry.Generation)
	if err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	if newGen == entry.Generation {
		t.Fatal("expected the generation to advance on a successful CAS")
	}

	refreshed, err := s.GetState(hash)
	if err != nil {
		t.Fatalf("GetState after update: %v", err)
	}
	if refreshed.State != hodlstate.Accepted || refreshed.Generation != newGen {
		t.Fatalf("unexpected post-update state: %+v", refreshed)
	}
}

func TestUpdateStateCASFailsOnStaleGeneration(t *testing.T) {
	s := New(newFakeDatastore())
	hash := testHash()

	if err := s.NewState(hash, hodlstate.Open); err != nil {
		t.Fatalf("NewState: %v", err)
	}
	entry, err := s.GetState(hash)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}

	// Advance the generation out from under our stale read.
	if _, err := s.UpdateState(hash, hodlstate.Accepted, entry.Generation); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}

	if _, err := s.UpdateState(hash, hodlstate.Open, entry.Generation); err == nil {
		t.Fatal("expected UpdateState to fail against a stale generation")
	}
}

func TestUpdateStateForcedIgnoresGeneration(t *testing.T) {
	s := New(newFakeDatastore())
	hash := testHash()

	if err := s.NewState(hash, hodlstate.Open); err != nil {
		t.Fatalf("NewState: %v", err)
	}
	// Advance the generation, then force-write anyway.
	entry, _ := s.GetState(hash)
	if _, err := s.UpdateState(hash, hodlstate.Accepted, entry.Generation); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}

	if _, err := s.UpdateStateForced(hash, hodlstate.Settled); err != nil {
		t.Fatalf("UpdateStateForced: %v", err)
	}

	refreshed, err := s.GetState(hash)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if refreshed.State != hodlstate.Settled {
		t.Fatalf("expected Settled, got %v", refreshed.State)
	}
}

func TestGetStateMissingIsKindMissing(t *testing.T) {
	s := New(newFakeDatastore())

	_, err := s.GetState(testHash())
	if !hodlerr.Is(err, hodlerr.KindMissing) {
		t.Fatalf("expected KindMissing, got %v", err)
	}
}

func TestDeleteStateThenGetStateIsMissing(t *testing.T) {
	s := New(newFakeDatastore())
	hash := testHash()

	if err := s.NewState(hash, hodlstate.Open); err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if err := s.DeleteState(hash); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if _, err := s.GetState(hash); !hodlerr.Is(err, hodlerr.KindMissing) {
		t.Fatalf("expected KindMissing after delete, got %v", err)
	}
}

func TestHTLCExpiryRoundTrip(t *testing.T) {
	s := New(newFakeDatastore())
	hash := testHash()

	if err := s.SetHTLCExpiry(hash, 700123); err != nil {
		t.Fatalf("SetHTLCExpiry: %v", err)
	}
	got, err := s.GetHTLCExpiry(hash)
	if err != nil {
		t.Fatalf("GetHTLCExpiry: %v", err)
	}
	if got != 700123 {
		t.Fatalf("GetHTLCExpiry = %d, want 700123", got)
	}

	if err := s.DeleteHTLCExpiry(hash); err != nil {
		t.Fatalf("DeleteHTLCExpiry: %v", err)
	}
	if _, err := s.GetHTLCExpiry(hash); !hodlerr.Is(err, hodlerr.KindMissing) {
		t.Fatalf("expected KindMissing after delete, got %v", err)
	}
}
