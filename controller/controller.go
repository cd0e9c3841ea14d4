package controller

import (
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/lightninglabs/hodlvoice/blockheight"
	"github.com/lightninglabs/hodlvoice/cache"
	"github.com/lightninglabs/hodlvoice/clnrpc"
	"github.com/lightninglabs/hodlvoice/hodlerr"
	"github.com/lightninglabs/hodlvoice/hodllog"
	"github.com/lightninglabs/hodlvoice/hodlstate"
	"github.com/lightninglabs/hodlvoice/store"
)

var log = hodllog.Get(hodllog.SubsystemController)

// logClosure defers an expensive log argument's formatting until (and
// unless) the logger actually emits the line. Grounded on the teacher's
// daemon/log.go newLogClosure helper.
type logClosure func() string

func (c logClosure) String() string { return c() }

func newLogClosure(f func() string) logClosure { return logClosure(f) }

const (
	defaultPollInterval = 3 * time.Second
	defaultRetryBackoff = 2 * time.Second
	invoiceExpiryMargin = 60 // seconds
	cltvSafetyMargin    = 6  // blocks, on top of cltv-delta
)

// invoiceFetcher is the subset of *clnrpc.Client the controller needs:
// looking up a newly-seen payment hash's invoice terms.
type invoiceFetcher interface {
	ListInvoices(label, paymentHash string) ([]clnrpc.ListInvoicesEntry, error)
}

// stateStore is the subset of *store.Store the controller needs. Accepting
// it as an interface lets tests drive the holding loop against a fake
// store instead of a live host RPC socket.
type stateStore interface {
	GetState(hash chainhash.Hash) (*store.StateEntry, error)
	SetHTLCExpiry(hash chainhash.Hash, cltvExpiry uint32) error
	UpdateState(hash chainhash.Hash, state hodlstate.HodlState, expectedGeneration uint64) (uint64, error)
}

// Controller runs the holding loop for every HTLC handed to it by the
// htlc_accepted hook. One Controller is shared by every concurrent hook
// invocation; PollInterval and RetryBackoff are exposed as fields rather
// than constants so tests can shrink them to sub-millisecond durations.
type Controller struct {
	RPC    invoiceFetcher
	Store  stateStore
	Cache  cache.Cache
	Height *blockheight.Cell

	// CltvDelta is the configured safety margin in blocks (option
	// cltv-delta, default 40).
	CltvDelta uint16

	PollInterval time.Duration
	RetryBackoff time.Duration
}

// New returns a Controller wired to its collaborators, with the spec's
// default poll/backoff intervals.
func New(rpc invoiceFetcher, st stateStore, c cache.Cache, height *blockheight.Cell, cltvDelta uint16) *Controller {
	return &Controller{
		RPC:          rpc,
		Store:        st,
		Cache:        c,
		Height:       height,
		CltvDelta:    cltvDelta,
		PollInterval: defaultPollInterval,
		RetryBackoff: defaultRetryBackoff,
	}
}

func (c *Controller) pollInterval() time.Duration {
	if c.PollInterval == 0 {
		return defaultPollInterval
	}
	return c.PollInterval
}

func (c *Controller) retryBackoff() time.Duration {
	if c.RetryBackoff == 0 {
		return defaultRetryBackoff
	}
	return c.RetryBackoff
}

// outcome tags what identify found for a payment hash.
type outcome int

const (
	// notHodlInvoice means there's no persistent record: pass the HTLC
	// straight through.
	notHodlInvoice outcome = iota

	// tracked means the hash has a live (or freshly loaded) cache entry
	// and the holding loop should run.
	tracked

	// identifyFailed means it IS a hodl-invoice but fetching its
	// snapshot failed (e.g. the host's listinvoices came back empty);
	// the HTLC must be failed rather than left unresolved.
	identifyFailed
)

// OnHTLCAccepted is the htlc_accepted hook entry point. For every ordinary
// business outcome it returns exactly one of Continue or Fail with a nil
// error. A non-nil error means a Fatal invariant was violated (e.g. an
// in-flight cache entry vanished); callers must propagate that error back
// to the host as a hook-side JSON-RPC error rather than treat it as a
// Fail decision.
func (c *Controller) OnHTLCAccepted(htlc *HTLC) (Decision, error) {
	log.Tracef("htlc accepted on %s: %v", hodlstate.FormatSCID(htlc.ShortChannelID),
		newLogClosure(func() string {
			return spew.Sdump(htlc)
		}))

	result, state, generation := c.identify(htlc)

	switch result {
	case notHodlInvoice:
		return Continue, nil
	case identifyFailed:
		return Fail, nil
	}

	// Phase 2 — guard checks.
	if state == hodlstate.Canceled {
		return Fail, nil
	}

	// Phase 3 — amount aggregation.
	c.Cache.Amounts.Add(htlc.PaymentHash, htlc.AmountMsat)

	// Phase 4 — the holding loop.
	return c.hold(htlc, state, generation)
}

// identify implements phase 1: find or populate this HTLC's cached state.
// The async mutex discipline the spec describes falls out naturally here:
// each cache method takes and releases its own lock per call, so nothing is
// held across the ListInvoices RPC below.
func (c *Controller) identify(htlc *HTLC) (outcome, hodlstate.HodlState, uint64) {
	if entry, ok := c.Cache.States.Get(htlc.PaymentHash); ok {
		return tracked, entry.State, entry.Generation
	}

	se, err := c.Store.GetState(htlc.PaymentHash)
	if err != nil {
		log.Debugf("htlc %s: no persistent state, passing through", fmtHash(htlc.PaymentHash))
		return notHodlInvoice, 0, 0
	}

	if err := c.Store.SetHTLCExpiry(htlc.PaymentHash, htlc.CltvExpiry); err != nil {
		log.Warnf("htlc %s: recording htlc-expiry: %v", fmtHash(htlc.PaymentHash), err)
	}

	invoices, err := c.RPC.ListInvoices("", hex.EncodeToString(htlc.PaymentHash[:]))
	if err != nil || len(invoices) == 0 {
		log.Errorf("htlc %s: fetching invoice snapshot failed (err=%v, n=%d)",
			fmtHash(htlc.PaymentHash), err, len(invoices))
		return identifyFailed, 0, 0
	}

	amt, err := invoices[0].AmountMsatValue()
	if err != nil {
		log.Errorf("htlc %s: parsing invoice amount: %v", fmtHash(htlc.PaymentHash), err)
		return identifyFailed, 0, 0
	}

	snapshot := hodlstate.InvoiceSnapshot{
		Hash:       htlc.PaymentHash,
		AmountMsat: amt,
		ExpiresAt:  invoices[0].ExpiresAt,
	}
	c.Cache.Invoices.Set(htlc.PaymentHash, snapshot)
	c.Cache.States.Set(htlc.PaymentHash, cache.Entry{State: se.State, Generation: se.Generation})

	return tracked, se.State, se.Generation
}

// hold runs phase 4, the 3-second holding loop, until it reaches a terminal
// decision. A non-nil error return means a Fatal invariant was violated and
// must reach the host as a hook-side error, not a Fail decision.
func (c *Controller) hold(htlc *HTLC, state hodlstate.HodlState, generation uint64) (Decision, error) {
	hash := htlc.PaymentHash

	for {
		entry, ok := c.Cache.States.Get(hash)
		if !ok {
			c.Cache.Amounts.Sub(hash, htlc.AmountMsat)
			err := hodlerr.New(hodlerr.KindFatal,
				"htlc %s: cache entry vanished under a live holding loop", fmtHash(hash))
			log.Errorf("%v", err)
			return Fail, err
		}
		state, generation = entry.State, entry.Generation

		invoice, ok := c.Cache.Invoices.Get(hash)
		if !ok {
			c.Cache.Amounts.Sub(hash, htlc.AmountMsat)
			err := hodlerr.New(hodlerr.KindFatal,
				"htlc %s: invoice snapshot vanished under a live holding loop", fmtHash(hash))
			log.Errorf("%v", err)
			return Fail, err
		}

		now := time.Now().Unix()

		// Invoice-expiry guard.
		if invoice.ExpiresAt <= now+invoiceExpiryMargin && hodlstate.IsValidTransition(state, hodlstate.Canceled) {
			newGen, err := c.Store.UpdateState(hash, hodlstate.Canceled, generation)
			if err != nil {
				log.Debugf("htlc %s: CAS to canceled (expiry) lost, retrying: %v", fmtHash(hash), err)
				time.Sleep(c.retryBackoff())
				continue
			}
			c.Cache.States.Set(hash, cache.Entry{State: hodlstate.Canceled, Generation: newGen})
			c.Cache.Amounts.Sub(hash, htlc.AmountMsat)
			log.Infof("htlc %s: invoice expired, canceling", fmtHash(hash))
			return Fail, nil
		}

		// HTLC-timeout guard.
		timeoutHeight := c.Height.Get() + uint32(c.CltvDelta) + cltvSafetyMargin
		if htlc.CltvExpiry <= timeoutHeight && hodlstate.IsValidTransition(state, hodlstate.Open) {
			accumulated := c.Cache.Amounts.Get(hash)
			stillCovered := invoice.AmountMsat > accumulated-htlc.AmountMsat
			if stillCovered && state == hodlstate.Accepted {
				newGen, err := c.Store.UpdateState(hash, hodlstate.Open, generation)
				if err != nil {
					log.Debugf("htlc %s: CAS to open (timeout) lost, retrying: %v", fmtHash(hash), err)
					time.Sleep(c.retryBackoff())
					continue
				}
				c.Cache.States.Set(hash, cache.Entry{State: hodlstate.Open, Generation: newGen})
			}
			c.Cache.Amounts.Sub(hash, htlc.AmountMsat)
			log.Infof("htlc %s: timing out, cltv_expiry=%d <= %d", fmtHash(hash), htlc.CltvExpiry, timeoutHeight)
			return Fail, nil
		}

		// State-driven decision.
		switch state {
		case hodlstate.Open:
			accumulated := c.Cache.Amounts.Get(hash)
			if accumulated >= invoice.AmountMsat && hodlstate.IsValidTransition(hodlstate.Open, hodlstate.Accepted) {
				newGen, err := c.Store.UpdateState(hash, hodlstate.Accepted, generation)
				if err != nil {
					log.Debugf("htlc %s: CAS to accepted lost, retrying: %v", fmtHash(hash), err)
					time.Sleep(c.retryBackoff())
					continue
				}
				c.Cache.States.Set(hash, cache.Entry{State: hodlstate.Accepted, Generation: newGen})
			}

		case hodlstate.Accepted:
			accumulated := c.Cache.Amounts.Get(hash)
			if accumulated < invoice.AmountMsat && hodlstate.IsValidTransition(hodlstate.Accepted, hodlstate.Open) {
				newGen, err := c.Store.UpdateState(hash, hodlstate.Open, generation)
				if err != nil {
					log.Debugf("htlc %s: CAS to open (underpaid) lost, retrying: %v", fmtHash(hash), err)
					time.Sleep(c.retryBackoff())
					continue
				}
				c.Cache.States.Set(hash, cache.Entry{State: hodlstate.Open, Generation: newGen})
			}

		case hodlstate.Settled:
			log.Debugf("htlc %s: settled, continuing", fmtHash(hash))
			return Continue, nil

		case hodlstate.Canceled:
			return Fail, nil
		}

		time.Sleep(c.pollInterval())
	}
}

func fmtHash(h chainhash.Hash) string {
	return hex.EncodeToString(h[:])
}
