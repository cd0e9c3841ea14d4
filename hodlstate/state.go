// Package hodlstate implements the HodlState tagged enumeration and the
// transition relation that governs it. It is grounded on
// SatsBridge/cln-hodl-plugin's state.rs: HodlState::{to_string, from_str,
// as_i32, is_valid_transition}, ported to idiomatic Go.
package hodlstate

import (
	"strings"

	"github.com/lightninglabs/hodlvoice/hodlerr"
)

// HodlState is the lifecycle state of a hold-invoice's persistent record.
type HodlState int32

const (
	// Open is the initial state: the invoice exists but no HTLC has
	// pushed it to Accepted yet, or a previously Accepted invoice fell
	// back because it's no longer fully paid.
	Open HodlState = 0

	// Settled is terminal: the operator settled the invoice and the host
	// will finalize payment using the preimage.
	Settled HodlState = 1

	// Canceled is terminal: the operator canceled the invoice, or it
	// expired while held.
	Canceled HodlState = 2

	// Accepted means the invoice is fully covered by currently-held
	// HTLCs and awaits an operator decision.
	Accepted HodlState = 3
)

// String returns the canonical lowercase name stored in the datastore.
func (s HodlState) String() string {
	switch s {
	case Open:
		return "open"
	case Settled:
		return "settled"
	case Canceled:
		return "canceled"
	case Accepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// Int32 returns the stable wire representation used by the gRPC surface.
func (s HodlState) Int32() int32 {
	return int32(s)
}

// Parse is the inverse of String, case-insensitive on the token.
func Parse(s string) (HodlState, error) {
	switch strings.ToLower(s) {
	case "open":
		return Open, nil
	case "settled":
		return Settled, nil
	case "canceled":
		return Canceled, nil
	case "accepted":
		return Accepted, nil
	default:
		return 0, hodlerr.New(hodlerr.KindParse,
			"could not parse HodlState from %q", s)
	}
}

// IsValidTransition reports whether moving from "from" to "to" is permitted.
//
//	Open     -> {Open, Canceled, Accepted}
//	Accepted -> {Open, Accepted, Canceled, Settled}
//	Settled  -> {Settled}
//	Canceled -> {Canceled}
func IsValidTransition(from, to HodlState) bool {
	switch from {
	case Open:
		return to == Open || to == Canceled || to == Accepted
	case Accepted:
		return true
	case Settled:
		return to == Settled
	case Canceled:
		return to == Canceled
	default:
		return false
	}
}
