// Package controller implements the per-HTLC holding loop invoked from the
// host's htlc_accepted hook (component E). It is the core of hodlvoice:
// everything else exists to let one call, OnHTLCAccepted, make a correct
// continue-or-fail decision for a parked HTLC. Grounded on
// invoices/invoiceregistry.go's NotifyExitHopHtlc/SettleHodlInvoice/
// CancelInvoice state-machine shape, generalized from channeldb's built-in
// invoice states to hodlvoice's own store-backed generational CAS.
package controller

import "fmt"

// Decision is the hook's return value: exactly one of Continue or Fail must
// reach the host for every HTLC, per the hook-return contract.
type Decision int

const (
	// Continue tells the host to forward/settle the HTLC.
	Continue Decision = iota

	// Fail tells the host to fail the HTLC back.
	Fail
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the decision the way the host expects it framed:
// {"result":"continue"} or {"result":"fail"}.
func (d Decision) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"result":%q}`, d.String())), nil
}
