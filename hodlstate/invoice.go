package hodlstate

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// InvoiceSnapshot is the in-memory-only invoice data the controller needs
// once an HTLC arrives: amount, BOLT-11 expiry, and the hash that addresses
// it. It's captured on first HTLC arrival and never refreshed, since the
// host's invoice terms don't change after creation.
type InvoiceSnapshot struct {
	Hash       chainhash.Hash
	AmountMsat MilliSatoshi
	ExpiresAt  int64 // BOLT-11 expiry, unix seconds
}
