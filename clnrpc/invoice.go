package clnrpc

import (
	"github.com/lightninglabs/hodlvoice/hodlstate"
)

// InvoiceParams mirrors the subset of the host's `invoice` RPC fields this
// plugin needs. Building the BOLT-11 string itself is the host's job; this
// plugin only asks for one and records its state.
type InvoiceParams struct {
	AmountMsat  uint64 `json:"amount_msat"`
	Label       string `json:"label"`
	Description string `json:"description"`
	ExpirySecs  *int64 `json:"expiry,omitempty"`
}

// InvoiceResult is the host's response to `invoice`.
type InvoiceResult struct {
	Bolt11        string `json:"bolt11"`
	PaymentHash   string `json:"payment_hash"`
	PaymentSecret string `json:"payment_secret"`
	ExpiresAt     int64  `json:"expires_at"`
}

// Invoice asks the host to mint a new BOLT-11 invoice.
func (c *Client) Invoice(params InvoiceParams) (*InvoiceResult, error) {
	var res InvoiceResult
	if err := c.call("invoice", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// listInvoicesParams is the filter accepted by `listinvoices`; exactly one
// of Label or PaymentHash should be set, matching the host's documented
// shape.
type listInvoicesParams struct {
	Label       *string `json:"label,omitempty"`
	PaymentHash *string `json:"payment_hash,omitempty"`
}

// ListInvoicesEntry is a single invoice as returned by `listinvoices`.
type ListInvoicesEntry struct {
	Label       string `json:"label"`
	Bolt11      string `json:"bolt11"`
	PaymentHash string `json:"payment_hash"`
	Status      string `json:"status"` // unpaid | paid | expired
	AmountMsat  string `json:"amount_msat"`
	ExpiresAt   int64  `json:"expires_at"`
}

// AmountMsatValue parses the host's "<n>msat" amount string into a plain
// integer. The original plugin this is ported from assumed the last four
// characters are always literally "msat" and blindly sliced them off; this
// port instead strips the documented suffix explicitly and fails loudly if
// it's absent, rather than silently truncating a differently-shaped value.
func (e ListInvoicesEntry) AmountMsatValue() (hodlstate.MilliSatoshi, error) {
	return hodlstate.ParseMsat(e.AmountMsat)
}

type listInvoicesResult struct {
	Invoices []ListInvoicesEntry `json:"invoices"`
}

// ListInvoices lists all invoices, optionally filtered by label or payment
// hash (hex-encoded).
func (c *Client) ListInvoices(label, paymentHash string) ([]ListInvoicesEntry, error) {
	var params listInvoicesParams
	if label != "" {
		params.Label = &label
	}
	if paymentHash != "" {
		params.PaymentHash = &paymentHash
	}

	var res listInvoicesResult
	if err := c.call("listinvoices", params, &res); err != nil {
		return nil, err
	}

	return res.Invoices, nil
}
