package controller

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/hodlvoice/hodlerr"
	"github.com/lightninglabs/hodlvoice/hodlstate"
)

// HTLC is the subset of the htlc_accepted hook payload this controller
// needs, parsed out of the nested {htlc: {...}} object the host sends.
type HTLC struct {
	PaymentHash    chainhash.Hash
	CltvExpiry     uint32
	ID             uint64
	ShortChannelID uint64
	AmountMsat     hodlstate.MilliSatoshi
}

// htlcPayload mirrors the wire shape of the hook's "htlc" object. Fields are
// strings or numbers depending on the host's JSON encoding of hashes versus
// integers; the numeric fields are pointers so an absent field can be told
// apart from a zero value.
type htlcPayload struct {
	PaymentHash    string  `json:"payment_hash"`
	CltvExpiry     *uint32 `json:"cltv_expiry"`
	ID             *uint64 `json:"id"`
	ShortChannelID *uint64 `json:"short_channel_id"`
	AmountMsat     string  `json:"amount_msat"`
}

// hookPayload is the top-level htlc_accepted hook notification.
type hookPayload struct {
	HTLC htlcPayload `json:"htlc"`
}

// ParseHTLC decodes a raw htlc_accepted hook notification. Any missing or
// malformed field is reported as a KindParse error; callers must treat that
// as "return Fail" per phase 1 of the controller algorithm, never as a
// reason to crash the hook handler.
func ParseHTLC(raw []byte, unmarshal func([]byte, interface{}) error) (*HTLC, error) {
	var payload hookPayload
	if err := unmarshal(raw, &payload); err != nil {
		return nil, hodlerr.New(hodlerr.KindParse, "decoding htlc_accepted payload: %v", err)
	}

	if payload.HTLC.PaymentHash == "" {
		return nil, hodlerr.New(hodlerr.KindParse, "htlc_accepted payload missing payment_hash")
	}
	hashBytes, err := hex.DecodeString(payload.HTLC.PaymentHash)
	if err != nil || len(hashBytes) != chainhash.HashSize {
		return nil, hodlerr.New(hodlerr.KindParse, "payment_hash %q is not a 32-byte hex hash", payload.HTLC.PaymentHash)
	}
	var hash chainhash.Hash
	copy(hash[:], hashBytes)

	if payload.HTLC.AmountMsat == "" {
		return nil, hodlerr.New(hodlerr.KindParse, "htlc_accepted payload missing amount_msat")
	}
	amt, err := hodlstate.ParseMsat(payload.HTLC.AmountMsat)
	if err != nil {
		return nil, err
	}

	if payload.HTLC.CltvExpiry == nil || payload.HTLC.ID == nil || payload.HTLC.ShortChannelID == nil {
		return nil, hodlerr.New(hodlerr.KindParse, "htlc_accepted payload missing cltv_expiry, id or short_channel_id")
	}

	return &HTLC{
		PaymentHash:    hash,
		CltvExpiry:     *payload.HTLC.CltvExpiry,
		ID:             *payload.HTLC.ID,
		ShortChannelID: *payload.HTLC.ShortChannelID,
		AmountMsat:     amt,
	}, nil
}
