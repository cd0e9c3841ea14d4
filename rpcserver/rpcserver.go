// Package rpcserver implements component H, the gRPC surface external
// clients use to create, settle, cancel and inspect hold-invoices. Grounded
// on rpcserver.go's rpcServer type and its context.Context/request-response
// handler shape, generalized from the teacher's full lnrpc.Lightning
// surface down to hodlrpc's five methods.
package rpcserver

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/lightninglabs/hodlvoice/clnrpc"
	"github.com/lightninglabs/hodlvoice/hodlerr"
	"github.com/lightninglabs/hodlvoice/hodllog"
	"github.com/lightninglabs/hodlvoice/hodlrpc"
	"github.com/lightninglabs/hodlvoice/hodlstate"
	"github.com/lightninglabs/hodlvoice/store"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var log = hodllog.Get(hodllog.SubsystemRPCServer)

// invoiceMinter is the subset of *clnrpc.Client this server needs.
type invoiceMinter interface {
	Invoice(params clnrpc.InvoiceParams) (*clnrpc.InvoiceResult, error)
}

// stateStore is the subset of *store.Store this server needs. Accepting
// it as an interface lets tests exercise the settle/cancel/lookup state
// gating without a live host RPC socket.
type stateStore interface {
	NewState(hash chainhash.Hash, state hodlstate.HodlState) error
	GetState(hash chainhash.Hash) (*store.StateEntry, error)
	UpdateStateForced(hash chainhash.Hash, state hodlstate.HodlState) (uint64, error)
	GetHTLCExpiry(hash chainhash.Hash) (uint32, error)
}

// Server implements hodlrpc.HodlvoiceServer.
type Server struct {
	RPC   invoiceMinter
	Store stateStore
}

// New returns a Server backed by rpc/store.
func New(rpc invoiceMinter, st stateStore) *Server {
	return &Server{RPC: rpc, Store: st}
}

// Ping is a liveness probe; it does no work.
func (s *Server) Ping(ctx context.Context, req *hodlrpc.PingRequest) (*hodlrpc.PingResponse, error) {
	return &hodlrpc.PingResponse{}, nil
}

// HodlInvoice mints a BOLT-11 invoice through the host and creates its
// persistent Open record. Any persistent-layer failure, including a
// duplicate payment hash, surfaces as Internal.
func (s *Server) HodlInvoice(ctx context.Context, req *hodlrpc.HodlInvoiceRequest) (*hodlrpc.HodlInvoiceResponse, error) {
	log.Debugf("HodlInvoice request: %v", spew.Sdump(req))

	params := clnrpc.InvoiceParams{
		AmountMsat:  req.AmountMsat,
		Label:       req.Label,
		Description: req.Description,
	}
	if req.ExpirySecs != 0 {
		expiry := req.ExpirySecs
		params.ExpirySecs = &expiry
	}

	result, err := s.RPC.Invoice(params)
	if err != nil {
		return nil, internalError(err)
	}

	hash, err := parseHash(result.PaymentHash)
	if err != nil {
		return nil, internalError(err)
	}

	if err := s.Store.NewState(hash, hodlstate.Open); err != nil {
		return nil, internalError(err)
	}

	return &hodlrpc.HodlInvoiceResponse{
		Bolt11:      result.Bolt11,
		PaymentHash: hash[:],
		ExpiresAt:   result.ExpiresAt,
	}, nil
}

// HodlInvoiceSettle force-transitions an Accepted invoice to Settled.
func (s *Server) HodlInvoiceSettle(ctx context.Context, req *hodlrpc.HodlInvoiceSettleRequest) (*hodlrpc.HodlInvoiceSettleResponse, error) {
	hash, err := hashFromWire(req.PaymentHash)
	if err != nil {
		return nil, internalError(err)
	}

	entry, err := s.Store.GetState(hash)
	if err != nil {
		return nil, internalError(err)
	}
	if entry.State != hodlstate.Accepted {
		return nil, wrongStateError(hash, entry.State, hodlstate.Settled)
	}

	if _, err := s.Store.UpdateStateForced(hash, hodlstate.Settled); err != nil {
		return nil, internalError(err)
	}

	log.Infof("payment_hash %x settled by operator", hash[:])
	return &hodlrpc.HodlInvoiceSettleResponse{State: hodlstate.Settled.Int32()}, nil
}

// HodlInvoiceCancel force-transitions an Open or Accepted invoice to
// Canceled. Calling it on an already-terminal invoice is WrongState and
// never mutates persistent state, matching the idempotent-cancel
// requirement.
func (s *Server) HodlInvoiceCancel(ctx context.Context, req *hodlrpc.HodlInvoiceCancelRequest) (*hodlrpc.HodlInvoiceCancelResponse, error) {
	hash, err := hashFromWire(req.PaymentHash)
	if err != nil {
		return nil, internalError(err)
	}

	entry, err := s.Store.GetState(hash)
	if err != nil {
		return nil, internalError(err)
	}
	if entry.State != hodlstate.Open && entry.State != hodlstate.Accepted {
		return nil, wrongStateError(hash, entry.State, hodlstate.Canceled)
	}

	if _, err := s.Store.UpdateStateForced(hash, hodlstate.Canceled); err != nil {
		return nil, internalError(err)
	}

	log.Infof("payment_hash %x canceled by operator", hash[:])
	return &hodlrpc.HodlInvoiceCancelResponse{State: hodlstate.Canceled.Int32()}, nil
}

// HodlInvoiceLookup reports the current state, and the observed HTLC cltv
// expiry when the invoice is Accepted.
func (s *Server) HodlInvoiceLookup(ctx context.Context, req *hodlrpc.HodlInvoiceLookupRequest) (*hodlrpc.HodlInvoiceLookupResponse, error) {
	hash, err := hashFromWire(req.PaymentHash)
	if err != nil {
		return nil, internalError(err)
	}

	entry, err := s.Store.GetState(hash)
	if err != nil {
		return nil, internalError(err)
	}

	resp := &hodlrpc.HodlInvoiceLookupResponse{State: entry.State.Int32()}
	if entry.State == hodlstate.Accepted {
		expiry, err := s.Store.GetHTLCExpiry(hash)
		if err == nil {
			resp.HasHtlcExpiry = true
			resp.HtlcCltvExpiry = expiry
		} else {
			log.Warnf("payment_hash %x: accepted with no recorded htlc-expiry: %v", hash[:], err)
		}
	}

	return resp, nil
}

func hashFromWire(raw []byte) (chainhash.Hash, error) {
	if len(raw) != chainhash.HashSize {
		return chainhash.Hash{}, hodlerr.New(hodlerr.KindParse,
			"payment_hash must be %d bytes, got %d", chainhash.HashSize, len(raw))
	}
	var hash chainhash.Hash
	copy(hash[:], raw)
	return hash, nil
}

func parseHash(hexHash string) (chainhash.Hash, error) {
	raw, err := hex.DecodeString(hexHash)
	if err != nil || len(raw) != chainhash.HashSize {
		return chainhash.Hash{}, hodlerr.New(hodlerr.KindParse,
			"host returned unparseable payment_hash %q", hexHash)
	}
	var hash chainhash.Hash
	copy(hash[:], raw)
	return hash, nil
}

// internalError maps every hodlerr kind to Internal, per the error
// propagation policy: there is no distinguished gRPC code for WrongState.
func internalError(err error) error {
	return status.Error(codes.Internal, err.Error())
}

func wrongStateError(hash chainhash.Hash, from, to hodlstate.HodlState) error {
	err := hodlerr.New(hodlerr.KindWrongState,
		"payment_hash %x: cannot move from %s to %s", hash[:], from, to)
	return internalError(err)
}
