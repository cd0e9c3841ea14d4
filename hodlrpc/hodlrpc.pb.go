// Code generated by protoc-gen-go, by hand: hodlvoice has no protoc step in
// its build, so this file is written to match what protoc-gen-go would
// produce for hodlrpc.proto, minus the binary file descriptor and the
// XXX_ bookkeeping fields that only protoc itself can generate correctly.
// Grounded on lnrpc/invoicesrpc/invoices.pb.go's structure: message types
// implementing proto.Message, a <Service>Client/<Service>Server interface
// pair, and a grpc.ServiceDesc registering the five unary methods.
package hodlrpc

import (
	context "context"
	fmt "fmt"

	proto "github.com/golang/protobuf/proto"
	grpc "google.golang.org/grpc"
)

// Reference imports to suppress errors if they are not otherwise used.
var _ = proto.Marshal
var _ = fmt.Errorf
var _ context.Context
var _ grpc.ClientConn

// PingRequest carries no fields; it's a liveness probe.
type PingRequest struct{}

func (m *PingRequest) Reset()         { *m = PingRequest{} }
func (m *PingRequest) String() string { return proto.CompactTextString(m) }
func (*PingRequest) ProtoMessage()    {}

// PingResponse echoes back, carrying no fields either.
type PingResponse struct{}

func (m *PingResponse) Reset()         { *m = PingResponse{} }
func (m *PingResponse) String() string { return proto.CompactTextString(m) }
func (*PingResponse) ProtoMessage()    {}

// HodlInvoiceRequest asks the plugin to mint a new hold-invoice.
type HodlInvoiceRequest struct {
	AmountMsat  uint64 `protobuf:"varint,1,opt,name=amount_msat,json=amountMsat,proto3" json:"amount_msat,omitempty"`
	Label       string `protobuf:"bytes,2,opt,name=label,proto3" json:"label,omitempty"`
	Description string `protobuf:"bytes,3,opt,name=description,proto3" json:"description,omitempty"`
	ExpirySecs  int64  `protobuf:"varint,4,opt,name=expiry_secs,json=expirySecs,proto3" json:"expiry_secs,omitempty"`
}

func (m *HodlInvoiceRequest) Reset()         { *m = HodlInvoiceRequest{} }
func (m *HodlInvoiceRequest) String() string { return proto.CompactTextString(m) }
func (*HodlInvoiceRequest) ProtoMessage()    {}

// HodlInvoiceResponse carries the minted BOLT-11 invoice and its hash.
type HodlInvoiceResponse struct {
	Bolt11      string `protobuf:"bytes,1,opt,name=bolt11,proto3" json:"bolt11,omitempty"`
	PaymentHash []byte `protobuf:"bytes,2,opt,name=payment_hash,json=paymentHash,proto3" json:"payment_hash,omitempty"`
	ExpiresAt   int64  `protobuf:"varint,3,opt,name=expires_at,json=expiresAt,proto3" json:"expires_at,omitempty"`
}

func (m *HodlInvoiceResponse) Reset()         { *m = HodlInvoiceResponse{} }
func (m *HodlInvoiceResponse) String() string { return proto.CompactTextString(m) }
func (*HodlInvoiceResponse) ProtoMessage()    {}

// HodlInvoiceSettleRequest identifies the invoice to settle.
type HodlInvoiceSettleRequest struct {
	PaymentHash []byte `protobuf:"bytes,1,opt,name=payment_hash,json=paymentHash,proto3" json:"payment_hash,omitempty"`
}

func (m *HodlInvoiceSettleRequest) Reset()         { *m = HodlInvoiceSettleRequest{} }
func (m *HodlInvoiceSettleRequest) String() string { return proto.CompactTextString(m) }
func (*HodlInvoiceSettleRequest) ProtoMessage()    {}

// HodlInvoiceSettleResponse carries the resulting integer state code.
type HodlInvoiceSettleResponse struct {
	State int32 `protobuf:"varint,1,opt,name=state,proto3" json:"state,omitempty"`
}

func (m *HodlInvoiceSettleResponse) Reset()         { *m = HodlInvoiceSettleResponse{} }
func (m *HodlInvoiceSettleResponse) String() string { return proto.CompactTextString(m) }
func (*HodlInvoiceSettleResponse) ProtoMessage()    {}

// HodlInvoiceCancelRequest identifies the invoice to cancel.
type HodlInvoiceCancelRequest struct {
	PaymentHash []byte `protobuf:"bytes,1,opt,name=payment_hash,json=paymentHash,proto3" json:"payment_hash,omitempty"`
}

func (m *HodlInvoiceCancelRequest) Reset()         { *m = HodlInvoiceCancelRequest{} }
func (m *HodlInvoiceCancelRequest) String() string { return proto.CompactTextString(m) }
func (*HodlInvoiceCancelRequest) ProtoMessage()    {}

// HodlInvoiceCancelResponse carries the resulting integer state code.
type HodlInvoiceCancelResponse struct {
	State int32 `protobuf:"varint,1,opt,name=state,proto3" json:"state,omitempty"`
}

func (m *HodlInvoiceCancelResponse) Reset()         { *m = HodlInvoiceCancelResponse{} }
func (m *HodlInvoiceCancelResponse) String() string { return proto.CompactTextString(m) }
func (*HodlInvoiceCancelResponse) ProtoMessage()    {}

// HodlInvoiceLookupRequest identifies the invoice to inspect.
type HodlInvoiceLookupRequest struct {
	PaymentHash []byte `protobuf:"bytes,1,opt,name=payment_hash,json=paymentHash,proto3" json:"payment_hash,omitempty"`
}

func (m *HodlInvoiceLookupRequest) Reset()         { *m = HodlInvoiceLookupRequest{} }
func (m *HodlInvoiceLookupRequest) String() string { return proto.CompactTextString(m) }
func (*HodlInvoiceLookupRequest) ProtoMessage()    {}

// HodlInvoiceLookupResponse carries the integer state code and, only when
// the invoice is Accepted, the observed HTLC cltv expiry.
type HodlInvoiceLookupResponse struct {
	State           int32  `protobuf:"varint,1,opt,name=state,proto3" json:"state,omitempty"`
	HasHtlcExpiry   bool   `protobuf:"varint,2,opt,name=has_htlc_expiry,json=hasHtlcExpiry,proto3" json:"has_htlc_expiry,omitempty"`
	HtlcCltvExpiry  uint32 `protobuf:"varint,3,opt,name=htlc_cltv_expiry,json=htlcCltvExpiry,proto3" json:"htlc_cltv_expiry,omitempty"`
}

func (m *HodlInvoiceLookupResponse) Reset()         { *m = HodlInvoiceLookupResponse{} }
func (m *HodlInvoiceLookupResponse) String() string { return proto.CompactTextString(m) }
func (*HodlInvoiceLookupResponse) ProtoMessage()    {}

// HodlvoiceClient is the client API for the Hodlvoice service.
type HodlvoiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	HodlInvoice(ctx context.Context, in *HodlInvoiceRequest, opts ...grpc.CallOption) (*HodlInvoiceResponse, error)
	HodlInvoiceSettle(ctx context.Context, in *HodlInvoiceSettleRequest, opts ...grpc.CallOption) (*HodlInvoiceSettleResponse, error)
	HodlInvoiceCancel(ctx context.Context, in *HodlInvoiceCancelRequest, opts ...grpc.CallOption) (*HodlInvoiceCancelResponse, error)
	HodlInvoiceLookup(ctx context.Context, in *HodlInvoiceLookupRequest, opts ...grpc.CallOption) (*HodlInvoiceLookupResponse, error)
}

type hodlvoiceClient struct {
	cc *grpc.ClientConn
}

// NewHodlvoiceClient returns a client bound to an established connection.
func NewHodlvoiceClient(cc *grpc.ClientConn) HodlvoiceClient {
	return &hodlvoiceClient{cc}
}

func (c *hodlvoiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	err := c.cc.Invoke(ctx, "/hodlrpc.Hodlvoice/Ping", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hodlvoiceClient) HodlInvoice(ctx context.Context, in *HodlInvoiceRequest, opts ...grpc.CallOption) (*HodlInvoiceResponse, error) {
	out := new(HodlInvoiceResponse)
	err := c.cc.Invoke(ctx, "/hodlrpc.Hodlvoice/HodlInvoice", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hodlvoiceClient) HodlInvoiceSettle(ctx context.Context, in *HodlInvoiceSettleRequest, opts ...grpc.CallOption) (*HodlInvoiceSettleResponse, error) {
	out := new(HodlInvoiceSettleResponse)
	err := c.cc.Invoke(ctx, "/hodlrpc.Hodlvoice/HodlInvoiceSettle", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hodlvoiceClient) HodlInvoiceCancel(ctx context.Context, in *HodlInvoiceCancelRequest, opts ...grpc.CallOption) (*HodlInvoiceCancelResponse, error) {
	out := new(HodlInvoiceCancelResponse)
	err := c.cc.Invoke(ctx, "/hodlrpc.Hodlvoice/HodlInvoiceCancel", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hodlvoiceClient) HodlInvoiceLookup(ctx context.Context, in *HodlInvoiceLookupRequest, opts ...grpc.CallOption) (*HodlInvoiceLookupResponse, error) {
	out := new(HodlInvoiceLookupResponse)
	err := c.cc.Invoke(ctx, "/hodlrpc.Hodlvoice/HodlInvoiceLookup", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HodlvoiceServer is the server API for the Hodlvoice service.
type HodlvoiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	HodlInvoice(context.Context, *HodlInvoiceRequest) (*HodlInvoiceResponse, error)
	HodlInvoiceSettle(context.Context, *HodlInvoiceSettleRequest) (*HodlInvoiceSettleResponse, error)
	HodlInvoiceCancel(context.Context, *HodlInvoiceCancelRequest) (*HodlInvoiceCancelResponse, error)
	HodlInvoiceLookup(context.Context, *HodlInvoiceLookupRequest) (*HodlInvoiceLookupResponse, error)
}

// RegisterHodlvoiceServer registers srv on s.
func RegisterHodlvoiceServer(s *grpc.Server, srv HodlvoiceServer) {
	s.RegisterService(&_Hodlvoice_serviceDesc, srv)
}

func _Hodlvoice_Ping_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HodlvoiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hodlrpc.Hodlvoice/Ping"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HodlvoiceServer).Ping(ctx, req.(*PingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Hodlvoice_HodlInvoice_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HodlInvoiceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HodlvoiceServer).HodlInvoice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hodlrpc.Hodlvoice/HodlInvoice"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HodlvoiceServer).HodlInvoice(ctx, req.(*HodlInvoiceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Hodlvoice_HodlInvoiceSettle_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HodlInvoiceSettleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HodlvoiceServer).HodlInvoiceSettle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hodlrpc.Hodlvoice/HodlInvoiceSettle"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HodlvoiceServer).HodlInvoiceSettle(ctx, req.(*HodlInvoiceSettleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Hodlvoice_HodlInvoiceCancel_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HodlInvoiceCancelRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HodlvoiceServer).HodlInvoiceCancel(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hodlrpc.Hodlvoice/HodlInvoiceCancel"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HodlvoiceServer).HodlInvoiceCancel(ctx, req.(*HodlInvoiceCancelRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Hodlvoice_HodlInvoiceLookup_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HodlInvoiceLookupRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HodlvoiceServer).HodlInvoiceLookup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hodlrpc.Hodlvoice/HodlInvoiceLookup"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(HodlvoiceServer).HodlInvoiceLookup(ctx, req.(*HodlInvoiceLookupRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _Hodlvoice_serviceDesc = grpc.ServiceDesc{
	ServiceName: "hodlrpc.Hodlvoice",
	HandlerType: (*HodlvoiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: _Hodlvoice_Ping_Handler},
		{MethodName: "HodlInvoice", Handler: _Hodlvoice_HodlInvoice_Handler},
		{MethodName: "HodlInvoiceSettle", Handler: _Hodlvoice_HodlInvoiceSettle_Handler},
		{MethodName: "HodlInvoiceCancel", Handler: _Hodlvoice_HodlInvoiceCancel_Handler},
		{MethodName: "HodlInvoiceLookup", Handler: _Hodlvoice_HodlInvoiceLookup_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hodlrpc/hodlrpc.proto",
}
