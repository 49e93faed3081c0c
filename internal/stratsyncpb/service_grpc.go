package stratsyncpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StratSyncClient is the client API for the strategy-sync service.
type StratSyncClient interface {
	Event(ctx context.Context, in *SubscriptionRequest, opts ...grpc.CallOption) (StratSync_EventClient, error)
	Elevate(ctx context.Context, in *ElevateRequest, opts ...grpc.CallOption) (*Empty, error)
	ClearOtherSessions(ctx context.Context, in *ClearOtherSessionsRequest, opts ...grpc.CallOption) (*Empty, error)
	UpsertDamageOption(ctx context.Context, in *UpsertDamageOptionRequest, opts ...grpc.CallOption) (*Empty, error)
	UpdatePlayerJob(ctx context.Context, in *UpdatePlayerJobRequest, opts ...grpc.CallOption) (*Empty, error)
	MutateEntries(ctx context.Context, in *MutateEntriesRequest, opts ...grpc.CallOption) (*Empty, error)
	UpsertEntry(ctx context.Context, in *UpsertEntryRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*Empty, error)
	UpsertNote(ctx context.Context, in *UpsertNoteRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*Empty, error)
}

type stratSyncClient struct {
	cc grpc.ClientConnInterface
}

// NewStratSyncClient builds a StratSyncClient over cc. Callers must dial
// cc with grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec)) (or pass it
// per-call) so requests are encoded with this package's codec.
func NewStratSyncClient(cc grpc.ClientConnInterface) StratSyncClient {
	return &stratSyncClient{cc: cc}
}

func (c *stratSyncClient) Event(ctx context.Context, in *SubscriptionRequest, opts ...grpc.CallOption) (StratSync_EventClient, error) {
	stream, err := c.cc.NewStream(ctx, &_StratSync_serviceDesc.Streams[0], "/stratsync.StratSync/Event", opts...)
	if err != nil {
		return nil, err
	}
	x := &stratSyncEventClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// StratSync_EventClient is the client-side stream handle for Event.
type StratSync_EventClient interface {
	Recv() (*EventResponse, error)
	grpc.ClientStream
}

type stratSyncEventClient struct {
	grpc.ClientStream
}

func (x *stratSyncEventClient) Recv() (*EventResponse, error) {
	m := new(EventResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *stratSyncClient) Elevate(ctx context.Context, in *ElevateRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/Elevate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stratSyncClient) ClearOtherSessions(ctx context.Context, in *ClearOtherSessionsRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/ClearOtherSessions", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stratSyncClient) UpsertDamageOption(ctx context.Context, in *UpsertDamageOptionRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/UpsertDamageOption", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stratSyncClient) UpdatePlayerJob(ctx context.Context, in *UpdatePlayerJobRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/UpdatePlayerJob", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stratSyncClient) MutateEntries(ctx context.Context, in *MutateEntriesRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/MutateEntries", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stratSyncClient) UpsertEntry(ctx context.Context, in *UpsertEntryRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/UpsertEntry", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stratSyncClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/DeleteEntry", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stratSyncClient) UpsertNote(ctx context.Context, in *UpsertNoteRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/UpsertNote", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stratSyncClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/stratsync.StratSync/DeleteNote", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StratSyncServer is the server API for the strategy-sync service.
type StratSyncServer interface {
	Event(*SubscriptionRequest, StratSync_EventServer) error
	Elevate(context.Context, *ElevateRequest) (*Empty, error)
	ClearOtherSessions(context.Context, *ClearOtherSessionsRequest) (*Empty, error)
	UpsertDamageOption(context.Context, *UpsertDamageOptionRequest) (*Empty, error)
	UpdatePlayerJob(context.Context, *UpdatePlayerJobRequest) (*Empty, error)
	MutateEntries(context.Context, *MutateEntriesRequest) (*Empty, error)
	UpsertEntry(context.Context, *UpsertEntryRequest) (*Empty, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*Empty, error)
	UpsertNote(context.Context, *UpsertNoteRequest) (*Empty, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*Empty, error)
}

// UnimplementedStratSyncServer can be embedded to have forward-compatible
// implementations.
type UnimplementedStratSyncServer struct{}

func (UnimplementedStratSyncServer) Event(*SubscriptionRequest, StratSync_EventServer) error {
	return status.Error(codes.Unimplemented, "method Event not implemented")
}
func (UnimplementedStratSyncServer) Elevate(context.Context, *ElevateRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Elevate not implemented")
}
func (UnimplementedStratSyncServer) ClearOtherSessions(context.Context, *ClearOtherSessionsRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearOtherSessions not implemented")
}
func (UnimplementedStratSyncServer) UpsertDamageOption(context.Context, *UpsertDamageOptionRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpsertDamageOption not implemented")
}
func (UnimplementedStratSyncServer) UpdatePlayerJob(context.Context, *UpdatePlayerJobRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdatePlayerJob not implemented")
}
func (UnimplementedStratSyncServer) MutateEntries(context.Context, *MutateEntriesRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method MutateEntries not implemented")
}
func (UnimplementedStratSyncServer) UpsertEntry(context.Context, *UpsertEntryRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpsertEntry not implemented")
}
func (UnimplementedStratSyncServer) DeleteEntry(context.Context, *DeleteEntryRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteEntry not implemented")
}
func (UnimplementedStratSyncServer) UpsertNote(context.Context, *UpsertNoteRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method UpsertNote not implemented")
}
func (UnimplementedStratSyncServer) DeleteNote(context.Context, *DeleteNoteRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteNote not implemented")
}

// RegisterStratSyncServer registers srv with s.
func RegisterStratSyncServer(s grpc.ServiceRegistrar, srv StratSyncServer) {
	s.RegisterService(&_StratSync_serviceDesc, srv)
}

func _StratSync_Event_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscriptionRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(StratSyncServer).Event(m, &stratSyncEventServer{stream})
}

// StratSync_EventServer is the server-side stream handle for Event.
type StratSync_EventServer interface {
	Send(*EventResponse) error
	grpc.ServerStream
}

type stratSyncEventServer struct {
	grpc.ServerStream
}

func (x *stratSyncEventServer) Send(m *EventResponse) error {
	return x.ServerStream.SendMsg(m)
}

func _StratSync_Elevate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ElevateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).Elevate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/Elevate"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).Elevate(ctx, req.(*ElevateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StratSync_ClearOtherSessions_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ClearOtherSessionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).ClearOtherSessions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/ClearOtherSessions"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).ClearOtherSessions(ctx, req.(*ClearOtherSessionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StratSync_UpsertDamageOption_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpsertDamageOptionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).UpsertDamageOption(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/UpsertDamageOption"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).UpsertDamageOption(ctx, req.(*UpsertDamageOptionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StratSync_UpdatePlayerJob_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpdatePlayerJobRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).UpdatePlayerJob(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/UpdatePlayerJob"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).UpdatePlayerJob(ctx, req.(*UpdatePlayerJobRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StratSync_MutateEntries_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MutateEntriesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).MutateEntries(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/MutateEntries"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).MutateEntries(ctx, req.(*MutateEntriesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StratSync_UpsertEntry_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpsertEntryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).UpsertEntry(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/UpsertEntry"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).UpsertEntry(ctx, req.(*UpsertEntryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StratSync_DeleteEntry_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteEntryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).DeleteEntry(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/DeleteEntry"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).DeleteEntry(ctx, req.(*DeleteEntryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StratSync_UpsertNote_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpsertNoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).UpsertNote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/UpsertNote"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).UpsertNote(ctx, req.(*UpsertNoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StratSync_DeleteNote_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteNoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StratSyncServer).DeleteNote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/stratsync.StratSync/DeleteNote"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StratSyncServer).DeleteNote(ctx, req.(*DeleteNoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _StratSync_serviceDesc = grpc.ServiceDesc{
	ServiceName: "stratsync.StratSync",
	HandlerType: (*StratSyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Elevate", Handler: _StratSync_Elevate_Handler},
		{MethodName: "ClearOtherSessions", Handler: _StratSync_ClearOtherSessions_Handler},
		{MethodName: "UpsertDamageOption", Handler: _StratSync_UpsertDamageOption_Handler},
		{MethodName: "UpdatePlayerJob", Handler: _StratSync_UpdatePlayerJob_Handler},
		{MethodName: "MutateEntries", Handler: _StratSync_MutateEntries_Handler},
		{MethodName: "UpsertEntry", Handler: _StratSync_UpsertEntry_Handler},
		{MethodName: "DeleteEntry", Handler: _StratSync_DeleteEntry_Handler},
		{MethodName: "UpsertNote", Handler: _StratSync_UpsertNote_Handler},
		{MethodName: "DeleteNote", Handler: _StratSync_DeleteNote_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Event",
			Handler:       _StratSync_Event_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "stratsync.proto",
}
