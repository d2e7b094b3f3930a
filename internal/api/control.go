// Package api defines the daemon control service: its gRPC descriptor, the
// client, and the status message carried over the wire.
//
// Messages are protobuf well-known types, so the service needs no generated
// code: commands travel as Int32Value and status as Struct.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "nekotray.v1.Control"

// Full method names.
const (
	MethodGetStatus = "/" + ServiceName + "/GetStatus"
	MethodSetTheme  = "/" + ServiceName + "/SetTheme"
	MethodWatch     = "/" + ServiceName + "/Watch"
	MethodShutdown  = "/" + ServiceName + "/Shutdown"
)

// ControlServer is the server interface for the control service.
type ControlServer interface {
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SetTheme(context.Context, *wrapperspb.Int32Value) (*emptypb.Empty, error)
	Watch(*emptypb.Empty, WatchServer) error
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// WatchServer is the server side of the Watch stream.
type WatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchServer struct {
	grpc.ServerStream
}

func (s *watchServer) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

// RegisterControlServer registers srv with a gRPC server.
func RegisterControlServer(s grpc.ServiceRegistrar, srv ControlServer) {
	s.RegisterService(&ControlServiceDesc, srv)
}

func getStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetStatus}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServer).GetStatus(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func setThemeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServer).SetTheme(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodSetTheme}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServer).SetTheme(ctx, req.(*wrapperspb.Int32Value))
	}
	return interceptor(ctx, in, info, handler)
}

func shutdownHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ControlServer).Shutdown(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodShutdown}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ControlServer).Shutdown(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ControlServer).Watch(in, &watchServer{stream})
}

// ControlServiceDesc is the grpc.ServiceDesc for the control service.
var ControlServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: getStatusHandler},
		{MethodName: "SetTheme", Handler: setThemeHandler},
		{MethodName: "Shutdown", Handler: shutdownHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "nekotray/v1/control.proto",
}

// ControlClient calls the control service.
type ControlClient struct {
	cc grpc.ClientConnInterface
}

// NewControlClient creates a client on an existing connection.
func NewControlClient(cc grpc.ClientConnInterface) *ControlClient {
	return &ControlClient{cc: cc}
}

// GetStatus returns the daemon's latest status.
func (c *ControlClient) GetStatus(ctx context.Context, opts ...grpc.CallOption) (*Status, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetStatus, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return StatusFromStruct(out), nil
}

// SetTheme sends a theme command.
func (c *ControlClient) SetTheme(ctx context.Context, cmd int, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodSetTheme, wrapperspb.Int32(int32(cmd)), new(emptypb.Empty), opts...)
}

// Shutdown asks the daemon to exit.
func (c *ControlClient) Shutdown(ctx context.Context, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodShutdown, &emptypb.Empty{}, new(emptypb.Empty), opts...)
}

// Watch opens a tick stream. The returned receiver yields one Status per
// animation tick until ctx is cancelled or the daemon stops.
func (c *ControlClient) Watch(ctx context.Context, opts ...grpc.CallOption) (*WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &ControlServiceDesc.Streams[0], MethodWatch, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &WatchClient{stream: stream}, nil
}

// WatchClient is the client side of the Watch stream.
type WatchClient struct {
	stream grpc.ClientStream
}

// Recv blocks for the next status. It returns io.EOF when the stream ends.
func (w *WatchClient) Recv() (*Status, error) {
	m := new(structpb.Struct)
	if err := w.stream.RecvMsg(m); err != nil {
		return nil, err
	}
	return StatusFromStruct(m), nil
}
