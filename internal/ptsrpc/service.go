package ptsrpc

import (
	"fmt"

	"google.golang.org/grpc"
)

// ServiceName is the gRPC service name clients dial against. It is not
// derived from a .proto package; it is just a stable string both ends
// agree on.
const ServiceName = "ptsrpc.ContactStream"

// ServiceDesc describes the two server-streaming RPCs by hand, in
// place of the registration code protoc-gen-go-grpc would otherwise
// generate from a .proto file.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*contactStreamServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamContacts",
			Handler:       streamContactsHandler,
			ServerStreams: true,
		},
		{
			StreamName:    "StreamStylus",
			Handler:       streamStylusHandler,
			ServerStreams: true,
		},
	},
}

// contactStreamServer is the interface RegisterService expects an
// implementation to satisfy.
type contactStreamServer interface {
	streamContacts(req *StreamRequest, stream grpc.ServerStream) error
	streamStylus(req *StreamRequest, stream grpc.ServerStream) error
}

// RegisterService attaches a Server to grpcServer using the JSON codec
// registered in codec.go. Callers select it at dial/serve time with
// grpc.CallContentSubtype("json") or by registering it as the default
// via grpc.ForceServerCodec on the server side.
func RegisterService(grpcServer *grpc.Server, server *Server) {
	grpcServer.RegisterService(&ServiceDesc, server)
}

func streamContactsHandler(srv interface{}, stream grpc.ServerStream) error {
	s, ok := srv.(contactStreamServer)
	if !ok {
		return fmt.Errorf("ptsrpc: %T does not implement contactStreamServer", srv)
	}
	req := new(StreamRequest)
	if err := stream.RecvMsg(req); err != nil {
		return fmt.Errorf("ptsrpc: receive StreamContacts request: %w", err)
	}
	return s.streamContacts(req, stream)
}

func streamStylusHandler(srv interface{}, stream grpc.ServerStream) error {
	s, ok := srv.(contactStreamServer)
	if !ok {
		return fmt.Errorf("ptsrpc: %T does not implement contactStreamServer", srv)
	}
	req := new(StreamRequest)
	if err := stream.RecvMsg(req); err != nil {
		return fmt.Errorf("ptsrpc: receive StreamStylus request: %w", err)
	}
	return s.streamStylus(req, stream)
}
