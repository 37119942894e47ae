// Package ptsrpc streams stabilized contact frames and stylus samples
// to subscribed clients over gRPC. There is no .proto source and no
// protoc-generated stubs: messages are plain Go structs marshaled by a
// registered JSON codec, and the service is described by a
// hand-written grpc.ServiceDesc instead of generated registration
// code. This keeps the wire format self-describing and avoids
// maintaining a parallel set of generated types for what is, on the
// wire, just two server-streaming RPCs.
package ptsrpc
