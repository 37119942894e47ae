package ptsrpc

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
)

const clientBuffer = 16

// Server streams stabilized contact frames and stylus samples to any
// number of connected gRPC clients. It implements pipeline.EventSink,
// so a Pipeline can publish directly into it.
type Server struct {
	contacts *broadcaster[ContactFrameMessage]
	stylus   *broadcaster[StylusEventMessage]

	contactSeq atomic.Int64
	stylusSeq  atomic.Int64

	mu       sync.Mutex
	listener net.Listener
	grpcSrv  *grpc.Server
}

// NewServer creates a Server with no listener attached yet.
func NewServer() *Server {
	return &Server{
		contacts: newBroadcaster[ContactFrameMessage](),
		stylus:   newBroadcaster[StylusEventMessage](),
	}
}

// EmitContacts implements pipeline.EventSink by publishing the frame to
// every subscribed StreamContacts client.
func (s *Server) EmitContacts(frame contact.Frame) {
	seq := s.contactSeq.Add(1)
	s.contacts.publish(frameToMessage(seq, frame))
}

// EmitStylus implements decoder.StylusSink by publishing the sample to
// every subscribed StreamStylus client.
func (s *Server) EmitStylus(ev decoder.StylusEvent) {
	seq := s.stylusSeq.Add(1)
	s.stylus.publish(eventToMessage(seq, ev))
}

func (s *Server) streamContacts(req *StreamRequest, stream grpc.ServerStream) error {
	id, ch := s.contacts.subscribe(clientBuffer)
	defer s.contacts.unsubscribe(id)
	diagf("contact stream %d opened, session=%q", id, req.SessionID)

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			diagf("contact stream %d closed: %v", id, ctx.Err())
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.SendMsg(&msg); err != nil {
				opsf("contact stream %d send error: %v", id, err)
				return fmt.Errorf("ptsrpc: send contact frame: %w", err)
			}
		}
	}
}

func (s *Server) streamStylus(req *StreamRequest, stream grpc.ServerStream) error {
	id, ch := s.stylus.subscribe(clientBuffer)
	defer s.stylus.unsubscribe(id)
	diagf("stylus stream %d opened, session=%q", id, req.SessionID)

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			diagf("stylus stream %d closed: %v", id, ctx.Err())
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.SendMsg(&msg); err != nil {
				opsf("stylus stream %d send error: %v", id, err)
				return fmt.Errorf("ptsrpc: send stylus event: %w", err)
			}
		}
	}
}

// Serve starts a gRPC listener at addr and blocks until the server
// stops or an error occurs. The listener uses the JSON codec as its
// only content subtype, since no protoc-generated proto codec is
// available for these message types.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("ptsrpc: listen on %s: %w", addr, err)
	}

	codec := encoding.GetCodec(codecName)
	grpcSrv := grpc.NewServer(grpc.ForceServerCodec(codec))
	RegisterService(grpcSrv, s)

	s.mu.Lock()
	s.listener = lis
	s.grpcSrv = grpcSrv
	s.mu.Unlock()

	opsf("listening on %s", addr)
	if err := grpcSrv.Serve(lis); err != nil {
		return fmt.Errorf("ptsrpc: serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts the gRPC server down, if it has been started.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grpcSrv != nil {
		s.grpcSrv.GracefulStop()
	}
}
