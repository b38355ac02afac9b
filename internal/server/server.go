package server

import (
	"fmt"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/roadeye/dashcam/internal/logging"
)

// defaultDrainTimeout bounds how long Stop waits for in-flight RPCs
// before forcing the remaining connections closed.
const defaultDrainTimeout = 10 * time.Second

// ServiceSet registers concrete gRPC services onto a server. The
// lifecycle manager never sees wire schemas; the deployment hands it
// whatever services it wants exposed.
type ServiceSet interface {
	RegisterWith(s *grpc.Server)
}

// Server owns the Stopped/Running state machine of one listening gRPC
// endpoint. The zero state is Stopped; Start and Stop move between the
// two states and a stopped server can be started again.
type Server struct {
	addr         string
	log          *logging.Logger
	services     []ServiceSet
	drainTimeout time.Duration

	mu      sync.Mutex
	grpcSrv *grpc.Server
	lis     net.Listener
	done    chan struct{}
	running bool
}

// Option adjusts server construction.
type Option func(*Server)

// WithDrainTimeout overrides how long Stop lets in-flight RPCs drain.
func WithDrainTimeout(d time.Duration) Option {
	return func(s *Server) { s.drainTimeout = d }
}

// New builds a stopped server for addr (host:port). The address must be
// non-empty; it is not bound until Start.
func New(addr string, log *logging.Logger, services []ServiceSet, opts ...Option) (*Server, error) {
	if addr == "" {
		return nil, ErrEmptyAddress
	}

	s := &Server{
		addr:         addr,
		log:          log,
		services:     services,
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start binds the endpoint, registers every service set and begins
// serving in the background. The transition to Running happens only
// after the listener is bound; on bind failure the server stays
// Stopped and the error is returned for the caller to retry or bail.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.log.ErrorWith().Err(err).Str("address", s.addr).Msg("failed to bind service endpoint")
		return fmt.Errorf("binding %s: %w", s.addr, err)
	}

	grpcSrv := grpc.NewServer()
	for _, svc := range s.services {
		svc.RegisterWith(grpcSrv)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := grpcSrv.Serve(lis); err != nil {
			s.log.ErrorWith().Err(err).Str("address", s.addr).Msg("serve loop ended")
		}
	}()

	s.grpcSrv = grpcSrv
	s.lis = lis
	s.done = done
	s.running = true
	s.log.InfoWith().Str("address", lis.Addr().String()).Msg("service started")
	return nil
}

// Stop drains in-flight RPCs and transitions to Stopped. Calling Stop
// on a stopped server is a safe no-op. If the drain exceeds the
// configured timeout the remaining connections are closed hard.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	grpcSrv := s.grpcSrv
	done := s.done
	s.running = false
	s.grpcSrv = nil
	s.lis = nil
	s.mu.Unlock()

	s.log.Info("stopping service")

	drained := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(s.drainTimeout):
		s.log.WarnWith().Dur("timeout", s.drainTimeout).Msg("drain timed out, forcing stop")
		grpcSrv.Stop()
		<-drained
	}

	<-done
	s.log.Info("service stopped")
}

// IsRunning reports the current lifecycle state.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// WaitForShutdown blocks until the serve loop has fully exited. It
// must be driven to completion by another goroutine calling Stop;
// before the first Start there is nothing to wait for and the call
// fails with ErrNotStarted.
func (s *Server) WaitForShutdown() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return ErrNotStarted
	}
	<-done
	return nil
}

// Addr returns the bound listener address while Running, otherwise the
// configured one. With a ":0" endpoint this is how callers learn the
// real port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return s.lis.Addr().String()
	}
	return s.addr
}
