package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roadeye/dashcam/internal/logging"
)

const readHeaderTimeout = 5 * time.Second

// Server serves the metrics registry over HTTP for Prometheus scrapes.
// It runs beside the gRPC service as an auxiliary of the daemon and
// follows the same start once, stop once lifecycle.
type Server struct {
	addr     string
	gatherer prometheus.Gatherer
	log      *logging.Logger

	mu      sync.Mutex
	httpSrv *http.Server
	lis     net.Listener
	done    chan struct{}
}

// NewServer creates a stopped metrics server for the given gatherer.
func NewServer(addr string, gatherer prometheus.Gatherer, log *logging.Logger) *Server {
	return &Server{
		addr:     addr,
		gatherer: gatherer,
		log:      log,
	}
}

// Start binds the address and begins serving /metrics in the
// background. A bind failure is returned and leaves the server
// stopped.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		s.log.ErrorWith().
			Err(err).
			Str("address", s.addr).
			Msg("failed to bind metrics endpoint")
		return fmt.Errorf("binding metrics endpoint %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.ErrorWith().Err(err).Msg("metrics endpoint terminated")
		}
	}()

	s.mu.Lock()
	s.httpSrv = httpSrv
	s.lis = lis
	s.done = done
	s.mu.Unlock()

	s.log.InfoWith().
		Str("address", lis.Addr().String()).
		Msg("metrics endpoint listening")
	return nil
}

// Stop drains in-flight scrapes and shuts the endpoint down. Stopping
// an already stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	httpSrv := s.httpSrv
	done := s.done
	s.httpSrv = nil
	s.lis = nil
	s.done = nil
	s.mu.Unlock()

	if httpSrv == nil {
		return nil
	}

	if err := httpSrv.Shutdown(ctx); err != nil {
		httpSrv.Close()
		s.log.WarnWith().Err(err).Msg("metrics endpoint shutdown forced")
		return fmt.Errorf("stopping metrics endpoint: %w", err)
	}
	<-done

	s.log.Info("metrics endpoint stopped")
	return nil
}

// Addr returns the bound listen address while running, which resolves
// the port when the server was started with ":0".
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return s.lis.Addr().String()
	}
	return s.addr
}
