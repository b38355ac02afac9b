package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService exposes the standard gRPC health protocol. The daemon
// registers it as its baseline service set so probes and the status
// command have an endpoint to query.
type HealthService struct {
	srv *health.Server
}

// NewHealthService returns a health service reporting SERVING.
func NewHealthService() *HealthService {
	return &HealthService{srv: health.NewServer()}
}

func (h *HealthService) RegisterWith(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// Serving marks the overall process healthy.
func (h *HealthService) Serving() {
	h.srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

// NotServing marks the overall process as draining. Pending health
// watchers are notified immediately.
func (h *HealthService) NotServing() {
	h.srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
}
