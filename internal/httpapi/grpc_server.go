package httpapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/obs"
)

// GRPCServer exposes the standard gRPC health service backed by the same
// readiness probe the HTTP layer uses.
type GRPCServer struct {
	grpc_health_v1.UnimplementedHealthServer

	readiness ReadyProbe
}

// NewGRPCServer creates the gRPC service wrapper.
func NewGRPCServer(rp ReadyProbe) *GRPCServer {
	return &GRPCServer{readiness: rp}
}

// Register attaches the health service to a gRPC server.
func (s *GRPCServer) Register(g *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(g, s)
}

// Check evaluates readiness.
func (s *GRPCServer) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if err := s.readiness.Check(ctx); err != nil {
		obs.SetReady(false)
		return &grpc_health_v1.HealthCheckResponse{
			Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING,
		}, nil
	}
	obs.SetReady(true)
	return &grpc_health_v1.HealthCheckResponse{
		Status: grpc_health_v1.HealthCheckResponse_SERVING,
	}, nil
}

// Watch is not supported; clients should poll Check.
func (s *GRPCServer) Watch(_ *grpc_health_v1.HealthCheckRequest, _ grpc_health_v1.Health_WatchServer) error {
	return status.Error(codes.Unimplemented, "watch is not supported")
}
