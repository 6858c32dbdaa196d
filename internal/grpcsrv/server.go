// Package grpcsrv serves the standard gRPC health protocol for the message
// store alongside the HTTP API.
package grpcsrv

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"messageapi/internal/message"
)

// ServiceName is the health service name reported for the message store.
const ServiceName = "messageapi.Messages"

const pingTimeout = 2 * time.Second

// HealthServer answers grpc.health.v1.Health checks by pinging the store.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	store  message.Store
	logger *slog.Logger
}

func NewHealthServer(store message.Store, logger *slog.Logger) *HealthServer {
	return &HealthServer{
		store:  store,
		logger: logger.With("component", "grpc-health"),
	}
}

// Check reports SERVING when the store answers a ping. The empty service
// name refers to the whole server.
func (s *HealthServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "Store ping failed", "error", err)
		return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}

// NewServer builds a gRPC server exposing health and reflection.
func NewServer(store message.Store, logger *slog.Logger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(loggingUnaryInterceptor(logger)),
	)
	grpc_health_v1.RegisterHealthServer(srv, NewHealthServer(store, logger))
	reflection.Register(srv)
	return srv
}

func loggingUnaryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		logger.DebugContext(ctx, "gRPC call started", "method", info.FullMethod)

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		if err != nil {
			logger.WarnContext(ctx, "gRPC call failed",
				"method", info.FullMethod,
				"duration", duration,
				"code", status.Code(err).String(),
				"error", err,
			)
		} else {
			logger.InfoContext(ctx, "gRPC call completed", "method", info.FullMethod, "duration", duration)
		}

		return resp, err
	}
}
