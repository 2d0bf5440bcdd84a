// Package server exposes autofill and the paper catalogue over gRPC.
package server

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// MaxRequestBytes is the largest message the server accepts: a base64 encoded
// PDF of MaxPDFBytes plus room for the rest of the request.
const MaxRequestBytes = (MaxPDFBytes+2)/3*4 + 1<<20

// NewGRPCServer registers the autofill service, the catalogue service when
// catalogue is non-nil, health and reflection.
func NewGRPCServer(autofill *AutofillService, catalogue *CatalogueService, logger *slog.Logger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(MaxRequestBytes),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(logger)),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	srv.RegisterService(&AutofillServiceDesc, autofill)
	hs.SetServingStatus(AutofillServiceName, healthpb.HealthCheckResponse_SERVING)
	if catalogue != nil {
		srv.RegisterService(&CatalogueServiceDesc, catalogue)
		hs.SetServingStatus(CatalogueServiceName, healthpb.HealthCheckResponse_SERVING)
	}
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Reflection for grpcurl
	reflection.Register(srv)
	return srv, hs
}
