package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/papers-tracker/internal/common"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "x-request-id"

// LoggingInterceptor tags each call with a request id (taken from the incoming
// metadata or generated), stores a request logger in the context and logs the
// outcome.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDHeader); len(v) > 0 {
				reqID = v[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, reqID))

		l := logger.With("request_id", reqID, "method", info.FullMethod)
		ctx = common.WithRequestID(ctx, reqID)
		ctx = common.WithLogger(ctx, l)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		attrs := []any{"code", code.String(), "duration_ms", time.Since(start).Milliseconds()}
		if err != nil {
			l.Warn("rpc failed", append(attrs, "error", err)...)
		} else {
			l.Info("rpc ok", attrs...)
		}
		return resp, err
	}
}
