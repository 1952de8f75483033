package interceptors

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/maison-storefront/internal/pkg/interceptors/constants"
)

// UnaryServerInterceptor copies the request id from incoming metadata into
// the context so handlers and logs share it with the HTTP side.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := GetMetadataValue(ctx, constants.HeaderXRequestId)
		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)

		slog.DebugContext(ctx, "grpc call", "method", info.FullMethod, "request_id", RequestIDFromContext(ctx))
		return handler(ctx, req)
	}
}

// RequestIDFromContext returns "unknown" when no id was attached.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// GetMetadataValue reads key from incoming then outgoing gRPC metadata.
func GetMetadataValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}
	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}
