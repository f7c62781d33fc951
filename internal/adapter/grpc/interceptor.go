package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/simaogato/stockplan-backend/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type userKey struct{}

// UserFromContext returns the user resolved by AuthInterceptor, or "" if none
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(userKey{}).(string)
	return user
}

// AuthInterceptor returns a gRPC unary server interceptor that resolves
// the authorization token from request metadata to a user.
// Both "Bearer <token>" and a bare token are accepted.
// If the token is missing or unknown, it returns status.Unauthenticated.
// If valid, it calls the handler with the user stored in the context.
func AuthInterceptor(tokens map[string]string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		user, ok := tokens[token]
		if !ok || token == "" {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(context.WithValue(ctx, userKey{}, user), req)
	}
}

// LoggingInterceptor logs every unary call with its status code and duration
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		elapsed := time.Since(start).Round(time.Microsecond)

		switch code {
		case codes.OK:
			log.Debug("%s -> OK (%s)", info.FullMethod, elapsed)
		case codes.Internal, codes.Unknown:
			log.Error("%s -> %s (%s): %v", info.FullMethod, code, elapsed, err)
		default:
			log.Warning("%s -> %s (%s): %v", info.FullMethod, code, elapsed, err)
		}

		return resp, err
	}
}
