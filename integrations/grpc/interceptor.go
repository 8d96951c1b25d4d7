package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"

	"github.com/devtoolbox/jwtinspect"
	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// Metric names recorded by the interceptor.
const (
	MetricRequestsTotal = "jwtinspect_grpc_requests_total"
	MetricDecodeSeconds = "jwtinspect_grpc_decode_duration_seconds"
)

// JWTInterceptor decodes and optionally verifies JWTs for gRPC servers.
type JWTInterceptor struct {
	core            *core.Core
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger
	metrics         jwtinspect.Metrics

	// Internal builder for accumulating core options
	coreBuilder *coreBuilder
}

// New creates a new gRPC JWT interceptor with the provided options.
// Without WithCore or WithKey the interceptor decodes tokens without
// verifying them.
func New(opts ...Option) (*JWTInterceptor, error) {
	interceptor := &JWTInterceptor{
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
		metrics:         &jwtinspect.NoopMetrics{},
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	if interceptor.core != nil && interceptor.coreBuilder != nil && interceptor.coreBuilder.configured {
		return nil, errors.New("WithCore cannot be combined with core options")
	}

	if interceptor.core == nil {
		if interceptor.coreBuilder == nil {
			interceptor.coreBuilder = &coreBuilder{}
		}
		c, err := interceptor.coreBuilder.build()
		if err != nil {
			return nil, err
		}
		interceptor.core = c
	}

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that decodes
// the JWT from gRPC metadata and stores the result in the request context.
func (i *JWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping JWT inspection for excluded method",
					"method", info.FullMethod)
			}
			return handler(ctx, req)
		}

		decodedCtx, err := i.checkRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(decodedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// decodes the JWT from gRPC metadata and stores the result in the stream
// context.
func (i *JWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping JWT inspection for excluded method",
					"method", info.FullMethod)
			}
			return handler(srv, ss)
		}

		decodedCtx, err := i.checkRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		wrappedStream := &wrappedServerStream{
			ServerStream: ss,
			ctx:          decodedCtx,
		}

		return handler(srv, wrappedStream)
	}
}

// checkRequest extracts and decodes the JWT from the context.
func (i *JWTInterceptor) checkRequest(ctx context.Context, method string) (context.Context, error) {
	token, err := i.tokenExtractor(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Error("failed to extract token from gRPC metadata",
				"error", err,
				"method", method)
		}
		i.record(method, "invalid_request", 0)
		return ctx, i.errorHandler(err)
	}

	start := time.Now()
	decoded, err := i.core.CheckToken(ctx, token)
	i.record(method, jwtinspect.ResultOf(decoded, err), time.Since(start))
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("JWT inspection failed",
				"error", err,
				"code", jwterrors.CodeOf(err),
				"method", method)
		}
		return ctx, i.errorHandler(err)
	}

	if decoded == nil {
		if i.logger != nil {
			i.logger.Debug("no credentials provided, continuing without a decoded token (credentials optional)",
				"method", method)
		}
		return ctx, nil
	}

	return core.SetDecoded(ctx, decoded), nil
}

func (i *JWTInterceptor) record(method, result string, duration time.Duration) {
	tags := map[string]string{"method": method, "result": result}
	i.metrics.IncCounter(MetricRequestsTotal, tags)
	if duration > 0 {
		i.metrics.ObserveHistogram(MetricDecodeSeconds, duration.Seconds(), tags)
	}
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context holding the decoded token.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// GetDecoded retrieves the decoded token stored by the interceptor.
func GetDecoded(ctx context.Context) (*core.DecodedJWT, error) {
	return core.GetDecoded[*core.DecodedJWT](ctx)
}

// MustGetDecoded retrieves the decoded token or panics.
// Use only in handlers for methods that are not excluded and do not accept
// anonymous calls.
func MustGetDecoded(ctx context.Context) *core.DecodedJWT {
	decoded, err := GetDecoded(ctx)
	if err != nil {
		panic(err)
	}
	return decoded
}

// HasDecoded checks if a decoded token exists in the context.
func HasDecoded(ctx context.Context) bool {
	return core.HasDecoded(ctx)
}
