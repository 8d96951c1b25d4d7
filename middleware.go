package jwtinspect

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/jwks"
	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// Inspector decodes the JWTs of incoming requests. It serves both as a
// request middleware (CheckJWT) and as a decoding endpoint (DecodeHandler).
type Inspector struct {
	core                *core.Core
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	metrics             Metrics
	tracer              Tracer

	// Temporary fields used during construction
	key                 jwks.KeySpec
	verify              bool
	credentialsOptional bool
	strictKeyID         bool
	customCore          bool
	coreConfigured      bool
}

// ExclusionURLHandler reports whether a request skips token inspection.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs an Inspector with the supplied options.
//
// Example:
//
//	inspector, err := jwtinspect.New(
//	    jwtinspect.WithKey(jwks.SharedSecret("secret")),
//	    jwtinspect.WithLogger(jwtinspect.NewLogrusLogger(logrus.StandardLogger())),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create inspector: %v", err)
//	}
func New(opts ...Option) (*Inspector, error) {
	i := &Inspector{
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if i.customCore && i.coreConfigured {
		return nil, fmt.Errorf("invalid inspector configuration: %w", ErrCoreOptionsConflict)
	}

	i.applyDefaults()

	if i.core == nil {
		if err := i.createCore(); err != nil {
			return nil, fmt.Errorf("failed to create core: %w", err)
		}
	}

	return i, nil
}

func (i *Inspector) createCore() error {
	coreOpts := []core.Option{
		core.WithVerify(i.verify),
		core.WithCredentialsOptional(i.credentialsOptional),
		core.WithStrictKeyID(i.strictKeyID),
	}
	if i.key != nil {
		coreOpts = append(coreOpts, core.WithKey(i.key))
	}
	if i.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(i.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	i.core = c
	return nil
}

// applyDefaults sets defaults for optional fields not set by options.
func (i *Inspector) applyDefaults() {
	if i.errorHandler == nil {
		i.errorHandler = DefaultErrorHandler
	}
	if i.tokenExtractor == nil {
		i.tokenExtractor = AuthHeaderTokenExtractor
	}
	if i.metrics == nil {
		i.metrics = &NoopMetrics{}
	}
	if i.tracer == nil {
		i.tracer = &NoopTracer{}
	}
}

// Core returns the core used by the Inspector.
func (i *Inspector) Core() *core.Core {
	return i.core
}

// CheckJWT returns a middleware that decodes the request's token and
// stores the *core.DecodedJWT in the request context. Requests whose token
// is malformed, cannot be verified, or has an invalid signature are passed
// to the error handler instead of next.
func (i *Inspector) CheckJWT(next http.Handler) http.Handler {
	return i.CheckJWTWithErrorHandler(next, i.errorHandler)
}

// CheckJWTWithErrorHandler is CheckJWT reporting failures to onError instead
// of the configured error handler. Framework adapters use it to answer in
// their own way.
func (i *Inspector) CheckJWTWithErrorHandler(next http.Handler, onError ErrorHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.exclusionURLHandler != nil && i.exclusionURLHandler(r) {
			if i.logger != nil {
				i.logger.Debug("skipping JWT inspection for excluded URL",
					"method", r.Method,
					"path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}
		if !i.validateOnOptions && r.Method == http.MethodOptions {
			if i.logger != nil {
				i.logger.Debug("skipping JWT inspection for OPTIONS request")
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := i.tracer.StartSpan(r.Context(), "jwtinspect.http.check")
		defer span.Finish()
		span.SetTag("http.method", r.Method)
		span.SetTag("http.path", r.URL.Path)

		token, err := i.tokenExtractor(r)
		if err != nil {
			if i.logger != nil {
				i.logger.Error("failed to extract token from request",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			err = &extractionError{details: err}
			span.RecordError(err)
			i.record(ResultOf(nil, err), 0)
			onError(w, r, err)
			return
		}

		start := time.Now()
		decoded, err := i.core.CheckToken(ctx, token)
		duration := time.Since(start)
		i.record(ResultOf(decoded, err), duration)

		if err != nil {
			if i.logger != nil {
				i.logger.Warn("JWT inspection failed",
					"error", err,
					"code", jwterrors.CodeOf(err),
					"method", r.Method,
					"path", r.URL.Path)
			}
			span.RecordError(err)
			onError(w, r, err)
			return
		}

		if decoded == nil {
			if i.logger != nil {
				i.logger.Debug("no credentials provided, continuing without a decoded token (credentials optional)")
			}
			next.ServeHTTP(w, r)
			return
		}

		span.SetTag("jwt.signature", decoded.Signature.String())
		r = r.Clone(core.SetDecoded(r.Context(), decoded))
		next.ServeHTTP(w, r)
	})
}

func (i *Inspector) record(result string, duration time.Duration) {
	tags := map[string]string{"result": result}
	i.metrics.IncCounter(MetricDecodeTotal, tags)
	if duration > 0 {
		i.metrics.ObserveHistogram(MetricDecodeDuration, duration.Seconds(), tags)
	}
}

// ResultOf is the metrics label for the outcome of a decode: the signature
// status on success and the error code on failure.
func ResultOf(decoded *core.DecodedJWT, err error) string {
	switch {
	case err != nil:
		if code := jwterrors.CodeOf(err); code != "" {
			return code
		}
		return "error"
	case decoded == nil:
		return "skipped"
	default:
		return decoded.Signature.String()
	}
}

// GetDecoded retrieves the decoded token stored by CheckJWT.
//
// Example:
//
//	decoded, err := jwtinspect.GetDecoded(r.Context())
//	if err != nil {
//	    http.Error(w, "no token", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(decoded.Payload["sub"])
func GetDecoded(ctx context.Context) (*core.DecodedJWT, error) {
	return core.GetDecoded[*core.DecodedJWT](ctx)
}

// MustGetDecoded retrieves the decoded token or panics.
// Use only when you are certain the middleware ran and accepted a token.
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
