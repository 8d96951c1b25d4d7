package jwtinspect

import (
	"errors"
	"net/http"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/jwks"
)

// Option configures the Inspector.
// Returns error for validation failures.
type Option func(*Inspector) error

// WithCore uses an existing core instead of building one. It cannot be
// combined with WithKey, WithVerify, WithCredentialsOptional or
// WithStrictKeyID, which configure the built core.
func WithCore(c *core.Core) Option {
	return func(i *Inspector) error {
		if c == nil {
			return ErrCoreNil
		}
		i.core = c
		i.customCore = true
		return nil
	}
}

// WithKey sets the key tokens are verified with. Setting a key turns
// verification on.
func WithKey(key jwks.KeySpec) Option {
	return func(i *Inspector) error {
		if key == nil {
			return ErrKeyNil
		}
		i.key = key
		i.coreConfigured = true
		return nil
	}
}

// WithVerify sets whether tokens are verified.
//
// Default: false (verified only when a key is set)
func WithVerify(verify bool) Option {
	return func(i *Inspector) error {
		i.verify = verify
		i.coreConfigured = true
		return nil
	}
}

// WithStrictKeyID requires a declared "kid" to match the verification key.
func WithStrictKeyID(strict bool) Option {
	return func(i *Inspector) error {
		i.strictKeyID = strict
		i.coreConfigured = true
		return nil
	}
}

// WithCredentialsOptional sets whether requests without a token pass.
//
// Default: false (credentials required)
func WithCredentialsOptional(value bool) Option {
	return func(i *Inspector) error {
		i.credentialsOptional = value
		i.coreConfigured = true
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests are inspected.
//
// Default: true
func WithValidateOnOptions(value bool) Option {
	return func(i *Inspector) error {
		i.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when inspection fails.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(i *Inspector) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		i.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the JWT from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(i *Inspector) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		i.tokenExtractor = e
		return nil
	}
}

// WithExclusionUrls configures URLs that skip inspection.
// URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(i *Inspector) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		i.exclusionURLHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional logger for the Inspector and its core.
//
// Example:
//
//	inspector, err := jwtinspect.New(
//	    jwtinspect.WithLogger(jwtinspect.NewLogrusLogger(logrus.StandardLogger())),
//	)
func WithLogger(logger Logger) Option {
	return func(i *Inspector) error {
		if logger == nil {
			return ErrLoggerNil
		}
		i.logger = logger
		return nil
	}
}

// WithMetrics sets where decode outcomes are counted.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(i *Inspector) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		i.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer for request spans.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(i *Inspector) error {
		if tracer == nil {
			return ErrTracerNil
		}
		i.tracer = tracer
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrCoreNil             = errors.New("core cannot be nil")
	ErrCoreOptionsConflict = errors.New("WithCore cannot be combined with core options")
	ErrKeyNil              = errors.New("key cannot be nil")
	ErrErrorHandlerNil     = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil   = errors.New("tokenExtractor cannot be nil")
	ErrExclusionUrlsEmpty  = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil           = errors.New("logger cannot be nil")
	ErrMetricsNil          = errors.New("metrics cannot be nil")
	ErrTracerNil           = errors.New("tracer cannot be nil")
)
