package grpc

import (
	"errors"

	"github.com/devtoolbox/jwtinspect"
	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/jwks"
)

// Option configures the JWT interceptor.
type Option func(*JWTInterceptor) error

// Logger is the key-value logger shared with core.
type Logger = core.Logger

// coreBuilder collects the core options given to New.
type coreBuilder struct {
	key                 jwks.KeySpec
	verify              bool
	strictKeyID         bool
	credentialsOptional *bool
	logger              Logger

	// set by the options that conflict with WithCore
	configured bool
}

func (b *coreBuilder) build() (*core.Core, error) {
	opts := []core.Option{
		core.WithVerify(b.verify),
		core.WithStrictKeyID(b.strictKeyID),
	}

	if b.key != nil {
		opts = append(opts, core.WithKey(b.key))
	}
	if b.credentialsOptional != nil {
		opts = append(opts, core.WithCredentialsOptional(*b.credentialsOptional))
	}
	if b.logger != nil {
		opts = append(opts, core.WithLogger(b.logger))
	}

	return core.New(opts...)
}

func (i *JWTInterceptor) builder() *coreBuilder {
	if i.coreBuilder == nil {
		i.coreBuilder = &coreBuilder{}
	}
	return i.coreBuilder
}

func (i *JWTInterceptor) coreOption() *coreBuilder {
	b := i.builder()
	b.configured = true
	return b
}

// WithCore uses a prebuilt core. It cannot be combined with WithKey,
// WithVerify, WithStrictKeyID or WithCredentialsOptional.
func WithCore(c *core.Core) Option {
	return func(i *JWTInterceptor) error {
		if c == nil {
			return errors.New("core cannot be nil")
		}
		i.core = c
		return nil
	}
}

// WithKey sets the key tokens are verified with. Setting a key enables
// verification.
//
// Example:
//
//	interceptor, _ := grpc.New(
//	    grpc.WithKey(jwks.SharedSecret("secret")),
//	)
func WithKey(key jwks.KeySpec) Option {
	return func(i *JWTInterceptor) error {
		if key == nil {
			return errors.New("key cannot be nil")
		}
		i.coreOption().key = key
		return nil
	}
}

// WithVerify requires every token to be verified.
func WithVerify(verify bool) Option {
	return func(i *JWTInterceptor) error {
		i.coreOption().verify = verify
		return nil
	}
}

// WithStrictKeyID requires a declared header "kid" to match the key used.
func WithStrictKeyID(strict bool) Option {
	return func(i *JWTInterceptor) error {
		i.coreOption().strictKeyID = strict
		return nil
	}
}

// WithCredentialsOptional lets calls without a token through to the
// handler; nothing is stored in their context.
func WithCredentialsOptional(optional bool) Option {
	return func(i *JWTInterceptor) error {
		i.coreOption().credentialsOptional = &optional
		return nil
	}
}

// WithLogger logs extraction failures and excluded methods. The core built
// by New logs through it too.
func WithLogger(logger Logger) Option {
	return func(i *JWTInterceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		i.builder().logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink. See jwtinspect.NewPrometheusMetrics.
func WithMetrics(metrics jwtinspect.Metrics) Option {
	return func(i *JWTInterceptor) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		i.metrics = metrics
		return nil
	}
}

// WithTokenExtractor replaces MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *JWTInterceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *JWTInterceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods skips inspection for the given full method names,
// such as "/grpc.health.v1.Health/Check".
func WithExcludedMethods(methods ...string) Option {
	return func(i *JWTInterceptor) error {
		if i.excludedMethods == nil {
			i.excludedMethods = make(map[string]bool)
		}
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
