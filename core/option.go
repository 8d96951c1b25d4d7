package core

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/devtoolbox/jwtinspect/jwks"
)

// TracerName is the instrumentation name of the default tracer.
const TracerName = "github.com/devtoolbox/jwtinspect/core"

// Option configures a Core. An invalid option makes New fail.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// Without options the Core decodes tokens and verifies them only when a key
// is passed to Decode. Spans go to the global OpenTelemetry tracer provider.
//
// Example:
//
//	c, err := core.New(
//	    core.WithKey(jwks.SharedSecret("secret")),
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.tracer == nil {
		c.tracer = otel.Tracer(TracerName)
	}

	return c, nil
}

// WithLogger sets an optional logger for the Core.
//
// Tokens and keys are never logged, only outcomes and timings.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer used for decode spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Core) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithStrictKeyID requires a declared header "kid" to match the key it is
// verified with, even when only one key is supplied.
func WithStrictKeyID(strict bool) Option {
	return func(c *Core) error {
		c.strictKeyID = strict
		return nil
	}
}

// WithKey sets the key CheckToken verifies with. Setting a key enables
// verification.
func WithKey(key jwks.KeySpec) Option {
	return func(c *Core) error {
		if key == nil {
			return errors.New("key cannot be nil")
		}
		c.key = key
		return nil
	}
}

// WithVerify sets whether CheckToken verifies signatures. Verification
// without a key fails for every signed token.
func WithVerify(verify bool) Option {
	return func(c *Core) error {
		c.verify = verify
		return nil
	}
}

// WithCredentialsOptional configures whether CheckToken accepts an empty
// token.
//
// When set to false (default), an empty token returns ErrJWTMissing.
func WithCredentialsOptional(optional bool) Option {
	return func(c *Core) error {
		c.credentialsOptional = optional
		return nil
	}
}
