package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/devtoolbox/jwtinspect/jwks"
	"github.com/devtoolbox/jwtinspect/jwterrors"
	"github.com/devtoolbox/jwtinspect/token"
	"github.com/devtoolbox/jwtinspect/validator"
)

// Warnings added to a DecodedJWT.
const (
	WarningMissingAlgorithm  = "Token header does not declare an 'alg' value"
	WarningInsecureAlgorithm = "Token uses the insecure 'alg: none' algorithm"
)

// SpanName is the name of the span started for every decode.
const SpanName = "jwtinspect.decode"

// Logger defines an optional logging interface for the core.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core decodes and verifies tokens. It holds no per-call state and is safe
// for concurrent use once built.
type Core struct {
	logger      Logger
	tracer      trace.Tracer
	strictKeyID bool

	// Used by CheckToken only.
	key                 jwks.KeySpec
	verify              bool
	credentialsOptional bool
}

var defaultCore = mustNew()

func mustNew() *Core {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// DecodeJWT decodes raw with a default Core. key may be nil, a jwks.KeySpec
// or any value accepted by jwks.KeySpecOf. Supplying a key requests
// verification even when verify is false.
func DecodeJWT(raw string, key any, verify bool) (*DecodedJWT, error) {
	spec, err := jwks.KeySpecOf(key)
	if err != nil {
		return nil, err
	}
	return defaultCore.Decode(context.Background(), raw, spec, verify)
}

// Decode decodes raw and, when verification is requested (verify is true or
// key is not nil), verifies its signature.
//
// The header and payload are always decoded. A missing "alg" and the
// insecure "none" algorithm are reported as warnings; verifying a "none"
// token is an ErrInsecureAlgorithm error and verifying a token without "alg"
// is an ErrKeyMaterial error. On error no DecodedJWT is returned.
func (c *Core) Decode(ctx context.Context, raw string, key jwks.KeySpec, verify bool) (*DecodedJWT, error) {
	_, span := c.tracer.Start(ctx, SpanName)
	defer span.End()

	start := time.Now()
	decoded, err := c.decode(raw, key, verify)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, jwterrors.CodeOf(err))
		if c.logger != nil {
			c.logger.Warn("Token decoding failed", "error", err, "code", jwterrors.CodeOf(err), "duration", duration)
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("jwt.signature", decoded.Signature.String()))
	if decoded.Algorithm != nil {
		span.SetAttributes(attribute.String("jwt.alg", *decoded.Algorithm))
	}
	if decoded.KeyID != nil {
		span.SetAttributes(attribute.String("jwt.kid", *decoded.KeyID))
	}

	if c.logger != nil {
		c.logger.Debug("Token decoded",
			"signature", decoded.Signature.String(),
			"warnings", len(decoded.Warnings),
			"duration", duration)
	}

	return decoded, nil
}

func (c *Core) decode(raw string, key jwks.KeySpec, verify bool) (*DecodedJWT, error) {
	parts, err := token.Parse(raw)
	if err != nil {
		return nil, err
	}

	decoded := &DecodedJWT{
		Header:    parts.Header,
		Payload:   parts.Payload,
		Signature: SignatureNotRequested,
		Warnings:  []string{},
	}
	if alg, ok := parts.Header["alg"].(string); ok {
		decoded.Algorithm = &alg
	}
	if kid, ok := token.HeaderString(parts.Header, "kid"); ok {
		decoded.KeyID = &kid
	}

	hasAlg := token.HasHeader(parts.Header, "alg")
	requested := verify || key != nil

	if !hasAlg {
		decoded.Warnings = append(decoded.Warnings, WarningMissingAlgorithm)
	}
	if decoded.Algorithm != nil && validator.IsInsecure(*decoded.Algorithm) {
		decoded.Warnings = append(decoded.Warnings, WarningInsecureAlgorithm)
		if requested {
			return nil, jwterrors.InsecureAlgorithm("refusing to verify a token using the insecure 'alg: none' algorithm")
		}
	}

	if !requested {
		return decoded, nil
	}

	if !hasAlg {
		return nil, jwterrors.KeyMaterial("cannot verify without alg", nil)
	}
	if decoded.Algorithm == nil {
		return nil, jwterrors.UnsupportedAlgorithm(fmt.Sprintf("unsupported algorithm: %v", parts.Header["alg"]))
	}

	alg, err := validator.ParseAlgorithm(*decoded.Algorithm)
	if err != nil {
		return nil, err
	}

	var resolveOpts []jwks.ResolveOption
	if c.strictKeyID {
		resolveOpts = append(resolveOpts, jwks.WithStrictKeyID())
	}
	resolved, err := jwks.Resolve(key, parts.Header, resolveOpts...)
	if err != nil {
		return nil, err
	}

	valid, err := validator.Verify(alg, parts.SigningInput(), parts.SignatureRaw, resolved)
	if err != nil {
		return nil, err
	}
	decoded.Signature = statusOf(valid)

	return decoded, nil
}

// CheckToken decodes raw with the key and verification mode configured on
// the Core, for use by request middleware.
//
//   - If raw is empty and credentials are optional, returns (nil, nil)
//   - If raw is empty otherwise, returns ErrJWTMissing
//   - If the signature was verified and is invalid, returns ErrSignatureInvalid
func (c *Core) CheckToken(ctx context.Context, raw string) (*DecodedJWT, error) {
	if raw == "" {
		if c.credentialsOptional {
			if c.logger != nil {
				c.logger.Debug("No token provided, but credentials are optional")
			}
			return nil, nil
		}

		if c.logger != nil {
			c.logger.Warn("No token provided and credentials are required")
		}
		return nil, missingError()
	}

	decoded, err := c.Decode(ctx, raw, c.key, c.verify)
	if err != nil {
		return nil, err
	}

	if decoded.Signature == SignatureInvalid {
		if c.logger != nil {
			c.logger.Warn("Token signature is invalid")
		}
		return nil, signatureError()
	}

	return decoded, nil
}

// VerificationRequested reports whether CheckToken verifies signatures.
func (c *Core) VerificationRequested() bool {
	return c.verify || c.key != nil
}
