package core

import (
	"context"

	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	decodedKey contextKey = iota
)

// GetDecoded retrieves the decoded token from the context.
//
// Example usage:
//
//	decoded, err := core.GetDecoded[*core.DecodedJWT](ctx)
//	if err != nil {
//	    return err
//	}
func GetDecoded[T any](ctx context.Context) (T, error) {
	var zero T

	val := ctx.Value(decodedKey)
	if val == nil {
		return zero, ErrDecodedNotFound
	}

	decoded, ok := val.(T)
	if !ok {
		return zero, &jwterrors.ValidationError{
			Kind:    ErrDecodedNotFound,
			Code:    ErrorCodeDecodedNotFound,
			Message: "decoded token type assertion failed",
		}
	}

	return decoded, nil
}

// SetDecoded stores a decoded token in the context.
// Adapters call it once a token has been decoded.
func SetDecoded(ctx context.Context, decoded any) context.Context {
	return context.WithValue(ctx, decodedKey, decoded)
}

// HasDecoded checks if a decoded token exists in the context.
func HasDecoded(ctx context.Context) bool {
	return ctx.Value(decodedKey) != nil
}
