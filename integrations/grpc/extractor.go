package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenExtractor extracts JWT tokens from gRPC metadata.
type TokenExtractor func(ctx context.Context) (string, error)

// Extractor errors
var (
	// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

	// ErrInvalidAuthFormat indicates the authorization metadata format is invalid.
	ErrInvalidAuthFormat = errors.New("invalid authorization metadata format, expected: Bearer <token>")

	// ErrUnsupportedScheme indicates an unsupported authorization scheme was used.
	ErrUnsupportedScheme = errors.New("unsupported authorization scheme, expected: Bearer")
)

// MetadataTokenExtractor extracts the JWT from the "authorization" metadata
// key in "Bearer <token>" form. Missing metadata is not an error.
//
// gRPC lowercases incoming metadata keys.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	values, err := single(ctx, "authorization")
	if err != nil || values == "" {
		return "", err
	}

	parts := strings.Fields(values)
	if len(parts) != 2 {
		return "", ErrInvalidAuthFormat
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", ErrUnsupportedScheme
	}

	return parts[1], nil
}

// MetadataFieldTokenExtractor extracts a bare token from the given metadata
// key, e.g. "x-jwt".
func MetadataFieldTokenExtractor(field string) TokenExtractor {
	field = strings.ToLower(field)
	return func(ctx context.Context) (string, error) {
		token, err := single(ctx, field)
		return strings.TrimSpace(token), err
	}
}

// MultiTokenExtractor returns the first token found by the extractors, in
// order. The first error stops the search.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(ctx context.Context) (string, error) {
		for _, ex := range extractors {
			token, err := ex(ctx)
			if err != nil {
				return "", err
			}
			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}

func single(ctx context.Context, key string) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil
	}

	values := md.Get(key)
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return values[0], nil
	default:
		return "", ErrMultipleAuthHeaders
	}
}
