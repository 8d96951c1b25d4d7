// Package jwterrors defines the error kinds returned while decoding and
// verifying JWTs.
//
// Every error returned by the token, jwks, validator and core packages is a
// *ValidationError whose Kind is one of the sentinel errors below, so callers
// can branch with errors.Is:
//
//	if errors.Is(err, jwterrors.ErrMalformedToken) {
//	    // ask the user for a new token
//	}
package jwterrors

import "errors"

// Sentinel error kinds.
var (
	// ErrMalformedToken is returned when the token does not have three
	// segments or a segment fails Base64URL or JSON decoding.
	ErrMalformedToken = errors.New("malformed token")

	// ErrKeyMaterial is returned when the supplied key cannot be resolved
	// into key material usable for the token's algorithm.
	ErrKeyMaterial = errors.New("key material error")

	// ErrUnsupportedAlgorithm is returned when the header declares an
	// algorithm outside the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrInsecureAlgorithm is returned when verification is requested for a
	// token using the "none" algorithm.
	ErrInsecureAlgorithm = errors.New("insecure algorithm")
)

// Error codes, one per kind.
const (
	ErrorCodeTokenMalformed       = "token_malformed"
	ErrorCodeKeyMaterial          = "key_material"
	ErrorCodeUnsupportedAlgorithm = "unsupported_algorithm"
	ErrorCodeInsecureAlgorithm    = "insecure_algorithm"
)

// ValidationError carries the kind of failure together with a caller facing
// message. Details holds the underlying error, if any, and is never shown
// in Message.
type ValidationError struct {
	// Kind is one of the sentinel errors of this package.
	Kind error

	// Code is a machine-readable error code (e.g. "token_malformed").
	Code string

	// Message is a human-readable error message.
	Message string

	// Details contains the underlying error.
	Details error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is reports whether target is the kind of this error.
func (e *ValidationError) Is(target error) bool {
	return target == e.Kind
}

// Malformed returns an ErrMalformedToken error.
func Malformed(message string, details error) *ValidationError {
	return &ValidationError{Kind: ErrMalformedToken, Code: ErrorCodeTokenMalformed, Message: message, Details: details}
}

// KeyMaterial returns an ErrKeyMaterial error.
func KeyMaterial(message string, details error) *ValidationError {
	return &ValidationError{Kind: ErrKeyMaterial, Code: ErrorCodeKeyMaterial, Message: message, Details: details}
}

// UnsupportedAlgorithm returns an ErrUnsupportedAlgorithm error.
func UnsupportedAlgorithm(message string) *ValidationError {
	return &ValidationError{Kind: ErrUnsupportedAlgorithm, Code: ErrorCodeUnsupportedAlgorithm, Message: message}
}

// InsecureAlgorithm returns an ErrInsecureAlgorithm error.
func InsecureAlgorithm(message string) *ValidationError {
	return &ValidationError{Kind: ErrInsecureAlgorithm, Code: ErrorCodeInsecureAlgorithm, Message: message}
}

// CodeOf returns the error code carried by err, or "" when err is not a
// *ValidationError.
func CodeOf(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Code
	}
	return ""
}
