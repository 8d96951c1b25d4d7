package core

import (
	"errors"

	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// Sentinel errors for token checks made by CheckToken.
var (
	// ErrJWTMissing is returned when no token was supplied and credentials
	// are required.
	ErrJWTMissing = errors.New("jwt missing")

	// ErrSignatureInvalid is returned by CheckToken when the signature was
	// verified and did not match.
	ErrSignatureInvalid = errors.New("jwt signature invalid")

	// ErrDecodedNotFound is returned when no decoded token is stored in a
	// context.
	ErrDecodedNotFound = errors.New("decoded token not found in context")
)

// Error codes for the errors above. The codes of the decoding errors live in
// the jwterrors package.
const (
	ErrorCodeTokenMissing     = "token_missing"
	ErrorCodeInvalidSignature = "invalid_signature"
	ErrorCodeDecodedNotFound  = "decoded_not_found"
)

func missingError() *jwterrors.ValidationError {
	return &jwterrors.ValidationError{
		Kind:    ErrJWTMissing,
		Code:    ErrorCodeTokenMissing,
		Message: "no token provided",
	}
}

func signatureError() *jwterrors.ValidationError {
	return &jwterrors.ValidationError{
		Kind:    ErrSignatureInvalid,
		Code:    ErrorCodeInvalidSignature,
		Message: "token signature is invalid",
	}
}
