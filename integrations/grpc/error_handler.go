package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// ErrorHandler converts inspection errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps inspection errors to gRPC status codes:
//
//   - missing token and invalid signature: Unauthenticated
//   - malformed token or authorization metadata: InvalidArgument
//   - key material and algorithm errors: FailedPrecondition
//   - anything else: Internal
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *jwterrors.ValidationError
	if errors.As(err, &validationErr) {
		return mapValidationError(validationErr)
	}

	if errors.Is(err, core.ErrJWTMissing) {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}

	if errors.Is(err, ErrMultipleAuthHeaders) ||
		errors.Is(err, ErrInvalidAuthFormat) ||
		errors.Is(err, ErrUnsupportedScheme) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	return status.Error(codes.Internal, "unable to decode token")
}

func mapValidationError(err *jwterrors.ValidationError) error {
	switch err.Code {
	case core.ErrorCodeTokenMissing:
		return status.Error(codes.Unauthenticated, "missing credentials")
	case core.ErrorCodeInvalidSignature:
		return status.Error(codes.Unauthenticated, "invalid signature")
	case jwterrors.ErrorCodeTokenMalformed:
		return status.Error(codes.InvalidArgument, err.Message)
	case jwterrors.ErrorCodeKeyMaterial,
		jwterrors.ErrorCodeUnsupportedAlgorithm,
		jwterrors.ErrorCodeInsecureAlgorithm:
		return status.Error(codes.FailedPrecondition, err.Message)
	default:
		return status.Error(codes.Internal, "unable to decode token")
	}
}
