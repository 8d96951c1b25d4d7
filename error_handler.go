package jwtinspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// ErrTokenExtraction is returned when a token was present in the request
// but could not be read, e.g. a malformed Authorization header.
var ErrTokenExtraction = errors.New("token extraction failed")

// Error codes for failures outside the decoding error taxonomy.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeServerError    = "server_error"
)

// ErrorHandler is called when inspecting a request fails. It determines the
// response for missing, malformed and unverifiable tokens. The err can be
// checked with errors.Is against core.ErrJWTMissing, core.ErrSignatureInvalid,
// ErrTokenExtraction and the jwterrors kinds.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written by DefaultErrorHandler.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusOf maps err to an HTTP status and an error response:
//
//   - core.ErrJWTMissing, ErrTokenExtraction and malformed tokens: 400
//   - invalid signature: 401
//   - key material, unsupported and insecure algorithm errors: 422
//   - anything else: 500
func StatusOf(err error) (int, ErrorResponse) {
	var verr *jwterrors.ValidationError
	message := "Something went wrong while decoding the JWT."
	if errors.As(err, &verr) {
		message = verr.Message
	}

	switch {
	case errors.Is(err, core.ErrJWTMissing):
		return http.StatusBadRequest, ErrorResponse{Code: core.ErrorCodeTokenMissing, Message: "JWT is missing."}
	case errors.Is(err, ErrTokenExtraction):
		return http.StatusBadRequest, ErrorResponse{Code: ErrorCodeInvalidRequest, Message: extractionMessage(err)}
	case errors.Is(err, jwterrors.ErrMalformedToken):
		return http.StatusBadRequest, ErrorResponse{Code: jwterrors.ErrorCodeTokenMalformed, Message: message}
	case errors.Is(err, core.ErrSignatureInvalid):
		return http.StatusUnauthorized, ErrorResponse{Code: core.ErrorCodeInvalidSignature, Message: message}
	case errors.Is(err, jwterrors.ErrKeyMaterial),
		errors.Is(err, jwterrors.ErrUnsupportedAlgorithm),
		errors.Is(err, jwterrors.ErrInsecureAlgorithm):
		return http.StatusUnprocessableEntity, ErrorResponse{Code: jwterrors.CodeOf(err), Message: message}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: ErrorCodeServerError, Message: "Something went wrong while decoding the JWT."}
	}
}

// DefaultErrorHandler writes the status and JSON body chosen by StatusOf.
// Invalid signatures also get a WWW-Authenticate challenge.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, body := StatusOf(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", BearerChallenge(body))
	}
	writeJSON(w, status, body)
}

// extractionMessage prefers the extractor's own error over the wrapper.
func extractionMessage(err error) string {
	if details := errors.Unwrap(err); details != nil {
		return details.Error()
	}
	return err.Error()
}

// BearerChallenge is the WWW-Authenticate value sent with a 401 response.
func BearerChallenge(body ErrorResponse) string {
	return fmt.Sprintf(`Bearer error="invalid_token", error_description=%q`, body.Message)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// extractionError wraps a token extractor failure with ErrTokenExtraction.
type extractionError struct {
	details error
}

// Is allows the error to support equality to ErrTokenExtraction.
func (e *extractionError) Is(target error) bool {
	return target == ErrTokenExtraction
}

func (e *extractionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTokenExtraction, e.details)
}

// Unwrap returns the extractor's error.
func (e *extractionError) Unwrap() error {
	return e.details
}
