package core

import (
	"encoding/json"
	"fmt"
)

// SignatureStatus is the outcome of signature verification. It has three
// states so that "not checked" can never be mistaken for "checked and
// invalid".
type SignatureStatus int

// Signature states.
const (
	// SignatureNotRequested means no verification was attempted.
	SignatureNotRequested SignatureStatus = iota
	// SignatureValid means the signature was verified with the given key.
	SignatureValid
	// SignatureInvalid means the signature did not verify.
	SignatureInvalid
)

func (s SignatureStatus) String() string {
	switch s {
	case SignatureNotRequested:
		return "not_requested"
	case SignatureValid:
		return "valid"
	case SignatureInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("SignatureStatus(%d)", int(s))
	}
}

// Verified reports whether the signature was checked, and if so whether it
// was valid.
func (s SignatureStatus) Verified() (valid bool, checked bool) {
	return s == SignatureValid, s != SignatureNotRequested
}

// MarshalJSON renders the status as null, true or false.
func (s SignatureStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case SignatureValid:
		return []byte("true"), nil
	case SignatureInvalid:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, true or false.
func (s *SignatureStatus) UnmarshalJSON(data []byte) error {
	var valid *bool
	if err := json.Unmarshal(data, &valid); err != nil {
		return err
	}
	switch {
	case valid == nil:
		*s = SignatureNotRequested
	case *valid:
		*s = SignatureValid
	default:
		*s = SignatureInvalid
	}
	return nil
}

func statusOf(valid bool) SignatureStatus {
	if valid {
		return SignatureValid
	}
	return SignatureInvalid
}

// DecodedJWT is the result of decoding a token.
type DecodedJWT struct {
	Header    map[string]any  `json:"header"`
	Payload   map[string]any  `json:"payload"`
	Signature SignatureStatus `json:"signature_valid"`

	// Algorithm is the header "alg" when it is a string.
	Algorithm *string `json:"algorithm"`

	// KeyID is the header "kid" when it is a string or a number.
	KeyID *string `json:"key_id"`

	// Warnings lists the problems found with the token, in the order
	// they were found. Never nil.
	Warnings []string `json:"warnings"`
}
