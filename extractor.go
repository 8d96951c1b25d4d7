package jwtinspect

import (
	"errors"
	"net/http"
	"strings"
)

// TokenExtractor pulls the raw token out of a request. A request that simply
// carries no token yields "" and a nil error; an error means a token was
// offered in a shape the extractor cannot read.
type TokenExtractor func(r *http.Request) (string, error)

var (
	// ErrMultipleAuthHeaders is returned when a request carries more than one
	// Authorization header.
	ErrMultipleAuthHeaders = errors.New("multiple Authorization headers are not allowed")

	// ErrInvalidAuthFormat is returned when the Authorization header is not
	// "<scheme> <token>".
	ErrInvalidAuthFormat = errors.New("Authorization header format must be Bearer {token}")

	// ErrUnsupportedScheme is returned for any scheme other than Bearer.
	ErrUnsupportedScheme = errors.New("Authorization scheme must be Bearer")
)

// AuthHeaderTokenExtractor reads a Bearer token from the Authorization
// header. The scheme is matched case-insensitively.
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	values := r.Header.Values("Authorization")
	switch len(values) {
	case 0:
		return "", nil
	case 1:
	default:
		return "", ErrMultipleAuthHeaders
	}

	return bearerToken(values[0])
}

func bearerToken(value string) (string, error) {
	fields := strings.Fields(value)
	switch {
	case len(fields) == 0:
		return "", nil
	case len(fields) != 2:
		return "", ErrInvalidAuthFormat
	case !strings.EqualFold(fields[0], "bearer"):
		return "", ErrUnsupportedScheme
	}
	return fields[1], nil
}

// CookieTokenExtractor reads the token from the named cookie.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		switch {
		case errors.Is(err, http.ErrNoCookie):
			return "", nil
		case err != nil:
			return "", err
		}
		return strings.TrimSpace(cookie.Value), nil
	}
}

// ParameterTokenExtractor reads the token from a query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		return strings.TrimSpace(r.URL.Query().Get(param)), nil
	}
}

// MultiTokenExtractor tries each extractor in order and returns the first
// token found. The first error stops the search.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		for _, extract := range extractors {
			raw, err := extract(r)
			if err != nil || raw != "" {
				return raw, err
			}
		}
		return "", nil
	}
}
