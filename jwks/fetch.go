package jwks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// maxFetchSize bounds the JWKS response body. Real sets are a few KB.
const maxFetchSize = 1024 * 1024

// DefaultClient is used by Fetch when no client is given.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// Fetch downloads the JWK Set published at url. The document must parse as
// a JWK Set with at least one key; a single JWK document is returned as a
// set of one key. Nothing is cached: each call performs one
// request.
func Fetch(ctx context.Context, client *http.Client, url string) (JWKS, error) {
	if client == nil {
		client = DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned status %d, expected 200", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read JWKS: %w", err)
	}
	if len(body) > maxFetchSize {
		return nil, fmt.Errorf("JWKS response exceeds %d bytes", maxFetchSize)
	}

	set, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("failed to parse JWKS: no keys published")
	}

	spec, err := keySpecFromJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	switch s := spec.(type) {
	case JWKS:
		return s, nil
	case SingleJWK:
		return JWKS{s}, nil
	default:
		return nil, fmt.Errorf("failed to parse JWKS: unexpected document")
	}
}
