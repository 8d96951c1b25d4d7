package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxDocumentSize bounds the discovery document.
const maxDocumentSize = 1024 * 1024

// WellKnownEndpoints holds the discovery document members used to locate
// verification keys.
type WellKnownEndpoints struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// WellKnownURL returns the discovery document URL of issuer.
func WellKnownURL(issuer string) (string, error) {
	issuerURL, err := url.Parse(issuer)
	if err != nil || issuerURL.Scheme == "" || issuerURL.Host == "" {
		return "", fmt.Errorf("invalid issuer URL %q", issuer)
	}
	issuerURL.Path = strings.TrimSuffix(issuerURL.Path, "/") + "/.well-known/openid-configuration"
	return issuerURL.String(), nil
}

// GetWellKnownEndpoints fetches the discovery document of issuer. The
// document must name the same issuer and publish a jwks_uri.
func GetWellKnownEndpoints(ctx context.Context, client *http.Client, issuer string) (*WellKnownEndpoints, error) {
	if client == nil {
		client = http.DefaultClient
	}

	wellKnown, err := WellKnownURL(issuer)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wellKnown, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request to get well-known endpoints: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch well-known endpoints from %s: %w", wellKnown, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("well-known endpoint %s returned status %d", wellKnown, resp.StatusCode)
	}

	var endpoints WellKnownEndpoints
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&endpoints); err != nil {
		return nil, fmt.Errorf("failed to decode JSON from well-known endpoint: %w", err)
	}

	if endpoints.Issuer == "" {
		return nil, fmt.Errorf("discovery document is missing required 'issuer' field")
	}
	if strings.TrimSuffix(endpoints.Issuer, "/") != strings.TrimSuffix(issuer, "/") {
		return nil, fmt.Errorf("issuer mismatch: discovery document names %q, expected %q", endpoints.Issuer, issuer)
	}
	if endpoints.JWKSURI == "" {
		return nil, fmt.Errorf("discovery document is missing required 'jwks_uri' field")
	}

	return &endpoints, nil
}
