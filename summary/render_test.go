package summary

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/token"
)

func hmacToken(header, payload, secret string) string {
	signingInput := token.EncodeSegment([]byte(header)) + "." + token.EncodeSegment([]byte(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signingInput))
	return signingInput + "." + token.EncodeSegment(mac.Sum(nil))
}

func Test_Summarize(t *testing.T) {
	raw := hmacToken(`{"alg":"HS256"}`, `{"scope":"demo"}`, "shared-secret")

	t.Run("valid signature", func(t *testing.T) {
		expected := strings.Join([]string{
			"JWT decoded successfully:",
			"Algorithm: HS256",
			"Key ID: n/a",
			"Signature: ✅ valid",
			"Header:\n{\n  \"alg\": \"HS256\"\n}",
			"Payload:\n{\n  \"scope\": \"demo\"\n}",
		}, "\n\n")

		assert.Equal(t, expected, Summarize(context.Background(), nil, raw, strPtr("shared-secret"), false))
	})

	t.Run("invalid signature", func(t *testing.T) {
		out := Summarize(context.Background(), nil, raw, strPtr("wrong-secret"), false)
		assert.Contains(t, out, "Signature: ❌ invalid")
	})

	t.Run("not verified", func(t *testing.T) {
		out := Summarize(context.Background(), nil, raw, nil, false)
		assert.Contains(t, out, "Signature: not verified")
	})

	t.Run("errors become a failure message", func(t *testing.T) {
		out := Summarize(context.Background(), nil, "invalid-token", nil, false)
		assert.Equal(t, "❌ Failed to process token: token must have exactly 3 parts", out)
	})

	t.Run("verify without key", func(t *testing.T) {
		out := Summarize(context.Background(), nil, raw, nil, true)
		assert.Equal(t, "❌ Failed to process token: a key is required for verification", out)
	})

	t.Run("custom core", func(t *testing.T) {
		c, err := core.New(core.WithStrictKeyID(true))
		require.NoError(t, err)
		out := Summarize(context.Background(), c, raw, strPtr("shared-secret"), true)
		assert.Contains(t, out, "Signature: ✅ valid")
	})
}

func Test_Render(t *testing.T) {
	alg := "none"
	kid := "key-1"
	decoded := &core.DecodedJWT{
		Header:    map[string]any{"kid": "key-1", "alg": "none"},
		Payload:   map[string]any{"b": "<tag>", "a": 1},
		Signature: core.SignatureNotRequested,
		Algorithm: &alg,
		KeyID:     &kid,
		Warnings:  []string{core.WarningInsecureAlgorithm, "second"},
	}

	expected := strings.Join([]string{
		"JWT decoded successfully:",
		"Algorithm: none",
		"Key ID: key-1",
		"Signature: not verified",
		"Header:\n{\n  \"alg\": \"none\",\n  \"kid\": \"key-1\"\n}",
		"Payload:\n{\n  \"a\": 1,\n  \"b\": \"<tag>\"\n}",
	}, "\n\n") + "\nWarnings:\n• Token uses the insecure 'alg: none' algorithm\n• second"

	assert.Equal(t, expected, Render(decoded))

	t.Run("missing algorithm and key id", func(t *testing.T) {
		out := Render(&core.DecodedJWT{})
		assert.Contains(t, out, "Algorithm: unknown")
		assert.Contains(t, out, "Key ID: n/a")
		assert.Contains(t, out, "Header:\n{}")
	})

	t.Run("non string algorithm", func(t *testing.T) {
		testCases := []struct {
			name     string
			alg      any
			expected string
		}{
			{name: "number", alg: json.Number("256"), expected: "Algorithm: 256"},
			{name: "true", alg: true, expected: "Algorithm: true"},
			{name: "list", alg: []any{"HS256"}, expected: `Algorithm: ["HS256"]`},
			{name: "zero", alg: json.Number("0"), expected: "Algorithm: unknown"},
			{name: "false", alg: false, expected: "Algorithm: unknown"},
			{name: "empty string", alg: "", expected: "Algorithm: unknown"},
		}

		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				out := Render(&core.DecodedJWT{Header: map[string]any{"alg": testCase.alg}})
				assert.Contains(t, out, testCase.expected)
			})
		}
	})
}
