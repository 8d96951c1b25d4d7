package core

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/devtoolbox/jwtinspect/token"
)

// mockLogger is a mock implementation of Logger for testing.
type mockLogger struct {
	debugCalls []logCall
	infoCalls  []logCall
	warnCalls  []logCall
	errorCalls []logCall
}

type logCall struct {
	msg  string
	args []any
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.debugCalls = append(m.debugCalls, logCall{msg, args})
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.infoCalls = append(m.infoCalls, logCall{msg, args})
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.warnCalls = append(m.warnCalls, logCall{msg, args})
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.errorCalls = append(m.errorCalls, logCall{msg, args})
}

func segment(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return token.EncodeSegment(raw)
}

// signToken builds a token with exactly the given header. The signing method
// is taken from method, independently of the header's "alg".
func signToken(t *testing.T, method string, header, payload map[string]any, key any) string {
	t.Helper()
	signingInput := segment(t, header) + "." + segment(t, payload)
	sig, err := jwt.GetSigningMethod(method).Sign(signingInput, key)
	require.NoError(t, err)
	return signingInput + "." + token.EncodeSegment(sig)
}

// unsignedToken builds a token with an arbitrary signature segment.
func unsignedToken(t *testing.T, header, payload map[string]any) string {
	t.Helper()
	return segment(t, header) + "." + segment(t, payload) + "."
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func newECKey(t *testing.T, curve elliptic.Curve) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return key
}

func rsaJWK(pub *rsa.PublicKey, kid string) map[string]any {
	return map[string]any{
		"kty": "RSA",
		"kid": kid,
		"n":   token.EncodeSegment(pub.N.Bytes()),
		"e":   token.EncodeSegment(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func ecJWK(pub *ecdsa.PublicKey, crv string) map[string]any {
	size := (pub.Curve.Params().BitSize + 7) / 8
	return map[string]any{
		"kty": "EC",
		"crv": crv,
		"x":   token.EncodeSegment(pub.X.FillBytes(make([]byte, size))),
		"y":   token.EncodeSegment(pub.Y.FillBytes(make([]byte, size))),
	}
}
