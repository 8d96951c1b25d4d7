package jwks

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devtoolbox/jwtinspect/token"
)

func rsaKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func ecKeyOn(t *testing.T, curve elliptic.Curve) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return key
}

func rsaJWK(pub *rsa.PublicKey, kid string) map[string]any {
	jwk := map[string]any{
		"kty": "RSA",
		"n":   token.EncodeSegment(pub.N.Bytes()),
		"e":   token.EncodeSegment(big.NewInt(int64(pub.E)).Bytes()),
	}
	if kid != "" {
		jwk["kid"] = kid
	}
	return jwk
}

func ecJWK(pub *ecdsa.PublicKey, crv string) map[string]any {
	size := (pub.Curve.Params().BitSize + 7) / 8
	jwk := map[string]any{
		"kty": "EC",
		"x":   token.EncodeSegment(pub.X.FillBytes(make([]byte, size))),
		"y":   token.EncodeSegment(pub.Y.FillBytes(make([]byte, size))),
	}
	if crv != "" {
		jwk["crv"] = crv
	}
	return jwk
}

func octJWK(secret, kid string) map[string]any {
	jwk := map[string]any{
		"kty": "oct",
		"k":   token.EncodeSegment([]byte(secret)),
	}
	if kid != "" {
		jwk["kid"] = kid
	}
	return jwk
}

func pkixPEM(t *testing.T, pub any) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func certificatePEM(t *testing.T, key *ecdsa.PrivateKey) string {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}
