package jwks

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// parsePEM resolves the first PEM block of text. Public keys (PKIX and
// PKCS#1) and certificates are accepted; private keys never are.
func parsePEM(text string) (*ResolvedKey, error) {
	data := []byte(strings.TrimSpace(text))

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, jwterrors.KeyMaterial("invalid PEM public key", nil)
	}

	switch block.Type {
	case "PUBLIC KEY", "RSA PUBLIC KEY":
		key, err := jwk.ParseKey(pem.EncodeToMemory(block), jwk.WithPEM(true))
		if err != nil {
			return nil, jwterrors.KeyMaterial("invalid PEM public key", err)
		}
		var raw any
		if err := key.Raw(&raw); err != nil {
			return nil, jwterrors.KeyMaterial("invalid PEM public key", err)
		}
		return fromRawKey(raw)
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, jwterrors.KeyMaterial("invalid PEM certificate", err)
		}
		return fromRawKey(cert.PublicKey)
	default:
		if strings.Contains(block.Type, "PRIVATE KEY") {
			return nil, jwterrors.KeyMaterial("PEM private keys are not accepted; supply the public key", nil)
		}
		return nil, jwterrors.KeyMaterial(fmt.Sprintf("unsupported PEM block type: %s", block.Type), nil)
	}
}
