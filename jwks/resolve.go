package jwks

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/devtoolbox/jwtinspect/jwterrors"
	"github.com/devtoolbox/jwtinspect/token"
)

// KeyType is the family of a resolved key.
type KeyType int

// Supported key types.
const (
	KeyTypeOct KeyType = iota + 1
	KeyTypeRSA
	KeyTypeEC
)

// String returns the JWK "kty" name of the key type.
func (t KeyType) String() string {
	switch t {
	case KeyTypeOct:
		return "oct"
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeEC:
		return "EC"
	default:
		return fmt.Sprintf("KeyType(%d)", int(t))
	}
}

// ParseKeyType maps a JWK "kty" value to a KeyType.
func ParseKeyType(kty string) (KeyType, error) {
	switch kty {
	case "oct":
		return KeyTypeOct, nil
	case "RSA":
		return KeyTypeRSA, nil
	case "EC":
		return KeyTypeEC, nil
	default:
		return 0, jwterrors.KeyMaterial(fmt.Sprintf("unsupported JWK key type: %q", kty), nil)
	}
}

// ResolvedKey is key material ready for one verification. Exactly one of
// Secret, RSA and EC is set, according to Type.
type ResolvedKey struct {
	Type   KeyType
	Secret []byte
	RSA    *rsa.PublicKey
	EC     *ecdsa.PublicKey

	// KeyID is the "kid" of the JWK the key was taken from, if any.
	KeyID string
}

// ResolveOption configures Resolve.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	strictKeyID bool
}

// WithStrictKeyID makes a declared header "kid" mandatory to match, even
// when only one candidate key was supplied.
func WithStrictKeyID() ResolveOption {
	return func(c *resolveConfig) {
		c.strictKeyID = true
	}
}

// Resolve turns spec into key material, using the token header to select a
// key when several are available.
//
// Key selection for JWK input: when the header declares a "kid", the
// candidate with exactly that "kid" is used, numbers comparing by their
// JSON text; when none matches, a single
// candidate is still used unless WithStrictKeyID is set, and several
// candidates are an error. When the header has no "kid", a single candidate
// is used and several candidates are an error. There is never a silent
// fallback from a declared "kid" to another key of a set.
func Resolve(spec KeySpec, header map[string]any, opts ...ResolveOption) (*ResolvedKey, error) {
	cfg := resolveConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch s := spec.(type) {
	case nil:
		return nil, jwterrors.KeyMaterial("a key is required for verification", nil)
	case SharedSecret:
		return &ResolvedKey{Type: KeyTypeOct, Secret: bytes.Clone([]byte(s))}, nil
	case Text:
		parsed, err := ParseKeySpec(string(s))
		if err != nil {
			return nil, err
		}
		return Resolve(parsed, header, opts...)
	case PEMPublicKey:
		return parsePEM(string(s))
	case SingleJWK:
		return resolveJWK([]map[string]any{s}, header, cfg)
	case JWKS:
		return resolveJWK(s, header, cfg)
	default:
		return nil, jwterrors.KeyMaterial(fmt.Sprintf("unsupported key specification: %T", spec), nil)
	}
}

func resolveJWK(candidates []map[string]any, header map[string]any, cfg resolveConfig) (*ResolvedKey, error) {
	selected, err := selectKey(candidates, header, cfg)
	if err != nil {
		return nil, err
	}
	return keyFromJWK(selected)
}

func selectKey(candidates []map[string]any, header map[string]any, cfg resolveConfig) (map[string]any, error) {
	if len(candidates) == 0 {
		return nil, jwterrors.KeyMaterial("JWKS does not contain any keys", nil)
	}

	kid, ok := token.HeaderString(header, "kid")
	if !ok {
		if len(candidates) > 1 {
			return nil, jwterrors.KeyMaterial("ambiguous key selection: JWKS contains multiple keys; specify 'kid'", nil)
		}
		return candidates[0], nil
	}

	for _, candidate := range candidates {
		if id, ok := token.HeaderString(candidate, "kid"); ok && id == kid {
			return candidate, nil
		}
	}

	if len(candidates) == 1 && !cfg.strictKeyID {
		return candidates[0], nil
	}
	return nil, jwterrors.KeyMaterial(fmt.Sprintf("key with kid=%q not found in JWKS", kid), nil)
}

var curves = map[string]elliptic.Curve{
	"P-256": elliptic.P256(),
	"P-384": elliptic.P384(),
	"P-521": elliptic.P521(),
}

// algCurves maps the ECDSA algorithms to the curve they imply.
var algCurves = map[string]string{
	"ES256": "P-256",
	"ES384": "P-384",
	"ES512": "P-521",
}

// publicMembers lists the JWK members passed on to the JWK parser per key
// type. Private members are never parsed.
var publicMembers = map[KeyType][]string{
	KeyTypeOct: {"kty", "k"},
	KeyTypeRSA: {"kty", "n", "e"},
	KeyTypeEC:  {"kty", "crv", "x", "y"},
}

func keyFromJWK(obj map[string]any) (*ResolvedKey, error) {
	kty, _ := obj["kty"].(string)
	keyType, err := ParseKeyType(kty)
	if err != nil {
		return nil, err
	}

	members := make(map[string]any, 4)
	for _, name := range publicMembers[keyType] {
		if v, ok := obj[name]; ok {
			members[name] = v
		}
	}

	switch keyType {
	case KeyTypeOct:
		if _, ok := members["k"].(string); !ok {
			return nil, jwterrors.KeyMaterial("octet JWK is missing the 'k' parameter", nil)
		}
	case KeyTypeRSA:
		_, hasN := members["n"].(string)
		_, hasE := members["e"].(string)
		if !hasN || !hasE {
			return nil, jwterrors.KeyMaterial("RSA JWK is missing modulus or exponent", nil)
		}
	case KeyTypeEC:
		_, hasX := members["x"].(string)
		_, hasY := members["y"].(string)
		if !hasX || !hasY {
			return nil, jwterrors.KeyMaterial("EC JWK is missing parameters", nil)
		}
		crv, err := curveName(obj)
		if err != nil {
			return nil, err
		}
		members["crv"] = crv
	}

	raw, err := json.Marshal(members)
	if err != nil {
		return nil, jwterrors.KeyMaterial("invalid JWK", err)
	}

	key, err := jwk.ParseKey(raw)
	if err != nil {
		return nil, jwterrors.KeyMaterial(fmt.Sprintf("invalid %s JWK", keyType), err)
	}

	var rawKey any
	if err := key.Raw(&rawKey); err != nil {
		return nil, jwterrors.KeyMaterial(fmt.Sprintf("invalid %s JWK", keyType), err)
	}

	resolved, err := fromRawKey(rawKey)
	if err != nil {
		return nil, err
	}
	if resolved.Type != keyType {
		return nil, jwterrors.KeyMaterial(fmt.Sprintf("JWK of type %s resolved to %s key material", keyType, resolved.Type), nil)
	}

	resolved.KeyID, _ = token.HeaderString(obj, "kid")
	return resolved, nil
}

// curveName returns the curve of an EC JWK, taken from "crv" or, when that
// is absent, from the curve implied by its "alg".
func curveName(obj map[string]any) (string, error) {
	crv, hasCrv := obj["crv"].(string)
	alg, _ := obj["alg"].(string)
	implied, hasImplied := algCurves[alg]

	switch {
	case hasCrv && hasImplied && crv != implied:
		return "", jwterrors.KeyMaterial(fmt.Sprintf("EC JWK curve %s does not match its alg %s", crv, alg), nil)
	case hasCrv:
		if _, ok := curves[crv]; !ok {
			return "", jwterrors.KeyMaterial(fmt.Sprintf("unsupported EC curve: %s", crv), nil)
		}
		return crv, nil
	case hasImplied:
		return implied, nil
	default:
		return "", jwterrors.KeyMaterial("EC JWK is missing parameters", nil)
	}
}

// fromRawKey converts a parsed Go key into a ResolvedKey. Private keys are
// reduced to their public half.
func fromRawKey(raw any) (*ResolvedKey, error) {
	switch k := raw.(type) {
	case []byte:
		return &ResolvedKey{Type: KeyTypeOct, Secret: k}, nil
	case *rsa.PublicKey:
		return &ResolvedKey{Type: KeyTypeRSA, RSA: k}, nil
	case *rsa.PrivateKey:
		return &ResolvedKey{Type: KeyTypeRSA, RSA: &k.PublicKey}, nil
	case *ecdsa.PublicKey:
		return ecKey(k)
	case *ecdsa.PrivateKey:
		return ecKey(&k.PublicKey)
	default:
		return nil, jwterrors.KeyMaterial(fmt.Sprintf("unsupported public key type: %T", raw), nil)
	}
}

func ecKey(pub *ecdsa.PublicKey) (*ResolvedKey, error) {
	if _, err := pub.ECDH(); err != nil {
		return nil, jwterrors.KeyMaterial("EC public key is not a valid point on its curve", err)
	}
	return &ResolvedKey{Type: KeyTypeEC, EC: pub}, nil
}
