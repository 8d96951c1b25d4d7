package jwks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// KeySpec is the key material a caller supplies for verification. It is a
// closed union: SharedSecret, PEMPublicKey, SingleJWK, JWKS or Text.
type KeySpec interface {
	keySpec()
}

// SharedSecret is the raw secret of the HMAC family.
type SharedSecret []byte

// PEMPublicKey is a PEM encoded RSA or EC public key, or a certificate.
type PEMPublicKey string

// SingleJWK is one JSON Web Key.
type SingleJWK map[string]any

// JWKS is the list of keys of a JSON Web Key Set.
type JWKS []map[string]any

// Text is free-form key text as typed by a user. It is classified when
// resolved, see ParseKeySpec.
type Text string

func (SharedSecret) keySpec() {}
func (PEMPublicKey) keySpec() {}
func (SingleJWK) keySpec()    {}
func (JWKS) keySpec()         {}
func (Text) keySpec()         {}

// ParseKeySpec classifies key text. Surrounding whitespace is ignored.
//
//   - text starting with "-----BEGIN" is a PEMPublicKey
//   - text starting with "{" or "[" is decoded as a JWK, a JWK Set or a
//     list of JWKs
//   - anything else is a SharedSecret
func ParseKeySpec(text string) (KeySpec, error) {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "-----BEGIN"):
		return PEMPublicKey(text), nil
	case strings.HasPrefix(text, "{"), strings.HasPrefix(text, "["):
		return keySpecFromJSON([]byte(text))
	default:
		return SharedSecret(text), nil
	}
}

// KeySpecOf converts a Go value into a KeySpec. Strings become Text, byte
// slices become SharedSecret, and decoded JSON values (objects and lists)
// become SingleJWK or JWKS. A nil value yields a nil KeySpec.
func KeySpecOf(v any) (KeySpec, error) {
	switch k := v.(type) {
	case nil:
		return nil, nil
	case KeySpec:
		return k, nil
	case string:
		return Text(k), nil
	case json.RawMessage:
		return keySpecFromJSON(k)
	case []byte:
		return SharedSecret(k), nil
	case map[string]any:
		return keySpecFromObject(k)
	case []map[string]any:
		return JWKS(k), nil
	case []any:
		return JWKS(objectsOf(k)), nil
	default:
		return nil, jwterrors.KeyMaterial(fmt.Sprintf("unsupported key type: %T", v), nil)
	}
}

func keySpecFromJSON(raw []byte) (KeySpec, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, jwterrors.KeyMaterial("invalid JSON key material", err)
	}

	switch data := v.(type) {
	case map[string]any:
		return keySpecFromObject(data)
	case []any:
		return JWKS(objectsOf(data)), nil
	default:
		return nil, jwterrors.KeyMaterial("JSON key material must be an object or a list", nil)
	}
}

func keySpecFromObject(obj map[string]any) (KeySpec, error) {
	keys, ok := obj["keys"]
	if !ok {
		return SingleJWK(obj), nil
	}

	switch items := keys.(type) {
	case []any:
		return JWKS(objectsOf(items)), nil
	case []map[string]any:
		return JWKS(items), nil
	default:
		return nil, jwterrors.KeyMaterial("JWKS 'keys' must be a list", nil)
	}
}

// objectsOf keeps the JSON objects of list and drops everything else.
func objectsOf(list []any) []map[string]any {
	objects := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}
