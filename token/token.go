// Package token splits a compact JWT into its three segments and decodes the
// header and payload.
//
// Nothing in this package looks at the signature beyond keeping its raw
// segment; verification is the job of the validator package.
package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// maxTokenSize is the largest token accepted. Valid JWTs rarely exceed a few KB.
const maxTokenSize = 1024 * 1024

// Parts is a token split into its segments, with header and payload decoded.
type Parts struct {
	HeaderRaw    string
	PayloadRaw   string
	SignatureRaw string

	Header  map[string]any
	Payload map[string]any
}

// SigningInput returns the bytes covered by the signature: the raw header and
// payload segments joined by a dot.
func (p *Parts) SigningInput() []byte {
	return []byte(p.HeaderRaw + "." + p.PayloadRaw)
}

// Parse splits raw into header, payload and signature and decodes the first
// two as JSON objects. All failures are jwterrors.ErrMalformedToken.
func Parse(raw string) (*Parts, error) {
	if len(raw) > maxTokenSize {
		return nil, jwterrors.Malformed("token exceeds maximum size (1MB)", nil)
	}

	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return nil, jwterrors.Malformed("token must have exactly 3 parts", nil)
	}

	header, err := decodeObject(segments[0])
	if err != nil {
		return nil, jwterrors.Malformed("token header is not a valid JSON object", err)
	}

	payload, err := decodeObject(segments[1])
	if err != nil {
		return nil, jwterrors.Malformed("token payload is not a valid JSON object", err)
	}

	return &Parts{
		HeaderRaw:    segments[0],
		PayloadRaw:   segments[1],
		SignatureRaw: segments[2],
		Header:       header,
		Payload:      payload,
	}, nil
}

// DecodeSegment decodes a Base64URL segment. Padding is optional.
func DecodeSegment(seg string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
	if err != nil {
		return nil, jwterrors.Malformed("token segment is not valid Base64URL", err)
	}
	return b, nil
}

// EncodeSegment returns the unpadded Base64URL encoding of seg.
func EncodeSegment(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}

func decodeObject(seg string) (map[string]any, error) {
	raw, err := DecodeSegment(seg)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("JSON value is not an object")
	}
	return obj, nil
}

// HeaderString returns the named header value as a string. Numeric values
// are rendered as their JSON text. It reports false when the value is
// absent, null, or of any other type.
func HeaderString(header map[string]any, name string) (string, bool) {
	switch v := header[name].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// HasHeader reports whether the header declares name with a non-null value.
func HasHeader(header map[string]any, name string) bool {
	v, ok := header[name]
	return ok && v != nil
}
