package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devtoolbox/jwtinspect/core"
	"github.com/devtoolbox/jwtinspect/jwks"
)

// FailurePrefix starts every message reporting a failed decode.
const FailurePrefix = "❌ Failed to process token: "

// Summarize decodes raw with c and renders the result. A non-nil key always
// requests verification. Errors are rendered as a failure message, so the
// result is always something to show the user.
func Summarize(ctx context.Context, c *core.Core, raw string, key *string, verify bool) string {
	if c == nil {
		var err error
		if c, err = core.New(); err != nil {
			return Failure(err)
		}
	}

	var spec jwks.KeySpec
	if key != nil {
		spec = jwks.Text(*key)
		verify = true
	}

	decoded, err := c.Decode(ctx, raw, spec, verify)
	if err != nil {
		return Failure(err)
	}
	return Render(decoded)
}

// Failure renders err as a user facing failure message.
func Failure(err error) string {
	return FailurePrefix + err.Error()
}

// Render formats a decoded token as a chat message.
func Render(d *core.DecodedJWT) string {
	algorithm := "unknown"
	if d.Algorithm != nil && *d.Algorithm != "" {
		algorithm = *d.Algorithm
	} else if text := displayValue(d.Header["alg"]); text != "" {
		algorithm = text
	}
	keyID := "n/a"
	if d.KeyID != nil && *d.KeyID != "" {
		keyID = *d.KeyID
	}

	sections := []string{
		"JWT decoded successfully:",
		"Algorithm: " + algorithm,
		"Key ID: " + keyID,
		"Signature: " + signatureText(d.Signature),
		"Header:\n" + formatJSON(d.Header),
		"Payload:\n" + formatJSON(d.Payload),
	}
	out := strings.Join(sections, "\n\n")

	if len(d.Warnings) > 0 {
		var b strings.Builder
		b.WriteString("\nWarnings:")
		for _, w := range d.Warnings {
			b.WriteString("\n• ")
			b.WriteString(w)
		}
		out += b.String()
	}

	return out
}

func signatureText(s core.SignatureStatus) string {
	switch s {
	case core.SignatureValid:
		return "✅ valid"
	case core.SignatureInvalid:
		return "❌ invalid"
	default:
		return "not verified"
	}
}

// displayValue renders a non-string header value as its JSON text. Null,
// false, zero and empty values render as "".
func displayValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return ""
		}
		return v.String()
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
	case []any:
		if len(v) == 0 {
			return ""
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

// formatJSON renders v with sorted keys and two space indentation.
func formatJSON(v map[string]any) string {
	if v == nil {
		v = map[string]any{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
