package jwtinspect

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/devtoolbox/jwtinspect/jwks"
	"github.com/devtoolbox/jwtinspect/jwterrors"
	"github.com/devtoolbox/jwtinspect/summary"
)

// maxRequestSize bounds a decode request body: a maximum size token plus
// room for key material.
const maxRequestSize = 2 * 1024 * 1024

// DecodeRequest is the JSON body accepted by DecodeHandler. Key is either a
// string (a shared secret, PEM, or JSON JWK text) or a JWK / JWK Set object
// or list.
type DecodeRequest struct {
	Token  string          `json:"token"`
	Key    json.RawMessage `json:"key,omitempty"`
	Verify bool            `json:"verify"`
}

// DecodeHandler returns a handler decoding the token posted in a
// DecodeRequest. The response is the JSON core.DecodedJWT, or the summary
// text when the format query parameter is "text". When the request carries
// no key, the key configured with WithKey is used.
func (i *Inspector) DecodeHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
				Code:    ErrorCodeInvalidRequest,
				Message: "only POST is supported",
			})
			return
		}

		textFormat := r.URL.Query().Get("format") == "text"

		var req DecodeRequest
		dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestSize))
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Code:    ErrorCodeInvalidRequest,
				Message: "request body must be a JSON object with a token",
			})
			return
		}

		key, err := requestKey(req.Key)
		if err != nil {
			i.respondError(w, r, err, textFormat)
			return
		}
		if key == nil {
			key = i.key
		}

		ctx, span := i.tracer.StartSpan(r.Context(), "jwtinspect.http.decode")
		defer span.Finish()

		start := time.Now()
		decoded, err := i.core.Decode(ctx, req.Token, key, req.Verify || i.verify)
		i.record(ResultOf(decoded, err), time.Since(start))

		if err != nil {
			span.RecordError(err)
			i.respondError(w, r, err, textFormat)
			return
		}
		span.SetTag("jwt.signature", decoded.Signature.String())

		if textFormat {
			writeText(w, http.StatusOK, summary.Render(decoded))
			return
		}
		writeJSON(w, http.StatusOK, decoded)
	})
}

func (i *Inspector) respondError(w http.ResponseWriter, r *http.Request, err error, textFormat bool) {
	if i.logger != nil {
		i.logger.Debug("decode request failed", "error", err, "code", jwterrors.CodeOf(err))
	}
	if textFormat {
		status, _ := StatusOf(err)
		writeText(w, status, summary.Failure(err))
		return
	}
	i.errorHandler(w, r, err)
}

// requestKey converts the raw "key" member of a request. Strings are
// classified like typed key text; objects and lists are JWKs.
func requestKey(raw json.RawMessage) (jwks.KeySpec, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, jwterrors.KeyMaterial("invalid key", err)
		}
		return jwks.Text(text), nil
	}
	return jwks.KeySpecOf(raw)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}
