/*
Package jwtinspect decodes and verifies JWTs carried by HTTP requests.

The decoding itself lives in the core package; this package is its net/http
adapter. An Inspector offers two entry points:

  - CheckJWT, a middleware that decodes the request's bearer token and
    stores the result in the request context
  - DecodeHandler, an endpoint decoding the token posted in a JSON body

# Quick Start

	inspector, err := jwtinspect.New(
	    jwtinspect.WithKey(jwks.SharedSecret("shared-secret")),
	)
	if err != nil {
	    log.Fatal(err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	    decoded := jwtinspect.MustGetDecoded(r.Context())
	    fmt.Fprintln(w, decoded.Payload["sub"])
	})

	http.Handle("/api", inspector.CheckJWT(handler))
	http.Handle("/decode", inspector.DecodeHandler())

Without a key (and without WithVerify) tokens are decoded but not verified,
which suits debugging tools. With a key, tokens whose signature does not
verify are rejected with 401.

# Decode Endpoint

DecodeHandler accepts

	POST /decode
	{"token": "eyJ...", "key": "shared-secret", "verify": true}

where key is a shared secret, PEM text, a JWK or a JWK Set, and returns the
decoded token:

	{
	  "header": {"alg": "HS256"},
	  "payload": {"sub": "123"},
	  "signature_valid": true,
	  "algorithm": "HS256",
	  "key_id": null,
	  "warnings": []
	}

"signature_valid" is null when verification was not requested. Add
?format=text for the plain text summary.

# Error Handling

DefaultErrorHandler responds with a JSON body {"code", "message"}:

  - 400 for a missing or malformed token
  - 401 for an invalid signature
  - 422 when the key cannot verify the token, or the algorithm is
    unsupported or "none"
  - 500 for anything else

# Logging, Metrics and Tracing

	logger := logrus.New()
	inspector, err := jwtinspect.New(
	    jwtinspect.WithLogger(jwtinspect.NewLogrusLogger(logger)),
	    jwtinspect.WithMetrics(jwtinspect.NewPrometheusMetrics(prometheus.DefaultRegisterer)),
	    jwtinspect.WithTracer(jwtinspect.NewOpenTelemetryTracer(otel.Tracer("api"))),
	)

Tokens and keys are never logged.
*/
package jwtinspect
