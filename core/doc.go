/*
Package core decodes and verifies JWTs independently of any transport.

Decode always returns the decoded header and payload. Verification is
requested by passing a key or setting verify, and its outcome is a
SignatureStatus with three states:

	c, _ := core.New()
	decoded, err := c.Decode(ctx, raw, jwks.SharedSecret("shared-secret"), true)
	if err != nil {
	    // jwterrors.ErrMalformedToken, ErrKeyMaterial,
	    // ErrUnsupportedAlgorithm or ErrInsecureAlgorithm
	    return err
	}
	switch decoded.Signature {
	case core.SignatureValid:
	case core.SignatureInvalid:
	case core.SignatureNotRequested:
	}

DecodeJWT is a shortcut using a default Core:

	decoded, err := core.DecodeJWT(raw, "shared-secret", true)

# Policy

  - a header without "alg" adds a warning, and cannot be verified
  - "alg": "none" (or "NONE") adds a warning and is never verified: asking
    for verification is an ErrInsecureAlgorithm error
  - the key is chosen and checked against the algorithm family before any
    signature check, see the jwks and validator packages

# Middleware

CheckToken is the entry point for request middleware. It uses the key and
verification mode set with WithKey and WithVerify, rejects tokens whose
signature is invalid with ErrSignatureInvalid, and handles missing tokens
according to WithCredentialsOptional. Adapters store the result in the
request context with SetDecoded.
*/
package core
