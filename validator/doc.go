/*
Package validator verifies JWT signatures.

The supported algorithms form a closed set:

HMAC:
  - HS256, HS384, HS512

RSA:
  - RS256, RS384, RS512 (RSASSA-PKCS1-v1_5)
  - PS256, PS384, PS512 (RSASSA-PSS)

ECDSA:
  - ES256, ES384, ES512 (P-256, P-384 and P-521)

Anything else, including "none", is never verified.

# Usage

	alg, err := validator.ParseAlgorithm("HS256")
	if err != nil {
	    return err
	}
	key, err := jwks.Resolve(jwks.SharedSecret("secret"), parts.Header)
	if err != nil {
	    return err
	}
	valid, err := validator.Verify(alg, parts.SigningInput(), parts.SignatureRaw, key)

# Algorithm Confusion

Each family only accepts its own key type: HMAC needs a shared secret, RSA
and RSA-PSS need an RSA public key, ECDSA needs an EC public key on the
curve the algorithm names. Any other combination is an ErrKeyMaterial error,
so an RSA public key can never be used as an HMAC secret.
*/
package validator
