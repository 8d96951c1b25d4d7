/*
Package jwks turns caller supplied key material into keys the validator can
verify with.

Key material is described by a KeySpec: a shared secret, a PEM public key or
certificate, a single JWK, a JWK Set, or free Text that is classified when
resolved:

	spec, err := jwks.ParseKeySpec(`{"kty":"oct","k":"c2VjcmV0"}`)
	if err != nil {
		return err
	}
	key, err := jwks.Resolve(spec, header)

When several JWKs are available, the token header's "kid" picks one. A set
with more than one key and a token without "kid" is rejected as ambiguous.

Resolve never performs network access and keeps no state between calls.
Fetch is provided for callers that want to download a JWK Set themselves.
*/
package jwks
