/*
Package oidc locates the JWK Set of an OpenID Connect issuer.

Providers publish a discovery document at

	https://issuer.example.com/.well-known/openid-configuration

whose jwks_uri member names the key set used to sign their tokens. The
document must repeat the issuer it was fetched for.

	endpoints, err := oidc.GetWellKnownEndpoints(ctx, client, "https://issuer.example.com/")
	if err != nil {
	    return err
	}
	set, err := jwks.Fetch(ctx, client, endpoints.JWKSURI)
*/
package oidc
