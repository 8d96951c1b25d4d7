package cli

import (
	"github.com/cockroachdb/errors"

	"github.com/devtoolbox/jwtinspect/internal/oidc"
	"github.com/devtoolbox/jwtinspect/jwks"
)

// KeyFlags selects the verification key. At most one source may be given.
type KeyFlags struct {
	Key     string `help:"shared secret, PEM public key, JWK or JWK Set" env:"JWTINSPECT_KEY"`
	KeyFile string `help:"file holding the key, '-' for stdin" env:"JWTINSPECT_KEY_FILE"`
	JWKSURL string `name:"jwks-url" help:"URL of a JWK Set to verify with" env:"JWTINSPECT_JWKS_URL"`
	Issuer  string `help:"OpenID Connect issuer whose JWK Set to verify with" env:"JWTINSPECT_ISSUER"`
}

// Load returns the selected key, or nil when no source was given.
func (f *KeyFlags) Load(ctx *Cli) (jwks.KeySpec, error) {
	sources := 0
	for _, s := range []string{f.Key, f.KeyFile, f.JWKSURL, f.Issuer} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New("only one of --key, --key-file, --jwks-url and --issuer may be given")
	}

	switch {
	case f.Key != "":
		return jwks.Text(f.Key), nil
	case f.KeyFile != "":
		b, err := ctx.ReadFile(f.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "unable to load key file")
		}
		return jwks.Text(string(b)), nil
	case f.JWKSURL != "":
		set, err := jwks.Fetch(ctx.Context(), ctx.HTTPClient(), f.JWKSURL)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to fetch JWK Set from %s", f.JWKSURL)
		}
		return set, nil
	case f.Issuer != "":
		endpoints, err := oidc.GetWellKnownEndpoints(ctx.Context(), ctx.HTTPClient(), f.Issuer)
		if err != nil {
			return nil, errors.Wrap(err, "unable to discover JWK Set")
		}
		set, err := jwks.Fetch(ctx.Context(), ctx.HTTPClient(), endpoints.JWKSURI)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to fetch JWK Set from %s", endpoints.JWKSURI)
		}
		return set, nil
	default:
		return nil, nil
	}
}
