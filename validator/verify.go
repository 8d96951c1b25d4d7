package validator

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devtoolbox/jwtinspect/jwks"
	"github.com/devtoolbox/jwtinspect/jwterrors"
	"github.com/devtoolbox/jwtinspect/token"
)

var signingMethods = map[SignatureAlgorithm]jwt.SigningMethod{
	HS256: jwt.SigningMethodHS256,
	HS384: jwt.SigningMethodHS384,
	HS512: jwt.SigningMethodHS512,
	RS256: jwt.SigningMethodRS256,
	RS384: jwt.SigningMethodRS384,
	RS512: jwt.SigningMethodRS512,
	PS256: jwt.SigningMethodPS256,
	PS384: jwt.SigningMethodPS384,
	PS512: jwt.SigningMethodPS512,
	ES256: jwt.SigningMethodES256,
	ES384: jwt.SigningMethodES384,
	ES512: jwt.SigningMethodES512,
}

// Verify checks signatureRaw, the Base64URL signature segment, over
// signingInput with key.
//
// An error is returned only when the inputs cannot be verified at all: an
// unsupported algorithm, or key material of the wrong family or curve. A
// signature that does not decode or does not match yields false and no error.
func Verify(alg SignatureAlgorithm, signingInput []byte, signatureRaw string, key *jwks.ResolvedKey) (bool, error) {
	method, ok := signingMethods[alg]
	if !ok {
		return false, jwterrors.UnsupportedAlgorithm(fmt.Sprintf("unsupported algorithm: %s", alg))
	}
	if key == nil {
		return false, jwterrors.KeyMaterial("a key is required for verification", nil)
	}

	verificationKey, err := keyFor(alg, key)
	if err != nil {
		return false, err
	}

	signature, err := token.DecodeSegment(signatureRaw)
	if err != nil {
		return false, nil
	}

	return method.Verify(string(signingInput), signature, verificationKey) == nil, nil
}

// keyFor returns the key in the shape the algorithm's family verifies with.
func keyFor(alg SignatureAlgorithm, key *jwks.ResolvedKey) (any, error) {
	switch family := alg.Family(); family {
	case FamilyHMAC:
		if key.Type != jwks.KeyTypeOct {
			return nil, familyMismatch(alg, key)
		}
		return key.Secret, nil
	case FamilyRSAPKCS1v15, FamilyRSAPSS:
		if key.Type != jwks.KeyTypeRSA || key.RSA == nil {
			return nil, familyMismatch(alg, key)
		}
		return key.RSA, nil
	case FamilyECDSA:
		if key.Type != jwks.KeyTypeEC || key.EC == nil {
			return nil, familyMismatch(alg, key)
		}
		if curve := key.EC.Curve.Params().Name; curve != alg.Curve() {
			return nil, jwterrors.KeyMaterial(
				fmt.Sprintf("%s requires a %s key, got %s", alg, alg.Curve(), curve), nil)
		}
		return key.EC, nil
	default:
		return nil, jwterrors.UnsupportedAlgorithm(fmt.Sprintf("unsupported algorithm: %s", alg))
	}
}

func familyMismatch(alg SignatureAlgorithm, key *jwks.ResolvedKey) error {
	return jwterrors.KeyMaterial(
		fmt.Sprintf("%s (%s) cannot be verified with a %s key", alg, alg.Family(), key.Type), nil)
}
