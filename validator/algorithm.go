package validator

import (
	"crypto"
	"fmt"
	"sort"
	"strings"

	"github.com/devtoolbox/jwtinspect/jwterrors"
)

// SignatureAlgorithm is a supported signature algorithm.
type SignatureAlgorithm string

// Signature algorithms
const (
	HS256 = SignatureAlgorithm("HS256") // HMAC using SHA-256
	HS384 = SignatureAlgorithm("HS384") // HMAC using SHA-384
	HS512 = SignatureAlgorithm("HS512") // HMAC using SHA-512
	RS256 = SignatureAlgorithm("RS256") // RSASSA-PKCS-v1.5 using SHA-256
	RS384 = SignatureAlgorithm("RS384") // RSASSA-PKCS-v1.5 using SHA-384
	RS512 = SignatureAlgorithm("RS512") // RSASSA-PKCS-v1.5 using SHA-512
	PS256 = SignatureAlgorithm("PS256") // RSASSA-PSS using SHA256 and MGF1-SHA256
	PS384 = SignatureAlgorithm("PS384") // RSASSA-PSS using SHA384 and MGF1-SHA384
	PS512 = SignatureAlgorithm("PS512") // RSASSA-PSS using SHA512 and MGF1-SHA512
	ES256 = SignatureAlgorithm("ES256") // ECDSA using P-256 and SHA-256
	ES384 = SignatureAlgorithm("ES384") // ECDSA using P-384 and SHA-384
	ES512 = SignatureAlgorithm("ES512") // ECDSA using P-521 and SHA-512
)

// Family groups algorithms sharing a verification method.
type Family int

// Algorithm families.
const (
	FamilyHMAC Family = iota + 1
	FamilyRSAPKCS1v15
	FamilyRSAPSS
	FamilyECDSA
)

func (f Family) String() string {
	switch f {
	case FamilyHMAC:
		return "HMAC"
	case FamilyRSAPKCS1v15:
		return "RSASSA-PKCS1-v1_5"
	case FamilyRSAPSS:
		return "RSASSA-PSS"
	case FamilyECDSA:
		return "ECDSA"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

type algorithmInfo struct {
	family Family
	hash   crypto.Hash
	curve  string
}

var algorithms = map[SignatureAlgorithm]algorithmInfo{
	HS256: {family: FamilyHMAC, hash: crypto.SHA256},
	HS384: {family: FamilyHMAC, hash: crypto.SHA384},
	HS512: {family: FamilyHMAC, hash: crypto.SHA512},
	RS256: {family: FamilyRSAPKCS1v15, hash: crypto.SHA256},
	RS384: {family: FamilyRSAPKCS1v15, hash: crypto.SHA384},
	RS512: {family: FamilyRSAPKCS1v15, hash: crypto.SHA512},
	PS256: {family: FamilyRSAPSS, hash: crypto.SHA256},
	PS384: {family: FamilyRSAPSS, hash: crypto.SHA384},
	PS512: {family: FamilyRSAPSS, hash: crypto.SHA512},
	ES256: {family: FamilyECDSA, hash: crypto.SHA256, curve: "P-256"},
	ES384: {family: FamilyECDSA, hash: crypto.SHA384, curve: "P-384"},
	ES512: {family: FamilyECDSA, hash: crypto.SHA512, curve: "P-521"},
}

// ParseAlgorithm normalizes name (surrounding spaces removed, upper-cased)
// and returns the matching algorithm. Names outside the supported set are
// an ErrUnsupportedAlgorithm.
func ParseAlgorithm(name string) (SignatureAlgorithm, error) {
	alg := SignatureAlgorithm(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := algorithms[alg]; !ok {
		return "", jwterrors.UnsupportedAlgorithm(fmt.Sprintf("unsupported algorithm: %s", name))
	}
	return alg, nil
}

// Algorithms returns the supported algorithms in lexical order.
func Algorithms() []SignatureAlgorithm {
	algs := make([]SignatureAlgorithm, 0, len(algorithms))
	for alg := range algorithms {
		algs = append(algs, alg)
	}
	sort.Slice(algs, func(i, j int) bool { return algs[i] < algs[j] })
	return algs
}

// Family returns the family of the algorithm, or 0 for an unknown one.
func (a SignatureAlgorithm) Family() Family {
	return algorithms[a].family
}

// Hash returns the digest used by the algorithm.
func (a SignatureAlgorithm) Hash() crypto.Hash {
	return algorithms[a].hash
}

// Curve returns the curve required by an ECDSA algorithm and "" otherwise.
func (a SignatureAlgorithm) Curve() string {
	return algorithms[a].curve
}

// IsInsecure reports whether name is one of the unsigned algorithm markers,
// "none" or "NONE". The set is fixed.
func IsInsecure(name string) bool {
	switch name {
	case "none", "NONE":
		return true
	default:
		return false
	}
}
