package oidc

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/appauth-go/appauth/pkg/crypto"
)

const (
	//CodeChallengeMethodS256 derives the challenge as the unpadded base64url
	//encoding of the SHA-256 hash of the verifier's ASCII bytes.
	//This is the method used by default; RFC 7636 mandates it on any client
	//capable of computing SHA-256.
	CodeChallengeMethodS256 CodeChallengeMethod = "S256"

	//CodeChallengeMethodPlain uses the verifier itself as the challenge.
	//It exists only for authorization servers which reject the hashed form
	//and is never chosen automatically.
	CodeChallengeMethodPlain CodeChallengeMethod = "plain"
)

const (
	// Verifier length bounds of RFC 7636, section 4.1.
	MinCodeVerifierLength = 43
	MaxCodeVerifierLength = 128

	// Entropy bounds (in bytes, before base64url encoding) accepted by
	// GenerateCodeVerifierWithEntropy.
	MinCodeVerifierEntropy     = 32
	MaxCodeVerifierEntropy     = 96
	DefaultCodeVerifierEntropy = 64

	stateEntropy = 16
)

type CodeChallengeMethod string

type CodeChallenge struct {
	Challenge string
	Method    CodeChallengeMethod
}

// GenerateCodeVerifier produces a fresh random code verifier with the
// default entropy. Every call draws from crypto/rand, so concurrent use
// from independent builders is safe.
func GenerateCodeVerifier() (string, error) {
	return GenerateCodeVerifierWithEntropy(DefaultCodeVerifierEntropy)
}

// GenerateCodeVerifierWithEntropy produces a random code verifier from
// entropyBytes of randomness, base64url encoded without padding.
func GenerateCodeVerifierWithEntropy(entropyBytes int) (string, error) {
	if entropyBytes < MinCodeVerifierEntropy || entropyBytes > MaxCodeVerifierEntropy {
		return "", ErrInvalidArgument().WithField("entropy").
			WithDescription("code verifier entropy must be between %d and %d bytes", MinCodeVerifierEntropy, MaxCodeVerifierEntropy)
	}
	random := make([]byte, entropyBytes)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(random), nil
}

// CheckCodeVerifier validates the length and character set of a code
// verifier against RFC 7636, section 4.1.
func CheckCodeVerifier(verifier string) error {
	if len(verifier) < MinCodeVerifierLength || len(verifier) > MaxCodeVerifierLength {
		return ErrInvalidArgument().WithField("codeVerifier").
			WithDescription("code verifier must be between %d and %d characters", MinCodeVerifierLength, MaxCodeVerifierLength)
	}
	for _, r := range verifier {
		if !isVerifierChar(r) {
			return ErrInvalidArgument().WithField("codeVerifier").
				WithDescription("code verifier contains illegal character %q", r)
		}
	}
	return nil
}

// unreserved characters of RFC 3986, section 2.3
func isVerifierChar(r rune) bool {
	switch {
	case 'A' <= r && r <= 'Z',
		'a' <= r && r <= 'z',
		'0' <= r && r <= '9',
		r == '-', r == '.', r == '_', r == '~':
		return true
	}
	return false
}

// DeriveCodeChallenge computes the challenge for verifier under the
// given method. The derivation is deterministic: the same verifier and
// method always yield the same challenge.
func DeriveCodeChallenge(method CodeChallengeMethod, verifier string) (string, error) {
	switch method {
	case CodeChallengeMethodS256:
		return NewSHACodeChallenge(verifier), nil
	case CodeChallengeMethodPlain:
		return verifier, nil
	}
	return "", ErrUnsupportedChallengeMethod().WithDescription("code challenge method %q", method)
}

func NewSHACodeChallenge(verifier string) string {
	return crypto.HashString(sha256.New(), verifier)
}

// VerifyCodeChallenge reports whether codeVerifier derives into the
// stored challenge.
func VerifyCodeChallenge(c *CodeChallenge, codeVerifier string) bool {
	if c == nil {
		return false
	}
	challenge, err := DeriveCodeChallenge(c.Method, codeVerifier)
	if err != nil {
		return false
	}
	return challenge == c.Challenge
}

// GenerateState produces a fresh random value for the `state`
// parameter, base64url encoded without padding.
func GenerateState() (string, error) {
	random := make([]byte, stateEntropy)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(random), nil
}
