package jwtx

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs access tokens.
type Signer interface {
	KID() string
	Sign(Claims) (string, error)
}

// EdDSASigner signs with a single Ed25519 key.
type EdDSASigner struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// NewSignerEdDSA wraps key. The kid is derived from the public key so it is
// stable across restarts for a persisted key.
func NewSignerEdDSA(key ed25519.PrivateKey) (*EdDSASigner, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 private key size")
	}
	pub := key.Public().(ed25519.PublicKey)

	return &EdDSASigner{
		kid: KIDFor(pub),
		key: key,
		pub: pub,
	}, nil
}

func (s *EdDSASigner) KID() string { return s.kid }

// PublicKey returns the verification half of the signing key.
func (s *EdDSASigner) PublicKey() ed25519.PublicKey { return s.pub }

// Sign returns the compact JWS for claims with the kid header set.
func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// KIDFor returns the first 16 characters of the base64url SHA-256 of pub.
func KIDFor(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return base64.RawURLEncoding.EncodeToString(sum[:])[:16]
}
