package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues and verifies HMAC-signed bearer tokens.
// The secret is read once at construction and shared by every replica,
// so a token minted anywhere verifies everywhere
type Signer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration

	now func() time.Time // seam for expiry tests
}

// NewSigner builds a Signer for the given HS algorithm (HS256, HS384, HS512)
func NewSigner(secret, algorithm string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret must not be empty")
	}
	m := jwt.GetSigningMethod(algorithm)
	if m == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := m.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("algorithm %q is not an HMAC method", algorithm)
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Signer{secret: []byte(secret), method: m, ttl: ttl, now: time.Now}, nil
}

// Issue mints a token for the subject expiring at now + the configured ttl
func (s *Signer) Issue(subject string) (string, error) {
	return s.IssueFor(subject, s.ttl)
}

// IssueFor mints a token with a caller-chosen lifetime; ttl <= 0 falls back
// to the configured default
func (s *Signer) IssueFor(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify returns the subject iff the signature checks out and the token
// has not expired. Every failure mode collapses to ok=false
func (s *Signer) Verify(raw string) (subject string, ok bool) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// TTL returns the configured token lifetime
func (s *Signer) TTL() time.Duration { return s.ttl }
