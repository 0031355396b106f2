package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"careline/pkg/sentinel"
)

// TTL is fixed for every issued token.
const TTL = 10 * time.Hour

// Claims carried by an access token: the subject identity plus a flat role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the verified view of a token handed back to callers.
type Identity struct {
	Subject string
	Role    string
}

// Codec signs and verifies compact HS256 tokens. The signing secret is
// process-wide configuration injected at construction and never mutated.
type Codec struct {
	signingKey []byte
	now        func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source. Issue and Verify become deterministic,
// which the tests rely on.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func New(signingKey []byte, opts ...Option) *Codec {
	c := &Codec{
		signingKey: signingKey,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue produces a signed token for subject with the given role claim.
// Expiry is now + TTL; issuedAt is recorded for auditability.
func (c *Codec) Issue(subject, role string) (string, error) {
	now := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	})

	signed, err := t.SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Failure kinds are distinct sentinels so callers can tell expired from
// tampered from garbage; boundary layers collapse them to 401.
func (c *Codec) Verify(tokenString string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	}, jwt.WithTimeFunc(c.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, sentinel.ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, sentinel.ErrInvalidSignature
		default:
			return Identity{}, sentinel.ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, sentinel.ErrMalformed
	}

	return Identity{Subject: claims.Subject, Role: claims.Role}, nil
}
