// Package auth holds the session token codec and the OAuth provider clients.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// DefaultSessionTTL is the lifetime of a session token.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims is the payload carried by a session token.
type Claims struct {
	UserID          uint `json:"userId"`
	NeedsOnboarding bool `json:"needsOnboarding"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec returns a codec keyed by secret. A non-positive ttl selects DefaultSessionTTL.
func NewTokenCodec(secret string, ttl time.Duration, opts ...TokenOption) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	c := &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Sign issues a token for userID valid for the codec TTL.
func (c *TokenCodec) Sign(userID uint, needsOnboarding bool) (string, error) {
	iat := c.now()
	claims := Claims{
		UserID:          userID,
		NeedsOnboarding: needsOnboarding,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(iat.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry of token and returns its claims.
// Every failure is reported as ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	// A token is dead at exp, not one second after.
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(c.now()) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
