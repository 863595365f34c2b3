// Package token implements the signed session token codec: a compact HS256
// JWT carrying the subject, an absolute expiry, and a unique id used for
// revocation. Tokens are stateless; nothing is persisted at issuance.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskforge/todo-system/internal/core/domain"
)

// Codec signs and verifies session tokens with a single static secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCodec builds a Codec. A non-positive ttl falls back to 24h.
func NewCodec(secret string, ttl time.Duration, log zerolog.Logger) *Codec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl, log: log}
}

// TTL returns the fixed validity duration applied at issuance.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode issues a signed token for subject, valid from issuedAt for the
// configured TTL. The jti claim is the revocation handle.
func (c *Codec) Encode(subject string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifies signature and expiry and returns the embedded claims.
// Every failure mode surfaces as domain.ErrInvalidToken; whether the token
// was expired, forged, or garbage is logged at debug level only, so the
// distinction never leaks to clients.
func (c *Codec) Decode(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			c.log.Debug().Msg("token rejected: expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			c.log.Debug().Msg("token rejected: signature mismatch")
		default:
			c.log.Debug().Err(err).Msg("token rejected: malformed")
		}
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// ExtractSubject returns the subject of a token after full validation.
func (c *Codec) ExtractSubject(tokenString string) (string, error) {
	claims, err := c.Decode(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
