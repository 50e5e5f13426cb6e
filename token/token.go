// Package token mints and inspects the bearer tokens the portal stores in
// the vault. The real backend issues its own tokens; this package exists so
// the fake identity gateway can issue realistic ones and so rehydration can
// discard an expired cached identity without a network round trip.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const issuer = "org.cardealleme.portal"

// Claims is the subset of registered claims the portal cares about.
type Claims struct {
	Subject string
	Email   string
	Expiry  time.Time
}

// Mint creates a signed HS256 token for the given subject.
func Mint(secret []byte, subject, email string, ttl time.Duration) (string, error) {
	claims := jwtlib.MapClaims{
		"iss":   issuer,
		"sub":   subject,
		"email": email,
		"iat":   NowTimeFunc().Unix(),
		"exp":   NowTimeFunc().Add(ttl).Unix(),
		"jti":   uuid.New().String(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "[Mint] sign token")
	}
	return signed, nil
}

// Parse verifies the signature and returns the claims.
func Parse(secret []byte, raw string) (*Claims, error) {
	parsed, err := jwtlib.Parse(raw, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Parse] parse token")
	}
	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[Parse] unexpected claims type")
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.Expiry = exp.Time
	}
	return claims, nil
}

// Expired reports whether a raw token carries an exp claim in the past.
// Signature verification is skipped; this is a local freshness check only.
func Expired(raw string) bool {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Time.Before(NowTimeFunc())
}
