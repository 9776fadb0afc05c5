package grocery

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidShareToken is returned for malformed, forged or expired share tokens.
var ErrInvalidShareToken = errors.New("invalid share token")

const shareAudience = "grocery-list"

// Sharer issues read-only share tokens for grocery lists.
type Sharer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSharer creates a Sharer signing with HS256.
func NewSharer(secret, issuer string, ttl time.Duration) *Sharer {
	return &Sharer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a token granting read access to listID and its expiry.
func (s *Sharer) Issue(listID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   listID,
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{shareAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, exp, nil
}

// Verify returns the list id a token grants access to.
func (s *Sharer) Verify(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(shareAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidShareToken
	}
	return claims.Subject, nil
}
