// Package auth signs and verifies the session cookie and inspects the
// identity provider's bearer tokens. The IdP owns authentication; this
// package only carries its token safely between requests.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: token expired")
)

// SessionSigner mints and verifies the HMAC-signed JWT carried in the
// session cookie. The token's subject is the session ID; the session
// row itself (and the backend bearer token inside it) lives in the
// store.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionSigner builds a signer from the configured secret. An
// empty secret gets a random one, which invalidates cookies across
// restarts; fine for development, logged loudly by the caller.
func NewSessionSigner(secret string, ttl time.Duration) *SessionSigner {
	if secret == "" {
		secret = randomSecret()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionSigner{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *SessionSigner) TTL() time.Duration {
	return s.ttl
}

// Sign mints a session cookie value for the given session ID.
func (s *SessionSigner) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    "greenscore",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks a session cookie value and returns the session ID.
func (s *SessionSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// BearerClaims is what we can read off the IdP's token without its
// verification key: enough to know who the token claims to be and
// whether it is worth forwarding.
type BearerClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// PeekBearer decodes the IdP bearer token without verifying its
// signature. The backend is the verifier of record; the front end only
// peeks to avoid forwarding a token that is already expired.
func PeekBearer(bearer string) (*BearerClaims, error) {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(bearer, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	out := &BearerClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
		if time.Now().After(out.ExpiresAt) {
			return nil, ErrExpiredToken
		}
	}
	return out, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("auth: cannot read random bytes: %v", err))
	}
	return hex.EncodeToString(b)
}
