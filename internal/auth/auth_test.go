package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	s := NewSessionSigner("test-secret", time.Hour)

	cookie, err := s.Sign("sess-123")
	require.NoError(t, err)

	got, err := s.Verify(cookie)
	require.NoError(t, err)
	assert.Equal(t, "sess-123", got)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a := NewSessionSigner("secret-a", time.Hour)
	b := NewSessionSigner("secret-b", time.Hour)

	cookie, err := a.Sign("sess-123")
	require.NoError(t, err)

	_, err = b.Verify(cookie)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := NewSessionSigner("test-secret", time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "sess-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.Verify(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := NewSessionSigner("test-secret", time.Hour)

	_, err := s.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptySecretGetsRandomOne(t *testing.T) {
	a := NewSessionSigner("", time.Hour)
	b := NewSessionSigner("", time.Hour)

	cookie, err := a.Sign("sess-1")
	require.NoError(t, err)

	// Each signer has its own random secret.
	_, err = b.Verify(cookie)
	assert.Error(t, err)

	got, err := a.Verify(cookie)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got)
}

func TestPeekBearer(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	bearer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("idp-secret"))
	require.NoError(t, err)

	got, err := PeekBearer(bearer)
	require.NoError(t, err)
	assert.Equal(t, "user-42", got.Subject)
}

func TestPeekBearerExpired(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	bearer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("idp-secret"))
	require.NoError(t, err)

	_, err = PeekBearer(bearer)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPeekBearerGarbage(t *testing.T) {
	_, err := PeekBearer("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
