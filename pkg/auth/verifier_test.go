package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifierHS256(t *testing.T) {
	v := NewVerifier("test-secret", nil)

	t.Run("Valid token", func(t *testing.T) {
		tok := sign(t, "test-secret", jwt.MapClaims{
			"sub": "7a3c8c2e-0000-4000-8000-000000000001", "email": "owner@example.com",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		claims, err := v.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, "7a3c8c2e-0000-4000-8000-000000000001", claims.Subject)
		assert.Equal(t, "owner@example.com", claims.Email)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		tok := sign(t, "other", jwt.MapClaims{"sub": "x", "exp": time.Now().Add(time.Hour).Unix()})
		_, err := v.Verify(tok)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		tok := sign(t, "test-secret", jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Minute).Unix()})
		_, err := v.Verify(tok)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Missing exp", func(t *testing.T) {
		tok := sign(t, "test-secret", jwt.MapClaims{"sub": "x"})
		_, err := v.Verify(tok)
		assert.Error(t, err)
	})

	t.Run("Missing subject", func(t *testing.T) {
		tok := sign(t, "test-secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		_, err := v.Verify(tok)
		assert.Error(t, err)
	})
}

func TestVerifierWithoutSecret(t *testing.T) {
	v := NewVerifier("", nil)
	tok := sign(t, "anything", jwt.MapClaims{"sub": "x", "exp": time.Now().Add(time.Hour).Unix()})
	_, err := v.Verify(tok)
	assert.Error(t, err)
}
