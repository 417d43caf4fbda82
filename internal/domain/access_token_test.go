package domain_test

import (
	"testing"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestAccessTokenValidity(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := &domain.AccessToken{IsActive: true, ExpiresAt: now}

	t.Run("Valid at the exact expiry instant", func(t *testing.T) {
		assert.True(t, tok.IsValid(now))
		assert.False(t, tok.IsExpired(now))
	})

	t.Run("Invalid one nanosecond later", func(t *testing.T) {
		later := now.Add(time.Nanosecond)
		assert.False(t, tok.IsValid(later))
		assert.True(t, tok.IsExpired(later))
	})

	t.Run("Inactive token is never valid", func(t *testing.T) {
		revoked := &domain.AccessToken{IsActive: false, ExpiresAt: now.Add(time.Hour)}
		assert.False(t, revoked.IsValid(now))
	})
}

func TestAccessTokenRemaining(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		left time.Duration
		want string
	}{
		{72 * time.Hour, "3 day(s)"},
		{25 * time.Hour, "1 day(s)"},
		{5*time.Hour + 59*time.Minute, "5 hour(s)"},
		{59 * time.Minute, "59 minute(s)"},
		{30 * time.Second, "0 minute(s)"},
		{0, "expired"},
		{-time.Minute, "expired"},
	}
	for _, tt := range tests {
		tok := &domain.AccessToken{ExpiresAt: now.Add(tt.left)}
		assert.Equal(t, tt.want, tok.Remaining(now), tt.left.String())
	}
}
