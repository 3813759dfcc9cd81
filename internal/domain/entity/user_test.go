package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_ResetPending(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	token := "a1b2c3d4"

	t.Run("no token", func(t *testing.T) {
		u := &User{}
		assert.False(t, u.ResetPending(now))
	})

	t.Run("live token", func(t *testing.T) {
		expiry := now.Add(3 * time.Minute)
		u := &User{ResetToken: &token, ResetTokenExpiresAt: &expiry}
		assert.True(t, u.ResetPending(now))
	})

	t.Run("expired token", func(t *testing.T) {
		expiry := now.Add(-time.Second)
		u := &User{ResetToken: &token, ResetTokenExpiresAt: &expiry}
		assert.False(t, u.ResetPending(now))
	})

	t.Run("expiry exactly now", func(t *testing.T) {
		expiry := now
		u := &User{ResetToken: &token, ResetTokenExpiresAt: &expiry}
		assert.False(t, u.ResetPending(now))
	})
}

func TestUser_IdentityOmitsSecrets(t *testing.T) {
	u := &User{
		ID:           42,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
	}

	raw, err := json.Marshal(u.Identity())
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "hashed_password")
	assert.Contains(t, string(raw), "ada@example.com")
}
