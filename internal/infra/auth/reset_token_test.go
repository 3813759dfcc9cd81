package auth

import (
	"encoding/hex"
	"testing"

	"gatekeeper/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenGenerator_DefaultLength(t *testing.T) {
	gen := NewResetTokenGenerator(nil)

	token, err := gen.Generate()
	require.NoError(t, err)

	// 16 bytes of entropy, hex-encoded.
	assert.Len(t, token, 32)
	_, err = hex.DecodeString(token)
	require.NoError(t, err)
}

func TestResetTokenGenerator_ConfiguredLength(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{ResetTokenBytes: 32}

	gen := NewResetTokenGenerator(cfg)

	token, err := gen.Generate()
	require.NoError(t, err)
	assert.Len(t, token, 64)
}

func TestResetTokenGenerator_TokensAreUnique(t *testing.T) {
	gen := NewResetTokenGenerator(nil)

	seen := make(map[string]struct{})
	for range 100 {
		token, err := gen.Generate()
		require.NoError(t, err)

		_, dup := seen[token]
		require.False(t, dup, "generated a duplicate token")
		seen[token] = struct{}{}
	}
}
