package auth

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"

	"gatekeeper/config"
	"gatekeeper/internal/domain/service"
)

// resetTokenGenerator draws fixed-length opaque tokens from crypto/rand.
type resetTokenGenerator struct {
	numBytes int
}

// NewResetTokenGenerator is the constructor for resetTokenGenerator.
func NewResetTokenGenerator(cfg *config.Config) service.ResetTokenGenerator {
	numBytes := config.DefaultResetTokenBytes
	if cfg != nil && cfg.Auth != nil && cfg.Auth.ResetTokenBytes > 0 {
		numBytes = cfg.Auth.ResetTokenBytes
	}

	return &resetTokenGenerator{numBytes: numBytes}
}

// Generate returns a hex-encoded random token. Collisions are negligible at
// the default 16 bytes of entropy.
func (g *resetTokenGenerator) Generate() (string, error) {
	buf := make([]byte, g.numBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}

	return hex.EncodeToString(buf), nil
}
