package service

// ResetTokenGenerator produces opaque single-use tokens for the password
// reset flow. Tokens must come from a cryptographically secure source.
type ResetTokenGenerator interface {
	Generate() (string, error)
}
