// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core entity in the system, representing a single credentialed account.
// The reset fields are either both nil (no outstanding reset request) or both set
// (a reset request is pending); the repository persists them as a pair.
type User struct {
	ID                  int64      // Stable numeric identifier, assigned by the store at creation.
	FirstName           string     // The user's given name.
	LastName            string     // The user's family name.
	Email               string     // Unique login identifier; lookups are exact-match on the stored value.
	PasswordHash        string     // Bcrypt hash of the password. Never serialized to callers.
	ResetToken          *string    // Opaque single-use token; non-nil only while a reset request is outstanding.
	ResetTokenExpiresAt *time.Time // Validity bound of ResetToken; set and cleared together with it.
	CreatedAt           time.Time  // Timestamp of when this account was created.
	UpdatedAt           time.Time  // Timestamp of the last modification to this account.
}

// ResetPending reports whether a reset request is outstanding as of now.
// An expired token counts as no token at all.
func (u *User) ResetPending(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(now)
}

// Identity returns the public projection of the user. Every path that surfaces
// a user to a caller returns this type, so the password hash cannot leak through
// serialization of the full record.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// Identity is the externally visible subset of a User.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
