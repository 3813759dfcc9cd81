// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"gatekeeper/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ListUsersQuery carries the search and pagination parameters for listing users.
// Search matches case-insensitively against first name, last name and email.
type ListUsersQuery struct {
	Search   string
	Page     int
	PageSize int
}

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail retrieves a single user by exact match on the stored email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByResetToken retrieves the user whose reset token equals token and
	// whose expiration is strictly after now. Consumed, overwritten and
	// expired tokens all come back as ErrUserNotFound.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)

	// Create persists a new user entity and assigns its ID.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage. The reset token
	// and its expiration are written as they appear on the entity, including
	// clearing both to null.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the record entirely. No history is retained.
	Delete(ctx context.Context, id int64) error

	// List returns a page of users plus the total count of matches.
	List(ctx context.Context, query ListUsersQuery) ([]*entity.User, int64, error)
}
