package usecase

import (
	"context"

	"gatekeeper/internal/domain/entity"
)

// --- Input DTOs ---

// CreateUserInput defines the data required to register a new user.
type CreateUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=20"`
}

// UpdateUserInput carries the optional fields of a partial update. A nil
// field is left untouched; an empty password is rejected.
type UpdateUserInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=255"`
	LastName  *string `json:"lastName" validate:"omitempty,max=30"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password"`
}

// ListUsersInput defines search and pagination parameters.
type ListUsersInput struct {
	Search   string
	Page     int
	PageSize int
}

// --- Output DTOs ---

// CreateUserOutput returns the created identity and a signed token, so a
// fresh registration doubles as a sign-in.
type CreateUserOutput struct {
	User        *entity.Identity `json:"user"`
	AccessToken string           `json:"access_token"`
	Message     string           `json:"message"`
}

// UpdateUserOutput returns the updated identity; AccessToken is set only when
// the email changed, because the old token's username claim no longer resolves.
type UpdateUserOutput struct {
	User        *entity.Identity `json:"user"`
	AccessToken string           `json:"access_token,omitempty"`
}

// ListUsersOutput returns one page of identities plus paging metadata.
type ListUsersOutput struct {
	Users       []*entity.Identity `json:"users"`
	TotalCount  int64              `json:"totalCount"`
	CurrentPage int                `json:"currentPage"`
	TotalPages  int                `json:"totalPages"`
}

// UserUsecase defines user-management operations adjacent to the credential
// core. They share the user record store and its uniqueness invariant.
type UserUsecase interface {
	CreateUser(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error)
	GetUser(ctx context.Context, id int64) (*entity.Identity, error)
	ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error)
	UpdateUser(ctx context.Context, id int64, input *UpdateUserInput) (*UpdateUserOutput, error)
	DeleteUser(ctx context.Context, id int64) error
}
