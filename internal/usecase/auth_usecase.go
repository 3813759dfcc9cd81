// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gatekeeper/internal/domain/entity"
)

// --- Input DTOs ---

// SignInInput defines the credentials presented at sign-in.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequestInput identifies the account asking for a reset.
type ResetPasswordRequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput carries the reset token and the replacement password.
type ResetPasswordInput struct {
	Token           string `json:"-"`
	Password        string `json:"password" validate:"required,min=6,max=20"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// --- Output DTOs ---

// SignInOutput returns the signed bearer token and the public identity.
type SignInOutput struct {
	AccessToken string           `json:"access_token"`
	User        *entity.Identity `json:"user"`
}

// ResetPasswordRequestOutput acknowledges an accepted reset request.
type ResetPasswordRequestOutput struct {
	Message string `json:"message"`
}

// AuthUsecase defines the credential lifecycle operations exposed to the
// delivery layer.
type AuthUsecase interface {
	// SignIn verifies the credentials and converts the identity into a
	// signed bearer token. It never mutates the record.
	SignIn(ctx context.Context, input *SignInInput) (*SignInOutput, error)

	// ResetPasswordRequest issues a fresh single-use reset token for the
	// account, overwriting any prior pending token, and hands it to the
	// notification pipeline.
	ResetPasswordRequest(ctx context.Context, input *ResetPasswordRequestInput) (*ResetPasswordRequestOutput, error)

	// ResetPassword consumes a valid reset token and installs the new
	// password in the same logical update that clears the token pair.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error

	// ValidateUser is the non-throwing variant of the sign-in checks used by
	// internal verification paths. It returns nil on any credential failure.
	ValidateUser(ctx context.Context, email, password string) (*entity.Identity, error)
}
