// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"gatekeeper/internal/delivery/http/response"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for credential lifecycle handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// SignIn handles the sign-in request.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var input *usecase.SignInInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-in input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	output, err := h.uc.SignIn(c.Request().Context(), input)
	if err != nil {
		// An unknown email and a wrong password produce the same response,
		// so the endpoint cannot be used to probe which accounts exist.
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return errors.WithStack(domainerrors.ErrInvalidCredentials)
		}

		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Sign-in successful")
}

// ResetPasswordRequest handles the request for a password reset token.
func (h *AuthHandler) ResetPasswordRequest(c echo.Context) error {
	var input *usecase.ResetPasswordRequestInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset request input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	output, err := h.uc.ResetPasswordRequest(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Password reset requested")
}

// ResetPassword handles the consumption of a reset token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var input *usecase.ResetPasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset password input")
	}
	input.Token = c.Param("token")
	if err := c.Validate(input); err != nil {
		return err
	}

	if err := h.uc.ResetPassword(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password has been reset"}, "Password reset successful")
}
