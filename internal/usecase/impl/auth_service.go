// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"gatekeeper/config"
	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface. It owns the credential
// lifecycle rules; all durable state lives behind the repository.
type authService struct {
	txManager     repository.TransactionManager
	userRepo      repository.UserRepository
	hasher        service.PasswordHasher
	tokenService  service.TokenService
	resetTokens   service.ResetTokenGenerator
	publisher     service.EventPublisher
	resetTokenTTL time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	ResetTokens  service.ResetTokenGenerator
	Publisher    service.EventPublisher
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	resetTokenTTL := config.DefaultResetTokenTTL
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.ResetTokenTTL > 0 {
		resetTokenTTL = params.Config.Auth.ResetTokenTTL
	}

	return &authService{
		txManager:     params.TxManager,
		userRepo:      params.UserRepo,
		hasher:        params.Hasher,
		tokenService:  params.TokenService,
		resetTokens:   params.ResetTokens,
		publisher:     params.Publisher,
		resetTokenTTL: resetTokenTTL,
		logger:        params.Logger,
		now:           time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SignIn verifies the presented credentials and issues a signed bearer token.
// The record is never mutated; repeated calls are side-effect-free.
func (srv *authService) SignIn(ctx context.Context, input *usecase.SignInInput) (*usecase.SignInOutput, error) {
	srv.log(ctx).Debug("Starting sign-in", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Sign-in failed, unknown email", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "sign-in failed")
		}

		return nil, errors.Wrap(err, "failed to load user for sign-in")
	}

	// Check password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Sign-in failed, password mismatch", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "sign-in failed")
	}

	accessToken, err := srv.tokenService.Sign(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign access token")
	}

	srv.log(ctx).Debug("User signed in", slog.Int64("userID", user.ID))

	return &usecase.SignInOutput{
		AccessToken: accessToken,
		User:        user.Identity(),
	}, nil
}

// ResetPasswordRequest stamps a fresh reset token onto the record and hands it
// to the notification pipeline. Only the most recent token stays valid: the
// update overwrites whatever pending token the record held.
func (srv *authService) ResetPasswordRequest(ctx context.Context, input *usecase.ResetPasswordRequestInput) (*usecase.ResetPasswordRequestOutput, error) {
	srv.log(ctx).Info("Starting password reset request", slog.String("email", input.Email))

	token, err := srv.resetTokens.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate reset token")
	}
	expiresAt := srv.now().Add(srv.resetTokenTTL)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "password reset requested for unknown email")
			}

			return errors.Wrap(findErr, "failed to load user for password reset request")
		}

		// Token and expiration are written as a pair, never one without the other.
		user.ResetToken = &token
		user.ResetTokenExpiresAt = &expiresAt

		if updateErr := userRepo.Update(ctx, user); updateErr != nil {
			return errors.Wrap(updateErr, "failed to persist reset token")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Password reset request failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	event := &service.PasswordResetEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Email:     input.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := srv.publisher.PublishPasswordResetEvent(ctx, event); err != nil {
		// The token is already persisted; a retried request simply overwrites it.
		srv.log(ctx).Error("Failed to publish password reset event", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to dispatch reset notification")
	}

	srv.log(ctx).Info("Password reset requested", slog.String("email", input.Email))

	return &usecase.ResetPasswordRequestOutput{Message: "Email sent"}, nil
}

// ResetPassword consumes a reset token: the new hash is installed and both
// reset fields are cleared in the same update, so the token is single-use.
func (srv *authService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	// Rejected before any lookup, so a mismatched confirmation cannot be used
	// to probe token validity.
	if input.Password != input.ConfirmPassword {
		return errors.Wrap(domainerrors.ErrPasswordMismatch, "password reset rejected")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during reset", slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash new password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// Unknown and expired tokens produce the same error.
		user, findErr := userRepo.FindByResetToken(ctx, input.Token, srv.now())
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrResetTokenInvalid, "password reset rejected")
			}

			return errors.Wrap(findErr, "failed to load user by reset token")
		}

		user.PasswordHash = hashedPassword
		user.ResetToken = nil
		user.ResetTokenExpiresAt = nil

		if updateErr := userRepo.Update(ctx, user); updateErr != nil {
			return errors.Wrap(updateErr, "failed to persist new password")
		}

		srv.log(ctx).Info("Password reset completed", slog.Int64("userID", user.ID))

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Password reset failed", slog.Any("error", err))

		return err
	}

	return nil
}

// ValidateUser is the non-throwing variant of the sign-in checks. Credential
// failures come back as a nil identity; only store failures surface as errors.
func (srv *authService) ValidateUser(ctx context.Context, email, password string) (*entity.Identity, error) {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to load user for validation")
	}

	if !srv.hasher.Check(password, user.PasswordHash) {
		return nil, nil
	}

	return user.Identity(), nil
}
