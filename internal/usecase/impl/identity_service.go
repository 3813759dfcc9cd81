package impl

import (
	"context"
	"log/slog"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// identityService implements the IdentityUsecase interface.
type identityService struct {
	userRepo     repository.UserRepository
	tokenService service.TokenService
	logger       *slog.Logger
}

// IdentityServiceParams holds dependencies for identityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewIdentityService is the constructor for identityService.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	return &identityService{
		userRepo:     params.UserRepo,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Resolve verifies the token, then resolves the username claim against the
// store. The two steps are deliberate: the signature proves who the token was
// issued to, the lookup proves the account still exists. A token for a
// deleted account does not authenticate.
func (srv *identityService) Resolve(ctx context.Context, bearerToken string) (*entity.Identity, error) {
	claims, err := srv.tokenService.Validate(bearerToken)
	if err != nil {
		srv.log(ctx).Debug("Token validation failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrUnauthorized, "token validation failed")
	}

	user, err := srv.userRepo.FindByEmail(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Valid token for missing account", slog.String("username", claims.Username))

			return nil, errors.Wrap(domainerrors.ErrUnauthorized, "account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to resolve token identity")
	}

	return user.Identity(), nil
}
