package impl

import (
	"context"
	"log/slog"

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

const (
	defaultListPage     = 1
	defaultListPageSize = 10
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateUser registers a new account. Email uniqueness is checked inside the
// transaction and backed by the store's unique index, so a concurrent
// duplicate registration fails with a conflict either way.
func (srv *userService) CreateUser(ctx context.Context, input *usecase.CreateUserInput) (*usecase.CreateUserOutput, error) {
	srv.log(ctx).Info("Starting user registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	newUser := &entity.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrUserAlreadyExists, "registration rejected")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check email uniqueness")
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("User registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Sign after the store assigned the ID, so the subject claim is real.
	accessToken, err := srv.tokenService.Sign(newUser.ID, newUser.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign token for new user")
	}

	srv.log(ctx).Debug("User registered", slog.Int64("userID", newUser.ID))

	return &usecase.CreateUserOutput{
		User:        newUser.Identity(),
		AccessToken: accessToken,
		Message:     "User created",
	}, nil
}

// GetUser returns the public identity for a single user.
func (srv *userService) GetUser(ctx context.Context, id int64) (*entity.Identity, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user.Identity(), nil
}

// ListUsers returns a page of identities. The search string matches
// case-insensitively against first name, last name and email.
func (srv *userService) ListUsers(ctx context.Context, input *usecase.ListUsersInput) (*usecase.ListUsersOutput, error) {
	page := input.Page
	if page < 1 {
		page = defaultListPage
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = defaultListPageSize
	}

	users, totalCount, err := srv.userRepo.List(ctx, repository.ListUsersQuery{
		Search:   input.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	identities := make([]*entity.Identity, 0, len(users))
	for _, user := range users {
		identities = append(identities, user.Identity())
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))

	return &usecase.ListUsersOutput{
		Users:       identities,
		TotalCount:  totalCount,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

// UpdateUser applies a partial update. Changing the email re-checks
// uniqueness against other records and re-issues a token, because the old
// token's username claim would no longer resolve.
func (srv *userService) UpdateUser(ctx context.Context, id int64, input *usecase.UpdateUserInput) (*usecase.UpdateUserOutput, error) {
	srv.log(ctx).Info("Starting user update", slog.Int64("userID", id))

	var updatedUser *entity.User
	emailChanged := false

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, findErr := userRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user update failed")
			}

			return errors.Wrap(findErr, "failed to load user for update")
		}

		if input.Email != nil && *input.Email != user.Email {
			existing, lookupErr := userRepo.FindByEmail(ctx, *input.Email)
			if lookupErr == nil && existing.ID != id {
				return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already in use")
			}
			if lookupErr != nil && !errors.Is(lookupErr, repository.ErrUserNotFound) {
				return errors.Wrap(lookupErr, "failed to check email uniqueness")
			}

			user.Email = *input.Email
			emailChanged = true
		}

		if input.FirstName != nil && *input.FirstName != "" {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil && *input.LastName != "" {
			user.LastName = *input.LastName
		}

		if input.Password != nil {
			if *input.Password == "" {
				return errors.Wrap(domainerrors.ErrValidationFailed, "password can't be empty")
			}

			hashedPassword, hashErr := srv.hasher.Hash(*input.Password)
			if hashErr != nil {
				return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash new password")
			}
			user.PasswordHash = hashedPassword
		}

		if updateErr := userRepo.Update(ctx, user); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update user")
		}

		updatedUser = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("User update failed", slog.Int64("userID", id), slog.Any("error", err))

		return nil, err
	}

	output := &usecase.UpdateUserOutput{User: updatedUser.Identity()}

	if emailChanged {
		accessToken, signErr := srv.tokenService.Sign(updatedUser.ID, updatedUser.Email)
		if signErr != nil {
			return nil, errors.Wrap(signErr, "failed to sign token after email change")
		}
		output.AccessToken = accessToken
	}

	srv.log(ctx).Debug("User updated", slog.Int64("userID", id))

	return output, nil
}

// DeleteUser removes the record entirely. Outstanding bearer tokens for the
// account die with it, because identity resolution re-checks existence.
func (srv *userService) DeleteUser(ctx context.Context, id int64) error {
	srv.log(ctx).Info("Deleting user", slog.Int64("userID", id))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, findErr := userRepo.FindByID(ctx, id); findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user delete failed")
			}

			return errors.Wrap(findErr, "failed to load user for delete")
		}

		if deleteErr := userRepo.Delete(ctx, id); deleteErr != nil {
			return errors.Wrap(deleteErr, "failed to delete user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("User delete failed", slog.Int64("userID", id), slog.Any("error", err))

		return err
	}

	return nil
}
