package impl

import (
	"context"
	"testing"
	"time"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	mockRepo "gatekeeper/internal/mocks/repository"
	"gatekeeper/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_SignIn_Success(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)
	fx.tokenSvc.EXPECT().Sign(user.ID, user.Email).Return("signed.jwt.token", nil)

	output, err := fx.service.SignIn(ctx, &usecase.SignInInput{Email: user.Email, Password: "Password123!"})

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", output.AccessToken)
	assert.Equal(t, user.ID, output.User.ID)
	assert.Equal(t, user.Email, output.User.Email)
}

func TestAuthService_SignIn_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "nobody@example.com").
		Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.SignIn(ctx, &usecase.SignInInput{Email: "nobody@example.com", Password: "whatever"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_SignIn_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("wrong", user.PasswordHash).Return(false)

	output, err := fx.service.SignIn(ctx, &usecase.SignInInput{Email: user.Email, Password: "wrong"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_SignIn_DoesNotMutateRecord(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()

	// No Update expectation is registered: any write would fail the test.
	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)
	fx.tokenSvc.EXPECT().Sign(user.ID, user.Email).Return("signed.jwt.token", nil)

	_, err := fx.service.SignIn(ctx, &usecase.SignInInput{Email: user.Email, Password: "Password123!"})

	require.NoError(t, err)
	assert.Nil(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiresAt)
}

func TestAuthService_ResetPasswordRequest_Success(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()
	wantExpiry := fixedNow.Add(6 * time.Minute)

	fx.resetTokens.EXPECT().Generate().Return("a1b2c3d4", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, updated *entity.User) {
					require.NotNil(t, updated.ResetToken)
					require.NotNil(t, updated.ResetTokenExpiresAt)
					assert.Equal(t, "a1b2c3d4", *updated.ResetToken)
					assert.Equal(t, wantExpiry, *updated.ResetTokenExpiresAt)
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.publisher.EXPECT().
		PublishPasswordResetEvent(ctx, mock.AnythingOfType("*service.PasswordResetEvent")).
		Run(func(ctx context.Context, event *service.PasswordResetEvent) {
			assert.Equal(t, user.Email, event.Email)
			assert.Equal(t, "a1b2c3d4", event.Token)
			assert.Equal(t, wantExpiry, event.ExpiresAt)
		}).
		Return(nil)

	output, err := fx.service.ResetPasswordRequest(ctx, &usecase.ResetPasswordRequestInput{Email: user.Email})

	require.NoError(t, err)
	assert.Equal(t, "Email sent", output.Message)
}

func TestAuthService_ResetPasswordRequest_OverwritesPendingToken(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()
	oldToken := "stale-token"
	oldExpiry := fixedNow.Add(-time.Minute)
	user.ResetToken = &oldToken
	user.ResetTokenExpiresAt = &oldExpiry

	fx.resetTokens.EXPECT().Generate().Return("fresh-token", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, updated *entity.User) {
					assert.Equal(t, "fresh-token", *updated.ResetToken)
					assert.True(t, updated.ResetTokenExpiresAt.After(fixedNow))
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.publisher.EXPECT().
		PublishPasswordResetEvent(ctx, mock.AnythingOfType("*service.PasswordResetEvent")).
		Return(nil)

	_, err := fx.service.ResetPasswordRequest(ctx, &usecase.ResetPasswordRequestInput{Email: user.Email})

	require.NoError(t, err)
}

func TestAuthService_ResetPasswordRequest_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()

	fx.resetTokens.EXPECT().Generate().Return("a1b2c3d4", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, "nobody@example.com").
				Return(nil, repository.ErrUserNotFound)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrUserNotFound, "password reset requested for unknown email"))

	output, err := fx.service.ResetPasswordRequest(ctx, &usecase.ResetPasswordRequestInput{Email: "nobody@example.com"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_ResetPasswordRequest_PublishFailure(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()

	fx.resetTokens.EXPECT().Generate().Return("a1b2c3d4", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
			mockUserRepo.EXPECT().Update(ctx, mock.AnythingOfType("*entity.User")).Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.publisher.EXPECT().
		PublishPasswordResetEvent(ctx, mock.AnythingOfType("*service.PasswordResetEvent")).
		Return(errors.New("broker unreachable"))

	output, err := fx.service.ResetPasswordRequest(ctx, &usecase.ResetPasswordRequestInput{Email: user.Email})

	require.Error(t, err)
	assert.Nil(t, output)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()
	token := "a1b2c3d4"
	expiry := fixedNow.Add(3 * time.Minute)
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiry

	fx.hasher.EXPECT().Hash("NewPassword1!").Return("new_hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByResetToken(ctx, token, fixedNow).
				Return(user, nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, updated *entity.User) {
					assert.Equal(t, "new_hashed_password", updated.PasswordHash)
					assert.Nil(t, updated.ResetToken)
					assert.Nil(t, updated.ResetTokenExpiresAt)
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	err := fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{Token: token, Password: "NewPassword1!", ConfirmPassword: "NewPassword1!"})

	require.NoError(t, err)
}

func TestAuthService_ResetPassword_ConfirmationMismatch(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()

	// The mismatch is rejected before any hashing or store access.
	err := fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{Token: "a1b2c3d4", Password: "one", ConfirmPassword: "other"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordMismatch)
}

func TestAuthService_ResetPassword_InvalidOrExpiredToken(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()

	fx.hasher.EXPECT().Hash("NewPassword1!").Return("new_hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByResetToken(ctx, "expired-or-bogus", fixedNow).
				Return(nil, repository.ErrUserNotFound)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrResetTokenInvalid, "password reset rejected"))

	err := fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{Token: "expired-or-bogus", Password: "NewPassword1!", ConfirmPassword: "NewPassword1!"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestAuthService_ValidateUser_Success(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)

	identity, err := fx.service.ValidateUser(ctx, user.Email, "Password123!")

	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, user.ID, identity.ID)
}

func TestAuthService_ValidateUser_CredentialFailureIsNil(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	user := testUser()

	fx.userRepo.EXPECT().FindByEmail(ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	identity, err := fx.service.ValidateUser(ctx, "nobody@example.com", "whatever")
	require.NoError(t, err)
	assert.Nil(t, identity)

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("wrong", user.PasswordHash).Return(false)

	identity, err = fx.service.ValidateUser(ctx, user.Email, "wrong")
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestAuthService_ValidateUser_StoreFailure(t *testing.T) {
	fx := createTestAuthService(t, 6*time.Minute)

	ctx := context.Background()
	storeErr := domainerrors.NewStoreError(errors.New("connection refused"), "find by email")

	fx.userRepo.EXPECT().FindByEmail(ctx, "ada@example.com").Return(nil, storeErr)

	identity, err := fx.service.ValidateUser(ctx, "ada@example.com", "Password123!")

	require.Error(t, err)
	assert.Nil(t, identity)
}
