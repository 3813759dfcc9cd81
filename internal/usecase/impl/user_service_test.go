package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	mockRepo "gatekeeper/internal/mocks/repository"
	mockSvc "gatekeeper/internal/mocks/service"
	"gatekeeper/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service   usecase.UserUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
	tokenSvc  *mockSvc.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenSvc := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewUserService(UserServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenSvc,
		Logger:       logger,
	})

	return userServiceFixtures{
		service:   service,
		txManager: txManager,
		userRepo:  userRepo,
		hasher:    hasher,
		tokenSvc:  tokenSvc,
	}
}

func TestUserService_CreateUser_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					assert.Equal(t, "hashed_password", user.PasswordHash)
					user.ID = 42
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.tokenSvc.EXPECT().Sign(int64(42), input.Email).Return("signed.jwt.token", nil)

	output, err := fx.service.CreateUser(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, int64(42), output.User.ID)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, "signed.jwt.token", output.AccessToken)
}

func TestUserService_CreateUser_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "Password123!",
	}

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByEmail(ctx, input.Email).Return(testUser(), nil)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrUserAlreadyExists, "registration rejected"))

	output, err := fx.service.CreateUser(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_GetUser_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := testUser()

	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

	identity, err := fx.service.GetUser(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, user.Email, identity.Email)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, int64(999)).Return(nil, repository.ErrUserNotFound)

	identity, err := fx.service.GetUser(ctx, 999)

	require.Error(t, err)
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_ListUsers_DefaultsAndPaging(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	users := []*entity.User{testUser()}

	fx.userRepo.EXPECT().
		List(ctx, repository.ListUsersQuery{Search: "", Page: 1, PageSize: 10}).
		Return(users, int64(25), nil)

	output, err := fx.service.ListUsers(ctx, &usecase.ListUsersInput{})

	require.NoError(t, err)
	assert.Len(t, output.Users, 1)
	assert.Equal(t, int64(25), output.TotalCount)
	assert.Equal(t, 1, output.CurrentPage)
	assert.Equal(t, 3, output.TotalPages)
}

func TestUserService_ListUsers_Search(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.userRepo.EXPECT().
		List(ctx, repository.ListUsersQuery{Search: "ada", Page: 2, PageSize: 5}).
		Return([]*entity.User{}, int64(0), nil)

	output, err := fx.service.ListUsers(ctx, &usecase.ListUsersInput{Search: "ada", Page: 2, PageSize: 5})

	require.NoError(t, err)
	assert.Empty(t, output.Users)
	assert.Equal(t, 0, output.TotalPages)
}

func TestUserService_UpdateUser_EmailChangeReissuesToken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := testUser()
	newEmail := "countess@example.com"

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
			mockUserRepo.EXPECT().
				FindByEmail(ctx, newEmail).
				Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, updated *entity.User) {
					assert.Equal(t, newEmail, updated.Email)
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.tokenSvc.EXPECT().Sign(user.ID, newEmail).Return("reissued.jwt.token", nil)

	output, err := fx.service.UpdateUser(ctx, user.ID, &usecase.UpdateUserInput{Email: &newEmail})

	require.NoError(t, err)
	assert.Equal(t, newEmail, output.User.Email)
	assert.Equal(t, "reissued.jwt.token", output.AccessToken)
}

func TestUserService_UpdateUser_NameOnlyKeepsToken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := testUser()
	newName := "Augusta"

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
			mockUserRepo.EXPECT().Update(ctx, mock.AnythingOfType("*entity.User")).Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.UpdateUser(ctx, user.ID, &usecase.UpdateUserInput{FirstName: &newName})

	require.NoError(t, err)
	assert.Equal(t, newName, output.User.FirstName)
	assert.Empty(t, output.AccessToken)
}

func TestUserService_UpdateUser_EmailConflict(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := testUser()
	takenEmail := "taken@example.com"
	other := &entity.User{ID: 7, Email: takenEmail}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
			mockUserRepo.EXPECT().FindByEmail(ctx, takenEmail).Return(other, nil)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already in use"))

	output, err := fx.service.UpdateUser(ctx, user.ID, &usecase.UpdateUserInput{Email: &takenEmail})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_UpdateUser_EmptyPasswordRejected(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := testUser()
	empty := ""

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrValidationFailed, "password can't be empty"))

	output, err := fx.service.UpdateUser(ctx, user.ID, &usecase.UpdateUserInput{Password: &empty})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_DeleteUser_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := testUser()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
			mockUserRepo.EXPECT().Delete(ctx, user.ID).Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	err := fx.service.DeleteUser(ctx, user.ID)

	require.NoError(t, err)
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, int64(999)).Return(nil, repository.ErrUserNotFound)

			_ = fn(mockFactory)
		}).
		Return(errors.Wrap(domainerrors.ErrUserNotFound, "user delete failed"))

	err := fx.service.DeleteUser(ctx, 999)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
