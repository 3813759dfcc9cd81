package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"gatekeeper/internal/domain/entity"
	mockRepo "gatekeeper/internal/mocks/repository"
	mockSvc "gatekeeper/internal/mocks/service"
)

// fixedNow is the deterministic clock used by auth service tests.
var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service     *authService
	txManager   *mockRepo.MockTransactionManager
	userRepo    *mockRepo.MockUserRepository
	hasher      *mockSvc.MockPasswordHasher
	tokenSvc    *mockSvc.MockTokenService
	resetTokens *mockSvc.MockResetTokenGenerator
	publisher   *mockSvc.MockEventPublisher
}

func createTestAuthService(t *testing.T, resetTokenTTL time.Duration) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenSvc := mockSvc.NewMockTokenService(t)
	resetTokens := mockSvc.NewMockResetTokenGenerator(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := &authService{
		txManager:     txManager,
		userRepo:      userRepo,
		hasher:        hasher,
		tokenService:  tokenSvc,
		resetTokens:   resetTokens,
		publisher:     publisher,
		resetTokenTTL: resetTokenTTL,
		logger:        logger,
		now:           func() time.Time { return fixedNow },
	}

	return authServiceFixtures{
		service:     service,
		txManager:   txManager,
		userRepo:    userRepo,
		hasher:      hasher,
		tokenSvc:    tokenSvc,
		resetTokens: resetTokens,
		publisher:   publisher,
	}
}

func testUser() *entity.User {
	return &entity.User{
		ID:           42,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
	}
}
