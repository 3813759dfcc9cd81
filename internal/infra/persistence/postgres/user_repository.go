package postgres

import (
	"context"
	"time"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewStoreError(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by exact match on the stored email.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewStoreError(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByResetToken retrieves the user holding the given reset token with an
// expiration strictly after now. Expired and unknown tokens are
// indistinguishable: both come back as ErrUserNotFound.
func (repo *userRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expires_at > ?", token, now).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewStoreError(err, "failed to find user by reset token")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity to the database and assigns its ID.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}

		return domainerrors.NewStoreError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing user entity in the database. The reset token
// pair is written exactly as it appears on the entity, so clearing both
// fields to null persists as null.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	// Save writes every column, including null reset fields. Updates with a
	// struct would skip zero values and resurrect a cleared token.
	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}

		return domainerrors.NewStoreError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Delete removes the record entirely.
func (repo *userRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).Delete(&model.UserModel{}, id)
	if result.Error != nil {
		return domainerrors.NewStoreError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// List returns a page of users plus the total count of matches. The search
// string matches case-insensitively against first name, last name and email.
func (repo *userRepository) List(ctx context.Context, query repository.ListUsersQuery) ([]*entity.User, int64, error) {
	tx := repo.db.WithContext(ctx).Model(&model.UserModel{})

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		tx = tx.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var totalCount int64
	if err := tx.Count(&totalCount).Error; err != nil {
		return nil, 0, domainerrors.NewStoreError(err, "failed to count users")
	}

	var userMs []model.UserModel
	offset := (query.Page - 1) * query.PageSize
	if err := tx.Order("id").Offset(offset).Limit(query.PageSize).Find(&userMs).Error; err != nil {
		return nil, 0, domainerrors.NewStoreError(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userMs))
	for i := range userMs {
		users = append(users, toUserDomain(&userMs[i]))
	}

	return users, totalCount, nil
}

// toUserDomain maps the persistence model back to a pure domain entity.
func toUserDomain(userM *model.UserModel) *entity.User {
	return &entity.User{
		ID:                  userM.ID,
		FirstName:           userM.FirstName,
		LastName:            userM.LastName,
		Email:               userM.Email,
		PasswordHash:        userM.PasswordHash,
		ResetToken:          userM.ResetToken,
		ResetTokenExpiresAt: userM.ResetTokenExpiresAt,
		CreatedAt:           userM.CreatedAt,
		UpdatedAt:           userM.UpdatedAt,
	}
}

// fromUserDomain maps a pure domain entity to a GORM persistence model.
func fromUserDomain(user *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:                  user.ID,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Email:               user.Email,
		PasswordHash:        user.PasswordHash,
		ResetToken:          user.ResetToken,
		ResetTokenExpiresAt: user.ResetTokenExpiresAt,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
}
