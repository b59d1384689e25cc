package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/database/entities"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// Repository handles user persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	entity := entities.User{
		Username: username,
		Password: passwordHash,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"username already taken",
				err,
				"2f6b8d0a-4c1e-4382-9a7f-5d3e9b1c6a04",
			)
		}
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create user",
			err,
			"b9d3e7f1-0a6c-4258-8b4d-7e2f5a9c1d36",
		)
	}
	return entity.ID, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find user by username",
			err,
			"4e8a2c6b-9d0f-4713-a1b5-3c7e8f2d5a90",
		)
	}
	return &domain.User{
		ID:           entity.ID,
		Username:     entity.Username,
		PasswordHash: entity.Password,
		CreatedAt:    entity.CreatedAt,
	}, nil
}
