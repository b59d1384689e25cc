package bucket

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/database/entities"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// Repository handles bucket persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Exists(ctx context.Context, name string) (bool, error) {
	var entity entities.Bucket
	err := r.db.WithContext(ctx).Select("bucket_name").Where("bucket_name = ?", name).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, r.dbError(ctx, "failed to check bucket existence", err, "d5f1b7a3-8c2e-4960-b4d8-0a6e3f9c5b27")
	}
	return true, nil
}

func (r *Repository) Create(ctx context.Context, name string, ownerID int64) error {
	entity := entities.Bucket{
		BucketName: name,
		UserID:     ownerID,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				"bucket already exists",
				err,
				"1a7d3f9b-5e0c-4824-9b6f-2c8a4d0e6f13",
			)
		}
		return r.dbError(ctx, "failed to create bucket", err, "9c5e1a7f-3b8d-4046-a2e9-6d0f4b8c2a75")
	}
	return nil
}

func (r *Repository) OwnedBy(ctx context.Context, name string, ownerID int64) (bool, error) {
	var entity entities.Bucket
	err := r.db.WithContext(ctx).Select("bucket_name").
		Where("bucket_name = ? AND user_id = ?", name, ownerID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, r.dbError(ctx, "failed to check bucket ownership", err, "3e9b5d1c-7f4a-4602-8c0e-5a2d8f6b0c49")
	}
	return true, nil
}

// Delete removes the bucket row. Object rows referencing it are removed by
// the database-level ON DELETE CASCADE, not by an explicit statement here.
func (r *Repository) Delete(ctx context.Context, name string) error {
	if err := r.db.WithContext(ctx).Where("bucket_name = ?", name).Delete(&entities.Bucket{}).Error; err != nil {
		return r.dbError(ctx, "failed to delete bucket", err, "8b2f6d0a-4e9c-4357-b1a8-7c5e3f9d2b61")
	}
	return nil
}

func (r *Repository) dbError(ctx context.Context, message string, err error, uuid string) error {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeDatabaseError,
		message,
		err,
		uuid,
	)
}
