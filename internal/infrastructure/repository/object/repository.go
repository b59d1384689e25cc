package object

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/fileflux/fileflux-manager-webapp/internal/domain/object"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/database/entities"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// Repository handles object placement metadata.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindNode(ctx context.Context, bucket, key string) (string, error) {
	var entity entities.Object
	err := r.db.WithContext(ctx).Select("node_name").
		Where("bucket = ? AND key = ?", bucket, key).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find object node",
			err,
			"0f6a2d8c-9b4e-4173-a5c1-3e7b9d5f0a28",
		)
	}
	return entity.NodeName, nil
}

func (r *Repository) Record(ctx context.Context, obj *domain.Object) error {
	entity := entities.Object{
		Bucket:   obj.Bucket,
		NodeName: obj.NodeName,
		Path:     obj.Path,
		Key:      obj.Key,
		Size:     obj.Size,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to record object placement",
			err,
			"7d1b5f9e-3a8c-4640-b2d7-8f4a6c0e9b52",
		)
	}
	obj.ID = entity.ID
	obj.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) Delete(ctx context.Context, bucket, key string) error {
	err := r.db.WithContext(ctx).
		Where("bucket = ? AND key = ?", bucket, key).
		Delete(&entities.Object{}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete object metadata",
			err,
			"5c9e3b7d-1f6a-4085-9d2b-4a8f0c6e1d37",
		)
	}
	return nil
}
