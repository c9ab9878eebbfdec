package postgres

import (
	"context"

	"github.com/arjunm/vidstream-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mediaAssetRepository struct {
	db *gorm.DB
}

func NewMediaAssetRepository(db *gorm.DB) *mediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

func (r *mediaAssetRepository) Create(ctx context.Context, asset *domain.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *mediaAssetRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.MediaAsset, error) {
	var assets []*domain.MediaAsset
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}
