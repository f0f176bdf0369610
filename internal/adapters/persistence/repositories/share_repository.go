package repositories

import (
	"context"

	"masarify/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ShareRepository handles share purchase data access
type ShareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *gorm.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create creates a new share purchase
func (r *ShareRepository) Create(ctx context.Context, share *models.SharePurchase) error {
	return r.db.WithContext(ctx).Create(share).Error
}

// GetByID gets a share purchase by ID scoped to its owner
func (r *ShareRepository) GetByID(ctx context.Context, userID, id uint) (*models.SharePurchase, error) {
	var share models.SharePurchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&share, id).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// List lists a user's share purchases, newest first
func (r *ShareRepository) List(ctx context.Context, userID uint) ([]*models.SharePurchase, error) {
	var shares []*models.SharePurchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&shares).Error
	return shares, err
}

// Delete deletes a user's share purchase
func (r *ShareRepository) Delete(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.SharePurchase{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
