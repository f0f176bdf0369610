package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"masarify/internal/adapters/persistence/models"
	"masarify/internal/adapters/persistence/repositories"
	"masarify/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShareService handles stock-share purchase business logic
type ShareService struct {
	shareRepo *repositories.ShareRepository
}

// NewShareService creates a new share service
func NewShareService(shareRepo *repositories.ShareRepository) *ShareService {
	return &ShareService{shareRepo: shareRepo}
}

// ShareInput represents create share purchase input
type ShareInput struct {
	Date           time.Time       `json:"date" validate:"required"`
	Company        string          `json:"company" validate:"required,max=100"`
	NumberOfShares int             `json:"number_of_shares" validate:"required,gt=0"`
	SharePrice     decimal.Decimal `json:"share_price" validate:"required"`
	Commission     decimal.Decimal `json:"commission"`
	Broker         string          `json:"broker" validate:"required,max=100"`
}

// CreateShare records a share purchase. The total price is always derived
// from shares times price, never taken from the caller.
func (s *ShareService) CreateShare(ctx context.Context, userID uint, input *ShareInput) (*models.SharePurchase, error) {
	if strings.TrimSpace(input.Company) == "" || strings.TrimSpace(input.Broker) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if input.NumberOfShares <= 0 {
		return nil, domain.ErrInvalidShareCount
	}
	if !input.SharePrice.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.Commission.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	share := &models.SharePurchase{
		UserID:         userID,
		Date:           input.Date,
		Company:        strings.TrimSpace(input.Company),
		NumberOfShares: input.NumberOfShares,
		SharePrice:     input.SharePrice,
		TotalPrice:     input.SharePrice.Mul(decimal.NewFromInt(int64(input.NumberOfShares))),
		Commission:     input.Commission,
		Broker:         strings.TrimSpace(input.Broker),
	}

	if err := s.shareRepo.Create(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

// ListShares lists the user's share purchases
func (s *ShareService) ListShares(ctx context.Context, userID uint) ([]*models.SharePurchase, error) {
	return s.shareRepo.List(ctx, userID)
}

// DeleteShare deletes one of the user's share purchases
func (s *ShareService) DeleteShare(ctx context.Context, userID, id uint) error {
	err := s.shareRepo.Delete(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrShareNotFound
	}
	return err
}
