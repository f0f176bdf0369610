package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"masarify/internal/adapters/persistence/models"
	"masarify/internal/adapters/persistence/repositories"
	"masarify/internal/core/domain"

	"gorm.io/gorm"
)

// LoanService handles personal lending business logic
type LoanService struct {
	loanRepo *repositories.LoanRepository
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo *repositories.LoanRepository) *LoanService {
	return &LoanService{loanRepo: loanRepo}
}

// LoanInput represents create loan input
type LoanInput struct {
	Beneficiary string    `json:"beneficiary" validate:"required,max=100"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

// CreateLoan records money lent to someone
func (s *LoanService) CreateLoan(ctx context.Context, userID uint, input *LoanInput) (*models.Loan, error) {
	if strings.TrimSpace(input.Beneficiary) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}

	loan := &models.Loan{
		UserID:      userID,
		Beneficiary: strings.TrimSpace(input.Beneficiary),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.LoanStatusPending,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// ListLoans lists the user's loans
func (s *LoanService) ListLoans(ctx context.Context, userID uint) ([]*models.Loan, error) {
	return s.loanRepo.List(ctx, userID)
}

// UpdateLoanStatus flips a loan between pending and repaid
func (s *LoanService) UpdateLoanStatus(ctx context.Context, userID, id uint, status string) (*models.Loan, error) {
	if status != models.LoanStatusPending && status != models.LoanStatusRepaid {
		return nil, domain.ErrInvalidLoanStatus
	}

	if err := s.loanRepo.UpdateStatus(ctx, userID, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	return s.loanRepo.GetByID(ctx, userID, id)
}

// DeleteLoan deletes one of the user's loans
func (s *LoanService) DeleteLoan(ctx context.Context, userID, id uint) error {
	err := s.loanRepo.Delete(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrLoanNotFound
	}
	return err
}
