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

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo  *repositories.ExpenseRepository
	categoryRepo *repositories.CategoryRepository
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo *repositories.ExpenseRepository, categoryRepo *repositories.CategoryRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
}

// ExpenseInput represents create/update expense input
type ExpenseInput struct {
	Title      string          `json:"title" validate:"required,max=200"`
	Cost       decimal.Decimal `json:"cost" validate:"required"`
	Date       time.Time       `json:"date" validate:"required"`
	Note       string          `json:"note"`
	CategoryID *uint           `json:"category_id"`
}

// ListExpensesInput represents list expenses input
type ListExpensesInput struct {
	From   time.Time
	To     time.Time
	Offset int
	Limit  int
}

// ExpenseSumOutput represents the expense sum for a date range
type ExpenseSumOutput struct {
	Total decimal.Decimal `json:"total"`
	From  *time.Time      `json:"from,omitempty"`
	To    *time.Time      `json:"to,omitempty"`
}

func (s *ExpenseService) validateInput(ctx context.Context, userID uint, input *ExpenseInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return domain.ErrInvalidInput
	}
	if !input.Cost.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if input.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	if input.CategoryID != nil {
		exists, err := s.categoryRepo.Exists(ctx, userID, *input.CategoryID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrCategoryNotFound
		}
	}
	return nil
}

// CreateExpense creates a new expense for the user
func (s *ExpenseService) CreateExpense(ctx context.Context, userID uint, input *ExpenseInput) (*models.Expense, error) {
	if err := s.validateInput(ctx, userID, input); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:     userID,
		Title:      strings.TrimSpace(input.Title),
		Cost:       input.Cost,
		Date:       input.Date,
		Note:       input.Note,
		CategoryID: input.CategoryID,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetExpense gets one of the user's expenses
func (s *ExpenseService) GetExpense(ctx context.Context, userID, id uint) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// ListExpenses lists the user's expenses in a date range
func (s *ExpenseService) ListExpenses(ctx context.Context, userID uint, input *ListExpensesInput) ([]*models.Expense, int64, error) {
	if !input.From.IsZero() && !input.To.IsZero() && input.To.Before(input.From) {
		return nil, 0, domain.ErrInvalidDateRange
	}
	return s.expenseRepo.List(ctx, userID, input.From, input.To, input.Offset, input.Limit)
}

// SumExpenses totals the user's expenses in a date range
func (s *ExpenseService) SumExpenses(ctx context.Context, userID uint, from, to time.Time) (*ExpenseSumOutput, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, domain.ErrInvalidDateRange
	}

	total, err := s.expenseRepo.SumByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out := &ExpenseSumOutput{Total: total}
	if !from.IsZero() {
		out.From = &from
	}
	if !to.IsZero() {
		out.To = &to
	}
	return out, nil
}

// UpdateExpense updates one of the user's expenses
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, id uint, input *ExpenseInput) (*models.Expense, error) {
	expense, err := s.GetExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateInput(ctx, userID, input); err != nil {
		return nil, err
	}

	expense.Title = strings.TrimSpace(input.Title)
	expense.Cost = input.Cost
	expense.Date = input.Date
	expense.Note = input.Note
	expense.CategoryID = input.CategoryID
	expense.Category = nil

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense deletes one of the user's expenses
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id uint) error {
	err := s.expenseRepo.Delete(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrExpenseNotFound
	}
	return err
}

// ListCategories lists the categories visible to the user
func (s *ExpenseService) ListCategories(ctx context.Context, userID uint) ([]*models.ExpenseCategory, error) {
	return s.categoryRepo.List(ctx, userID)
}

// CreateCategory creates a category owned by the user
func (s *ExpenseService) CreateCategory(ctx context.Context, userID uint, title string) (*models.ExpenseCategory, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}

	category := &models.ExpenseCategory{
		UserID: userID,
		Title:  title,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
