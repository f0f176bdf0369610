package repositories

import (
	"context"
	"time"

	"masarify/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseRepository handles expense data access
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create creates a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// GetByID gets an expense by ID scoped to its owner
func (r *ExpenseRepository) GetByID(ctx context.Context, userID, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		First(&expense, id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// List lists a user's expenses in a date range, newest first, with pagination.
// Zero from/to skip the respective bound.
func (r *ExpenseRepository) List(ctx context.Context, userID uint, from, to time.Time, offset, limit int) ([]*models.Expense, int64, error) {
	var expenses []*models.Expense
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Expense{}).Where("user_id = ?", userID)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Category").
		Order("date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&expenses).Error

	return expenses, total, err
}

// SumByDateRange totals a user's expense costs in a date range
func (r *ExpenseRepository) SumByDateRange(ctx context.Context, userID uint, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}

	query := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("SUM(cost) AS total").
		Where("user_id = ?", userID)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", to)
	}

	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal, nil
}

// Update updates an expense
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

// Delete soft deletes a user's expense
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Expense{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CategoryRepository handles expense category data access
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.ExpenseCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// List lists the global categories (user_id = 0) plus the user's own
func (r *CategoryRepository) List(ctx context.Context, userID uint) ([]*models.ExpenseCategory, error) {
	var categories []*models.ExpenseCategory
	err := r.db.WithContext(ctx).
		Where("user_id IN (0, ?)", userID).
		Order("title ASC").
		Find(&categories).Error
	return categories, err
}

// Exists checks whether the category is visible to the user
func (r *CategoryRepository) Exists(ctx context.Context, userID, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExpenseCategory{}).
		Where("id = ?", id).
		Where("user_id IN (0, ?)", userID).
		Count(&count).Error
	return count > 0, err
}
