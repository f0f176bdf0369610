package services

import (
	"context"
	"time"

	"masarify/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardService aggregates a user's finances across all record types
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardData represents the user's finance overview
type DashboardData struct {
	// Expense statistics
	ExpensesThisMonth decimal.Decimal `json:"expenses_this_month"`
	ExpensesTotal     decimal.Decimal `json:"expenses_total"`
	ExpenseCount      int64           `json:"expense_count"`

	// Loan statistics
	PendingLoans int64 `json:"pending_loans"`
	RepaidLoans  int64 `json:"repaid_loans"`

	// Share statistics
	SharesInvested decimal.Decimal `json:"shares_invested"`
	ShareCount     int64           `json:"share_count"`

	// Rosca statistics
	RoscaCount     int64           `json:"rosca_count"`
	RoscaCollected decimal.Decimal `json:"rosca_collected"`

	// Recent activity
	RecentExpenses []*models.Expense `json:"recent_expenses"`
}

func (s *DashboardService) sumColumn(ctx context.Context, table, expr, where string, args ...interface{}) decimal.Decimal {
	var result struct {
		Total decimal.NullDecimal
	}
	s.db.WithContext(ctx).Table(table).
		Select(expr + " AS total").
		Where(where, args...).
		Scan(&result)
	if !result.Total.Valid {
		return decimal.Zero
	}
	return result.Total.Decimal
}

// GetDashboard returns the user's finance overview
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint) (*DashboardData, error) {
	data := &DashboardData{}

	// Expense totals
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	data.ExpensesThisMonth = s.sumColumn(ctx, "expenses", "SUM(cost)",
		"user_id = ? AND date >= ? AND deleted_at IS NULL", userID, startOfMonth)
	data.ExpensesTotal = s.sumColumn(ctx, "expenses", "SUM(cost)",
		"user_id = ? AND deleted_at IS NULL", userID)

	s.db.WithContext(ctx).Table("expenses").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Count(&data.ExpenseCount)

	// Loan counts by status
	s.db.WithContext(ctx).Table("loans").
		Where("user_id = ? AND status = ? AND deleted_at IS NULL", userID, models.LoanStatusPending).
		Count(&data.PendingLoans)

	s.db.WithContext(ctx).Table("loans").
		Where("user_id = ? AND status = ? AND deleted_at IS NULL", userID, models.LoanStatusRepaid).
		Count(&data.RepaidLoans)

	// Share investment including commission
	data.SharesInvested = s.sumColumn(ctx, "share_purchases", "SUM(total_price + commission)",
		"user_id = ?", userID)

	s.db.WithContext(ctx).Table("share_purchases").
		Where("user_id = ?", userID).
		Count(&data.ShareCount)

	// Rosca overview
	s.db.WithContext(ctx).Table("roscas").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Count(&data.RoscaCount)

	data.RoscaCollected = s.sumColumn(ctx, "payments",
		"SUM(payments.amount)",
		"payments.rosca_id IN (SELECT id FROM roscas WHERE user_id = ? AND deleted_at IS NULL)", userID)

	// Recent expenses
	var recentExpenses []*models.Expense
	s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(5).
		Find(&recentExpenses)
	data.RecentExpenses = recentExpenses

	return data, nil
}
