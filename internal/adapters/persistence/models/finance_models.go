package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Record Screens: Expenses, Loans, Shares
// ============================================================

// ExpenseCategory is a user-defined expense label, creatable inline from the expense form
type ExpenseCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

// Expense represents a single spending record
type Expense struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Title      string          `gorm:"size:200;not null" json:"title"`
	Cost       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"cost"`
	Date       time.Time       `gorm:"type:date;not null;index" json:"date"`
	Note       string          `gorm:"type:text" json:"note"`
	CategoryID *uint           `json:"category_id"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	Category *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Expense) TableName() string {
	return "expenses"
}

// Loan statuses
const (
	LoanStatusPending = "pending"
	LoanStatusRepaid  = "repaid"
)

// Loan represents money lent to someone
type Loan struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Beneficiary string         `gorm:"size:100;not null" json:"beneficiary"`
	StartDate   time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time      `gorm:"type:date;not null" json:"end_date"`
	Status      string         `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

// SharePurchase represents a stock-share purchase record
type SharePurchase struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"not null;index" json:"user_id"`
	Date           time.Time       `gorm:"type:date;not null" json:"date"`
	Company        string          `gorm:"size:100;not null" json:"company"`
	NumberOfShares int             `gorm:"not null" json:"number_of_shares"`
	SharePrice     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"share_price"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_price"`
	Commission     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"commission"`
	Broker         string          `gorm:"size:100;not null" json:"broker"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (SharePurchase) TableName() string {
	return "share_purchases"
}
