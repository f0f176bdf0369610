package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"masarify/internal/adapters/persistence/models"
	"masarify/internal/adapters/persistence/repositories"
	"masarify/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database. The pool is capped at one
// connection because every sqlite connection gets its own :memory: database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newExpenseService(db *gorm.DB) *ExpenseService {
	return NewExpenseService(
		repositories.NewExpenseRepository(db),
		repositories.NewCategoryRepository(db),
	)
}

func TestCreateExpense_Validation(t *testing.T) {
	svc := newExpenseService(setupTestDB(t))
	ctx := context.Background()
	date := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input ExpenseInput
		want  error
	}{
		{"empty title", ExpenseInput{Title: "  ", Cost: decimal.NewFromInt(10), Date: date}, domain.ErrInvalidInput},
		{"zero cost", ExpenseInput{Title: "Coffee", Cost: decimal.Zero, Date: date}, domain.ErrInvalidAmount},
		{"negative cost", ExpenseInput{Title: "Coffee", Cost: decimal.NewFromInt(-5), Date: date}, domain.ErrInvalidAmount},
		{"missing date", ExpenseInput{Title: "Coffee", Cost: decimal.NewFromInt(10)}, domain.ErrInvalidInput},
	}

	for _, tc := range cases {
		if _, err := svc.CreateExpense(ctx, 1, &tc.input); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCreateExpense_UnknownCategory(t *testing.T) {
	svc := newExpenseService(setupTestDB(t))

	categoryID := uint(42)
	_, err := svc.CreateExpense(context.Background(), 1, &ExpenseInput{
		Title:      "Coffee",
		Cost:       decimal.NewFromInt(10),
		Date:       time.Now(),
		CategoryID: &categoryID,
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("expected category not found, got %v", err)
	}
}

func TestSumExpenses_DateRange(t *testing.T) {
	svc := newExpenseService(setupTestDB(t))
	ctx := context.Background()

	entries := []struct {
		title string
		cost  string
		date  time.Time
	}{
		{"Groceries", "45.50", time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"Fuel", "30.00", time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)},
		{"Rent", "500.00", time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, e := range entries {
		cost, _ := decimal.NewFromString(e.cost)
		if _, err := svc.CreateExpense(ctx, 1, &ExpenseInput{Title: e.title, Cost: cost, Date: e.date}); err != nil {
			t.Fatalf("CreateExpense(%s) failed: %v", e.title, err)
		}
	}

	// March only
	sum, err := svc.SumExpenses(ctx, 1,
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SumExpenses failed: %v", err)
	}
	if want, _ := decimal.NewFromString("75.50"); !sum.Total.Equal(want) {
		t.Errorf("expected March sum %s, got %s", want, sum.Total)
	}

	// No bounds: everything
	sum, err = svc.SumExpenses(ctx, 1, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("SumExpenses failed: %v", err)
	}
	if want, _ := decimal.NewFromString("575.50"); !sum.Total.Equal(want) {
		t.Errorf("expected grand total %s, got %s", want, sum.Total)
	}

	// Another user sees nothing
	sum, err = svc.SumExpenses(ctx, 2, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("SumExpenses failed: %v", err)
	}
	if !sum.Total.IsZero() {
		t.Errorf("expected zero for other user, got %s", sum.Total)
	}
}

func TestSumExpenses_InvertedRange(t *testing.T) {
	svc := newExpenseService(setupTestDB(t))

	_, err := svc.SumExpenses(context.Background(), 1,
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Errorf("expected invalid date range, got %v", err)
	}
}

func TestCreateLoan_DefaultsToPending(t *testing.T) {
	svc := NewLoanService(repositories.NewLoanRepository(setupTestDB(t)))

	loan, err := svc.CreateLoan(context.Background(), 1, &LoanInput{
		Beneficiary: "Omar",
		StartDate:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}
	if loan.Status != models.LoanStatusPending {
		t.Errorf("expected pending status, got %s", loan.Status)
	}
}

func TestCreateLoan_EndBeforeStart(t *testing.T) {
	svc := NewLoanService(repositories.NewLoanRepository(setupTestDB(t)))

	_, err := svc.CreateLoan(context.Background(), 1, &LoanInput{
		Beneficiary: "Omar",
		StartDate:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Errorf("expected invalid date range, got %v", err)
	}
}

func TestUpdateLoanStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(repositories.NewLoanRepository(db))
	ctx := context.Background()

	loan, err := svc.CreateLoan(ctx, 1, &LoanInput{
		Beneficiary: "Omar",
		StartDate:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}

	updated, err := svc.UpdateLoanStatus(ctx, 1, loan.ID, models.LoanStatusRepaid)
	if err != nil {
		t.Fatalf("UpdateLoanStatus failed: %v", err)
	}
	if updated.Status != models.LoanStatusRepaid {
		t.Errorf("expected repaid, got %s", updated.Status)
	}

	if _, err := svc.UpdateLoanStatus(ctx, 1, loan.ID, "cancelled"); !errors.Is(err, domain.ErrInvalidLoanStatus) {
		t.Errorf("expected invalid loan status, got %v", err)
	}
	if _, err := svc.UpdateLoanStatus(ctx, 2, loan.ID, models.LoanStatusRepaid); !errors.Is(err, domain.ErrLoanNotFound) {
		t.Errorf("expected loan not found for other user, got %v", err)
	}
}

func TestCreateShare_DerivesTotalPrice(t *testing.T) {
	svc := NewShareService(repositories.NewShareRepository(setupTestDB(t)))

	price, _ := decimal.NewFromString("12.25")
	share, err := svc.CreateShare(context.Background(), 1, &ShareInput{
		Date:           time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC),
		Company:        "Acme Corp",
		NumberOfShares: 40,
		SharePrice:     price,
		Commission:     decimal.NewFromInt(5),
		Broker:         "Desert Securities",
	})
	if err != nil {
		t.Fatalf("CreateShare failed: %v", err)
	}

	if want, _ := decimal.NewFromString("490.00"); !share.TotalPrice.Equal(want) {
		t.Errorf("expected total %s, got %s", want, share.TotalPrice)
	}
}

func TestCreateShare_Validation(t *testing.T) {
	svc := NewShareService(repositories.NewShareRepository(setupTestDB(t)))
	ctx := context.Background()
	date := time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(10)

	cases := []struct {
		name  string
		input ShareInput
		want  error
	}{
		{"zero shares", ShareInput{Date: date, Company: "Acme", NumberOfShares: 0, SharePrice: price, Broker: "B"}, domain.ErrInvalidShareCount},
		{"zero price", ShareInput{Date: date, Company: "Acme", NumberOfShares: 5, SharePrice: decimal.Zero, Broker: "B"}, domain.ErrInvalidAmount},
		{"negative commission", ShareInput{Date: date, Company: "Acme", NumberOfShares: 5, SharePrice: price, Commission: decimal.NewFromInt(-1), Broker: "B"}, domain.ErrInvalidAmount},
		{"empty company", ShareInput{Date: date, Company: " ", NumberOfShares: 5, SharePrice: price, Broker: "B"}, domain.ErrInvalidInput},
	}

	for _, tc := range cases {
		if _, err := svc.CreateShare(ctx, 1, &tc.input); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestListCategories_IncludesGlobalDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := newExpenseService(db)
	ctx := context.Background()

	// Global default plus one per user
	db.Create(&models.ExpenseCategory{UserID: 0, Title: "Groceries"})
	if _, err := svc.CreateCategory(ctx, 1, "Hobbies"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, 2, "Travel"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	categories, err := svc.ListCategories(ctx, 1)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected global + own category, got %d", len(categories))
	}
	for _, cat := range categories {
		if cat.Title == "Travel" {
			t.Error("user 1 must not see user 2's category")
		}
	}
}
