package handlers

import (
	"errors"
	"time"

	"masarify/internal/core/domain"
	"masarify/internal/core/services"
	"masarify/internal/pkg/pagination"
	"masarify/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// currentUserID extracts the authenticated user ID set by the auth middleware
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

// parseDateQuery parses an optional yyyy-mm-dd query parameter
func parseDateQuery(c *fiber.Ctx, key string) (time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, value)
}

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest represents create/update expense request body
type ExpenseRequest struct {
	Title      string          `json:"title"`
	Cost       decimal.Decimal `json:"cost"`
	Date       string          `json:"date"`
	Note       string          `json:"note"`
	CategoryID *uint           `json:"category_id"`
}

// CategoryRequest represents create category request body
type CategoryRequest struct {
	Title string `json:"title"`
}

func (r *ExpenseRequest) toInput() (*services.ExpenseInput, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return nil, err
	}
	return &services.ExpenseInput{
		Title:      r.Title,
		Cost:       r.Cost,
		Date:       date,
		Note:       r.Note,
		CategoryID: r.CategoryID,
	}, nil
}

func mapExpenseError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrExpenseNotFound):
		return response.NotFound(c, "Expense not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return response.BadRequest(c, "Category not found")
	case errors.Is(err, domain.ErrInvalidAmount):
		return response.BadRequest(c, "Cost must be greater than zero")
	case errors.Is(err, domain.ErrInvalidDateRange):
		return response.BadRequest(c, "Invalid date range")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Title and date are required")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// Create records a new expense
// @Summary Create expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ExpenseRequest true "Expense data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Date must be in yyyy-mm-dd format")
	}

	expense, err := h.expenseService.CreateExpense(c.Context(), userID, input)
	if err != nil {
		return mapExpenseError(c, err, "Failed to create expense")
	}

	return response.Created(c, "Expense created successfully", expense)
}

// List lists the user's expenses with optional date range
// @Summary List expenses
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (yyyy-mm-dd)"
// @Param to query string false "End date (yyyy-mm-dd)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	from, err := parseDateQuery(c, "from")
	if err != nil {
		return response.BadRequest(c, "Invalid from date")
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return response.BadRequest(c, "Invalid to date")
	}

	params := pagination.GetParams(c)
	expenses, total, err := h.expenseService.ListExpenses(c.Context(), userID, &services.ListExpensesInput{
		From:   from,
		To:     to,
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		return mapExpenseError(c, err, "Failed to list expenses")
	}

	return response.Success(c, "Expenses retrieved successfully",
		pagination.NewResponse(expenses, params, total))
}

// Sum totals the user's expenses in a date range
// @Summary Sum expenses
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (yyyy-mm-dd)"
// @Param to query string false "End date (yyyy-mm-dd)"
// @Success 200 {object} response.Response
// @Router /expenses/sum [get]
func (h *ExpenseHandler) Sum(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	from, err := parseDateQuery(c, "from")
	if err != nil {
		return response.BadRequest(c, "Invalid from date")
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return response.BadRequest(c, "Invalid to date")
	}

	sum, err := h.expenseService.SumExpenses(c.Context(), userID, from, to)
	if err != nil {
		return mapExpenseError(c, err, "Failed to sum expenses")
	}

	return response.Success(c, "Expense sum retrieved successfully", sum)
}

// Get returns one expense
// @Summary Get expense
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid expense ID")
	}

	expense, err := h.expenseService.GetExpense(c.Context(), userID, uint(id))
	if err != nil {
		return mapExpenseError(c, err, "Failed to get expense")
	}

	return response.Success(c, "Expense retrieved successfully", expense)
}

// Update updates one expense
// @Summary Update expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Param body body ExpenseRequest true "Expense data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid expense ID")
	}

	var req ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Date must be in yyyy-mm-dd format")
	}

	expense, err := h.expenseService.UpdateExpense(c.Context(), userID, uint(id), input)
	if err != nil {
		return mapExpenseError(c, err, "Failed to update expense")
	}

	return response.Success(c, "Expense updated successfully", expense)
}

// Delete deletes one expense
// @Summary Delete expense
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid expense ID")
	}

	if err := h.expenseService.DeleteExpense(c.Context(), userID, uint(id)); err != nil {
		return mapExpenseError(c, err, "Failed to delete expense")
	}

	return response.Success(c, "Expense deleted successfully", nil)
}

// ListCategories lists the categories visible to the user
// @Summary List expense categories
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *ExpenseHandler) ListCategories(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	categories, err := h.expenseService.ListCategories(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list categories")
	}

	return response.Success(c, "Categories retrieved successfully", categories)
}

// CreateCategory creates a category owned by the user
// @Summary Create expense category
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CategoryRequest true "Category data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /categories [post]
func (h *ExpenseHandler) CreateCategory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	category, err := h.expenseService.CreateCategory(c.Context(), userID, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Title is required")
		}
		return response.InternalServerError(c, "Failed to create category")
	}

	return response.Created(c, "Category created successfully", category)
}
