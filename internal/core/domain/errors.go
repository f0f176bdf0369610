package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")
)

// Expense errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrCategoryNotFound = errors.New("expense category not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDateRange = errors.New("invalid date range")
)

// Loan errors
var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrInvalidLoanStatus = errors.New("invalid loan status")
)

// Share purchase errors
var (
	ErrShareNotFound     = errors.New("share purchase not found")
	ErrInvalidShareCount = errors.New("number of shares must be greater than zero")
)

// Rosca errors
var (
	ErrRoscaNotFound       = errors.New("rosca not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrTurnSetMismatch     = errors.New("turn order must contain every participant exactly once")
	ErrTurnsNotArranged    = errors.New("turns have not been arranged")
)
