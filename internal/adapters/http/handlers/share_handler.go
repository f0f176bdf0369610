package handlers

import (
	"errors"
	"time"

	"masarify/internal/core/domain"
	"masarify/internal/core/services"
	"masarify/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ShareHandler handles stock-share purchase endpoints
type ShareHandler struct {
	shareService *services.ShareService
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService *services.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// ShareRequest represents create share purchase request body
type ShareRequest struct {
	Date           string          `json:"date"`
	Company        string          `json:"company"`
	NumberOfShares int             `json:"number_of_shares"`
	SharePrice     decimal.Decimal `json:"share_price"`
	Commission     decimal.Decimal `json:"commission"`
	Broker         string          `json:"broker"`
}

// Create records a share purchase
// @Summary Create share purchase
// @Tags Shares
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ShareRequest true "Share purchase data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /shares [post]
func (h *ShareHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return response.BadRequest(c, "Date must be in yyyy-mm-dd format")
	}

	share, err := h.shareService.CreateShare(c.Context(), userID, &services.ShareInput{
		Date:           date,
		Company:        req.Company,
		NumberOfShares: req.NumberOfShares,
		SharePrice:     req.SharePrice,
		Commission:     req.Commission,
		Broker:         req.Broker,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidShareCount):
			return response.BadRequest(c, "Number of shares must be greater than zero")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Share price must be positive and commission non-negative")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Company, broker and date are required")
		default:
			return response.InternalServerError(c, "Failed to create share purchase")
		}
	}

	return response.Created(c, "Share purchase created successfully", share)
}

// List lists the user's share purchases
// @Summary List share purchases
// @Tags Shares
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /shares [get]
func (h *ShareHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	shares, err := h.shareService.ListShares(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list share purchases")
	}

	return response.Success(c, "Share purchases retrieved successfully", shares)
}

// Delete deletes one share purchase
// @Summary Delete share purchase
// @Tags Shares
// @Produce json
// @Security BearerAuth
// @Param id path int true "Share purchase ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /shares/{id} [delete]
func (h *ShareHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid share purchase ID")
	}

	if err := h.shareService.DeleteShare(c.Context(), userID, uint(id)); err != nil {
		if errors.Is(err, domain.ErrShareNotFound) {
			return response.NotFound(c, "Share purchase not found")
		}
		return response.InternalServerError(c, "Failed to delete share purchase")
	}

	return response.Success(c, "Share purchase deleted successfully", nil)
}
