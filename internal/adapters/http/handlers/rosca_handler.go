package handlers

import (
	"errors"
	"time"

	"masarify/internal/adapters/persistence/models"
	"masarify/internal/core/domain"
	"masarify/internal/core/services"
	"masarify/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// RoscaHandler handles rotating-savings endpoints
type RoscaHandler struct {
	roscaService *services.RoscaService
}

// NewRoscaHandler creates a new rosca handler
func NewRoscaHandler(roscaService *services.RoscaService) *RoscaHandler {
	return &RoscaHandler{roscaService: roscaService}
}

// RoscaSettingsRequest represents the settings group in request bodies.
// Saving settings replaces the whole group.
type RoscaSettingsRequest struct {
	Frequency     string              `json:"frequency"`
	MonthlyAmount decimal.NullDecimal `json:"monthly_amount"`
	PaymentDay    int                 `json:"payment_day"`
	StartDate     string              `json:"start_date"`
	EndDate       *string             `json:"end_date"`
	TargetAmount  decimal.NullDecimal `json:"target_amount"`
}

// RoscaRequest represents create rosca request body
type RoscaRequest struct {
	Name     string               `json:"name"`
	Settings RoscaSettingsRequest `json:"settings"`
}

// ParticipantRequest represents add participant request body
type ParticipantRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PaymentRequest represents record payment request body
type PaymentRequest struct {
	ParticipantID uint            `json:"participant_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
}

// TurnsRequest represents the payout ordering to persist
type TurnsRequest struct {
	ParticipantIDs []uint `json:"participant_ids"`
}

func (r *RoscaSettingsRequest) toSettings() (models.RoscaSettings, error) {
	settings := models.RoscaSettings{
		Frequency:     r.Frequency,
		MonthlyAmount: r.MonthlyAmount,
		PaymentDay:    r.PaymentDay,
		TargetAmount:  r.TargetAmount,
	}
	if settings.PaymentDay == 0 {
		settings.PaymentDay = 1
	}

	if r.StartDate != "" {
		startDate, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return settings, err
		}
		settings.StartDate = startDate
	}
	if r.EndDate != nil && *r.EndDate != "" {
		endDate, err := time.Parse(dateLayout, *r.EndDate)
		if err != nil {
			return settings, err
		}
		settings.EndDate = &endDate
	}
	return settings, nil
}

func roscaIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, errors.New("invalid rosca id")
	}
	return uint(id), nil
}

func mapRoscaError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrRoscaNotFound):
		return response.NotFound(c, "Rosca not found")
	case errors.Is(err, domain.ErrParticipantNotFound):
		return response.NotFound(c, "Participant not found in this rosca")
	case errors.Is(err, domain.ErrTurnSetMismatch):
		return response.BadRequest(c, "Turn order must contain every participant exactly once")
	case errors.Is(err, domain.ErrTurnsNotArranged):
		return response.NotFound(c, "Turns have not been arranged yet")
	case errors.Is(err, domain.ErrInvalidAmount):
		return response.BadRequest(c, "Amount must not be negative")
	case errors.Is(err, domain.ErrInvalidDateRange):
		return response.BadRequest(c, "Invalid date range")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Not found")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// Create creates a new rosca
// @Summary Create rosca
// @Tags Roscas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RoscaRequest true "Rosca data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /roscas [post]
func (h *RoscaHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RoscaRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := req.Settings.toSettings()
	if err != nil {
		return response.BadRequest(c, "Dates must be in yyyy-mm-dd format")
	}

	r, err := h.roscaService.CreateRosca(c.Context(), userID, &services.RoscaInput{
		Name:     req.Name,
		Settings: settings,
	})
	if err != nil {
		return mapRoscaError(c, err, "Failed to create rosca")
	}

	return response.Created(c, "Rosca created successfully", r)
}

// List lists the user's roscas
// @Summary List roscas
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roscas [get]
func (h *RoscaHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscas, err := h.roscaService.ListRoscas(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list roscas")
	}

	return response.Success(c, "Roscas retrieved successfully", roscas)
}

// Get returns a rosca with collected total and progress
// @Summary Get rosca detail
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id} [get]
func (h *RoscaHandler) Get(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	detail, err := h.roscaService.GetRoscaDetail(c.Context(), userID, roscaID)
	if err != nil {
		return mapRoscaError(c, err, "Failed to get rosca")
	}

	return response.Success(c, "Rosca retrieved successfully", detail)
}

// UpdateSettings replaces the rosca's settings
// @Summary Update rosca settings
// @Description Replaces the whole settings group; omitted optional fields are cleared
// @Tags Roscas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Param body body RoscaSettingsRequest true "New settings"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/settings [put]
func (h *RoscaHandler) UpdateSettings(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	var req RoscaSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := req.toSettings()
	if err != nil {
		return response.BadRequest(c, "Dates must be in yyyy-mm-dd format")
	}

	r, err := h.roscaService.UpdateSettings(c.Context(), userID, roscaID, settings)
	if err != nil {
		return mapRoscaError(c, err, "Failed to update settings")
	}

	return response.Success(c, "Settings updated successfully", r)
}

// Delete removes a rosca and all related records
// @Summary Delete rosca
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id} [delete]
func (h *RoscaHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	if err := h.roscaService.DeleteRosca(c.Context(), userID, roscaID); err != nil {
		return mapRoscaError(c, err, "Failed to delete rosca")
	}

	return response.Success(c, "Rosca deleted successfully", nil)
}

// AddParticipant adds a participant to the rosca
// @Summary Add participant
// @Tags Roscas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Param body body ParticipantRequest true "Participant data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/participants [post]
func (h *RoscaHandler) AddParticipant(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	var req ParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	participant, err := h.roscaService.AddParticipant(c.Context(), userID, roscaID, &services.ParticipantInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return mapRoscaError(c, err, "Failed to add participant")
	}

	return response.Created(c, "Participant added successfully", participant)
}

// ListParticipants lists a rosca's participants
// @Summary List participants
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/participants [get]
func (h *RoscaHandler) ListParticipants(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	participants, err := h.roscaService.ListParticipants(c.Context(), userID, roscaID)
	if err != nil {
		return mapRoscaError(c, err, "Failed to list participants")
	}

	return response.Success(c, "Participants retrieved successfully", participants)
}

// AddPayment records a payment by a participant
// @Summary Record payment
// @Tags Roscas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Param body body PaymentRequest true "Payment data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/payments [post]
func (h *RoscaHandler) AddPayment(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		return response.BadRequest(c, "Payment date must be in yyyy-mm-dd format")
	}

	payment, err := h.roscaService.AddPayment(c.Context(), userID, roscaID, &services.PaymentInput{
		ParticipantID: req.ParticipantID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
	})
	if err != nil {
		return mapRoscaError(c, err, "Failed to record payment")
	}

	return response.Created(c, "Payment recorded successfully", payment)
}

// ListPayments lists a rosca's payments
// @Summary List payments
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/payments [get]
func (h *RoscaHandler) ListPayments(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	payments, err := h.roscaService.ListPayments(c.Context(), userID, roscaID)
	if err != nil {
		return mapRoscaError(c, err, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", payments)
}

// Stats returns per-participant payment stats and contribution shares
// @Summary Rosca statistics
// @Description Totals, current-period totals, lateness and contribution shares per participant
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/stats [get]
func (h *RoscaHandler) Stats(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	stats, err := h.roscaService.GetStats(c.Context(), userID, roscaID)
	if err != nil {
		return mapRoscaError(c, err, "Failed to compute stats")
	}

	return response.Success(c, "Stats computed successfully", stats)
}

// BeginArrangement returns the starting payout-order draft
// @Summary Begin turn arrangement
// @Description Returns the saved order when arranged, participant creation order otherwise
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/turns/draft [get]
func (h *RoscaHandler) BeginArrangement(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	draft, err := h.roscaService.BeginArrangement(c.Context(), userID, roscaID)
	if err != nil {
		return mapRoscaError(c, err, "Failed to begin arrangement")
	}

	return response.Success(c, "Draft retrieved successfully", draft)
}

// SaveTurns persists a payout ordering
// @Summary Save turn order
// @Description Atomically replaces the payout order; must cover every participant exactly once
// @Tags Roscas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Param body body TurnsRequest true "Ordered participant IDs"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /roscas/{id}/turns [put]
func (h *RoscaHandler) SaveTurns(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	var req TurnsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	turns, err := h.roscaService.SaveTurns(c.Context(), userID, roscaID, &services.SaveTurnsInput{
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		return mapRoscaError(c, err, "Failed to save turns")
	}

	return response.Success(c, "Turns saved successfully", turns)
}

// ListTurns lists the arranged payout order
// @Summary List turns
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/turns [get]
func (h *RoscaHandler) ListTurns(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	turns, err := h.roscaService.ListTurns(c.Context(), userID, roscaID)
	if err != nil {
		return mapRoscaError(c, err, "Failed to list turns")
	}

	return response.Success(c, "Turns retrieved successfully", turns)
}

// CompleteTurn marks one turn as paid out
// @Summary Complete turn
// @Tags Roscas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rosca ID"
// @Param turnId path int true "Turn ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roscas/{id}/turns/{turnId}/complete [patch]
func (h *RoscaHandler) CompleteTurn(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	roscaID, err := roscaIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid rosca ID")
	}

	turnID, err := c.ParamsInt("turnId")
	if err != nil || turnID < 1 {
		return response.BadRequest(c, "Invalid turn ID")
	}

	if err := h.roscaService.CompleteTurn(c.Context(), userID, roscaID, uint(turnID)); err != nil {
		return mapRoscaError(c, err, "Failed to complete turn")
	}

	return response.Success(c, "Turn completed successfully", nil)
}
