package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"masarify/internal/adapters/persistence/models"
	"masarify/internal/adapters/persistence/repositories"
	"masarify/internal/core/domain"
	"masarify/internal/core/rosca"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoscaService handles rotating-savings business logic
type RoscaService struct {
	roscaRepo *repositories.RoscaRepository
}

// NewRoscaService creates a new rosca service
func NewRoscaService(roscaRepo *repositories.RoscaRepository) *RoscaService {
	return &RoscaService{roscaRepo: roscaRepo}
}

// RoscaInput represents create rosca input
type RoscaInput struct {
	Name     string               `json:"name" validate:"required,max=100"`
	Settings models.RoscaSettings `json:"settings"`
}

// ParticipantInput represents add participant input
type ParticipantInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"max=30"`
}

// PaymentInput represents record payment input
type PaymentInput struct {
	ParticipantID uint            `json:"participant_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate   time.Time       `json:"payment_date" validate:"required"`
}

// SaveTurnsInput represents the final payout ordering to persist
type SaveTurnsInput struct {
	ParticipantIDs []uint `json:"participant_ids" validate:"required"`
}

// RoscaStats bundles per-participant stats and chart shares
type RoscaStats struct {
	Participants []rosca.ParticipantStat `json:"participants"`
	Shares       []rosca.Share           `json:"shares"`
	ReferenceAt  time.Time               `json:"reference_at"`
}

// LateReminder is one rosca's late participants, for the reminder job
type LateReminder struct {
	RoscaName string
	OwnerID   uint
	LateNames []string
}

func validateSettings(settings *models.RoscaSettings) error {
	switch settings.Frequency {
	case "":
		settings.Frequency = models.FrequencyMonthly
	case models.FrequencyMonthly, models.FrequencyWeekly, models.FrequencyYearly:
	default:
		return domain.ErrInvalidInput
	}

	// 1..28 so the cutoff exists in every month
	if settings.PaymentDay < 1 || settings.PaymentDay > 28 {
		return domain.ErrInvalidInput
	}
	if settings.MonthlyAmount.Valid && settings.MonthlyAmount.Decimal.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if settings.TargetAmount.Valid && settings.TargetAmount.Decimal.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if settings.EndDate != nil && !settings.StartDate.IsZero() && settings.EndDate.Before(settings.StartDate) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

// CreateRosca creates a new rosca for the user
func (s *RoscaService) CreateRosca(ctx context.Context, userID uint, input *RoscaInput) (*models.Rosca, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validateSettings(&input.Settings); err != nil {
		return nil, err
	}

	r := &models.Rosca{
		UserID:   userID,
		Name:     strings.TrimSpace(input.Name),
		Settings: input.Settings,
	}

	if err := s.roscaRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	log.Printf("✅ Rosca created: %s (ID: %d)", r.Name, r.ID)
	return r, nil
}

// ListRoscas lists the user's roscas
func (s *RoscaService) ListRoscas(ctx context.Context, userID uint) ([]*models.Rosca, error) {
	return s.roscaRepo.List(ctx, userID)
}

func (s *RoscaService) getOwned(ctx context.Context, userID, roscaID uint) (*models.Rosca, error) {
	r, err := s.roscaRepo.GetByID(ctx, userID, roscaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoscaNotFound
		}
		return nil, err
	}
	return r, nil
}

// GetRoscaDetail returns a rosca with its collected total and progress.
// Progress is collected over target as a percentage and is deliberately not
// capped at 100: over-collection shows as over 100%.
func (s *RoscaService) GetRoscaDetail(ctx context.Context, userID, roscaID uint) (*models.RoscaDetailResponse, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}

	participants, err := s.roscaRepo.GetParticipants(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.roscaRepo.GetPayments(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}

	progress := 0.0
	if r.Settings.TargetAmount.Valid && r.Settings.TargetAmount.Decimal.IsPositive() {
		progress = total.Div(r.Settings.TargetAmount.Decimal).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return &models.RoscaDetailResponse{
		Rosca:            r,
		TotalCollected:   total,
		ProgressPercent:  progress,
		ParticipantCount: len(participants),
		PaymentCount:     len(payments),
	}, nil
}

// UpdateSettings replaces the rosca's settings as a whole group
func (s *RoscaService) UpdateSettings(ctx context.Context, userID, roscaID uint, settings models.RoscaSettings) (*models.Rosca, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}
	if err := validateSettings(&settings); err != nil {
		return nil, err
	}

	if err := s.roscaRepo.UpdateSettings(ctx, r, settings); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRosca removes a rosca together with its participants, payments and
// turns.
func (s *RoscaService) DeleteRosca(ctx context.Context, userID, roscaID uint) error {
	err := s.roscaRepo.DeleteCascade(ctx, userID, roscaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRoscaNotFound
	}
	if err == nil {
		log.Printf("🗑️ Rosca %d deleted with all related records", roscaID)
	}
	return err
}

// AddParticipant adds a participant to the rosca. An existing arrangement is
// kept as is; the draft endpoint falls back to creation order once the turn
// set no longer covers everyone.
func (s *RoscaService) AddParticipant(ctx context.Context, userID, roscaID uint, input *ParticipantInput) (*models.Participant, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrInvalidInput
	}

	participant := &models.Participant{
		RoscaID: r.ID,
		Name:    strings.TrimSpace(input.Name),
		Phone:   strings.TrimSpace(input.Phone),
	}
	if err := s.roscaRepo.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// ListParticipants lists a rosca's participants
func (s *RoscaService) ListParticipants(ctx context.Context, userID, roscaID uint) ([]models.Participant, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}
	return s.roscaRepo.GetParticipants(ctx, r.ID)
}

// AddPayment records a payment by a participant. Payments are append-only.
func (s *RoscaService) AddPayment(ctx context.Context, userID, roscaID uint, input *PaymentInput) (*models.Payment, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.PaymentDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	belongs, err := s.roscaRepo.ParticipantExists(ctx, r.ID, input.ParticipantID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, domain.ErrParticipantNotFound
	}

	payment := &models.Payment{
		RoscaID:       r.ID,
		ParticipantID: input.ParticipantID,
		Amount:        input.Amount,
		PaymentDate:   input.PaymentDate,
	}
	if err := s.roscaRepo.AddPayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPayments lists a rosca's payments
func (s *RoscaService) ListPayments(ctx context.Context, userID, roscaID uint) ([]models.Payment, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}
	return s.roscaRepo.GetPayments(ctx, r.ID)
}

// GetStats computes per-participant payment stats and contribution shares,
// using now as the reference date.
func (s *RoscaService) GetStats(ctx context.Context, userID, roscaID uint) (*RoscaStats, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}

	participants, err := s.roscaRepo.GetParticipants(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.roscaRepo.GetPayments(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := rosca.ComputeParticipantStats(participants, payments, r.Settings, now)

	return &RoscaStats{
		Participants: stats,
		Shares:       rosca.ContributionShares(stats),
		ReferenceAt:  now,
	}, nil
}

// BeginArrangement returns the starting payout-order draft: the current
// arrangement when one exists, participant creation order otherwise.
func (s *RoscaService) BeginArrangement(ctx context.Context, userID, roscaID uint) (rosca.Draft, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}

	participants, err := s.roscaRepo.GetParticipants(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	if r.TurnsArranged {
		turns, err := s.roscaRepo.GetTurns(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if len(turns) == len(participants) {
			return rosca.NewDraftFromTurns(turns, participants), nil
		}
	}
	return rosca.NewDraftFromParticipants(participants), nil
}

// SaveTurns persists a payout ordering. The ordering must cover every
// participant of the rosca exactly once; the swap is atomic.
func (s *RoscaService) SaveTurns(ctx context.Context, userID, roscaID uint, input *SaveTurnsInput) ([]models.Turn, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}

	participants, err := s.roscaRepo.GetParticipants(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	draft := make(rosca.Draft, 0, len(input.ParticipantIDs))
	for _, id := range input.ParticipantIDs {
		draft = append(draft, rosca.DraftEntry{ParticipantID: id})
	}
	if !draft.IsPermutationOf(participants) {
		return nil, domain.ErrTurnSetMismatch
	}

	if err := s.roscaRepo.ReplaceTurns(ctx, r, input.ParticipantIDs); err != nil {
		return nil, err
	}

	log.Printf("✅ Turns arranged for rosca %d (%d participants)", r.ID, len(participants))
	return s.roscaRepo.GetTurns(ctx, r.ID)
}

// ListTurns lists the arranged payout order
func (s *RoscaService) ListTurns(ctx context.Context, userID, roscaID uint) ([]models.Turn, error) {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return nil, err
	}
	if !r.TurnsArranged {
		return nil, domain.ErrTurnsNotArranged
	}
	return s.roscaRepo.GetTurns(ctx, r.ID)
}

// CompleteTurn marks one turn as paid out
func (s *RoscaService) CompleteTurn(ctx context.Context, userID, roscaID, turnID uint) error {
	r, err := s.getOwned(ctx, userID, roscaID)
	if err != nil {
		return err
	}

	err = s.roscaRepo.UpdateTurnStatus(ctx, r.ID, turnID, models.TurnStatusCompleted)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// LateReminders collects, across all roscas, the participants currently
// behind on the periodic amount. Used by the daily reminder job.
func (s *RoscaService) LateReminders(ctx context.Context) ([]LateReminder, error) {
	roscas, err := s.roscaRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var reminders []LateReminder
	for _, r := range roscas {
		if !r.Settings.MonthlyAmount.Valid || !r.Settings.MonthlyAmount.Decimal.IsPositive() {
			continue
		}

		participants, err := s.roscaRepo.GetParticipants(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		payments, err := s.roscaRepo.GetPayments(ctx, r.ID)
		if err != nil {
			return nil, err
		}

		var lateNames []string
		for _, stat := range rosca.ComputeParticipantStats(participants, payments, r.Settings, now) {
			if stat.IsLate {
				lateNames = append(lateNames, stat.Name)
			}
		}
		if len(lateNames) > 0 {
			reminders = append(reminders, LateReminder{
				RoscaName: r.Name,
				OwnerID:   r.UserID,
				LateNames: lateNames,
			})
		}
	}
	return reminders, nil
}
