package repositories

import (
	"context"
	"time"

	"masarify/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// RoscaRepository handles rosca data access: the rosca itself plus its
// participants, payments and turns.
type RoscaRepository struct {
	db *gorm.DB
}

// NewRoscaRepository creates a new rosca repository
func NewRoscaRepository(db *gorm.DB) *RoscaRepository {
	return &RoscaRepository{db: db}
}

// Create creates a new rosca
func (r *RoscaRepository) Create(ctx context.Context, rosca *models.Rosca) error {
	return r.db.WithContext(ctx).Create(rosca).Error
}

// GetByID gets a rosca by ID scoped to its owner
func (r *RoscaRepository) GetByID(ctx context.Context, userID, id uint) (*models.Rosca, error) {
	var rosca models.Rosca
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&rosca, id).Error
	if err != nil {
		return nil, err
	}
	return &rosca, nil
}

// List lists a user's roscas, newest first
func (r *RoscaRepository) List(ctx context.Context, userID uint) ([]*models.Rosca, error) {
	var roscas []*models.Rosca
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&roscas).Error
	return roscas, err
}

// ListAll lists every rosca regardless of owner, for background jobs
func (r *RoscaRepository) ListAll(ctx context.Context) ([]*models.Rosca, error) {
	var roscas []*models.Rosca
	err := r.db.WithContext(ctx).Find(&roscas).Error
	return roscas, err
}

// UpdateSettings replaces the whole settings group of a rosca. Optional
// fields absent from the new settings are cleared, not kept.
func (r *RoscaRepository) UpdateSettings(ctx context.Context, rosca *models.Rosca, settings models.RoscaSettings) error {
	rosca.Settings = settings
	return r.db.WithContext(ctx).
		Model(rosca).
		Select("settings_frequency", "settings_monthly_amount", "settings_payment_day",
			"settings_start_date", "settings_end_date", "settings_target_amount").
		Updates(rosca).Error
}

// DeleteCascade removes a rosca and all of its participants, payments and
// turns in a single transaction.
func (r *RoscaRepository) DeleteCascade(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&models.Rosca{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("rosca_id = ?", id).Delete(&models.Turn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("rosca_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Where("rosca_id = ?", id).Delete(&models.Participant{}).Error
	})
}

// AddParticipant creates a new participant
func (r *RoscaRepository) AddParticipant(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

// GetParticipants lists a rosca's participants in creation order
func (r *RoscaRepository) GetParticipants(ctx context.Context, roscaID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.WithContext(ctx).
		Where("rosca_id = ?", roscaID).
		Order("id ASC").
		Find(&participants).Error
	return participants, err
}

// ParticipantExists checks whether the participant belongs to the rosca
func (r *RoscaRepository) ParticipantExists(ctx context.Context, roscaID, participantID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("id = ?", participantID).
		Where("rosca_id = ?", roscaID).
		Count(&count).Error
	return count > 0, err
}

// AddPayment records a payment. Payments are append-only.
func (r *RoscaRepository) AddPayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetPayments lists a rosca's payments, newest first
func (r *RoscaRepository) GetPayments(ctx context.Context, roscaID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Participant").
		Where("rosca_id = ?", roscaID).
		Order("payment_date DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

// GetTurns lists a rosca's turns sorted by position
func (r *RoscaRepository) GetTurns(ctx context.Context, roscaID uint) ([]models.Turn, error) {
	var turns []models.Turn
	err := r.db.WithContext(ctx).
		Preload("Participant").
		Where("rosca_id = ?", roscaID).
		Order("turn_order ASC").
		Find(&turns).Error
	return turns, err
}

// ReplaceTurns atomically swaps a rosca's turn set: the old turns are
// deleted, one pending turn per participant ID is inserted with its slice
// index as the position, and the rosca is flagged arranged. Either the whole
// new arrangement lands or nothing changes.
func (r *RoscaRepository) ReplaceTurns(ctx context.Context, rosca *models.Rosca, participantIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rosca_id = ?", rosca.ID).Delete(&models.Turn{}).Error; err != nil {
			return err
		}

		turns := make([]models.Turn, 0, len(participantIDs))
		for i, pid := range participantIDs {
			turns = append(turns, models.Turn{
				RoscaID:       rosca.ID,
				ParticipantID: pid,
				Order:         i,
				Status:        models.TurnStatusPending,
			})
		}
		if len(turns) > 0 {
			if err := tx.Create(&turns).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		rosca.TurnsArranged = true
		rosca.LastTurnUpdate = &now
		return tx.Model(rosca).
			Select("turns_arranged", "last_turn_update").
			Updates(rosca).Error
	})
}

// UpdateTurnStatus sets the status of one turn
func (r *RoscaRepository) UpdateTurnStatus(ctx context.Context, roscaID, turnID uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Turn{}).
		Where("id = ?", turnID).
		Where("rosca_id = ?", roscaID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
