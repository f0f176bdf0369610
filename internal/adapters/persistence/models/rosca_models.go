package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// ROSCA (jam'iya) Tables
// ============================================================

// Rosca frequencies
const (
	FrequencyMonthly = "monthly"
	FrequencyWeekly  = "weekly"
	FrequencyYearly  = "yearly"
)

// RoscaSettings is the settings group of a rosca. Updates replace the whole
// group: optional fields not carried over by the caller are cleared.
type RoscaSettings struct {
	Frequency     string              `gorm:"size:20;not null;default:'monthly'" json:"frequency"`
	MonthlyAmount decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"monthly_amount"`
	PaymentDay    int                 `gorm:"not null;default:1" json:"payment_day"`
	StartDate     time.Time           `gorm:"type:date" json:"start_date"`
	EndDate       *time.Time          `gorm:"type:date" json:"end_date"`
	TargetAmount  decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"target_amount"`
}

// Rosca represents a rotating-savings association
type Rosca struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Settings       RoscaSettings  `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
	TurnsArranged  bool           `gorm:"default:false" json:"turns_arranged"`
	LastTurnUpdate *time.Time     `json:"last_turn_update"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Rosca) TableName() string {
	return "roscas"
}

// Participant belongs to exactly one rosca; never edited after creation,
// removed only when the rosca is deleted.
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoscaID   uint      `gorm:"not null;index" json:"rosca_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"size:30" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Rosca *Rosca `gorm:"foreignKey:RoscaID" json:"-"`
}

func (Participant) TableName() string {
	return "participants"
}

// Payment is append-only: no edit or delete operation exists
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	RoscaID       uint            `gorm:"not null;index" json:"rosca_id"`
	ParticipantID uint            `gorm:"not null;index" json:"participant_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate   time.Time       `gorm:"type:date;not null" json:"payment_date"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Participant *Participant `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// Turn statuses
const (
	TurnStatusPending   = "pending"
	TurnStatusCompleted = "completed"
)

// Turn is one position in the payout rotation. For an arranged rosca the
// turns form a complete permutation of its participants with contiguous
// order values 0..N-1.
type Turn struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RoscaID       uint      `gorm:"not null;index" json:"rosca_id"`
	ParticipantID uint      `gorm:"not null" json:"participant_id"`
	Order         int       `gorm:"column:turn_order;not null" json:"order"`
	Status        string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Participant *Participant `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
}

func (Turn) TableName() string {
	return "turns"
}

// RoscaDetailResponse DTO for the rosca detail endpoint
type RoscaDetailResponse struct {
	Rosca            *Rosca          `json:"rosca"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	ProgressPercent  float64         `json:"progress_percent"`
	ParticipantCount int             `json:"participant_count"`
	PaymentCount     int             `json:"payment_count"`
}
