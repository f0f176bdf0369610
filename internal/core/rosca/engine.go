// Package rosca implements the turn and contribution engine for
// rotating-savings associations: per-participant payment stats for the
// active period, lateness detection, contribution shares for charting, and
// the payout-order draft used by the arrangement workflow.
package rosca

import (
	"errors"
	"time"

	"masarify/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

var ErrIndexOutOfRange = errors.New("draft index out of range")

// ParticipantStat is the computed payment status of one participant.
// Amounts are exact decimals, never rounded here.
type ParticipantStat struct {
	ParticipantID  uint            `json:"participant_id"`
	Name           string          `json:"name"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	PeriodPayments decimal.Decimal `json:"period_payments"`
	IsLate         bool            `json:"is_late"`
}

// ComputeParticipantStats computes, for each participant in input order, the
// total of all their payments and the total of payments dated in the same
// calendar month and year as ref.
//
// A participant is late iff a periodic amount is configured (> 0), their
// period total is below it, and ref's day of month is past the configured
// payment day. With no periodic amount configured nobody is ever late.
func ComputeParticipantStats(participants []models.Participant, payments []models.Payment, settings models.RoscaSettings, ref time.Time) []ParticipantStat {
	refMonth := ref.Month()
	refYear := ref.Year()

	required := decimal.Zero
	hasRequired := settings.MonthlyAmount.Valid && settings.MonthlyAmount.Decimal.IsPositive()
	if hasRequired {
		required = settings.MonthlyAmount.Decimal
	}

	stats := make([]ParticipantStat, 0, len(participants))
	for _, participant := range participants {
		total := decimal.Zero
		period := decimal.Zero

		for _, payment := range payments {
			if payment.ParticipantID != participant.ID {
				continue
			}
			total = total.Add(payment.Amount)
			if payment.PaymentDate.Month() == refMonth && payment.PaymentDate.Year() == refYear {
				period = period.Add(payment.Amount)
			}
		}

		isLate := hasRequired &&
			period.LessThan(required) &&
			ref.Day() > settings.PaymentDay

		stats = append(stats, ParticipantStat{
			ParticipantID:  participant.ID,
			Name:           participant.Name,
			TotalPayments:  total,
			PeriodPayments: period,
			IsLate:         isLate,
		})
	}

	return stats
}

// Share is one slice of the contribution chart
type Share struct {
	ParticipantID uint    `json:"participant_id"`
	Name          string  `json:"name"`
	Fraction      float64 `json:"fraction"`
}

// ContributionShares returns each participant's fraction of the grand total
// of payments. When the grand total is zero every fraction is zero, so
// callers render an empty chart instead of dividing by zero.
func ContributionShares(stats []ParticipantStat) []Share {
	total := decimal.Zero
	for _, s := range stats {
		total = total.Add(s.TotalPayments)
	}

	shares := make([]Share, 0, len(stats))
	for _, s := range stats {
		share := Share{
			ParticipantID: s.ParticipantID,
			Name:          s.Name,
		}
		if total.IsPositive() {
			share.Fraction = s.TotalPayments.Div(total).InexactFloat64()
		}
		shares = append(shares, share)
	}

	return shares
}

// DraftEntry is one position in a candidate payout ordering
type DraftEntry struct {
	ParticipantID uint   `json:"participant_id"`
	Name          string `json:"name"`
}

// Draft is an in-memory candidate payout ordering, not yet persisted.
// Index in the slice is the provisional turn order.
type Draft []DraftEntry

// NewDraftFromParticipants seeds a draft from the participants' natural
// order, for a rosca with no turns arranged yet.
func NewDraftFromParticipants(participants []models.Participant) Draft {
	draft := make(Draft, 0, len(participants))
	for _, p := range participants {
		draft = append(draft, DraftEntry{ParticipantID: p.ID, Name: p.Name})
	}
	return draft
}

// NewDraftFromTurns seeds a draft from an existing arrangement, for
// re-arranging. Turns must already be sorted by order; participant names
// are resolved from the participant list.
func NewDraftFromTurns(turns []models.Turn, participants []models.Participant) Draft {
	names := make(map[uint]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	draft := make(Draft, 0, len(turns))
	for _, t := range turns {
		draft = append(draft, DraftEntry{ParticipantID: t.ParticipantID, Name: names[t.ParticipantID]})
	}
	return draft
}

// Move relocates the entry at src to dst and returns the new ordering.
// This is a list move, not a swap: the entry is removed and reinserted, so
// every entry between src and dst shifts by exactly one slot and all other
// relative order is preserved. The receiver is not modified.
func (d Draft) Move(src, dst int) (Draft, error) {
	if src < 0 || src >= len(d) || dst < 0 || dst >= len(d) {
		return nil, ErrIndexOutOfRange
	}

	moved := make(Draft, 0, len(d))
	moved = append(moved, d[:src]...)
	moved = append(moved, d[src+1:]...)

	out := make(Draft, 0, len(d))
	out = append(out, moved[:dst]...)
	out = append(out, d[src])
	out = append(out, moved[dst:]...)
	return out, nil
}

// ParticipantIDs returns the ordered participant ids of the draft
func (d Draft) ParticipantIDs() []uint {
	ids := make([]uint, len(d))
	for i, e := range d {
		ids[i] = e.ParticipantID
	}
	return ids
}

// IsPermutationOf reports whether the draft covers exactly the given
// participants: same size, every participant present once, no strangers.
func (d Draft) IsPermutationOf(participants []models.Participant) bool {
	if len(d) != len(participants) {
		return false
	}

	want := make(map[uint]bool, len(participants))
	for _, p := range participants {
		want[p.ID] = true
	}

	seen := make(map[uint]bool, len(d))
	for _, e := range d {
		if !want[e.ParticipantID] || seen[e.ParticipantID] {
			return false
		}
		seen[e.ParticipantID] = true
	}
	return true
}
