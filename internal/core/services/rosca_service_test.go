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
	"gorm.io/gorm"
)

func setupRoscaService(t *testing.T) (*RoscaService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	return NewRoscaService(repositories.NewRoscaRepository(db)), db
}

func createTestRosca(t *testing.T, svc *RoscaService, userID uint) *models.Rosca {
	t.Helper()

	r, err := svc.CreateRosca(context.Background(), userID, &RoscaInput{
		Name: "Family jam'iya",
		Settings: models.RoscaSettings{
			Frequency:  models.FrequencyMonthly,
			PaymentDay: 5,
			StartDate:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("CreateRosca failed: %v", err)
	}
	return r
}

func addTestParticipants(t *testing.T, svc *RoscaService, userID, roscaID uint, names ...string) []models.Participant {
	t.Helper()

	ctx := context.Background()
	for _, name := range names {
		if _, err := svc.AddParticipant(ctx, userID, roscaID, &ParticipantInput{Name: name}); err != nil {
			t.Fatalf("AddParticipant(%s) failed: %v", name, err)
		}
	}

	participants, err := svc.ListParticipants(ctx, userID, roscaID)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	return participants
}

func TestSaveTurns_PersistsOrdering(t *testing.T) {
	svc, _ := setupRoscaService(t)
	ctx := context.Background()

	r := createTestRosca(t, svc, 1)
	participants := addTestParticipants(t, svc, 1, r.ID, "A", "B", "C")

	// Arrange C first, then A, then B
	ids := []uint{participants[2].ID, participants[0].ID, participants[1].ID}
	turns, err := svc.SaveTurns(ctx, 1, r.ID, &SaveTurnsInput{ParticipantIDs: ids})
	if err != nil {
		t.Fatalf("SaveTurns failed: %v", err)
	}

	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		if turn.Order != i {
			t.Errorf("turn %d: expected order %d, got %d", i, i, turn.Order)
		}
		if turn.ParticipantID != ids[i] {
			t.Errorf("turn %d: expected participant %d, got %d", i, ids[i], turn.ParticipantID)
		}
		if turn.Status != models.TurnStatusPending {
			t.Errorf("turn %d: expected pending status, got %s", i, turn.Status)
		}
	}

	updated, err := svc.getOwned(ctx, 1, r.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !updated.TurnsArranged {
		t.Error("expected rosca to be flagged arranged")
	}
	if updated.LastTurnUpdate == nil {
		t.Error("expected last turn update timestamp to be set")
	}
}

func TestSaveTurns_ReplacesExistingSet(t *testing.T) {
	svc, db := setupRoscaService(t)
	ctx := context.Background()

	r := createTestRosca(t, svc, 1)
	participants := addTestParticipants(t, svc, 1, r.ID, "A", "B", "C")

	first := []uint{participants[0].ID, participants[1].ID, participants[2].ID}
	if _, err := svc.SaveTurns(ctx, 1, r.ID, &SaveTurnsInput{ParticipantIDs: first}); err != nil {
		t.Fatalf("first SaveTurns failed: %v", err)
	}

	second := []uint{participants[2].ID, participants[1].ID, participants[0].ID}
	turns, err := svc.SaveTurns(ctx, 1, r.ID, &SaveTurnsInput{ParticipantIDs: second})
	if err != nil {
		t.Fatalf("second SaveTurns failed: %v", err)
	}

	// Old turns must be gone, never accumulated
	var count int64
	db.Model(&models.Turn{}).Where("rosca_id = ?", r.ID).Count(&count)
	if count != 3 {
		t.Fatalf("expected exactly 3 turns after rearranging, got %d", count)
	}
	if turns[0].ParticipantID != participants[2].ID {
		t.Errorf("expected C first after rearranging, got participant %d", turns[0].ParticipantID)
	}
}

func TestSaveTurns_RejectsIncompleteSet(t *testing.T) {
	svc, _ := setupRoscaService(t)
	ctx := context.Background()

	r := createTestRosca(t, svc, 1)
	participants := addTestParticipants(t, svc, 1, r.ID, "A", "B", "C")

	cases := []struct {
		name string
		ids  []uint
	}{
		{"missing participant", []uint{participants[0].ID, participants[1].ID}},
		{"duplicate participant", []uint{participants[0].ID, participants[0].ID, participants[1].ID}},
		{"unknown participant", []uint{participants[0].ID, participants[1].ID, 999}},
	}

	for _, tc := range cases {
		_, err := svc.SaveTurns(ctx, 1, r.ID, &SaveTurnsInput{ParticipantIDs: tc.ids})
		if !errors.Is(err, domain.ErrTurnSetMismatch) {
			t.Errorf("%s: expected turn set mismatch, got %v", tc.name, err)
		}
	}
}

func TestDeleteRosca_CascadesToRelatedRecords(t *testing.T) {
	svc, db := setupRoscaService(t)
	ctx := context.Background()

	r := createTestRosca(t, svc, 1)
	participants := addTestParticipants(t, svc, 1, r.ID, "A", "B")

	if _, err := svc.AddPayment(ctx, 1, r.ID, &PaymentInput{
		ParticipantID: participants[0].ID,
		Amount:        decimal.NewFromInt(100),
		PaymentDate:   time.Now(),
	}); err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	if _, err := svc.SaveTurns(ctx, 1, r.ID, &SaveTurnsInput{
		ParticipantIDs: []uint{participants[0].ID, participants[1].ID},
	}); err != nil {
		t.Fatalf("SaveTurns failed: %v", err)
	}

	if err := svc.DeleteRosca(ctx, 1, r.ID); err != nil {
		t.Fatalf("DeleteRosca failed: %v", err)
	}

	for _, table := range []interface{}{&models.Participant{}, &models.Payment{}, &models.Turn{}} {
		var count int64
		db.Model(table).Where("rosca_id = ?", r.ID).Count(&count)
		if count != 0 {
			t.Errorf("%T: expected no rows after cascade delete, got %d", table, count)
		}
	}

	if _, err := svc.GetRoscaDetail(ctx, 1, r.ID); !errors.Is(err, domain.ErrRoscaNotFound) {
		t.Errorf("expected rosca not found after delete, got %v", err)
	}
}

func TestDeleteRosca_WrongOwner(t *testing.T) {
	svc, _ := setupRoscaService(t)
	r := createTestRosca(t, svc, 1)

	if err := svc.DeleteRosca(context.Background(), 2, r.ID); !errors.Is(err, domain.ErrRoscaNotFound) {
		t.Errorf("expected rosca not found for other user, got %v", err)
	}
}

func TestUpdateSettings_ReplacesWholeGroup(t *testing.T) {
	svc, _ := setupRoscaService(t)
	ctx := context.Background()

	r := createTestRosca(t, svc, 1)

	withTarget := r.Settings
	withTarget.MonthlyAmount = decimal.NewNullDecimal(decimal.NewFromInt(100))
	withTarget.TargetAmount = decimal.NewNullDecimal(decimal.NewFromInt(1200))
	if _, err := svc.UpdateSettings(ctx, 1, r.ID, withTarget); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	// Saving settings without the target must clear it, not keep the old value
	withoutTarget := withTarget
	withoutTarget.TargetAmount = decimal.NullDecimal{}
	if _, err := svc.UpdateSettings(ctx, 1, r.ID, withoutTarget); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	reloaded, err := svc.getOwned(ctx, 1, r.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Settings.TargetAmount.Valid {
		t.Error("expected target amount to be cleared by the replace")
	}
	if !reloaded.Settings.MonthlyAmount.Valid {
		t.Error("expected monthly amount to survive")
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	svc, _ := setupRoscaService(t)
	ctx := context.Background()

	r := createTestRosca(t, svc, 1)

	bad := r.Settings
	bad.PaymentDay = 0
	if _, err := svc.UpdateSettings(ctx, 1, r.ID, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("payment day 0: expected invalid input, got %v", err)
	}

	bad = r.Settings
	bad.Frequency = "daily"
	if _, err := svc.UpdateSettings(ctx, 1, r.ID, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unknown frequency: expected invalid input, got %v", err)
	}
}

func TestGetRoscaDetail_ProgressUnclamped(t *testing.T) {
	svc, _ := setupRoscaService(t)
	ctx := context.Background()

	r := createTestRosca(t, svc, 1)
	participants := addTestParticipants(t, svc, 1, r.ID, "A")

	settings := r.Settings
	settings.TargetAmount = decimal.NewNullDecimal(decimal.NewFromInt(100))
	if _, err := svc.UpdateSettings(ctx, 1, r.ID, settings); err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	// Collect 150 against a target of 100
	if _, err := svc.AddPayment(ctx, 1, r.ID, &PaymentInput{
		ParticipantID: participants[0].ID,
		Amount:        decimal.NewFromInt(150),
		PaymentDate:   time.Now(),
	}); err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}

	detail, err := svc.GetRoscaDetail(ctx, 1, r.ID)
	if err != nil {
		t.Fatalf("GetRoscaDetail failed: %v", err)
	}
	if detail.ProgressPercent != 150 {
		t.Errorf("expected progress 150%%, got %f", detail.ProgressPercent)
	}
	if !detail.TotalCollected.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected total 150, got %s", detail.TotalCollected)
	}
	if detail.ParticipantCount != 1 || detail.PaymentCount != 1 {
		t.Errorf("unexpected counts: %d participants, %d payments", detail.ParticipantCount, detail.PaymentCount)
	}
}

func TestGetRoscaDetail_NoTarget(t *testing.T) {
	svc, _ := setupRoscaService(t)

	r := createTestRosca(t, svc, 1)

	detail, err := svc.GetRoscaDetail(context.Background(), 1, r.ID)
	if err != nil {
		t.Fatalf("GetRoscaDetail failed: %v", err)
	}
	if detail.ProgressPercent != 0 {
		t.Errorf("expected zero progress without a target, got %f", detail.ProgressPercent)
	}
}

func TestAddPayment_RejectsForeignParticipant(t *testing.T) {
	svc, _ := setupRoscaService(t)
	ctx := context.Background()

	first := createTestRosca(t, svc, 1)
	second := createTestRosca(t, svc, 1)
	participants := addTestParticipants(t, svc, 1, first.ID, "A")

	// Participant of the first rosca cannot pay into the second
	_, err := svc.AddPayment(ctx, 1, second.ID, &PaymentInput{
		ParticipantID: participants[0].ID,
		Amount:        decimal.NewFromInt(50),
		PaymentDate:   time.Now(),
	})
	if !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Errorf("expected participant not found, got %v", err)
	}
}

func TestListTurns_RequiresArrangement(t *testing.T) {
	svc, _ := setupRoscaService(t)

	r := createTestRosca(t, svc, 1)
	addTestParticipants(t, svc, 1, r.ID, "A", "B")

	if _, err := svc.ListTurns(context.Background(), 1, r.ID); !errors.Is(err, domain.ErrTurnsNotArranged) {
		t.Errorf("expected turns not arranged, got %v", err)
	}
}

func TestBeginArrangement_UsesExistingTurnsWhenArranged(t *testing.T) {
	svc, _ := setupRoscaService(t)
	ctx := context.Background()

	r := createTestRosca(t, svc, 1)
	participants := addTestParticipants(t, svc, 1, r.ID, "A", "B", "C")

	// Before arranging: participant creation order
	draft, err := svc.BeginArrangement(ctx, 1, r.ID)
	if err != nil {
		t.Fatalf("BeginArrangement failed: %v", err)
	}
	if draft[0].Name != "A" || draft[2].Name != "C" {
		t.Errorf("expected creation order before arranging, got %v", draft)
	}

	reversed := []uint{participants[2].ID, participants[1].ID, participants[0].ID}
	if _, err := svc.SaveTurns(ctx, 1, r.ID, &SaveTurnsInput{ParticipantIDs: reversed}); err != nil {
		t.Fatalf("SaveTurns failed: %v", err)
	}

	// After arranging: saved order
	draft, err = svc.BeginArrangement(ctx, 1, r.ID)
	if err != nil {
		t.Fatalf("BeginArrangement failed: %v", err)
	}
	if draft[0].Name != "C" || draft[2].Name != "A" {
		t.Errorf("expected saved order after arranging, got %v", draft)
	}
}
