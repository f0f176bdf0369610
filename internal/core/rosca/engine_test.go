package rosca

import (
	"math"
	"testing"
	"time"

	"masarify/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func testParticipants() []models.Participant {
	return []models.Participant{
		{ID: 1, RoscaID: 1, Name: "A"},
		{ID: 2, RoscaID: 1, Name: "B"},
		{ID: 3, RoscaID: 1, Name: "C"},
	}
}

func TestComputeParticipantStats_NoPayments(t *testing.T) {
	stats := ComputeParticipantStats(testParticipants(), nil, models.RoscaSettings{PaymentDay: 1}, time.Now())

	if len(stats) != 3 {
		t.Fatalf("expected 3 stats, got %d", len(stats))
	}
	for _, s := range stats {
		if !s.TotalPayments.IsZero() {
			t.Errorf("%s: expected zero total, got %s", s.Name, s.TotalPayments)
		}
		if !s.PeriodPayments.IsZero() {
			t.Errorf("%s: expected zero period total, got %s", s.Name, s.PeriodPayments)
		}
		if s.IsLate {
			t.Errorf("%s: expected not late with no monthly amount set", s.Name)
		}
	}

	shares := ContributionShares(stats)
	for _, sh := range shares {
		if sh.Fraction != 0 {
			t.Errorf("%s: expected zero share, got %f", sh.Name, sh.Fraction)
		}
	}
}

func TestComputeParticipantStats_EmptyInput(t *testing.T) {
	stats := ComputeParticipantStats(nil, nil, models.RoscaSettings{}, time.Now())
	if len(stats) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(stats))
	}
}

func TestComputeParticipantStats_Lateness(t *testing.T) {
	// Reference: the 10th, payment day the 5th, 100 required per month.
	ref := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	settings := models.RoscaSettings{
		Frequency:     models.FrequencyMonthly,
		MonthlyAmount: nullDec("100"),
		PaymentDay:    5,
	}

	payments := []models.Payment{
		{ID: 1, ParticipantID: 1, Amount: dec("50"), PaymentDate: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)},
		{ID: 2, ParticipantID: 2, Amount: dec("150"), PaymentDate: time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)},
	}

	stats := ComputeParticipantStats(testParticipants(), payments, settings, ref)

	if !stats[0].IsLate {
		t.Error("A paid 50 of 100 past the payment day, expected late")
	}
	if stats[1].IsLate {
		t.Error("B paid 150 of 100, expected not late")
	}
	if !stats[2].IsLate {
		t.Error("C paid nothing, expected late")
	}
}

func TestComputeParticipantStats_NotLateBeforePaymentDay(t *testing.T) {
	ref := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	settings := models.RoscaSettings{
		MonthlyAmount: nullDec("100"),
		PaymentDay:    5,
	}

	stats := ComputeParticipantStats(testParticipants(), nil, settings, ref)
	for _, s := range stats {
		if s.IsLate {
			t.Errorf("%s: day equals payment day, expected not late", s.Name)
		}
	}
}

func TestComputeParticipantStats_NeverLateWithoutMonthlyAmount(t *testing.T) {
	refs := []time.Time{
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 28, 0, 0, 0, 0, time.UTC),
	}
	settings := models.RoscaSettings{PaymentDay: 1}

	for _, ref := range refs {
		stats := ComputeParticipantStats(testParticipants(), nil, settings, ref)
		for _, s := range stats {
			if s.IsLate {
				t.Errorf("ref %s: %s late with monthly amount unset", ref, s.Name)
			}
		}
	}
}

func TestComputeParticipantStats_PeriodWithinTotal(t *testing.T) {
	ref := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	payments := []models.Payment{
		{ID: 1, ParticipantID: 1, Amount: dec("25.50"), PaymentDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, ParticipantID: 1, Amount: dec("10"), PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, ParticipantID: 2, Amount: dec("40"), PaymentDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}

	stats := ComputeParticipantStats(testParticipants(), payments, models.RoscaSettings{}, ref)

	totalPeriod := decimal.Zero
	totalAll := decimal.Zero
	for _, s := range stats {
		totalPeriod = totalPeriod.Add(s.PeriodPayments)
		totalAll = totalAll.Add(s.TotalPayments)
	}

	if totalPeriod.GreaterThan(totalAll) {
		t.Errorf("period sum %s exceeds total sum %s", totalPeriod, totalAll)
	}
	if want := dec("35.50"); !stats[0].TotalPayments.Equal(want) {
		t.Errorf("A total: expected %s, got %s", want, stats[0].TotalPayments)
	}
	if want := dec("25.50"); !stats[0].PeriodPayments.Equal(want) {
		t.Errorf("A period: expected %s, got %s", want, stats[0].PeriodPayments)
	}
	// B paid in March of a different year: counts toward total only
	if !stats[1].PeriodPayments.IsZero() {
		t.Errorf("B period: expected 0, got %s", stats[1].PeriodPayments)
	}
}

func TestContributionShares_SumToOne(t *testing.T) {
	stats := []ParticipantStat{
		{ParticipantID: 1, Name: "A", TotalPayments: dec("50")},
		{ParticipantID: 2, Name: "B", TotalPayments: dec("30")},
		{ParticipantID: 3, Name: "C", TotalPayments: dec("20")},
	}

	shares := ContributionShares(stats)

	sum := 0.0
	for _, sh := range shares {
		sum += sh.Fraction
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("expected shares to sum to 1, got %f", sum)
	}
	if math.Abs(shares[0].Fraction-0.5) > 1e-9 {
		t.Errorf("A: expected 0.5, got %f", shares[0].Fraction)
	}
}

func TestContributionShares_AllZeroWhenNoPayments(t *testing.T) {
	stats := []ParticipantStat{
		{ParticipantID: 1, Name: "A", TotalPayments: decimal.Zero},
		{ParticipantID: 2, Name: "B", TotalPayments: decimal.Zero},
	}

	for _, sh := range ContributionShares(stats) {
		if sh.Fraction != 0 {
			t.Errorf("%s: expected zero share, got %f", sh.Name, sh.Fraction)
		}
	}
}

func TestDraftMove_DragToFront(t *testing.T) {
	draft := NewDraftFromParticipants(testParticipants()) // [A B C]

	moved, err := draft.Move(2, 0)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	got := []string{moved[0].Name, moved[1].Name, moved[2].Name}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}

	// Original draft untouched
	if draft[0].Name != "A" || draft[2].Name != "C" {
		t.Error("Move modified the receiver")
	}
}

func TestDraftMove_ShiftsIntermediateEntries(t *testing.T) {
	participants := []models.Participant{
		{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"},
		{ID: 4, Name: "D"}, {ID: 5, Name: "E"},
	}
	draft := NewDraftFromParticipants(participants)

	moved, err := draft.Move(1, 3) // B to index 3
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	want := []string{"A", "C", "D", "B", "E"}
	for i, w := range want {
		if moved[i].Name != w {
			t.Fatalf("expected %v, got %v at %d", want, moved[i].Name, i)
		}
	}
	if len(moved) != len(draft) {
		t.Errorf("length changed: %d -> %d", len(draft), len(moved))
	}
	if !moved.IsPermutationOf(participants) {
		t.Error("moved draft is not a permutation of the participants")
	}
}

func TestDraftMove_OutOfRange(t *testing.T) {
	draft := NewDraftFromParticipants(testParticipants())

	for _, pair := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if _, err := draft.Move(pair[0], pair[1]); err == nil {
			t.Errorf("Move(%d, %d): expected error", pair[0], pair[1])
		}
	}
}

func TestNewDraftFromTurns(t *testing.T) {
	participants := testParticipants()
	turns := []models.Turn{
		{ID: 10, ParticipantID: 3, Order: 0},
		{ID: 11, ParticipantID: 1, Order: 1},
		{ID: 12, ParticipantID: 2, Order: 2},
	}

	draft := NewDraftFromTurns(turns, participants)

	want := []string{"C", "A", "B"}
	for i, w := range want {
		if draft[i].Name != w {
			t.Fatalf("expected %v at %d, got %v", w, i, draft[i].Name)
		}
	}
}

func TestDraftIsPermutationOf(t *testing.T) {
	participants := testParticipants()

	cases := []struct {
		name  string
		draft Draft
		want  bool
	}{
		{"exact permutation", Draft{{ParticipantID: 2}, {ParticipantID: 3}, {ParticipantID: 1}}, true},
		{"missing one", Draft{{ParticipantID: 1}, {ParticipantID: 2}}, false},
		{"duplicate", Draft{{ParticipantID: 1}, {ParticipantID: 1}, {ParticipantID: 2}}, false},
		{"stranger", Draft{{ParticipantID: 1}, {ParticipantID: 2}, {ParticipantID: 99}}, false},
	}

	for _, tc := range cases {
		if got := tc.draft.IsPermutationOf(participants); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
