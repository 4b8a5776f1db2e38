package finance

import (
	"testing"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
)

func note(status domain.NoteStatus, amount string, due time.Time) domain.Note {
	return domain.Note{
		ID:      "n-" + amount,
		Status:  status,
		Amount:  dec(amount),
		DueDate: due,
	}
}

func TestAggregateDebt_Totals(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	notes := []domain.Note{
		note(domain.NoteStatusPending, "100.00", past),
		note(domain.NoteStatusPending, "250.00", future),
		note(domain.NoteStatusPaid, "999.00", past),
		note(domain.NoteStatusRenegotiated, "50.00", past),
	}

	agg := AggregateDebt(notes, now)

	if !agg.TotalOwed.Equal(dec("350.00")) {
		t.Fatalf("total owed: got %s, want 350.00", agg.TotalOwed)
	}
	if !agg.OverdueTotal.Equal(dec("100.00")) {
		t.Fatalf("overdue total: got %s, want 100.00", agg.OverdueTotal)
	}
	if !agg.CurrentTotal.Equal(dec("250.00")) {
		t.Fatalf("current total: got %s, want 250.00", agg.CurrentTotal)
	}
	if agg.GoodStanding {
		t.Fatalf("expected delinquent standing with overdue balance")
	}
}

func TestAggregateDebt_GoodStanding(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	notes := []domain.Note{
		note(domain.NoteStatusPending, "10.00", now.AddDate(0, 1, 0)),
	}
	agg := AggregateDebt(notes, now)
	if !agg.GoodStanding {
		t.Fatalf("expected good standing with no overdue notes")
	}
}

func TestAggregateDebt_LabelIndependentOfStatus(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	paidLate := note(domain.NoteStatusPaid, "75.00", now.AddDate(0, 0, -5))

	agg := AggregateDebt([]domain.Note{paidLate}, now)

	// A paid note past its due date still labels OVERDUE, but contributes
	// nothing to the owed totals.
	if agg.Notes[0].Label != domain.LabelOverdue {
		t.Fatalf("label: got %s, want OVERDUE", agg.Notes[0].Label)
	}
	if !agg.TotalOwed.IsZero() {
		t.Fatalf("paid note must not enter totals, got %s", agg.TotalOwed)
	}
}

func TestAggregateDebt_DueTodayIsCurrent(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	agg := AggregateDebt([]domain.Note{note(domain.NoteStatusPending, "10.00", now)}, now)
	if agg.Notes[0].Label != domain.LabelCurrent {
		t.Fatalf("a note due exactly now is not overdue yet, got %s", agg.Notes[0].Label)
	}
}

func TestAggregateDebt_Idempotent(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	notes := []domain.Note{
		note(domain.NoteStatusPending, "123.45", now.AddDate(0, 0, -1)),
		note(domain.NoteStatusPending, "678.90", now.AddDate(0, 0, 1)),
	}

	first := AggregateDebt(notes, now)
	second := AggregateDebt(notes, now)

	if !first.TotalOwed.Equal(second.TotalOwed) ||
		!first.OverdueTotal.Equal(second.OverdueTotal) ||
		!first.CurrentTotal.Equal(second.CurrentTotal) ||
		first.GoodStanding != second.GoodStanding {
		t.Fatalf("aggregation is not stable across evaluations: %+v vs %+v", first, second)
	}
}
