package finance

import (
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"

	"github.com/shopspring/decimal"
)

// NoteDebt pairs a note with its date-derived display label. The label is
// computed for every note, whatever its lifecycle status; the caller decides
// how (or whether) to combine the two.
type NoteDebt struct {
	Note  domain.Note
	Label domain.DisplayLabel
}

// CustomerDebt is the aggregate position of one customer at an instant.
type CustomerDebt struct {
	TotalOwed    decimal.Decimal
	CurrentTotal decimal.Decimal
	OverdueTotal decimal.Decimal
	GoodStanding bool

	Notes []NoteDebt
}

// AggregateDebt computes the owed/current/overdue totals over notes. Only
// PENDING notes enter the totals; paid, renegotiated and lost notes carry no
// balance. Pure function of (notes, now) — re-evaluating with the same inputs
// yields the same result.
func AggregateDebt(notes []domain.Note, now time.Time) CustomerDebt {
	agg := CustomerDebt{
		TotalOwed:    decimal.Zero,
		CurrentTotal: decimal.Zero,
		OverdueTotal: decimal.Zero,
		Notes:        make([]NoteDebt, 0, len(notes)),
	}

	for _, n := range notes {
		label := domain.LabelFor(n.DueDate, now)
		agg.Notes = append(agg.Notes, NoteDebt{Note: n, Label: label})

		if n.Status != domain.NoteStatusPending {
			continue
		}
		agg.TotalOwed = agg.TotalOwed.Add(n.Amount)
		if label == domain.LabelOverdue {
			agg.OverdueTotal = agg.OverdueTotal.Add(n.Amount)
		}
	}

	agg.CurrentTotal = agg.TotalOwed.Sub(agg.OverdueTotal)
	agg.GoodStanding = agg.OverdueTotal.IsZero()
	return agg
}
