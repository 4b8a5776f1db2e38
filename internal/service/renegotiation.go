package service

import (
	"context"
	"fmt"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/finance"
	"github.com/LordKnossus/crm-cobranca/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RenegotiateInput struct {
	NoteID       string
	Total        decimal.Decimal
	Installments int
	FirstDueDate time.Time
	PenaltyRate  decimal.Decimal
	InterestRate decimal.Decimal
	Remarks      *string
}

type RenegotiationService struct {
	store repository.Store
}

func NewRenegotiationService(store repository.Store) *RenegotiationService {
	return &RenegotiationService{store: store}
}

// Renegotiate closes a PENDING note and replaces its balance with n successor
// notes. Installments round up to the cent with the last one absorbing the
// remainder, due dates advance by calendar months from the first. The status
// flip, the successor inserts and the audit entry are one atomic unit.
func (s *RenegotiationService) Renegotiate(ctx context.Context, in RenegotiateInput, actorID int64) ([]domain.Note, error) {
	if !in.Total.IsPositive() {
		return nil, &domain.InvalidAmountError{Field: "total", Amount: in.Total}
	}
	if in.Installments < 1 {
		return nil, &domain.InvalidAmountError{Field: "installments", Amount: decimal.NewFromInt(int64(in.Installments))}
	}

	amounts, err := finance.SplitInstallments(in.Total, in.Installments)
	if err != nil {
		return nil, &domain.InvalidAmountError{Field: "total", Amount: in.Total}
	}
	dueDates := finance.InstallmentDueDates(in.FirstDueDate, in.Installments)

	var successors []domain.Note

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		original, err := tx.NoteByID(ctx, in.NoteID)
		if err != nil {
			return err
		}
		if original.Status != domain.NoteStatusPending {
			return &domain.InvalidStateError{Entity: "note", ID: original.ID, State: string(original.Status)}
		}

		if err := tx.UpdateNoteStatus(ctx, original.ID, domain.NoteStatusRenegotiated); err != nil {
			return err
		}

		successors = make([]domain.Note, 0, in.Installments)
		for i := 0; i < in.Installments; i++ {
			n := domain.Note{
				ID:             uuid.NewString(),
				Number:         fmt.Sprintf("%s-R%d", original.Number, i+1),
				Amount:         amounts[i],
				DueDate:        dueDates[i],
				Status:         domain.NoteStatusPending,
				PenaltyRate:    in.PenaltyRate,
				InterestRate:   in.InterestRate,
				CustomerID:     original.CustomerID,
				OriginalNoteID: &original.ID,
			}
			if err := tx.InsertNote(ctx, &n); err != nil {
				return err
			}
			successors = append(successors, n)
		}

		desc := fmt.Sprintf("Nota renegociada em %dx de R$ %s.", in.Installments, amounts[0].StringFixed(2))
		if in.Remarks != nil && *in.Remarks != "" {
			desc += fmt.Sprintf(" Observações: %s", *in.Remarks)
		}

		return tx.AppendHistory(ctx, &domain.HistoryEntry{
			ID:          uuid.NewString(),
			NoteID:      original.ID,
			Action:      domain.HistoryRenegotiation,
			Description: desc,
			ActorID:     actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return successors, nil
}
