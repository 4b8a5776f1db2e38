package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecordPaymentInput struct {
	NoteID     string
	Amount     decimal.Decimal
	Method     domain.PaymentMethod
	ReceiptRef *string
	PixTime    *time.Time
}

type PaymentService struct {
	store repository.Store
	now   func() time.Time
}

func NewPaymentService(store repository.Store) *PaymentService {
	return &PaymentService{store: store, now: time.Now}
}

// Record applies a payment against a PENDING note. The payment insert, the
// status flip to PAID when the cumulative paid amount covers the note, and
// the audit entry commit as one transaction.
//
// Overpayment is accepted: the workflow records whatever final amount it is
// given and only checks >= to flip the status.
func (s *PaymentService) Record(ctx context.Context, in RecordPaymentInput, actorID int64) (*domain.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, &domain.InvalidAmountError{Field: "amount", Amount: in.Amount}
	}
	if !in.Method.Valid() {
		return nil, &domain.InvalidInputError{Field: "payment method", Value: string(in.Method)}
	}

	payment := &domain.Payment{
		ID:         uuid.NewString(),
		NoteID:     in.NoteID,
		Amount:     in.Amount,
		Method:     in.Method,
		ReceiptRef: in.ReceiptRef,
		PixTime:    in.PixTime,
		CreatedAt:  s.now(),
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		note, err := tx.NoteByID(ctx, in.NoteID)
		if err != nil {
			return err
		}
		if note.Status != domain.NoteStatusPending {
			return &domain.InvalidStateError{Entity: "note", ID: note.ID, State: string(note.Status)}
		}

		if err := tx.InsertPayment(ctx, payment); err != nil {
			return err
		}

		paid, err := tx.SumPaymentsByNote(ctx, note.ID)
		if err != nil {
			return err
		}
		if paid.GreaterThanOrEqual(note.Amount) {
			if err := tx.UpdateNoteStatus(ctx, note.ID, domain.NoteStatusPaid); err != nil {
				return err
			}
		}

		return tx.AppendHistory(ctx, &domain.HistoryEntry{
			ID:          uuid.NewString(),
			NoteID:      note.ID,
			Action:      domain.HistoryPayment,
			Description: paymentDescription(payment),
			ActorID:     actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ListByNote returns the payments recorded against a note in the order they
// were received.
func (s *PaymentService) ListByNote(ctx context.Context, noteID string) ([]domain.Payment, error) {
	if _, err := s.store.NoteByID(ctx, noteID); err != nil {
		return nil, err
	}
	return s.store.ListPaymentsByNote(ctx, noteID)
}

func paymentDescription(p *domain.Payment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recebimento de R$ %s via %s", p.Amount.StringFixed(2), p.Method)
	if p.PixTime != nil {
		fmt.Fprintf(&b, " (PIX realizado em %s)", p.PixTime.Format("02/01/2006 15:04"))
	}
	if p.ReceiptRef != nil && *p.ReceiptRef != "" {
		fmt.Fprintf(&b, " - Comprovante: %s", *p.ReceiptRef)
	}
	return b.String()
}
