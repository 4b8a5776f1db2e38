package service

import (
	"context"
	"errors"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/finance"
	"github.com/LordKnossus/crm-cobranca/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoteView is a note plus its date-derived display label, which is what the
// listing endpoints hand back to callers.
type NoteView struct {
	Note  domain.Note
	Label domain.DisplayLabel
}

type CreateNoteInput struct {
	Number       string
	Amount       decimal.Decimal
	DueDate      time.Time
	CustomerID   int64
	PenaltyRate  decimal.Decimal
	InterestRate decimal.Decimal
	Items        *string
}

type NoteService struct {
	store repository.Store
	now   func() time.Time
}

func NewNoteService(store repository.Store) *NoteService {
	return &NoteService{store: store, now: time.Now}
}

// Create registers a new note in PENDING status and records a CREATION audit
// entry in the same transaction. The human-assigned number must be unused.
func (s *NoteService) Create(ctx context.Context, in CreateNoteInput, actorID int64) (*domain.Note, error) {
	if !in.Amount.IsPositive() {
		return nil, &domain.InvalidAmountError{Field: "amount", Amount: in.Amount}
	}

	if _, err := s.store.CustomerByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	if _, err := s.store.NoteByNumber(ctx, in.Number); err == nil {
		return nil, &domain.DuplicateNumberError{Number: in.Number}
	} else if !isNotFound(err) {
		return nil, err
	}

	note := &domain.Note{
		ID:           uuid.NewString(),
		Number:       in.Number,
		Amount:       in.Amount,
		DueDate:      in.DueDate,
		Status:       domain.NoteStatusPending,
		Items:        in.Items,
		PenaltyRate:  in.PenaltyRate,
		InterestRate: in.InterestRate,
		CustomerID:   in.CustomerID,
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.InsertNote(ctx, note); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, &domain.HistoryEntry{
			ID:          uuid.NewString(),
			NoteID:      note.ID,
			Action:      domain.HistoryCreation,
			Description: "Nota criada",
			ActorID:     actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// List returns notes matching the filter, ordered by ascending due date, each
// labeled against the current instant.
func (s *NoteService) List(ctx context.Context, f repository.NotesFilter) ([]NoteView, error) {
	notes, err := s.store.ListNotes(ctx, f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, NoteView{Note: n, Label: domain.LabelFor(n.DueDate, now)})
	}
	return views, nil
}

// Charges computes the advisory penalty/interest breakdown for a note so the
// caller can pre-populate payment or renegotiation amounts. Nothing is
// persisted.
func (s *NoteService) Charges(ctx context.Context, noteID string) (*finance.LateCharge, error) {
	note, err := s.store.NoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	c := finance.ComputeLateCharge(note.Amount, note.PenaltyRate, note.InterestRate, note.DueDate, s.now())
	return &c, nil
}

func (s *NoteService) History(ctx context.Context, noteID string) ([]domain.HistoryEntry, error) {
	if _, err := s.store.NoteByID(ctx, noteID); err != nil {
		return nil, err
	}
	return s.store.ListHistoryByNote(ctx, noteID)
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}
