package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/repository"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedCustomer(t *testing.T, store *fakeStore, name string) int64 {
	t.Helper()
	c := &domain.Customer{Name: name, Document: "12345678900"}
	if err := store.InsertCustomer(context.Background(), c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c.ID
}

func TestNoteCreate(t *testing.T) {
	store := newFakeStore()
	svc := NewNoteService(store)
	customerID := seedCustomer(t, store, "Maria Silva")

	note, err := svc.Create(context.Background(), CreateNoteInput{
		Number:     "N-100",
		Amount:     dec(t, "1500.00"),
		DueDate:    date(2026, time.October, 15),
		CustomerID: customerID,
	}, 1)
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	if note.Status != domain.NoteStatusPending {
		t.Errorf("status = %s, want PENDING", note.Status)
	}

	entries, err := store.ListHistoryByNote(context.Background(), note.ID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].Action != domain.HistoryCreation {
		t.Errorf("history action = %s, want CREATION", entries[0].Action)
	}
	if entries[0].Description != "Nota criada" {
		t.Errorf("history description = %q", entries[0].Description)
	}
}

func TestNoteCreateRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	svc := NewNoteService(store)
	customerID := seedCustomer(t, store, "Maria Silva")

	_, err := svc.Create(context.Background(), CreateNoteInput{
		Number:     "N-101",
		Amount:     dec(t, "0"),
		DueDate:    date(2026, time.October, 15),
		CustomerID: customerID,
	}, 1)

	var invalidAmount *domain.InvalidAmountError
	if !errors.As(err, &invalidAmount) {
		t.Fatalf("err = %v, want InvalidAmountError", err)
	}
}

func TestNoteCreateRejectsUnknownCustomer(t *testing.T) {
	store := newFakeStore()
	svc := NewNoteService(store)

	_, err := svc.Create(context.Background(), CreateNoteInput{
		Number:     "N-102",
		Amount:     dec(t, "100.00"),
		DueDate:    date(2026, time.October, 15),
		CustomerID: 999,
	}, 1)

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestNoteCreateRejectsDuplicateNumber(t *testing.T) {
	store := newFakeStore()
	svc := NewNoteService(store)
	customerID := seedCustomer(t, store, "Maria Silva")

	in := CreateNoteInput{
		Number:     "N-103",
		Amount:     dec(t, "100.00"),
		DueDate:    date(2026, time.October, 15),
		CustomerID: customerID,
	}
	if _, err := svc.Create(context.Background(), in, 1); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), in, 1)
	var duplicate *domain.DuplicateNumberError
	if !errors.As(err, &duplicate) {
		t.Fatalf("err = %v, want DuplicateNumberError", err)
	}

	if len(store.notes) != 1 {
		t.Errorf("notes stored = %d, want 1", len(store.notes))
	}
}

func TestNoteListLabels(t *testing.T) {
	store := newFakeStore()
	svc := NewNoteService(store)
	customerID := seedCustomer(t, store, "Maria Silva")

	now := date(2026, time.June, 15)
	svc.now = func() time.Time { return now }

	for _, tc := range []struct {
		number string
		due    time.Time
	}{
		{"N-1", date(2026, time.June, 1)},
		{"N-2", date(2026, time.July, 1)},
	} {
		if _, err := svc.Create(context.Background(), CreateNoteInput{
			Number:     tc.number,
			Amount:     dec(t, "100.00"),
			DueDate:    tc.due,
			CustomerID: customerID,
		}, 1); err != nil {
			t.Fatalf("create %s: %v", tc.number, err)
		}
	}

	views, err := svc.List(context.Background(), repository.NotesFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}

	// ordered by due date: the overdue one first
	if views[0].Label != domain.LabelOverdue {
		t.Errorf("first label = %s, want OVERDUE", views[0].Label)
	}
	if views[1].Label != domain.LabelCurrent {
		t.Errorf("second label = %s, want CURRENT", views[1].Label)
	}
}

func TestNoteChargesAdvisory(t *testing.T) {
	store := newFakeStore()
	svc := NewNoteService(store)
	customerID := seedCustomer(t, store, "Maria Silva")

	note, err := svc.Create(context.Background(), CreateNoteInput{
		Number:       "N-200",
		Amount:       dec(t, "1000.00"),
		DueDate:      date(2026, time.May, 1),
		CustomerID:   customerID,
		PenaltyRate:  dec(t, "2"),
		InterestRate: dec(t, "1"),
	}, 1)
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	// 40 days late: penalty 2% flat, interest 1% x ceil(40/30)=2 buckets
	svc.now = func() time.Time { return date(2026, time.June, 10) }

	charge, err := svc.Charges(context.Background(), note.ID)
	if err != nil {
		t.Fatalf("charges: %v", err)
	}

	if charge.DaysLate != 40 {
		t.Errorf("days late = %d, want 40", charge.DaysLate)
	}
	if !charge.Penalty.Equal(dec(t, "20.00")) {
		t.Errorf("penalty = %s, want 20.00", charge.Penalty)
	}
	if !charge.Interest.Equal(dec(t, "20.00")) {
		t.Errorf("interest = %s, want 20.00", charge.Interest)
	}
	if !charge.Total.Equal(dec(t, "1040.00")) {
		t.Errorf("total = %s, want 1040.00", charge.Total)
	}

	// advisory only, the stored note is untouched
	stored, _ := store.NoteByID(context.Background(), note.ID)
	if !stored.Amount.Equal(dec(t, "1000.00")) {
		t.Errorf("stored amount changed to %s", stored.Amount)
	}
}
