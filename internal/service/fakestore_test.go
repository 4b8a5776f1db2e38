package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/repository"

	"github.com/shopspring/decimal"
)

// fakeStore keeps everything in maps. WithinTx snapshots the maps and
// restores them when fn fails, which lets the tests assert atomicity.
type fakeStore struct {
	notes     map[string]domain.Note
	payments  map[string][]domain.Payment
	history   map[string][]domain.HistoryEntry
	customers map[int64]domain.Customer

	nextCustomerID int64

	// when set, AppendHistory fails, forcing a late in-transaction error
	appendHistoryErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		notes:          map[string]domain.Note{},
		payments:       map[string][]domain.Payment{},
		history:        map[string][]domain.HistoryEntry{},
		customers:      map[int64]domain.Customer{},
		nextCustomerID: 1,
	}
}

func (s *fakeStore) NoteByID(ctx context.Context, id string) (*domain.Note, error) {
	n, ok := s.notes[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "note", ID: id}
	}
	return &n, nil
}

func (s *fakeStore) NoteByNumber(ctx context.Context, number string) (*domain.Note, error) {
	for _, n := range s.notes {
		if n.Number == number {
			n := n
			return &n, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "note", ID: number}
}

func (s *fakeStore) ListNotes(ctx context.Context, f repository.NotesFilter) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range s.notes {
		if f.Number != nil && n.Number != *f.Number {
			continue
		}
		if f.CustomerID != nil && n.CustomerID != *f.CustomerID {
			continue
		}
		if f.Status != nil && n.Status != *f.Status {
			continue
		}
		if f.DueFrom != nil && n.DueDate.Before(*f.DueFrom) {
			continue
		}
		if f.DueTo != nil && n.DueDate.After(*f.DueTo) {
			continue
		}
		if f.AmountMin != nil && n.Amount.LessThan(*f.AmountMin) {
			continue
		}
		if f.AmountMax != nil && n.Amount.GreaterThan(*f.AmountMax) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *fakeStore) ListNotesByCustomer(ctx context.Context, customerID int64) ([]domain.Note, error) {
	return s.ListNotes(ctx, repository.NotesFilter{CustomerID: &customerID})
}

func (s *fakeStore) InsertNote(ctx context.Context, n *domain.Note) error {
	for _, existing := range s.notes {
		if existing.Number == n.Number {
			return &domain.DuplicateNumberError{Number: n.Number}
		}
	}
	s.notes[n.ID] = *n
	return nil
}

func (s *fakeStore) UpdateNoteStatus(ctx context.Context, id string, status domain.NoteStatus) error {
	n, ok := s.notes[id]
	if !ok {
		return &domain.NotFoundError{Entity: "note", ID: id}
	}
	n.Status = status
	s.notes[id] = n
	return nil
}

func (s *fakeStore) InsertPayment(ctx context.Context, p *domain.Payment) error {
	s.payments[p.NoteID] = append(s.payments[p.NoteID], *p)
	return nil
}

func (s *fakeStore) SumPaymentsByNote(ctx context.Context, noteID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range s.payments[noteID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (s *fakeStore) ListPaymentsByNote(ctx context.Context, noteID string) ([]domain.Payment, error) {
	out := make([]domain.Payment, len(s.payments[noteID]))
	copy(out, s.payments[noteID])
	return out, nil
}

func (s *fakeStore) AppendHistory(ctx context.Context, e *domain.HistoryEntry) error {
	if s.appendHistoryErr != nil {
		return s.appendHistoryErr
	}
	s.history[e.NoteID] = append(s.history[e.NoteID], *e)
	return nil
}

func (s *fakeStore) ListHistoryByNote(ctx context.Context, noteID string) ([]domain.HistoryEntry, error) {
	out := make([]domain.HistoryEntry, len(s.history[noteID]))
	copy(out, s.history[noteID])
	return out, nil
}

func (s *fakeStore) CustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "customer", ID: fmt.Sprintf("%d", id)}
	}
	return &c, nil
}

func (s *fakeStore) ListCustomers(ctx context.Context, f repository.CustomersFilter) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range s.customers {
		if f.Name != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*f.Name)) {
			continue
		}
		if f.Document != nil && c.Document != *f.Document {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) InsertCustomer(ctx context.Context, c *domain.Customer) error {
	c.ID = s.nextCustomerID
	s.nextCustomerID++
	s.customers[c.ID] = *c
	return nil
}

func (s *fakeStore) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	if _, ok := s.customers[c.ID]; !ok {
		return &domain.NotFoundError{Entity: "customer", ID: fmt.Sprintf("%d", c.ID)}
	}
	s.customers[c.ID] = *c
	return nil
}

func (s *fakeStore) DeleteCustomer(ctx context.Context, id int64) error {
	if _, ok := s.customers[id]; !ok {
		return &domain.NotFoundError{Entity: "customer", ID: fmt.Sprintf("%d", id)}
	}
	delete(s.customers, id)
	return nil
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	snapNotes := map[string]domain.Note{}
	for k, v := range s.notes {
		snapNotes[k] = v
	}
	snapPayments := map[string][]domain.Payment{}
	for k, v := range s.payments {
		cp := make([]domain.Payment, len(v))
		copy(cp, v)
		snapPayments[k] = cp
	}
	snapHistory := map[string][]domain.HistoryEntry{}
	for k, v := range s.history {
		cp := make([]domain.HistoryEntry, len(v))
		copy(cp, v)
		snapHistory[k] = cp
	}
	snapCustomers := map[int64]domain.Customer{}
	for k, v := range s.customers {
		snapCustomers[k] = v
	}

	if err := fn(s); err != nil {
		s.notes = snapNotes
		s.payments = snapPayments
		s.history = snapHistory
		s.customers = snapCustomers
		return err
	}
	return nil
}
