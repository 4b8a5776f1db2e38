package repository

import (
	"context"
	"database/sql"

	"github.com/LordKnossus/crm-cobranca/internal/domain"

	"github.com/shopspring/decimal"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same repository code runs inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the persistence boundary the workflow services depend on. SQLStore
// implements it over postgres; tests substitute an in-memory fake.
type Store interface {
	NoteByID(ctx context.Context, id string) (*domain.Note, error)
	NoteByNumber(ctx context.Context, number string) (*domain.Note, error)
	ListNotes(ctx context.Context, f NotesFilter) ([]domain.Note, error)
	ListNotesByCustomer(ctx context.Context, customerID int64) ([]domain.Note, error)
	InsertNote(ctx context.Context, n *domain.Note) error
	UpdateNoteStatus(ctx context.Context, id string, status domain.NoteStatus) error

	InsertPayment(ctx context.Context, p *domain.Payment) error
	SumPaymentsByNote(ctx context.Context, noteID string) (decimal.Decimal, error)
	ListPaymentsByNote(ctx context.Context, noteID string) ([]domain.Payment, error)

	AppendHistory(ctx context.Context, e *domain.HistoryEntry) error
	ListHistoryByNote(ctx context.Context, noteID string) ([]domain.HistoryEntry, error)

	CustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context, f CustomersFilter) ([]domain.Customer, error)
	InsertCustomer(ctx context.Context, c *domain.Customer) error
	UpdateCustomer(ctx context.Context, c *domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	// WithinTx runs fn against a Store bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise,
	// so the multi-write workflows are all-or-nothing.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// SQLStore composes the per-entity repositories over a shared Querier.
type SQLStore struct {
	db   *sql.DB
	inTx bool

	notes     *NoteRepository
	payments  *PaymentRepository
	history   *HistoryRepository
	customers *CustomerRepository
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return newSQLStore(db, db, false)
}

func newSQLStore(db *sql.DB, q Querier, inTx bool) *SQLStore {
	return &SQLStore{
		db:        db,
		inTx:      inTx,
		notes:     NewNoteRepository(q),
		payments:  NewPaymentRepository(q),
		history:   NewHistoryRepository(q),
		customers: NewCustomerRepository(q),
	}
}

func (s *SQLStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StorageError{Op: "begin tx", Err: err}
	}

	txStore := newSQLStore(s.db, tx, true)
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "commit tx", Err: err}
	}
	return nil
}

func (s *SQLStore) NoteByID(ctx context.Context, id string) (*domain.Note, error) {
	return s.notes.ByID(ctx, id)
}

func (s *SQLStore) NoteByNumber(ctx context.Context, number string) (*domain.Note, error) {
	return s.notes.ByNumber(ctx, number)
}

func (s *SQLStore) ListNotes(ctx context.Context, f NotesFilter) ([]domain.Note, error) {
	return s.notes.List(ctx, f)
}

func (s *SQLStore) ListNotesByCustomer(ctx context.Context, customerID int64) ([]domain.Note, error) {
	return s.notes.List(ctx, NotesFilter{CustomerID: &customerID})
}

func (s *SQLStore) InsertNote(ctx context.Context, n *domain.Note) error {
	return s.notes.Insert(ctx, n)
}

func (s *SQLStore) UpdateNoteStatus(ctx context.Context, id string, status domain.NoteStatus) error {
	return s.notes.UpdateStatus(ctx, id, status)
}

func (s *SQLStore) InsertPayment(ctx context.Context, p *domain.Payment) error {
	return s.payments.Insert(ctx, p)
}

func (s *SQLStore) SumPaymentsByNote(ctx context.Context, noteID string) (decimal.Decimal, error) {
	return s.payments.SumByNote(ctx, noteID)
}

func (s *SQLStore) ListPaymentsByNote(ctx context.Context, noteID string) ([]domain.Payment, error) {
	return s.payments.ListByNote(ctx, noteID)
}

func (s *SQLStore) AppendHistory(ctx context.Context, e *domain.HistoryEntry) error {
	return s.history.Append(ctx, e)
}

func (s *SQLStore) ListHistoryByNote(ctx context.Context, noteID string) ([]domain.HistoryEntry, error) {
	return s.history.ListByNote(ctx, noteID)
}

func (s *SQLStore) CustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.ByID(ctx, id)
}

func (s *SQLStore) ListCustomers(ctx context.Context, f CustomersFilter) ([]domain.Customer, error) {
	return s.customers.List(ctx, f)
}

func (s *SQLStore) InsertCustomer(ctx context.Context, c *domain.Customer) error {
	return s.customers.Insert(ctx, c)
}

func (s *SQLStore) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	return s.customers.Update(ctx, c)
}

func (s *SQLStore) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customers.Delete(ctx, id)
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}
