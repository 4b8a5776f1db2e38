package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type NotesFilter struct {
	Number     *string
	CustomerID *int64
	Status     *domain.NoteStatus
	DueFrom    *time.Time
	DueTo      *time.Time
	AmountMin  *decimal.Decimal
	AmountMax  *decimal.Decimal
}

type NoteRepository struct {
	db Querier
}

func NewNoteRepository(db Querier) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `
	n.id,
	n.number,
	n.amount,
	n.due_date,
	n.status,
	n.items,
	n.penalty_rate,
	n.interest_rate,
	n.customer_id,
	n.original_note_id,
	n.created_at
`

func scanNote(row interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note
	if err := row.Scan(
		&n.ID,
		&n.Number,
		&n.Amount,
		&n.DueDate,
		&n.Status,
		&n.Items,
		&n.PenaltyRate,
		&n.InterestRate,
		&n.CustomerID,
		&n.OriginalNoteID,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) ByID(ctx context.Context, id string) (*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes n WHERE n.id = $1`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "note", ID: id}
		}
		return nil, storageErr("select note by id", err)
	}
	return n, nil
}

func (r *NoteRepository) ByNumber(ctx context.Context, number string) (*domain.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes n WHERE n.number = $1`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "note", ID: number}
		}
		return nil, storageErr("select note by number", err)
	}
	return n, nil
}

// List returns notes matching f ordered by ascending due date.
func (r *NoteRepository) List(ctx context.Context, f NotesFilter) ([]domain.Note, error) {
	base := `SELECT ` + noteColumns + ` FROM notes n`

	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.Number != nil && *f.Number != "" {
		where = append(where, fmt.Sprintf("n.number = $%d", i))
		args = append(args, *f.Number)
		i++
	}
	if f.CustomerID != nil {
		where = append(where, fmt.Sprintf("n.customer_id = $%d", i))
		args = append(args, *f.CustomerID)
		i++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("n.status = $%d", i))
		args = append(args, string(*f.Status))
		i++
	}
	if f.DueFrom != nil {
		where = append(where, fmt.Sprintf("n.due_date >= $%d", i))
		args = append(args, *f.DueFrom)
		i++
	}
	if f.DueTo != nil {
		where = append(where, fmt.Sprintf("n.due_date <= $%d", i))
		args = append(args, *f.DueTo)
		i++
	}
	if f.AmountMin != nil {
		where = append(where, fmt.Sprintf("n.amount >= $%d", i))
		args = append(args, *f.AmountMin)
		i++
	}
	if f.AmountMax != nil {
		where = append(where, fmt.Sprintf("n.amount <= $%d", i))
		args = append(args, *f.AmountMax)
		i++
	}

	query := base + " WHERE " + strings.Join(where, " AND ") + " ORDER BY n.due_date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list notes", err)
	}
	defer rows.Close()

	var result []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, storageErr("scan note", err)
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list notes", err)
	}
	return result, nil
}

func (r *NoteRepository) Insert(ctx context.Context, n *domain.Note) error {
	query := `
		INSERT INTO notes (id, number, amount, due_date, status, items, penalty_rate, interest_rate, customer_id, original_note_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.Number,
		n.Amount,
		n.DueDate,
		string(n.Status),
		n.Items,
		n.PenaltyRate,
		n.InterestRate,
		n.CustomerID,
		n.OriginalNoteID,
	)
	if err != nil {
		// 23505 = unique_violation, the number column carries a UNIQUE constraint
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &domain.DuplicateNumberError{Number: n.Number}
		}
		return storageErr("insert note", err)
	}
	return nil
}

func (r *NoteRepository) UpdateStatus(ctx context.Context, id string, status domain.NoteStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notes SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return storageErr("update note status", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &domain.NotFoundError{Entity: "note", ID: id}
	}
	return nil
}
