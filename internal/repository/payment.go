package repository

import (
	"context"

	"github.com/LordKnossus/crm-cobranca/internal/domain"

	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	db Querier
}

func NewPaymentRepository(db Querier) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (id, note_id, amount, method, receipt_ref, pix_time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.NoteID,
		p.Amount,
		string(p.Method),
		p.ReceiptRef,
		p.PixTime,
	)
	if err != nil {
		return storageErr("insert payment", err)
	}
	return nil
}

// SumByNote returns the cumulative amount paid against a note, zero when the
// note has no payments yet.
func (r *PaymentRepository) SumByNote(ctx context.Context, noteID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE note_id = $1`

	if err := r.db.QueryRowContext(ctx, query, noteID).Scan(&sum); err != nil {
		return decimal.Zero, storageErr("sum payments", err)
	}
	return sum, nil
}

func (r *PaymentRepository) ListByNote(ctx context.Context, noteID string) ([]domain.Payment, error) {
	query := `
		SELECT id, note_id, amount, method, receipt_ref, pix_time, created_at
		FROM payments
		WHERE note_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, noteID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID,
			&p.NoteID,
			&p.Amount,
			&p.Method,
			&p.ReceiptRef,
			&p.PixTime,
			&p.CreatedAt,
		); err != nil {
			return nil, storageErr("scan payment", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list payments", err)
	}
	return out, nil
}
