package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was settled. PIX carries an optional
// transfer timestamp, card payments may carry a receipt reference.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentPix    PaymentMethod = "PIX"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentDebit  PaymentMethod = "DEBIT"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCredit, PaymentDebit:
		return true
	}
	return false
}

// Payment is an immutable record attached to exactly one note. Payments are
// only ever inserted, never updated or deleted.
type Payment struct {
	ID     string
	NoteID string

	Amount decimal.Decimal
	Method PaymentMethod

	ReceiptRef *string
	PixTime    *time.Time

	CreatedAt time.Time
}
