package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoteStatus is the lifecycle status of a nota. Once a note leaves PENDING it
// is terminal: no payment or renegotiation may touch it again.
type NoteStatus string

const (
	NoteStatusPending      NoteStatus = "PENDING"
	NoteStatusPaid         NoteStatus = "PAID"
	NoteStatusRenegotiated NoteStatus = "RENEGOTIATED"
	NoteStatusLost         NoteStatus = "LOST"
)

func (s NoteStatus) Valid() bool {
	switch s {
	case NoteStatusPending, NoteStatusPaid, NoteStatusRenegotiated, NoteStatusLost:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s NoteStatus) Terminal() bool {
	return s != NoteStatusPending
}

// DisplayLabel is derived purely from the due date against an evaluation
// instant. It is presentation state and deliberately independent from the
// lifecycle status; callers compose the two as they see fit.
type DisplayLabel string

const (
	LabelCurrent DisplayLabel = "CURRENT"
	LabelOverdue DisplayLabel = "OVERDUE"
)

// LabelFor returns OVERDUE when dueDate is strictly before now.
func LabelFor(dueDate, now time.Time) DisplayLabel {
	if dueDate.Before(now) {
		return LabelOverdue
	}
	return LabelCurrent
}

type Note struct {
	ID     string
	Number string

	Amount  decimal.Decimal
	DueDate time.Time
	Status  NoteStatus

	// Free-text description of the sold items, optional.
	Items *string

	// PenaltyRate is a one-time percentage applied once the note is late.
	// InterestRate is a percentage applied per elapsed 30-day bucket.
	PenaltyRate  decimal.Decimal
	InterestRate decimal.Decimal

	CustomerID int64

	// OriginalNoteID points to the note this one was spawned from during a
	// renegotiation. Nil for first-hand notes.
	OriginalNoteID *string

	CreatedAt *time.Time
}
