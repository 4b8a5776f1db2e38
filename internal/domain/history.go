package domain

import "time"

// HistoryAction tags the kind of event recorded for a note.
type HistoryAction string

const (
	HistoryCreation      HistoryAction = "CREATION"
	HistoryPayment       HistoryAction = "PAYMENT"
	HistoryRenegotiation HistoryAction = "RENEGOTIATION"
)

// HistoryEntry is an append-only audit record tied to a note. Entries are
// write-once: nothing in the core mutates or deletes them.
type HistoryEntry struct {
	ID          string
	NoteID      string
	Action      HistoryAction
	Description string
	ActorID     int64
	CreatedAt   time.Time
}
