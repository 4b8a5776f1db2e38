package rest

import (
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/finance"
	"github.com/LordKnossus/crm-cobranca/internal/service"
)

// JSON views of the core entities. Monetary fields serialize as fixed
// two-decimal strings so clients never see float artifacts.

type NoteJSON struct {
	ID             string     `json:"id"`
	Number         string     `json:"number"`
	Amount         string     `json:"amount"`
	DueDate        string     `json:"due_date"`
	Status         string     `json:"status"`
	Label          string     `json:"label,omitempty"`
	Items          *string    `json:"items,omitempty"`
	PenaltyRate    string     `json:"penalty_rate"`
	InterestRate   string     `json:"interest_rate"`
	CustomerID     int64      `json:"customer_id"`
	OriginalNoteID *string    `json:"original_note_id,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

func noteJSON(n domain.Note, label domain.DisplayLabel) NoteJSON {
	return NoteJSON{
		ID:             n.ID,
		Number:         n.Number,
		Amount:         n.Amount.StringFixed(2),
		DueDate:        n.DueDate.Format("2006-01-02"),
		Status:         string(n.Status),
		Label:          string(label),
		Items:          n.Items,
		PenaltyRate:    n.PenaltyRate.StringFixed(2),
		InterestRate:   n.InterestRate.StringFixed(2),
		CustomerID:     n.CustomerID,
		OriginalNoteID: n.OriginalNoteID,
		CreatedAt:      n.CreatedAt,
	}
}

func noteViewsJSON(views []service.NoteView) []NoteJSON {
	out := make([]NoteJSON, 0, len(views))
	for _, v := range views {
		out = append(out, noteJSON(v.Note, v.Label))
	}
	return out
}

type AddressJSON struct {
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code"`
	Complement   *string `json:"complement,omitempty"`
}

type CustomerJSON struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Document  string      `json:"document"`
	Address   AddressJSON `json:"address"`
	Remarks   *string     `json:"remarks,omitempty"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}

func customerJSON(c domain.Customer) CustomerJSON {
	return CustomerJSON{
		ID:       c.ID,
		Name:     c.Name,
		Document: c.Document,
		Address: AddressJSON{
			Street:       c.Address.Street,
			Number:       c.Address.Number,
			Neighborhood: c.Address.Neighborhood,
			City:         c.Address.City,
			State:        c.Address.State,
			PostalCode:   c.Address.PostalCode,
			Complement:   c.Address.Complement,
		},
		Remarks:   c.Remarks,
		CreatedAt: c.CreatedAt,
	}
}

type CustomerDebtJSON struct {
	TotalOwed    string     `json:"total_owed"`
	CurrentTotal string     `json:"current_total"`
	OverdueTotal string     `json:"overdue_total"`
	GoodStanding bool       `json:"good_standing"`
	Notes        []NoteJSON `json:"notes"`
}

func customerDebtJSON(d finance.CustomerDebt) CustomerDebtJSON {
	notes := make([]NoteJSON, 0, len(d.Notes))
	for _, nd := range d.Notes {
		notes = append(notes, noteJSON(nd.Note, nd.Label))
	}
	return CustomerDebtJSON{
		TotalOwed:    d.TotalOwed.StringFixed(2),
		CurrentTotal: d.CurrentTotal.StringFixed(2),
		OverdueTotal: d.OverdueTotal.StringFixed(2),
		GoodStanding: d.GoodStanding,
		Notes:        notes,
	}
}

type PaymentJSON struct {
	ID         string     `json:"id"`
	NoteID     string     `json:"note_id"`
	Amount     string     `json:"amount"`
	Method     string     `json:"method"`
	ReceiptRef *string    `json:"receipt_ref,omitempty"`
	PixTime    *time.Time `json:"pix_time,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func paymentJSON(p domain.Payment) PaymentJSON {
	return PaymentJSON{
		ID:         p.ID,
		NoteID:     p.NoteID,
		Amount:     p.Amount.StringFixed(2),
		Method:     string(p.Method),
		ReceiptRef: p.ReceiptRef,
		PixTime:    p.PixTime,
		CreatedAt:  p.CreatedAt,
	}
}

type HistoryEntryJSON struct {
	ID          string    `json:"id"`
	NoteID      string    `json:"note_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	ActorID     int64     `json:"actor_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func historyJSON(entries []domain.HistoryEntry) []HistoryEntryJSON {
	out := make([]HistoryEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryJSON{
			ID:          e.ID,
			NoteID:      e.NoteID,
			Action:      string(e.Action),
			Description: e.Description,
			ActorID:     e.ActorID,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

type LateChargeJSON struct {
	DaysLate   int    `json:"days_late"`
	MonthsLate int    `json:"months_late"`
	Principal  string `json:"principal"`
	Penalty    string `json:"penalty"`
	Interest   string `json:"interest"`
	Total      string `json:"total"`
}

func lateChargeJSON(c finance.LateCharge) LateChargeJSON {
	return LateChargeJSON{
		DaysLate:   c.DaysLate,
		MonthsLate: c.MonthsLate,
		Principal:  c.Principal.StringFixed(2),
		Penalty:    c.Penalty.StringFixed(2),
		Interest:   c.Interest.StringFixed(2),
		Total:      c.Total.StringFixed(2),
	}
}
