package rest

import (
	"net/http"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseNotesFilter(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	views, err := h.notes.List(r.Context(), filter)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	Success(w, "", noteViewsJSON(views))
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	in, err := ValidateCreateNoteRequest(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	actorID, err := auth.GetActorID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	note, err := h.notes.Create(r.Context(), *in, actorID)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	SuccessCreated(w, "", noteJSON(*note, ""))
}

func (h *Handler) noteHistory(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "note_id")
	if noteID == "" {
		ErrorBadRequest(w, "note_id is required")
		return
	}

	entries, err := h.notes.History(r.Context(), noteID)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	Success(w, "", historyJSON(entries))
}

func (h *Handler) noteCharges(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "note_id")
	if noteID == "" {
		ErrorBadRequest(w, "note_id is required")
		return
	}

	charge, err := h.notes.Charges(r.Context(), noteID)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	Success(w, "", lateChargeJSON(*charge))
}

func (h *Handler) listNotePayments(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "note_id")
	if noteID == "" {
		ErrorBadRequest(w, "note_id is required")
		return
	}

	payments, err := h.payments.ListByNote(r.Context(), noteID)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	out := make([]PaymentJSON, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentJSON(p))
	}

	Success(w, "", out)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "note_id")
	if noteID == "" {
		ErrorBadRequest(w, "note_id is required")
		return
	}

	in, err := ValidateRecordPaymentRequest(r, noteID)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	actorID, err := auth.GetActorID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	payment, err := h.payments.Record(r.Context(), *in, actorID)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	SuccessCreated(w, "Pagamento registrado", paymentJSON(*payment))
}

func (h *Handler) renegotiateNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "note_id")
	if noteID == "" {
		ErrorBadRequest(w, "note_id is required")
		return
	}

	in, err := ValidateRenegotiateRequest(r, noteID)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	actorID, err := auth.GetActorID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	successors, err := h.renegotiations.Renegotiate(r.Context(), *in, actorID)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	now := time.Now()
	out := make([]NoteJSON, 0, len(successors))
	for _, n := range successors {
		out = append(out, noteJSON(n, domain.LabelFor(n.DueDate, now)))
	}

	SuccessCreated(w, "Nota renegociada", out)
}
