package rest

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"

	"github.com/shopspring/decimal"
)

func TestValidateCreateNoteRequest(t *testing.T) {
	body := `{
		"number": "N-100",
		"amount": "1500.50",
		"due_date": "2026-10-15",
		"customer_id": 7,
		"penalty_rate": 2,
		"interest_rate": "1.5",
		"items": "3x saco de cimento"
	}`
	r := httptest.NewRequest("POST", "/notes", strings.NewReader(body))

	in, err := ValidateCreateNoteRequest(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if in.Number != "N-100" {
		t.Errorf("number = %q", in.Number)
	}
	if !in.Amount.Equal(decimal.RequireFromString("1500.50")) {
		t.Errorf("amount = %s", in.Amount)
	}
	if !in.DueDate.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due date = %s", in.DueDate)
	}
	if in.CustomerID != 7 {
		t.Errorf("customer id = %d", in.CustomerID)
	}
	// numeric and string decimal inputs both accepted
	if !in.PenaltyRate.Equal(decimal.RequireFromString("2")) {
		t.Errorf("penalty rate = %s", in.PenaltyRate)
	}
	if !in.InterestRate.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("interest rate = %s", in.InterestRate)
	}
	if in.Items == nil || *in.Items != "3x saco de cimento" {
		t.Errorf("items = %v", in.Items)
	}
}

func TestValidateCreateNoteRequestMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no number", `{"amount":"10.00","due_date":"2026-10-15","customer_id":1}`},
		{"no amount", `{"number":"N-1","due_date":"2026-10-15","customer_id":1}`},
		{"bad due date", `{"number":"N-1","amount":"10.00","due_date":"15/10/2026","customer_id":1}`},
		{"no customer", `{"number":"N-1","amount":"10.00","due_date":"2026-10-15"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/notes", strings.NewReader(tc.body))
			if _, err := ValidateCreateNoteRequest(r); err == nil {
				t.Fatal("validation passed")
			}
		})
	}
}

func TestValidateRecordPaymentRequest(t *testing.T) {
	body := `{"amount": 150.75, "method": "PIX", "pix_time": "2026-01-02T15:04:00Z"}`
	r := httptest.NewRequest("POST", "/notes/n1/payments", strings.NewReader(body))

	in, err := ValidateRecordPaymentRequest(r, "n1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if in.NoteID != "n1" {
		t.Errorf("note id = %q", in.NoteID)
	}
	if !in.Amount.Equal(decimal.RequireFromString("150.75")) {
		t.Errorf("amount = %s", in.Amount)
	}
	if in.Method != domain.PaymentPix {
		t.Errorf("method = %s", in.Method)
	}
	if in.PixTime == nil || !in.PixTime.Equal(time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)) {
		t.Errorf("pix time = %v", in.PixTime)
	}
}

func TestValidateRecordPaymentRequestRejectsBadMethod(t *testing.T) {
	body := `{"amount": "10.00", "method": "CHEQUE"}`
	r := httptest.NewRequest("POST", "/notes/n1/payments", strings.NewReader(body))

	if _, err := ValidateRecordPaymentRequest(r, "n1"); err == nil {
		t.Fatal("unknown method accepted")
	}
}

func TestValidateRenegotiateRequest(t *testing.T) {
	body := `{"total": "300.00", "installments": 3, "first_due_date": "2026-11-01", "remarks": "acordo"}`
	r := httptest.NewRequest("POST", "/notes/n1/renegotiation", strings.NewReader(body))

	in, err := ValidateRenegotiateRequest(r, "n1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	if in.Installments != 3 {
		t.Errorf("installments = %d", in.Installments)
	}
	if !in.Total.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("total = %s", in.Total)
	}
	if in.Remarks == nil || *in.Remarks != "acordo" {
		t.Errorf("remarks = %v", in.Remarks)
	}
}

func TestParseNotesFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/notes?status=PENDING&customer_id=3&due_from=2026-01-01&amount_min=50.00", nil)

	f, err := ParseNotesFilter(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if f.Status == nil || *f.Status != domain.NoteStatusPending {
		t.Errorf("status = %v", f.Status)
	}
	if f.CustomerID == nil || *f.CustomerID != 3 {
		t.Errorf("customer id = %v", f.CustomerID)
	}
	if f.DueFrom == nil || !f.DueFrom.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due from = %v", f.DueFrom)
	}
	if f.AmountMin == nil || !f.AmountMin.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("amount min = %v", f.AmountMin)
	}
	if f.Number != nil || f.DueTo != nil || f.AmountMax != nil {
		t.Error("unset filters are not nil")
	}
}

func TestParseNotesFilterRejectsBadValues(t *testing.T) {
	for _, query := range []string{
		"status=WHATEVER",
		"customer_id=abc",
		"due_from=01-01-2026",
		"amount_min=ten",
	} {
		r := httptest.NewRequest("GET", "/notes?"+query, nil)
		if _, err := ParseNotesFilter(r); err == nil {
			t.Errorf("query %q accepted", query)
		}
	}
}

func TestValidateNotesExportRequestEmptyBody(t *testing.T) {
	// an empty body asks for the default column set over all notes
	r := httptest.NewRequest("POST", "/reports/notes", strings.NewReader(""))

	req, err := ValidateNotesExportRequest(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(req.Fields) != 0 {
		t.Errorf("fields = %v, want empty", req.Fields)
	}
}
