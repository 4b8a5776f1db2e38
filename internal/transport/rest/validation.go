package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/repository"
	"github.com/LordKnossus/crm-cobranca/internal/service"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Request bodies decode into raw interface{} fields first so that clients
// sending numbers where strings are expected (and vice versa) still get a
// precise per-field message instead of a generic JSON error.

func toStringPtr(v interface{}) (*string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return &t, nil
	case float64:
		s := strconv.FormatInt(int64(t), 10)
		return &s, nil
	default:
		return nil, &ValidationError{Message: "invalid type for string field"}
	}
}

func toInt64Ptr(v interface{}) (*int64, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		i := int64(t)
		return &i, nil
	case string:
		if t == "" {
			return nil, nil
		}
		i, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, err
		}
		return &i, nil
	default:
		return nil, &ValidationError{Message: "invalid type for int field"}
	}
}

func toDatePtr(v interface{}) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		parsed, err := time.Parse("2006-01-02", t)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	default:
		return nil, &ValidationError{Message: "invalid type for date field"}
	}
}

func toDecimalPtr(v interface{}) (*decimal.Decimal, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		d := decimal.NewFromFloat(t)
		return &d, nil
	case string:
		if t == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(t)
		if err != nil {
			return nil, err
		}
		return &d, nil
	default:
		return nil, &ValidationError{Message: "invalid type for decimal field"}
	}
}

type rawCreateNoteRequest struct {
	Number       string      `json:"number"`
	Amount       interface{} `json:"amount"`
	DueDate      interface{} `json:"due_date"`
	CustomerID   interface{} `json:"customer_id"`
	PenaltyRate  interface{} `json:"penalty_rate"`
	InterestRate interface{} `json:"interest_rate"`
	Items        *string     `json:"items"`
}

func ValidateCreateNoteRequest(r *http.Request) (*service.CreateNoteInput, error) {
	var raw rawCreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, &ValidationError{Message: "invalid JSON"}
	}

	if raw.Number == "" {
		return nil, &ValidationError{Field: "number", Message: "number is required"}
	}

	amount, err := toDecimalPtr(raw.Amount)
	if err != nil || amount == nil {
		return nil, &ValidationError{Field: "amount", Message: "amount is required and must be a decimal"}
	}

	dueDate, err := toDatePtr(raw.DueDate)
	if err != nil || dueDate == nil {
		return nil, &ValidationError{Field: "due_date", Message: "due_date is required and must be YYYY-MM-DD"}
	}

	customerID, err := toInt64Ptr(raw.CustomerID)
	if err != nil || customerID == nil {
		return nil, &ValidationError{Field: "customer_id", Message: "customer_id is required and must be an integer"}
	}

	penaltyRate, err := toDecimalPtr(raw.PenaltyRate)
	if err != nil {
		return nil, &ValidationError{Field: "penalty_rate", Message: "penalty_rate must be a decimal or empty"}
	}
	if penaltyRate == nil {
		zero := decimal.Zero
		penaltyRate = &zero
	}

	interestRate, err := toDecimalPtr(raw.InterestRate)
	if err != nil {
		return nil, &ValidationError{Field: "interest_rate", Message: "interest_rate must be a decimal or empty"}
	}
	if interestRate == nil {
		zero := decimal.Zero
		interestRate = &zero
	}

	return &service.CreateNoteInput{
		Number:       raw.Number,
		Amount:       *amount,
		DueDate:      *dueDate,
		CustomerID:   *customerID,
		PenaltyRate:  *penaltyRate,
		InterestRate: *interestRate,
		Items:        raw.Items,
	}, nil
}

type rawRecordPaymentRequest struct {
	Amount     interface{} `json:"amount"`
	Method     string      `json:"method"`
	ReceiptRef *string     `json:"receipt_ref"`
	PixTime    *string     `json:"pix_time"`
}

func ValidateRecordPaymentRequest(r *http.Request, noteID string) (*service.RecordPaymentInput, error) {
	var raw rawRecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, &ValidationError{Message: "invalid JSON"}
	}

	amount, err := toDecimalPtr(raw.Amount)
	if err != nil || amount == nil {
		return nil, &ValidationError{Field: "amount", Message: "amount is required and must be a decimal"}
	}

	method := domain.PaymentMethod(raw.Method)
	if !method.Valid() {
		return nil, &ValidationError{Field: "method", Message: "method must be one of CASH, PIX, CREDIT, DEBIT"}
	}

	var pixTime *time.Time
	if raw.PixTime != nil && *raw.PixTime != "" {
		parsed, err := time.Parse(time.RFC3339, *raw.PixTime)
		if err != nil {
			return nil, &ValidationError{Field: "pix_time", Message: "pix_time must be RFC3339 or empty"}
		}
		pixTime = &parsed
	}

	return &service.RecordPaymentInput{
		NoteID:     noteID,
		Amount:     *amount,
		Method:     method,
		ReceiptRef: raw.ReceiptRef,
		PixTime:    pixTime,
	}, nil
}

type rawRenegotiateRequest struct {
	Total        interface{} `json:"total"`
	Installments interface{} `json:"installments"`
	FirstDueDate interface{} `json:"first_due_date"`
	PenaltyRate  interface{} `json:"penalty_rate"`
	InterestRate interface{} `json:"interest_rate"`
	Remarks      *string     `json:"remarks"`
}

func ValidateRenegotiateRequest(r *http.Request, noteID string) (*service.RenegotiateInput, error) {
	var raw rawRenegotiateRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, &ValidationError{Message: "invalid JSON"}
	}

	total, err := toDecimalPtr(raw.Total)
	if err != nil || total == nil {
		return nil, &ValidationError{Field: "total", Message: "total is required and must be a decimal"}
	}

	installments, err := toInt64Ptr(raw.Installments)
	if err != nil || installments == nil {
		return nil, &ValidationError{Field: "installments", Message: "installments is required and must be an integer"}
	}

	firstDueDate, err := toDatePtr(raw.FirstDueDate)
	if err != nil || firstDueDate == nil {
		return nil, &ValidationError{Field: "first_due_date", Message: "first_due_date is required and must be YYYY-MM-DD"}
	}

	penaltyRate, err := toDecimalPtr(raw.PenaltyRate)
	if err != nil {
		return nil, &ValidationError{Field: "penalty_rate", Message: "penalty_rate must be a decimal or empty"}
	}
	if penaltyRate == nil {
		zero := decimal.Zero
		penaltyRate = &zero
	}

	interestRate, err := toDecimalPtr(raw.InterestRate)
	if err != nil {
		return nil, &ValidationError{Field: "interest_rate", Message: "interest_rate must be a decimal or empty"}
	}
	if interestRate == nil {
		zero := decimal.Zero
		interestRate = &zero
	}

	return &service.RenegotiateInput{
		NoteID:       noteID,
		Total:        *total,
		Installments: int(*installments),
		FirstDueDate: *firstDueDate,
		PenaltyRate:  *penaltyRate,
		InterestRate: *interestRate,
		Remarks:      raw.Remarks,
	}, nil
}

type rawCustomerRequest struct {
	Name         string  `json:"name"`
	Document     string  `json:"document"`
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code"`
	Complement   *string `json:"complement"`
	Remarks      *string `json:"remarks"`
}

func (raw *rawCustomerRequest) address() domain.Address {
	return domain.Address{
		Street:       raw.Street,
		Number:       raw.Number,
		Neighborhood: raw.Neighborhood,
		City:         raw.City,
		State:        raw.State,
		PostalCode:   raw.PostalCode,
		Complement:   raw.Complement,
	}
}

func ValidateCreateCustomerRequest(r *http.Request) (*service.CreateCustomerInput, error) {
	var raw rawCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, &ValidationError{Message: "invalid JSON"}
	}

	if raw.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if raw.Document == "" {
		return nil, &ValidationError{Field: "document", Message: "document is required"}
	}

	return &service.CreateCustomerInput{
		Name:     raw.Name,
		Document: raw.Document,
		Address:  raw.address(),
		Remarks:  raw.Remarks,
	}, nil
}

func ValidateUpdateCustomerRequest(r *http.Request) (*service.UpdateCustomerInput, error) {
	var raw rawCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, &ValidationError{Message: "invalid JSON"}
	}

	if raw.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	return &service.UpdateCustomerInput{
		Name:    raw.Name,
		Address: raw.address(),
		Remarks: raw.Remarks,
	}, nil
}

// ParseNotesFilter reads the listing filters from query parameters. Every
// filter is optional; a malformed value is an error rather than a silent
// full-table listing.
func ParseNotesFilter(r *http.Request) (repository.NotesFilter, error) {
	var f repository.NotesFilter
	q := r.URL.Query()

	if v := q.Get("number"); v != "" {
		f.Number = &v
	}
	if v := q.Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, &ValidationError{Field: "customer_id", Message: "customer_id must be an integer"}
		}
		f.CustomerID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.NoteStatus(v)
		if !status.Valid() {
			return f, &ValidationError{Field: "status", Message: "unknown status"}
		}
		f.Status = &status
	}
	if v := q.Get("due_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, &ValidationError{Field: "due_from", Message: "due_from must be YYYY-MM-DD"}
		}
		f.DueFrom = &t
	}
	if v := q.Get("due_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, &ValidationError{Field: "due_to", Message: "due_to must be YYYY-MM-DD"}
		}
		f.DueTo = &t
	}
	if v := q.Get("amount_min"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, &ValidationError{Field: "amount_min", Message: "amount_min must be a decimal"}
		}
		f.AmountMin = &d
	}
	if v := q.Get("amount_max"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, &ValidationError{Field: "amount_max", Message: "amount_max must be a decimal"}
		}
		f.AmountMax = &d
	}

	return f, nil
}

func ParseCustomersFilter(r *http.Request) repository.CustomersFilter {
	var f repository.CustomersFilter
	q := r.URL.Query()

	if v := q.Get("name"); v != "" {
		f.Name = &v
	}
	if v := q.Get("document"); v != "" {
		f.Document = &v
	}
	if v := q.Get("address"); v != "" {
		f.Address = &v
	}

	return f
}

type rawNotesExportRequest struct {
	Fields     []string    `json:"fields"`
	Number     interface{} `json:"number"`
	CustomerID interface{} `json:"customer_id"`
	Status     interface{} `json:"status"`
	DueFrom    interface{} `json:"due_from"`
	DueTo      interface{} `json:"due_to"`
	AmountMin  interface{} `json:"amount_min"`
	AmountMax  interface{} `json:"amount_max"`
}

type NotesExportRequest struct {
	Fields []string
	Filter repository.NotesFilter
}

func ValidateNotesExportRequest(r *http.Request) (*NotesExportRequest, error) {
	var raw rawNotesExportRequest

	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && err != io.EOF {
		return nil, &ValidationError{Message: "invalid JSON"}
	}

	var f repository.NotesFilter

	number, err := toStringPtr(raw.Number)
	if err != nil {
		return nil, &ValidationError{Field: "number", Message: "number must be string or empty"}
	}
	f.Number = number

	customerID, err := toInt64Ptr(raw.CustomerID)
	if err != nil {
		return nil, &ValidationError{Field: "customer_id", Message: "customer_id must be integer or empty"}
	}
	f.CustomerID = customerID

	statusStr, err := toStringPtr(raw.Status)
	if err != nil {
		return nil, &ValidationError{Field: "status", Message: "status must be string or empty"}
	}
	if statusStr != nil {
		status := domain.NoteStatus(*statusStr)
		if !status.Valid() {
			return nil, &ValidationError{Field: "status", Message: "unknown status"}
		}
		f.Status = &status
	}

	dueFrom, err := toDatePtr(raw.DueFrom)
	if err != nil {
		return nil, &ValidationError{Field: "due_from", Message: "due_from must be YYYY-MM-DD or empty"}
	}
	f.DueFrom = dueFrom

	dueTo, err := toDatePtr(raw.DueTo)
	if err != nil {
		return nil, &ValidationError{Field: "due_to", Message: "due_to must be YYYY-MM-DD or empty"}
	}
	f.DueTo = dueTo

	amountMin, err := toDecimalPtr(raw.AmountMin)
	if err != nil {
		return nil, &ValidationError{Field: "amount_min", Message: "amount_min must be a decimal or empty"}
	}
	f.AmountMin = amountMin

	amountMax, err := toDecimalPtr(raw.AmountMax)
	if err != nil {
		return nil, &ValidationError{Field: "amount_max", Message: "amount_max must be a decimal or empty"}
	}
	f.AmountMax = amountMax

	return &NotesExportRequest{
		Fields: raw.Fields,
		Filter: f,
	}, nil
}
