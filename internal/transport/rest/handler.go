package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/finance"
	"github.com/LordKnossus/crm-cobranca/internal/repository"
	"github.com/LordKnossus/crm-cobranca/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type NotesService interface {
	Create(ctx context.Context, in service.CreateNoteInput, actorID int64) (*domain.Note, error)
	List(ctx context.Context, f repository.NotesFilter) ([]service.NoteView, error)
	Charges(ctx context.Context, noteID string) (*finance.LateCharge, error)
	History(ctx context.Context, noteID string) ([]domain.HistoryEntry, error)
}

type PaymentsService interface {
	Record(ctx context.Context, in service.RecordPaymentInput, actorID int64) (*domain.Payment, error)
	ListByNote(ctx context.Context, noteID string) ([]domain.Payment, error)
}

type RenegotiationsService interface {
	Renegotiate(ctx context.Context, in service.RenegotiateInput, actorID int64) ([]domain.Note, error)
}

type CustomersService interface {
	Create(ctx context.Context, in service.CreateCustomerInput) (*domain.Customer, error)
	Search(ctx context.Context, f repository.CustomersFilter) ([]domain.Customer, error)
	GetWithDebt(ctx context.Context, id int64) (*service.CustomerView, error)
	Update(ctx context.Context, id int64, in service.UpdateCustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type DashboardProvider interface {
	Summary(ctx context.Context) (*service.DashboardSummary, error)
}

type ReportsService interface {
	StartNotesExport(ctx context.Context, selected []string, filter repository.NotesFilter, userID int64) (string, error)
	GetReports(ctx context.Context, userID int64) ([]map[string]interface{}, error)
	GetReport(ctx context.Context, reportID string, userID int64) (map[string]interface{}, error)
}

type Handler struct {
	notes          NotesService
	payments       PaymentsService
	renegotiations RenegotiationsService
	customers      CustomersService
	dashboard      DashboardProvider
	reports        ReportsService
}

func NewHandler(
	notes NotesService,
	payments PaymentsService,
	renegotiations RenegotiationsService,
	customers CustomersService,
	dashboard DashboardProvider,
	reports ReportsService,
) *Handler {
	return &Handler{
		notes:          notes,
		payments:       payments,
		renegotiations: renegotiations,
		customers:      customers,
		dashboard:      dashboard,
		reports:        reports,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	return h.InitRouterWithAuth(nil)
}

func (h *Handler) InitRouterWithAuth(authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.searchCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{customer_id}", h.getCustomer)
		r.Put("/{customer_id}", h.updateCustomer)
		r.Delete("/{customer_id}", h.deleteCustomer)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.listNotes)
		r.Post("/", h.createNote)
		r.Get("/{note_id}/history", h.noteHistory)
		r.Get("/{note_id}/charges", h.noteCharges)
		r.Get("/{note_id}/payments", h.listNotePayments)
		r.Post("/{note_id}/payments", h.recordPayment)
		r.Post("/{note_id}/renegotiation", h.renegotiateNote)
	})

	r.Get("/dashboard", h.getDashboard)

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.listReports)
		r.Get("/{report_id}", h.getReport)
		r.Post("/notes", h.exportNotes)
	})

	return r
}
