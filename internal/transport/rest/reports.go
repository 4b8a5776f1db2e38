package rest

import (
	"log"
	"net/http"

	"github.com/LordKnossus/crm-cobranca/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) exportNotes(w http.ResponseWriter, r *http.Request) {
	req, err := ValidateNotesExportRequest(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	userID, err := auth.GetActorID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	reportID, err := h.reports.StartNotesExport(r.Context(), req.Fields, req.Filter, userID)
	if err != nil {
		log.Printf("[HTTP] startNotesExport error: %v", err)
		ErrorInternal(w, "failed to start report")
		return
	}

	SuccessAccepted(w, "Relatório em processamento", map[string]interface{}{
		"report_id": reportID,
	})
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetActorID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	reports, err := h.reports.GetReports(r.Context(), userID)
	if err != nil {
		log.Printf("[HTTP] listReports error: %v", err)
		ErrorInternal(w, "failed to get reports")
		return
	}

	Success(w, "", reports)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetActorID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	reportIDParam := chi.URLParam(r, "report_id")
	if reportIDParam == "" {
		ErrorBadRequest(w, "report_id is required")
		return
	}
	reportID := "reports:" + reportIDParam

	report, err := h.reports.GetReport(r.Context(), reportID, userID)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	Success(w, "", report)
}
