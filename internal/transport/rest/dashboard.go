package rest

import (
	"net/http"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	Success(w, "", summary)
}
