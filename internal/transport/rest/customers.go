package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func customerIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "customer_id")
	return strconv.ParseInt(raw, 10, 64)
}

func (h *Handler) searchCustomers(w http.ResponseWriter, r *http.Request) {
	filter := ParseCustomersFilter(r)

	customers, err := h.customers.Search(r.Context(), filter)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	out := make([]CustomerJSON, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerJSON(c))
	}

	Success(w, "", out)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	in, err := ValidateCreateCustomerRequest(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	customer, err := h.customers.Create(r.Context(), *in)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	SuccessCreated(w, "", customerJSON(*customer))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		ErrorBadRequest(w, "customer_id must be an integer")
		return
	}

	view, err := h.customers.GetWithDebt(r.Context(), id)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	Success(w, "", map[string]interface{}{
		"customer": customerJSON(view.Customer),
		"debt":     customerDebtJSON(view.Debt),
	})
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		ErrorBadRequest(w, "customer_id must be an integer")
		return
	}

	in, err := ValidateUpdateCustomerRequest(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	customer, err := h.customers.Update(r.Context(), id, *in)
	if err != nil {
		ErrorFromDomain(w, err)
		return
	}

	Success(w, "", customerJSON(*customer))
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		ErrorBadRequest(w, "customer_id must be an integer")
		return
	}

	if err := h.customers.Delete(r.Context(), id); err != nil {
		ErrorFromDomain(w, err)
		return
	}

	Success(w, "Cliente removido", nil)
}
