package presentation

import (
	"net/http"

	"github.com/RaikyD/store-admin/internal/application"
	"github.com/RaikyD/store-admin/internal/presentation/helpers"
	"github.com/go-chi/chi/v5"
)

type CustomersHandler struct {
	svc *application.CustomersService
}

func NewCustomersHandler(svc *application.CustomersService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

func (h *CustomersHandler) Register(r chi.Router) {
	r.Get("/customers", h.ListCustomers)
}

func (h *CustomersHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err, "failed to list customers")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, list)
}
