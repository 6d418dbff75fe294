package presentation

import (
	"net/http"

	"github.com/RaikyD/store-admin/internal/application"
	"github.com/RaikyD/store-admin/internal/presentation/helpers"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	svc *application.OrdersService
}

func NewOrdersHandler(svc *application.OrdersService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{id}", h.GetOrder)
	r.Patch("/orders/{id}", h.UpdateOrder)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.List(r.Context(), q.Get("status"), q.Get("q"))
	if err != nil {
		writeError(w, err, "failed to list orders")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.URLUUID(r, "id")
	if !ok {
		helpers.HttpError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ord, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "failed to get order")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ord)
}

// UpdateOrder accepts {"status": "...", "notes": "..."}; either field may be omitted.
func (h *OrdersHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.URLUUID(r, "id")
	if !ok {
		helpers.HttpError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req application.OrderUpdate
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	ord, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err, "failed to update order")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ord)
}
