package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/orders"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	GetForUser(ctx context.Context, user domain.User, id string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Order, error)
	List(ctx context.Context, f orders.Filter) ([]*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrdersHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewOrdersHandler(svc OrderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  svc,
		timeout: timeout,
	}
}

// GET /api/v1/orders/mine
func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	list, err := h.orders.ListForUser(ctx, user.ID)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(list))
}

// GET /api/v1/orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.orders.GetForUser(ctx, user, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// GET /api/v1/orders?user=&orderId=&date=  (admin)
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	list, err := h.orders.List(ctx, orders.Filter{
		UserID:  q.Get("userId"),
		User:    q.Get("user"),
		OrderID: q.Get("orderId"),
		Date:    q.Get("date"),
	})
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(list))
}

// DELETE /api/v1/orders/{id}  (admin)
func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.orders.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nonNil(list []*domain.Order) []*domain.Order {
	if list == nil {
		return make([]*domain.Order, 0)
	}
	return list
}
