package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/checkout"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CheckoutService interface {
	View(ctx context.Context, user domain.User) (*checkout.View, error)
	ProceedToCheckout(ctx context.Context, user domain.User) (*checkout.View, error)
	SaveShipping(ctx context.Context, user domain.User, in checkout.ShippingInput) (*checkout.View, error)
	PlaceOrder(ctx context.Context, user domain.User) (*domain.Order, error)
	Pay(ctx context.Context, user domain.User, orderID, intentID string) (*domain.Order, error)
	Deliver(ctx context.Context, user domain.User, orderID string) (*domain.Order, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	timeout  time.Duration
	// payTimeout bounds the pay call, which waits on the payment provider.
	payTimeout time.Duration
}

func NewCheckoutHandler(svc CheckoutService, timeout, payTimeout time.Duration) *CheckoutHandler {
	if payTimeout < timeout {
		payTimeout = timeout
	}
	return &CheckoutHandler{
		checkout:   svc,
		timeout:    timeout,
		payTimeout: payTimeout,
	}
}

type PayRequestDTO struct {
	IntentID string `json:"intentId"`
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	h.viewAction(w, r, http.StatusOK, h.checkout.View)
}

// POST /api/v1/checkout/proceed
func (h *CheckoutHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	h.viewAction(w, r, http.StatusOK, h.checkout.ProceedToCheckout)
}

// PUT /api/v1/checkout/shipping
func (h *CheckoutHandler) SaveShipping(w http.ResponseWriter, r *http.Request) {
	var in checkout.ShippingInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.viewAction(w, r, http.StatusOK, func(ctx context.Context, user domain.User) (*checkout.View, error) {
		return h.checkout.SaveShipping(ctx, user, in)
	})
}

// POST /api/v1/checkout/place-order
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.orderAction(w, r, h.timeout, http.StatusCreated, h.checkout.PlaceOrder)
}

// POST /api/v1/orders/{id}/pay
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	// The body is optional; without an intent a new one is opened.
	var req PayRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	orderID := chi.URLParam(r, "id")
	h.orderAction(w, r, h.payTimeout, http.StatusOK, func(ctx context.Context, user domain.User) (*domain.Order, error) {
		return h.checkout.Pay(ctx, user, orderID, req.IntentID)
	})
}

// PUT /api/v1/orders/{id}/deliver
func (h *CheckoutHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	h.orderAction(w, r, h.timeout, http.StatusOK, func(ctx context.Context, user domain.User) (*domain.Order, error) {
		return h.checkout.Deliver(ctx, user, orderID)
	})
}

func (h *CheckoutHandler) viewAction(w http.ResponseWriter, r *http.Request, status int,
	action func(context.Context, domain.User) (*checkout.View, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	view, err := action(ctx, user)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, status, view)
}

func (h *CheckoutHandler) orderAction(w http.ResponseWriter, r *http.Request, timeout time.Duration, status int,
	action func(context.Context, domain.User) (*domain.Order, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := action(ctx, user)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, status, order)
}
