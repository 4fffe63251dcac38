package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartService interface {
	Load(ctx context.Context, userID string) (*domain.CheckoutSession, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CheckoutSession, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CheckoutSession, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.CheckoutSession, error)
	Clear(ctx context.Context, userID string) (*domain.CheckoutSession, error)
}

type CartHandler struct {
	cart    CartService
	timeout time.Duration
}

func NewCartHandler(cart CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items       []domain.CartItem   `json:"items"`
	ItemCount   int                 `json:"itemCount"`
	TotalAmount domain.Money        `json:"totalAmount"`
	Step        domain.CheckoutStep `json:"step"`
}

func newCartResponse(s *domain.CheckoutSession) CartResponseDTO {
	items := s.Cart.Snapshot()
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return CartResponseDTO{
		Items:       items,
		ItemCount:   count,
		TotalAmount: s.Cart.TotalAmount(),
		Step:        s.Step,
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	session, err := h.cart.Load(ctx, user.ID)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(session))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}

	session, err := h.cart.AddItem(ctx, user.ID, req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newCartResponse(session))
}

// PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.cart.UpdateQuantity(ctx, user.ID, chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(session))
}

// DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	session, err := h.cart.RemoveItem(ctx, user.ID, chi.URLParam(r, "productId"))
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(session))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	session, err := h.cart.Clear(ctx, user.ID)
	if err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(session))
}
