package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/logger"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/orders"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// errorMapping pairs a sentinel error with its HTTP status and code.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{domain.ErrItemNotInCart, http.StatusNotFound, "item_not_in_cart"},
	{domain.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{domain.ErrEmptyCart, http.StatusConflict, "empty_cart"},
	{domain.ErrIllegalTransition, http.StatusConflict, "illegal_transition"},
	{domain.ErrAlreadyPaid, http.StatusConflict, "already_paid"},
	{domain.ErrNotYetPaid, http.StatusConflict, "not_yet_paid"},
	{domain.ErrAlreadyDelivered, http.StatusConflict, "already_delivered"},
	{domain.ErrPaymentDeclined, http.StatusPaymentRequired, "payment_declined"},
	{domain.ErrPaymentUnavailable, http.StatusServiceUnavailable, "payment_unavailable"},
	{domain.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{domain.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{domain.ErrCategoryNotFound, http.StatusNotFound, "category_not_found"},
	{domain.ErrCategoryExists, http.StatusConflict, "category_exists"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{orders.ErrDuplicateOrder, http.StatusConflict, "duplicate_order"},
}

// handleServiceError converts a service error into an HTTP response. Unknown
// errors are logged and reported without detail.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if ve, ok := domain.IsValidationError(err); ok {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: ve.Fields,
		})
		return
	}

	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			respondError(w, m.status, m.code, err.Error())
			return
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		logger.Printf(ctx, "request timed out: %v", err)
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
		return
	}

	logger.Errorf(ctx, "internal error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
