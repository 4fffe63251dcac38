package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestHandleServiceError_Mapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: CART -> SHIPPING", domain.ErrIllegalTransition), http.StatusConflict, "illegal_transition"},
		{domain.ErrEmptyCart, http.StatusConflict, "empty_cart"},
		{domain.ErrAlreadyPaid, http.StatusConflict, "already_paid"},
		{domain.ErrNotYetPaid, http.StatusConflict, "not_yet_paid"},
		{domain.ErrAlreadyDelivered, http.StatusConflict, "already_delivered"},
		{fmt.Errorf("%w: DECLINED: card expired", domain.ErrPaymentDeclined), http.StatusPaymentRequired, "payment_declined"},
		{domain.ErrPaymentUnavailable, http.StatusServiceUnavailable, "payment_unavailable"},
		{domain.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrCategoryExists, http.StatusConflict, "category_exists"},
		{orders.ErrDuplicateOrder, http.StatusConflict, "duplicate_order"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleServiceError(context.Background(), rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.err.Error(), resp.Error)
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	rr := httptest.NewRecorder()
	handleServiceError(context.Background(), rr, domain.NewValidationError(map[string]string{
		"address": "address required",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"validation failed","code":"validation_failed","fields":{"address":"address required"}}`, rr.Body.String())
}

func TestHandleServiceError_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	handleServiceError(context.Background(), rr, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
}
