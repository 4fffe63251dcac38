package http

import (
	"net/http"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
)

// PaymentConfig is what the client needs to render the payment button.
type PaymentConfig struct {
	Provider       string                 `json:"provider"`
	Currency       string                 `json:"currency"`
	PaymentMethods []domain.PaymentMethod `json:"paymentMethods"`
}

// GET /api/v1/config/payment
func paymentConfigHandler(cfg PaymentConfig) http.HandlerFunc {
	if cfg.PaymentMethods == nil {
		cfg.PaymentMethods = domain.PaymentMethods()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, cfg)
	}
}
