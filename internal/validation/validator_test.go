package validation

import (
	"testing"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shippingForm struct {
	domain.ShippingAddress
	PaymentMethod string `json:"paymentMethod" validate:"required,paymentmethod"`
}

func validForm() shippingForm {
	return shippingForm{
		ShippingAddress: domain.ShippingAddress{
			Address:    "12 Gem Street",
			City:       "Ratnapura",
			PostalCode: "70000",
			Country:    "Sri Lanka",
		},
		PaymentMethod: "PayPal",
	}
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(New(), validForm()))
}

func TestStruct_EmptyAddress(t *testing.T) {
	form := validForm()
	form.Address = ""

	err := Struct(New(), form)

	ve, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"address": "address required"}, ve.Fields)
}

func TestStruct_PostalCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"70000", true},
		{"12345-6789", true},
		{"1234", false},
		{"123456", false},
		{"12345-678", false},
		{"ABCDE", false},
		{"12345 6789", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			form := validForm()
			form.PostalCode = tt.code

			err := Struct(New(), form)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			ve, ok := domain.IsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, "postalCode invalid format", ve.Fields["postalCode"])
		})
	}
}

func TestStruct_AllFieldsMissing(t *testing.T) {
	err := Struct(New(), shippingForm{})

	ve, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"address":       "address required",
		"city":          "city required",
		"postalCode":    "postalCode required",
		"country":       "country required",
		"paymentMethod": "paymentMethod required",
	}, ve.Fields)
}

func TestStruct_UnknownPaymentMethod(t *testing.T) {
	form := validForm()
	form.PaymentMethod = "Cash"

	ve, ok := domain.IsValidationError(Struct(New(), form))
	require.True(t, ok)
	assert.Equal(t, "paymentMethod unsupported", ve.Fields["paymentMethod"])
}
