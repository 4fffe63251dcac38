package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	validatorv10 "github.com/go-playground/validator/v10"
)

var postalCodePattern = regexp.MustCompile(`^[0-9]{5}(?:-[0-9]{4})?$`)

// New returns a validator that reports fields by their json names and knows
// the storefront specific tags.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("postalcode", func(fl validatorv10.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("paymentmethod", func(fl validatorv10.FieldLevel) bool {
		return domain.PaymentMethod(fl.Field().String()).Valid()
	})

	return v
}

// Struct validates s and converts failures into a *domain.ValidationError.
func Struct(v *validatorv10.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate: %w", err)
	}
	return domain.NewValidationError(FieldErrors(ve))
}

// FieldErrors maps each failing field to a short human readable message.
func FieldErrors(ve validatorv10.ValidationErrors) map[string]string {
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, fe)
	}
	return out
}

func message(field string, fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " required"
	case "postalcode":
		return field + " invalid format"
	case "paymentmethod", "oneof":
		return field + " unsupported"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " invalid"
	}
}
