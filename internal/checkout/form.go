package checkout

import (
	"errors"
	"fmt"
	"strings"

	ledger "github.com/jcmexdev/maison-storefront/internal/ledger/domain"
)

// ValidationError is a shopper-facing problem with one form field.
type ValidationError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ValidateAddress checks every required field and joins all failures.
func ValidateAddress(a ledger.ShippingAddress) error {
	required := []struct {
		field, value string
	}{
		{"fullName", a.FullName},
		{"email", a.Email},
		{"address", a.Address},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"phone", a.Phone},
	}

	var errs []error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, &ValidationError{Field: r.field, Msg: "is required"})
		}
	}
	if email := strings.TrimSpace(a.Email); email != "" && !strings.Contains(email, "@") {
		errs = append(errs, &ValidationError{Field: "email", Msg: "must be a valid email address"})
	}
	return errors.Join(errs...)
}

// FieldErrors flattens the validation errors inside err.
func FieldErrors(err error) []*ValidationError {
	var out []*ValidationError
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if ve, ok := err.(*ValidationError); ok {
			out = append(out, ve)
			return
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
