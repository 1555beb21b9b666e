package http

import (
	"errors"
	"reflect"
	"strings"

	domain "cuotas-backend/internal/domain/debt"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

// NewValidator checks request envelopes (path params, touched lists). Draft
// field rules live in the domain validator.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		for _, tag := range []string{"json", "param"} {
			if name, _, _ := strings.Cut(sf.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return sf.Name
	})
	_ = v.RegisterValidation("draftfield", func(fl validator.FieldLevel) bool {
		f := domain.Field(fl.Field().String())
		for _, known := range domain.DraftFields {
			if f == known {
				return true
			}
		}
		return false
	})
	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "draftfield":
			out = append(out, FieldError{Field: field, Message: "must be one of title, description, startDate, endDate, quantity, price"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}

// DraftFieldErrors lists the given messages in form order.
func DraftFieldErrors(msgs map[domain.Field]string) []FieldError {
	out := make([]FieldError, 0, len(msgs))
	for _, f := range domain.DraftFields {
		if msg, ok := msgs[f]; ok {
			out = append(out, FieldError{Field: string(f), Message: msg})
		}
	}
	return out
}
