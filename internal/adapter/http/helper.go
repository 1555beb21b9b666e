package http

import (
	"errors"
	"net/http"

	domain "cuotas-backend/internal/domain/debt"

	"github.com/labstack/echo/v4"
)

// Map domain errors → HTTP codes
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrQuantityBelowPaid), errors.Is(err, domain.ErrCompletedQuantity):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: string(domain.FieldQuantity), Message: err.Error()}},
		})
	case errors.Is(err, domain.ErrInvalidFields):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func touchedFrom(fields []string) domain.Touched {
	t := domain.Touched{}
	for _, f := range fields {
		t = t.Touch(domain.Field(f))
	}
	return t
}
