package debt

import "errors"

var (
	ErrNotFound          = errors.New("debt not found")
	ErrInvalidFields     = errors.New("invalid debt fields")
	ErrQuantityBelowPaid = errors.New("quantity cannot be lower than installments already paid")
	ErrCompletedQuantity = errors.New("quantity of a completed debt cannot change")
)
