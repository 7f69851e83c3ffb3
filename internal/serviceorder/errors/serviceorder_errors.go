package serviceordererrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrInvalidOrderID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid service order id",
		http.StatusBadRequest,
	)
	ErrOrderNotFound = apperror.New(
		apperror.CodeNotFound,
		"service order not found",
		http.StatusNotFound,
	)
	ErrServiceNotOrderable = apperror.New(
		apperror.CodeInvalidState,
		"service is not available for ordering",
		http.StatusConflict,
	)
	ErrInvalidPaymentMethod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment method",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid service order status transition",
		http.StatusBadRequest,
	)
)

// InvalidApplicationData wraps a per-field validation failure so the handler
// can return the offending field to the caller.
func InvalidApplicationData(detail string) error {
	return apperror.New(
		apperror.CodeInvalidInput,
		"invalid application data: "+detail,
		http.StatusBadRequest,
	)
}
