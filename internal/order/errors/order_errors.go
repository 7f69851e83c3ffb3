package ordererrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrInvalidOrderID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid order id",
		http.StatusBadRequest,
	)
	ErrInvalidCustomerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid customer id",
		http.StatusBadRequest,
	)
	ErrOrderNotFound = apperror.New(
		apperror.CodeNotFound,
		"order not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid order status transition",
		http.StatusBadRequest,
	)
	ErrCompanyNotAvailable = apperror.New(
		apperror.CodeInvalidState,
		"company is not available for purchase",
		http.StatusConflict,
	)
	ErrAlreadyRefunded = apperror.New(
		apperror.CodeInvalidState,
		"order is already refunded",
		http.StatusConflict,
	)
	ErrRefundNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"order cannot be refunded before payment",
		http.StatusConflict,
	)
)
