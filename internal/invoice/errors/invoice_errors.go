package invoiceerrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrInvalidInvoiceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid invoice id",
		http.StatusBadRequest,
	)
	ErrInvoiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"invoice not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid invoice status transition",
		http.StatusBadRequest,
	)
	ErrEmptyLineItems = apperror.New(
		apperror.CodeInvalidInput,
		"invoice must have at least one line item",
		http.StatusBadRequest,
	)
	ErrDuplicateOrderInvoice = apperror.New(
		apperror.CodeConflict,
		"an invoice already exists for this order",
		http.StatusConflict,
	)
	ErrMalformedOrderEvent = apperror.New(
		apperror.CodeInvalidInput,
		"order lifecycle event carries malformed ids",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
