package companyerrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidOwnerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid owner id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrDuplicateNumber = apperror.New(
		apperror.CodeConflict,
		"a company with this registration number already exists",
		http.StatusConflict,
	)
	ErrAlreadyRefunded = apperror.New(
		apperror.CodeInvalidState,
		"company is already refunded",
		http.StatusConflict,
	)
	ErrAlreadyCancelled = apperror.New(
		apperror.CodeInvalidState,
		"company is already cancelled",
		http.StatusConflict,
	)
	ErrNotOwned = apperror.New(
		apperror.CodeInvalidState,
		"company has no owner to transfer from",
		http.StatusConflict,
	)
	ErrNotSellable = apperror.New(
		apperror.CodeInvalidState,
		"company is not available for sale",
		http.StatusConflict,
	)
	ErrReactivateNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"only expired or cancelled companies can be reactivated",
		http.StatusConflict,
	)
)
