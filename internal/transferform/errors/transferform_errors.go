package transferformerrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrInvalidFormID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid transfer form id",
		http.StatusBadRequest,
	)
	ErrFormNotFound = apperror.New(
		apperror.CodeNotFound,
		"transfer form not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid transfer form status transition",
		http.StatusBadRequest,
	)
	ErrOrderNotEligible = apperror.New(
		apperror.CodeInvalidState,
		"order is not eligible for a transfer form",
		http.StatusConflict,
	)
	ErrDuplicateForm = apperror.New(
		apperror.CodeConflict,
		"a transfer form already exists for this order",
		http.StatusConflict,
	)
	ErrNotFormOwner = apperror.New(
		apperror.CodeForbidden,
		"transfer form belongs to another customer",
		http.StatusForbidden,
	)
)
