package feeerrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrInvalidFeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid fee id",
		http.StatusBadRequest,
	)
	ErrFeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"fee not found",
		http.StatusNotFound,
	)
)
