package walleterrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrWalletNotFound = apperror.New(
		apperror.CodeNotFound,
		"wallet not found",
		http.StatusNotFound,
	)
	ErrWalletFrozen = apperror.New(
		apperror.CodeInvalidState,
		"wallet is frozen",
		http.StatusConflict,
	)
	ErrInsufficientFunds = apperror.New(
		apperror.CodeInsufficientFunds,
		"wallet balance is insufficient",
		http.StatusPaymentRequired,
	)
)
