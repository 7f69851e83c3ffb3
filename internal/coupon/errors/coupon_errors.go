package couponerrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrCouponNotFound = apperror.New(
		apperror.CodeNotFound,
		"coupon code not found",
		http.StatusNotFound,
	)
	ErrCouponInactive = apperror.New(
		apperror.CodeInvalidState,
		"coupon is not active",
		http.StatusConflict,
	)
	ErrCouponExpired = apperror.New(
		apperror.CodeInvalidState,
		"coupon has expired",
		http.StatusConflict,
	)
	ErrCouponExhausted = apperror.New(
		apperror.CodeInvalidState,
		"coupon usage limit reached",
		http.StatusConflict,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"a coupon with this code already exists",
		http.StatusConflict,
	)
	ErrInvalidCouponID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid coupon id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
