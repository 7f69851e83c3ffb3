package catalogerrors

import (
	"net/http"

	"shelfmarket/internal/shared/apperror"
)

var (
	ErrInvalidServiceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid service id",
		http.StatusBadRequest,
	)
	ErrServiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"service not found",
		http.StatusNotFound,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"a service with this name already exists",
		http.StatusConflict,
	)
	ErrInvalidFieldType = apperror.New(
		apperror.CodeInvalidInput,
		"unsupported form field type",
		http.StatusBadRequest,
	)
	ErrDuplicateFieldName = apperror.New(
		apperror.CodeInvalidInput,
		"form field names must be unique",
		http.StatusBadRequest,
	)
)
