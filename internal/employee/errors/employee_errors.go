package employeeerrors

import (
	"net/http"

	"go-roster/internal/shared/apperror"
)

var (
	ErrInvalidOfficeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid office id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
)
