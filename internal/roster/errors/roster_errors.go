package rostererrors

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
	ErrInvalidWeekStart = apperror.New(
		apperror.CodeInvalidInput,
		"week_start must be a Monday in YYYY-MM-DD form",
		http.StatusBadRequest,
	)
	ErrRosterNotFound = apperror.New(
		apperror.CodeNotFound,
		"no roster generated for this week",
		http.StatusNotFound,
	)
	ErrRosterExists = apperror.New(
		apperror.CodeConflict,
		"a roster already exists for this week, pass regenerate to replace it",
		http.StatusConflict,
	)
	ErrEmployeeNotInRoster = apperror.New(
		apperror.CodeInvalidInput,
		"employee is not part of the office roster",
		http.StatusUnprocessableEntity,
	)
	ErrCorruptSnapshot = apperror.New(
		apperror.CodeInternalError,
		"stored roster snapshot could not be decoded",
		http.StatusInternalServerError,
	)
)
