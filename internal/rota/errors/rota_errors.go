package rotaerrors

import (
	"net/http"

	"go-roster/internal/shared/apperror"
)

var (
	ErrUnknownPosition = apperror.New(
		apperror.CodeInvalidInput,
		"unknown position",
		http.StatusBadRequest,
	)
	ErrSlotsExceedHeadcount = apperror.New(
		apperror.CodeInvalidState,
		"configured slots exceed the active headcount",
		http.StatusConflict,
	)
	ErrFixedOverflow = apperror.New(
		apperror.CodeInvalidState,
		"fixed occupants exceed the position's slot count, free a fixed slot or raise the slot count",
		http.StatusConflict,
	)
	ErrRoleMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"employee role type does not match the position",
		http.StatusUnprocessableEntity,
	)
	ErrTrainingConflict = apperror.New(
		apperror.CodeInvalidInput,
		"employees in training cannot cover consulate positions",
		http.StatusUnprocessableEntity,
	)
	ErrConsulateAuthRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employee lacks consulate authorization",
		http.StatusUnprocessableEntity,
	)
	ErrPositionRestricted = apperror.New(
		apperror.CodeInvalidInput,
		"employee is on the restriction list for this position",
		http.StatusUnprocessableEntity,
	)
	ErrVacationRestricted = apperror.New(
		apperror.CodeInvalidInput,
		"employee is on vacation during the week and the position does not allow it",
		http.StatusUnprocessableEntity,
	)
	ErrAllOccupantsFixed = apperror.New(
		apperror.CodeConflict,
		"position is full and every occupant is fixed",
		http.StatusConflict,
	)
	ErrPositionUnstaffed = apperror.New(
		apperror.CodeInvalidState,
		"position has no slots in the active configuration",
		http.StatusConflict,
	)
)
