package preseterrors

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
	ErrPresetNotFound = apperror.New(
		apperror.CodeNotFound,
		"preset not found",
		http.StatusNotFound,
	)
	ErrNoActivePreset = apperror.New(
		apperror.CodeInvalidState,
		"office has no active planning preset",
		http.StatusConflict,
	)
	ErrPresetNameTaken = apperror.New(
		apperror.CodeConflict,
		"a preset with this name already exists for the office",
		http.StatusConflict,
	)
	ErrUnknownPosition = apperror.New(
		apperror.CodeInvalidInput,
		"unknown position in preset configuration",
		http.StatusBadRequest,
	)
	ErrNegativeSlotCount = apperror.New(
		apperror.CodeInvalidInput,
		"slot counts must be zero or positive",
		http.StatusBadRequest,
	)
	ErrInvalidMealWindow = apperror.New(
		apperror.CodeInvalidInput,
		"meal slot window is invalid, expected HH:MM with start before end",
		http.StatusBadRequest,
	)
	ErrNegativeMealCapacity = apperror.New(
		apperror.CodeInvalidInput,
		"meal slot capacities must be zero or positive",
		http.StatusBadRequest,
	)
	ErrInvalidWorkstationCode = apperror.New(
		apperror.CodeInvalidInput,
		"unknown workstation code in distribution",
		http.StatusBadRequest,
	)
	ErrCorruptPresetPayload = apperror.New(
		apperror.CodeInternalError,
		"stored preset payload could not be decoded",
		http.StatusInternalServerError,
	)
)
