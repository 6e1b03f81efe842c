package rota

import (
	rotaerrors "go-roster/internal/rota/errors"
)

// CanCover reports whether the employee may hold the position under the
// primary rules: role type must match, and consulate positions require a
// non-training, consulate-authorized employee.
func CanCover(e Employee, p Position, attrs Attributes) bool {
	ok, fallback := coverCheck(e, p, attrs)
	return ok && !fallback
}

// CanCoverWithFallback is the caller-invoked relaxation for consulate
// positions: when the primary pool is empty the allocator may accept a
// role-matching, non-training employee without consulate authorization.
// The second return value is true when the employee only qualifies under
// the relaxed rule, so the caller can warn the operator.
func CanCoverWithFallback(e Employee, p Position, attrs Attributes) (ok, fallback bool) {
	return coverCheck(e, p, attrs)
}

func coverCheck(e Employee, p Position, attrs Attributes) (ok, fallback bool) {
	if IsSupervisorTitle(e.RawPositionTitle) != p.Supervisor() {
		return false, false
	}
	if !p.Consulate() {
		return true, false
	}
	if attrs.Training.Has(e.ID) {
		return false, false
	}
	if attrs.ConsulateAuthorized.Has(e.ID) {
		return true, false
	}
	return true, true
}

// ExplainCover checks the manual fix path and returns a descriptive
// rejection instead of a bare boolean. onVacation must be true when the
// employee has any approved vacation day inside the planned week.
// allowFallback applies the same relaxed consulate rule as automatic
// allocation; with it off, missing authorization rejects outright.
func ExplainCover(e Employee, p Position, attrs Attributes, onVacation, allowFallback bool) error {
	if !p.Known() {
		return rotaerrors.ErrUnknownPosition
	}
	if IsSupervisorTitle(e.RawPositionTitle) != p.Supervisor() {
		return rotaerrors.ErrRoleMismatch
	}
	if attrs.Restricted(e.ID, p) {
		return rotaerrors.ErrPositionRestricted
	}
	if p.Consulate() {
		if attrs.Training.Has(e.ID) {
			return rotaerrors.ErrTrainingConflict
		}
		if !attrs.ConsulateAuthorized.Has(e.ID) && !allowFallback {
			return rotaerrors.ErrConsulateAuthRequired
		}
	}
	if onVacation && p.Supervisor() {
		return rotaerrors.ErrVacationRestricted
	}
	return nil
}
