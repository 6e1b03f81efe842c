package rota

import "math/rand"

// RotationInput derives the day-by-day unit rosters from the weekly
// skeleton, the absence calendars and the Saturday rest resolution.
type RotationInput struct {
	Week       WeekCalendar
	Assignment WeeklyAssignment
	Slots      PositionSlots
	Holidays   HolidaySet
	Vacations  VacationMap
	Rest       RestResolution
}

// RotationResult is keyed by date then unit. A unit's weekly shortage is
// the worst single day, not a sum.
type RotationResult struct {
	Days      map[string]DayRoster
	Shortages map[Unit]int
}

// unitPosition maps each unit to the weekly list it rotates over.
var unitPosition = map[Unit]Position{
	UnitOperation: PositionOperation,
	UnitPickPack:  PositionPickPack,
	UnitConsulate: PositionConsulate,
}

// RotateWeek produces, for each of the six week days, the subset of each
// unit's weekly roster actually working that day. PickPack and Consulate
// keep their weekly order (working-flagged staff first on Saturday);
// Operation is reshuffled every day, so there is no day-to-day continuity
// for that unit.
func RotateWeek(in RotationInput, rng *rand.Rand) RotationResult {
	rng = ensureRand(rng)

	result := RotationResult{
		Days:      make(map[string]DayRoster, len(in.Week.Days)),
		Shortages: make(map[Unit]int, len(Units)),
	}

	for _, day := range in.Week.Days {
		roster := make(DayRoster, len(Units))

		if in.Holidays.Has(day.Date) {
			// Nobody works a holiday and no shortage is attributed to it.
			for _, u := range Units {
				roster[u] = []string{}
			}
			result.Days[day.Date] = roster
			continue
		}

		for _, u := range Units {
			slot := in.Slots[unitPosition[u]]
			available := availableForDay(in, u, day)
			if u == UnitOperation {
				shuffleIDs(rng, available)
			}
			if len(available) > slot {
				available = available[:slot]
			}
			roster[u] = available

			if shortage := slot - len(available); shortage > result.Shortages[u] {
				result.Shortages[u] = shortage
			}
		}

		result.Days[day.Date] = roster
	}

	return result
}

// availableForDay filters a unit's weekly list down to the employees who
// can actually work the date. Resting employees are excluded outright on
// Saturday, never just deprioritized; on the fixed units the
// working-flagged employees move to the front so they are taken first.
func availableForDay(in RotationInput, u Unit, day WeekDay) []string {
	weekly := in.Assignment[unitPosition[u]]

	available := make([]string, 0, len(weekly))
	var unflagged []string
	for _, id := range weekly {
		if in.Vacations.OnVacation(id, day.Date) {
			continue
		}
		if day.Saturday() {
			if in.Rest.Resting.Has(id) {
				continue
			}
			if u != UnitOperation && !in.Rest.Working.Has(id) {
				unflagged = append(unflagged, id)
				continue
			}
		}
		available = append(available, id)
	}
	return append(available, unflagged...)
}
