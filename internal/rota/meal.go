package rota

import "math/rand"

// MealInput seats the day rosters into the configured meal windows.
type MealInput struct {
	Week  WeekCalendar
	Days  map[string]DayRoster // from RotateWeek
	Slots []MealSlot
	// Supervisors and passback staff eat with their units even though
	// they are outside the daily unit rotation.
	CASSupervisors      []string
	PickPackSupervisors []string
	Passback            []string
	Holidays            HolidaySet
	Vacations           VacationMap
	Rest                RestResolution
}

// MealResult maps date -> slot id -> seated employee ids. Unfilled seats
// are a soft shortfall readable from the list lengths.
type MealResult struct {
	Days map[string]map[string][]string
}

// AssignMealSlots seats every enabled slot for every working day: pinned
// employees first, then random picks from the Operation and Pick&Pack
// pools up to each side's capacity.
func AssignMealSlots(in MealInput, rng *rand.Rand) MealResult {
	rng = ensureRand(rng)

	result := MealResult{Days: make(map[string]map[string][]string, len(in.Week.Days))}

	for _, day := range in.Week.Days {
		if in.Holidays.Has(day.Date) {
			continue
		}

		daySlots := make(map[string][]string)
		for _, slot := range in.Slots {
			if !slot.Enabled || slot.TotalCapacity() <= 0 {
				continue
			}
			daySlots[slot.ID] = seatSlot(in, day, slot, rng)
		}
		result.Days[day.Date] = daySlots
	}

	return result
}

func seatSlot(in MealInput, day WeekDay, slot MealSlot, rng *rand.Rand) []string {
	operationPool := mealPool(in, day, append(append([]string(nil), in.Days[day.Date][UnitOperation]...), in.CASSupervisors...))
	pickpackPool := mealPool(in, day, append(append(append([]string(nil), in.Days[day.Date][UnitPickPack]...), in.PickPackSupervisors...), in.Passback...))

	seated := make([]string, 0, slot.TotalCapacity())
	seatedSet := make(IDSet, slot.TotalCapacity())
	opLeft, ppLeft := slot.OperationCapacity, slot.PickPackCapacity

	// Pinned occupants go first, in listed order, consuming the capacity
	// of whichever pool they belong to.
	for _, id := range slot.FixedEmployeeIDs {
		if len(seated) >= slot.TotalCapacity() {
			break
		}
		if seatedSet.Has(id) {
			continue
		}
		switch {
		case operationPool.Has(id) && opLeft > 0:
			opLeft--
		case pickpackPool.Has(id) && ppLeft > 0:
			ppLeft--
		default:
			continue // unavailable today, skip the pin
		}
		seated = append(seated, id)
		seatedSet[id] = true
		delete(operationPool, id)
		delete(pickpackPool, id)
	}

	seated = append(seated, sample(rng, operationPool, opLeft)...)
	seated = append(seated, sample(rng, pickpackPool, ppLeft)...)
	return seated
}

// mealPool drops anyone on vacation that date or resting that Saturday.
func mealPool(in MealInput, day WeekDay, ids []string) IDSet {
	pool := make(IDSet, len(ids))
	for _, id := range ids {
		if in.Vacations.OnVacation(id, day.Date) {
			continue
		}
		if day.Saturday() && in.Rest.Resting.Has(id) {
			continue
		}
		pool[id] = true
	}
	return pool
}

func sample(rng *rand.Rand, pool IDSet, n int) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	ids := make([]string, 0, len(pool))
	for id := range pool {
		ids = append(ids, id)
	}
	// Map iteration order is random but not seedable; sort before the
	// seeded shuffle so a fixed seed reproduces the seating.
	sortIDs(ids)
	shuffleIDs(rng, ids)
	if n > len(ids) {
		n = len(ids)
	}
	return ids[:n]
}
