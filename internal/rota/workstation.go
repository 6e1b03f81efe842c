package rota

// WorkstationInput rotates the four internal codes across the
// Operation-eligible staff over the week.
type WorkstationInput struct {
	Week WeekCalendar
	// Employees are the Operation-eligible ids in weekly order: the
	// Operation roster plus any Pick&Pack passback staff not already in
	// it.
	Employees []string
	Desired   Distribution
	Holidays  HolidaySet
	Vacations VacationMap
}

// WorkstationResult carries the per-employee-per-date codes plus the
// reconciled distribution, returned so the caller can surface the
// adjustment to the operator.
type WorkstationResult struct {
	Codes      map[string]map[string]WorkstationCode
	Reconciled Distribution
	Shortages  map[string]int // date -> codes left unassigned
}

// trimOrder decides which codes give headcount back first when the
// desired distribution exceeds the actual staff: specialist codes shrink
// before the generic O.
var trimOrder = []WorkstationCode{CodeWS, CodeF, CodeR, CodeO}

// RotateWorkstations assigns one code per employee per working day,
// round-robin across the week so nobody holds the same code every day.
func RotateWorkstations(in WorkstationInput) WorkstationResult {
	headcount := len(in.Employees)

	reconciled := reconcileDistribution(in.Desired, headcount)
	sequence := expandDistribution(reconciled)

	result := WorkstationResult{
		Codes:      make(map[string]map[string]WorkstationCode, headcount),
		Reconciled: reconciled,
		Shortages:  make(map[string]int),
	}
	for _, id := range in.Employees {
		result.Codes[id] = make(map[string]WorkstationCode)
	}

	offset := 0
	for _, day := range in.Week.Days {
		if in.Holidays.Has(day.Date) {
			// Holidays are skipped entirely, the offset does not advance.
			continue
		}

		rotated := rotateIDs(in.Employees, offset)
		used := make(IDSet, headcount)
		for _, code := range sequence {
			assigned := false
			for _, id := range rotated {
				if used.Has(id) || in.Vacations.OnVacation(id, day.Date) {
					continue
				}
				result.Codes[id][day.Date] = code
				used[id] = true
				assigned = true
				break
			}
			if !assigned {
				result.Shortages[day.Date]++
			}
		}

		offset++
	}

	return result
}

// reconcileDistribution adjusts the desired counts to the actual
// headcount: any shortfall lands entirely on O, any excess is trimmed one
// by one along trimOrder. Counts never go negative.
func reconcileDistribution(desired Distribution, headcount int) Distribution {
	out := make(Distribution, len(WorkstationCodes))
	for _, c := range WorkstationCodes {
		n := desired[c]
		if n < 0 {
			n = 0
		}
		out[c] = n
	}

	if diff := headcount - out.Total(); diff > 0 {
		out[CodeO] += diff
		return out
	}

	for out.Total() > headcount {
		trimmed := false
		for _, c := range trimOrder {
			if out.Total() == headcount {
				break
			}
			if out[c] > 0 {
				out[c]--
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}
	return out
}

// expandDistribution flattens {O:2,R:1} into [O,O,R], following the fixed
// code order.
func expandDistribution(d Distribution) []WorkstationCode {
	sequence := make([]WorkstationCode, 0, d.Total())
	for _, c := range WorkstationCodes {
		for i := 0; i < d[c]; i++ {
			sequence = append(sequence, c)
		}
	}
	return sequence
}

func rotateIDs(ids []string, offset int) []string {
	n := len(ids)
	if n == 0 {
		return nil
	}
	offset %= n
	out := make([]string, 0, n)
	out = append(out, ids[offset:]...)
	return append(out, ids[:offset]...)
}
