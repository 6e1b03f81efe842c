package rota

// RestInput feeds the Saturday rest resolution.
type RestInput struct {
	Week WeekCalendar
	// Regulars are the non-supervisor employees eligible for the
	// Saturday rotation; Supervisors are resolved separately.
	Regulars    []Employee
	Supervisors []Employee
	// Stable employee -> {A,B} splits, maintained by the office.
	RegularTeams    TeamPartition
	SupervisorTeams TeamPartition
	// The team that rests on even weeks of the month; the other team
	// rests on odd weeks.
	RegularParityRestTeam    Team
	SupervisorParityRestTeam Team
	// Calendar is the fixed year-long supervisor rest calendar,
	// Saturday date -> resting supervisor names.
	Calendar RestCalendar
}

// RestResolution is computed once per week and reused by the rotation and
// meal engines.
type RestResolution struct {
	SaturdayDate string
	Resting      IDSet
	Working      IDSet
}

// ResolveSaturdayRest decides who rests on the week's Saturday. Regular
// staff follow the week-of-month parity rule over their team partition;
// supervisors follow the fixed calendar, falling back to their own parity
// partition when the calendar has no usable entry for the date.
func ResolveSaturdayRest(in RestInput) RestResolution {
	res := RestResolution{
		SaturdayDate: in.Week.Saturday().Date,
		Resting:      make(IDSet),
		Working:      make(IDSet),
	}

	restTeam := parityRestTeam(in.Week, in.RegularParityRestTeam)
	for _, e := range in.Regulars {
		if in.RegularTeams[e.ID] == restTeam {
			res.Resting[e.ID] = true
		} else {
			res.Working[e.ID] = true
		}
	}

	resting := calendarResting(in.Calendar, res.SaturdayDate, in.Supervisors)
	if resting == nil {
		team := parityRestTeam(in.Week, in.SupervisorParityRestTeam)
		resting = make(IDSet)
		for _, e := range in.Supervisors {
			if in.SupervisorTeams[e.ID] == team {
				resting[e.ID] = true
			}
		}
	}
	for _, e := range in.Supervisors {
		if resting.Has(e.ID) {
			res.Resting[e.ID] = true
		} else {
			res.Working[e.ID] = true
		}
	}

	return res
}

// parityRestTeam applies the week-of-month parity rule: on even weeks the
// configured team rests, on odd weeks the other one does.
func parityRestTeam(week WeekCalendar, configured Team) Team {
	if week.WeekOfMonth()%2 == 0 {
		return configured
	}
	return configured.Other()
}

// calendarResting matches the calendar entry for the date against the
// supervisor roster. Nil means no entry, or an entry that matched nobody,
// and tells the caller to use the parity fallback.
func calendarResting(cal RestCalendar, date string, supervisors []Employee) IDSet {
	names, found := cal[date]
	if !found {
		return nil
	}
	resting := make(IDSet)
	for _, name := range names {
		for _, e := range supervisors {
			if NamesMatch(name, e.DisplayName) {
				resting[e.ID] = true
			}
		}
	}
	if len(resting) == 0 {
		return nil
	}
	return resting
}
