package rota

import "time"

// Position is one of the seven staffable roles.
type Position string

const (
	PositionCASSupervisor       Position = "CAS_SUPERVISOR"
	PositionOperation           Position = "OPERATION"
	PositionPickPackSupervisor  Position = "PICKPACK_SUPERVISOR"
	PositionPickPack            Position = "PICKPACK"
	PositionPickPackPassback    Position = "PICKPACK_PASSBACK"
	PositionConsulateSupervisor Position = "CONSULATE_SUPERVISOR"
	PositionConsulate           Position = "CONSULATE"
)

// Category groups positions by the building they staff.
type Category string

const (
	CategoryCAS       Category = "CAS"
	CategoryConsulado Category = "Consulado"
)

// Positions lists every position in priority order. Slot reduction walks
// this list in reverse, so the positions at the tail lose headcount first
// when the active roster shrinks.
var Positions = []Position{
	PositionCASSupervisor,
	PositionOperation,
	PositionPickPackSupervisor,
	PositionPickPack,
	PositionPickPackPassback,
	PositionConsulateSupervisor,
	PositionConsulate,
}

// allocationOrder is the order the allocator fills non-Operation
// positions: supervisors and specialist roles before generic ones.
var allocationOrder = []Position{
	PositionCASSupervisor,
	PositionPickPackSupervisor,
	PositionConsulateSupervisor,
	PositionConsulate,
	PositionPickPackPassback,
	PositionPickPack,
}

// DefaultVacationRestricted are the positions whose occupants may not be
// on vacation during the planned week.
var DefaultVacationRestricted = []Position{
	PositionCASSupervisor,
	PositionPickPackSupervisor,
	PositionConsulateSupervisor,
}

func (p Position) Category() Category {
	switch p {
	case PositionConsulateSupervisor, PositionConsulate:
		return CategoryConsulado
	default:
		return CategoryCAS
	}
}

func (p Position) Supervisor() bool {
	switch p {
	case PositionCASSupervisor, PositionPickPackSupervisor, PositionConsulateSupervisor:
		return true
	default:
		return false
	}
}

func (p Position) Consulate() bool {
	return p.Category() == CategoryConsulado
}

func (p Position) Known() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Unit is one of the three operational groups staffed day by day.
type Unit string

const (
	UnitOperation Unit = "OPERATION"
	UnitPickPack  Unit = "PICKPACK"
	UnitConsulate Unit = "CONSULATE"
)

// Units in display order.
var Units = []Unit{UnitOperation, UnitPickPack, UnitConsulate}

// Employee is a roster member as handed over by the directory. The list
// reaching the engines is already filtered to active, in-scope staff.
type Employee struct {
	ID               string
	DisplayName      string
	RawPositionTitle string
	EmployeeCode     string
	Active           bool
	OfficeTag        string
}

// IDSet is a set of employee ids (or ISO dates, for HolidaySet).
type IDSet map[string]bool

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

func (s IDSet) Has(id string) bool { return s[id] }

func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// PositionSlots maps each position to its required headcount.
type PositionSlots map[Position]int

func (s PositionSlots) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// FitTo returns a copy whose total never exceeds headcount. Reduction
// walks the position list in reverse so low-priority roles shrink first.
func (s PositionSlots) FitTo(headcount int) PositionSlots {
	out := make(PositionSlots, len(s))
	for p, n := range s {
		if n < 0 {
			n = 0
		}
		out[p] = n
	}
	excess := out.Total() - headcount
	for i := len(Positions) - 1; i >= 0 && excess > 0; i-- {
		p := Positions[i]
		if out[p] == 0 {
			continue
		}
		cut := out[p]
		if cut > excess {
			cut = excess
		}
		out[p] -= cut
		excess -= cut
	}
	return out
}

// Attributes are the named employee id sets driving eligibility.
type Attributes struct {
	WS                  IDSet
	Training            IDSet
	ConsulateAuthorized IDSet
	RestrictedPickPack  IDSet
	RestrictedConsulate IDSet
}

// Restricted reports whether the employee is barred from the position by
// one of the manual restriction lists.
func (a Attributes) Restricted(employeeID string, p Position) bool {
	switch p {
	case PositionPickPack, PositionPickPackPassback, PositionPickPackSupervisor:
		return a.RestrictedPickPack.Has(employeeID)
	case PositionConsulate, PositionConsulateSupervisor:
		return a.RestrictedConsulate.Has(employeeID)
	default:
		return false
	}
}

const dateLayout = "2006-01-02"

// WeekDay is one of the six working days, Monday through Saturday.
type WeekDay struct {
	Date  string // ISO date
	Label string // weekday label
	Index int    // 0..5, Saturday = 5
}

func (d WeekDay) Saturday() bool { return d.Index == 5 }

// WeekCalendar is the six-day window derived from a Monday week start.
type WeekCalendar struct {
	WeekStart string
	Days      []WeekDay
}

var weekdayLabels = [6]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// NewWeekCalendar expands a Monday into the Mon-Sat window.
func NewWeekCalendar(weekStart time.Time) WeekCalendar {
	cal := WeekCalendar{
		WeekStart: weekStart.Format(dateLayout),
		Days:      make([]WeekDay, 6),
	}
	for i := 0; i < 6; i++ {
		cal.Days[i] = WeekDay{
			Date:  weekStart.AddDate(0, 0, i).Format(dateLayout),
			Label: weekdayLabels[i],
			Index: i,
		}
	}
	return cal
}

// Saturday returns the week's Saturday.
func (c WeekCalendar) Saturday() WeekDay {
	return c.Days[len(c.Days)-1]
}

// WeekOfMonth is the 1-based week number of the week start within its
// month: ceil(dayOfMonth/7). It drives the Saturday parity rest rule.
func (c WeekCalendar) WeekOfMonth() int {
	t, err := time.Parse(dateLayout, c.WeekStart)
	if err != nil {
		return 0
	}
	return (t.Day() + 6) / 7
}

// HolidaySet holds the ISO dates within the week that are office holidays.
type HolidaySet = IDSet

// VacationMap maps employee id to the set of ISO dates the employee is on
// approved leave.
type VacationMap map[string]IDSet

func (v VacationMap) OnVacation(employeeID, date string) bool {
	return v[employeeID].Has(date)
}

// AbsenceScore counts the week's non-holiday days the employee misses.
func (v VacationMap) AbsenceScore(employeeID string, week WeekCalendar, holidays HolidaySet) int {
	score := 0
	for _, day := range week.Days {
		if holidays.Has(day.Date) {
			continue
		}
		if v.OnVacation(employeeID, day.Date) {
			score++
		}
	}
	return score
}

// WeeklyAssignment maps each position to its ordered occupant ids.
type WeeklyAssignment map[Position][]string

func (a WeeklyAssignment) Clone() WeeklyAssignment {
	out := make(WeeklyAssignment, len(a))
	for p, ids := range a {
		out[p] = append([]string(nil), ids...)
	}
	return out
}

// PositionOf returns the position currently holding the employee.
func (a WeeklyAssignment) PositionOf(employeeID string) (Position, bool) {
	for _, p := range Positions {
		for _, id := range a[p] {
			if id == employeeID {
				return p, true
			}
		}
	}
	return "", false
}

// RemoveEverywhere strips the employee from every position list.
func (a WeeklyAssignment) RemoveEverywhere(employeeID string) {
	for p, ids := range a {
		out := ids[:0]
		for _, id := range ids {
			if id != employeeID {
				out = append(out, id)
			}
		}
		a[p] = out
	}
}

// DayRoster holds, for one date, the ids actually working in each unit.
type DayRoster map[Unit][]string

// WorkstationCode is one of the four internal task labels rotated among
// Operation staff.
type WorkstationCode string

const (
	CodeO  WorkstationCode = "O"
	CodeR  WorkstationCode = "R"
	CodeF  WorkstationCode = "F"
	CodeWS WorkstationCode = "WS"
)

// WorkstationCodes in expansion order.
var WorkstationCodes = []WorkstationCode{CodeO, CodeR, CodeF, CodeWS}

// Distribution maps workstation codes to headcount.
type Distribution map[WorkstationCode]int

func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for c, n := range d {
		out[c] = n
	}
	return out
}

// MealSlot is one configured meal window.
type MealSlot struct {
	ID                string
	Label             string
	StartTime         string // HH:MM
	EndTime           string // HH:MM, strictly after StartTime
	Enabled           bool
	OperationCapacity int
	PickPackCapacity  int
	FixedEmployeeIDs  []string
}

func (s MealSlot) TotalCapacity() int {
	return s.OperationCapacity + s.PickPackCapacity
}

// Team identifies one side of a Saturday rest partition.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Other returns the opposite team.
func (t Team) Other() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// TeamPartition is a stable employee -> team split.
type TeamPartition map[string]Team

// RestCalendar maps Saturday ISO dates to the display names of the
// supervisors resting that date.
type RestCalendar map[string][]string
