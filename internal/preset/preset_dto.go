package preset

import "go-roster/internal/rota"

// MealSlotConfig mirrors rota.MealSlot in wire form.
type MealSlotConfig struct {
	ID                string   `json:"id"`
	Label             string   `json:"label" binding:"required"`
	StartTime         string   `json:"start_time" binding:"required"`
	EndTime           string   `json:"end_time" binding:"required"`
	Enabled           bool     `json:"enabled"`
	OperationCapacity int      `json:"operation_capacity"`
	PickPackCapacity  int      `json:"pickpack_capacity"`
	FixedEmployeeIDs  []string `json:"fixed_employee_ids"`
}

// PlannerConfig is the structured preset document: everything the weekly
// pipeline needs beyond the employee directory and the absence calendar.
type PlannerConfig struct {
	Slots                    map[string]int      `json:"slots"`
	Fixed                    map[string][]string `json:"fixed"`
	WorkstationDistribution  map[string]int      `json:"workstation_distribution"`
	MealSlots                []MealSlotConfig    `json:"meal_slots"`
	RegularParityRestTeam    string              `json:"regular_parity_rest_team"`
	SupervisorParityRestTeam string              `json:"supervisor_parity_rest_team"`
	SupervisorRestCalendar   map[string][]string `json:"supervisor_rest_calendar"`
	VacationRestricted       []string            `json:"vacation_restricted"`
}

type CreatePresetRequest struct {
	Name   string        `json:"name" binding:"required"`
	Active bool          `json:"active"`
	Config PlannerConfig `json:"config" binding:"required"`
}

type UpdatePresetRequest struct {
	Name   string        `json:"name" binding:"required"`
	Config PlannerConfig `json:"config" binding:"required"`
}

type PresetResponse struct {
	ID       string        `json:"id"`
	OfficeID string        `json:"office_id"`
	Name     string        `json:"name"`
	Active   bool          `json:"active"`
	Config   PlannerConfig `json:"config"`
}

// ResolvedConfig is PlannerConfig translated to engine types, with the
// slot table already fitted to the office headcount.
type ResolvedConfig struct {
	Slots                    rota.PositionSlots
	Fixed                    map[rota.Position][]string
	WorkstationDistribution  rota.Distribution
	MealSlots                []rota.MealSlot
	RegularParityRestTeam    rota.Team
	SupervisorParityRestTeam rota.Team
	SupervisorRestCalendar   rota.RestCalendar
	VacationRestricted       []rota.Position
}
