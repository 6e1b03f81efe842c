package roster

type GenerateRosterRequest struct {
	WeekStart  string `json:"week_start" binding:"required"`
	Seed       *int64 `json:"seed"`
	Regenerate bool   `json:"regenerate"`
}

type FixPositionRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Position   string `json:"position" binding:"required"`
}

// RestView is the resolved Saturday rest split in wire form.
type RestView struct {
	SaturdayDate string   `json:"saturday_date"`
	Resting      []string `json:"resting"`
	Working      []string `json:"working"`
}

// PlanDocument is the full weekly plan as stored in the snapshot payload
// and returned to clients. Engine types are flattened to plain strings so
// the JSON shape stays stable.
type PlanDocument struct {
	WeekStart string `json:"week_start"`
	Seed      int64  `json:"seed"`

	Assignment   map[string][]string `json:"assignment"`
	Shortages    map[string]int      `json:"shortages,omitempty"`
	FallbackUsed map[string][]string `json:"fallback_used,omitempty"`
	FixedPins    []string            `json:"fixed_pins,omitempty"`

	Rest RestView `json:"rest"`

	Days          map[string]map[string][]string `json:"days"`
	UnitShortages map[string]int                 `json:"unit_shortages,omitempty"`

	Workstations          map[string]map[string]string `json:"workstations"`
	WorkstationReconciled map[string]int               `json:"workstation_reconciled"`
	WorkstationShortages  map[string]int               `json:"workstation_shortages,omitempty"`

	Meals map[string]map[string][]string `json:"meals"`
}

// RosterSummary is the listing shape: one row per generated week, plan
// payload omitted.
type RosterSummary struct {
	ID        string `json:"id"`
	OfficeID  string `json:"office_id"`
	WeekStart string `json:"week_start"`
	Seed      int64  `json:"seed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type RosterResponse struct {
	ID       string       `json:"id"`
	OfficeID string       `json:"office_id"`
	Plan     PlanDocument `json:"plan"`
}
