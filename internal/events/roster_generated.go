package events

import "time"

const RosterWeekGeneratedTopic = "roster.week.generated.v1"

// RosterWeekGeneratedEvent announces a freshly persisted weekly plan so
// downstream consumers (notifications, reporting) can pick it up.
type RosterWeekGeneratedEvent struct {
	EventType  string    `json:"event_type"`
	RosterID   string    `json:"roster_id"`
	OfficeID   string    `json:"office_id"`
	WeekStart  string    `json:"week_start"`
	Seed       int64     `json:"seed"`
	Regenerate bool      `json:"regenerate"`
	OccurredAt time.Time `json:"occurred_at"`
}

const RosterFixAppliedTopic = "roster.fix.applied.v1"

// RosterFixAppliedEvent records a manual position fix on a published week.
type RosterFixAppliedEvent struct {
	EventType  string    `json:"event_type"`
	RosterID   string    `json:"roster_id"`
	OfficeID   string    `json:"office_id"`
	WeekStart  string    `json:"week_start"`
	EmployeeID string    `json:"employee_id"`
	Position   string    `json:"position"`
	OccurredAt time.Time `json:"occurred_at"`
}
