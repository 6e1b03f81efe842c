package absence

type CreateAbsenceRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	AbsenceType string `json:"absence_type" binding:"required,oneof=VACATION SICK UNPAID"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason"`
}

type RejectAbsenceRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type CreateHolidayRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name"`
}

type AbsenceResponse struct {
	ID              string  `json:"id"`
	OfficeID        string  `json:"office_id"`
	EmployeeID      string  `json:"employee_id"`
	AbsenceType     string  `json:"absence_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type HolidayResponse struct {
	ID       string `json:"id"`
	OfficeID string `json:"office_id"`
	Date     string `json:"date"`
	Name     string `json:"name,omitempty"`
}
