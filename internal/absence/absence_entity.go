package absence

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Absence is an employee leave period. Only APPROVED rows reach the
// planning pipeline.
type Absence struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OfficeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_absences_office_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_absences_employee_dates"`

	AbsenceType string    `gorm:"type:varchar(30);not null;default:'VACATION'"`
	StartDate   time.Time `gorm:"type:date;not null;index:idx_absences_employee_dates"`
	EndDate     time.Time `gorm:"type:date;not null;index:idx_absences_employee_dates"`
	TotalDays   int       `gorm:"type:int;not null;default:1"`
	Reason      string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_absences_office_status"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index:idx_absences_deleted_at"`
}

// Holiday is an office closing day; nobody is planned on it.
type Holiday struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OfficeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_holidays_office_date"`
	Date     time.Time `gorm:"type:date;not null;uniqueIndex:idx_holidays_office_date"`
	Name     string    `gorm:"type:varchar(120)"`

	CreatedAt time.Time
}
