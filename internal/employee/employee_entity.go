package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is a directory entry for one roster member of an office.
// PositionTitle is free text from the HR feed; the planning core infers
// the supervisor role from it.
type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OfficeID uuid.UUID `gorm:"type:uuid;not null;index"`

	FullName      string `gorm:"type:varchar(120);not null"`
	PositionTitle string `gorm:"type:varchar(120);not null"`
	EmployeeCode  string `gorm:"type:varchar(30)"`
	OfficeTag     string `gorm:"type:varchar(30)"`
	Active        bool   `gorm:"not null;default:true"`

	// Planning attributes.
	WS                  bool `gorm:"not null;default:false"`
	Training            bool `gorm:"not null;default:false"`
	ConsulateAuthorized bool `gorm:"not null;default:false"`
	RestrictedPickPack  bool `gorm:"not null;default:false"`
	RestrictedConsulate bool `gorm:"not null;default:false"`

	// SaturdayTeam is the stable A/B split for the Saturday rest parity
	// rule (regular and supervisor partitions both read this column).
	SaturdayTeam string `gorm:"type:varchar(1);not null;default:'A'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// externalOfficeTag marks staff lent by the SPOC partner; they never join
// the local roster.
const externalOfficeTag = "SPOC"

func (e Employee) RosterMember() bool {
	return e.Active && e.OfficeTag != externalOfficeTag
}
