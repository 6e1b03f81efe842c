package preset

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preset is a named planning configuration of one office. The structured
// document lives in Payload; only one preset per office is active at a
// time.
type Preset struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OfficeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_presets_office_name"`
	Name     string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_presets_office_name"`
	Active   bool      `gorm:"not null;default:false;index"`
	Payload  []byte    `gorm:"type:jsonb;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
