package roster

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeekSnapshot is the persisted outcome of one pipeline run. The whole
// plan lives in Payload so a published week can be reloaded and fixed
// without recomputing anything.
type WeekSnapshot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OfficeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_week_snapshots_office_week"`
	WeekStart time.Time `gorm:"type:date;not null;uniqueIndex:idx_week_snapshots_office_week"`
	Seed      int64     `gorm:"not null"`
	Payload   []byte    `gorm:"type:jsonb;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
