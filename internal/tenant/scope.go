package tenant

import "gorm.io/gorm"

// Scope restricts a query to one office. Every table in this service is
// office-scoped.
func Scope(officeID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("office_id = ?", officeID)
	}
}
