package absence

import (
	"context"
	"database/sql"
	"time"

	"go-roster/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=absence_repo.go -destination=mock/absence_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, a *Absence) error
	FindAllByOffice(ctx context.Context, officeID, status string) ([]Absence, error)
	FindByIDAndOffice(ctx context.Context, officeID, id string) (*Absence, error)
	FindOverlapping(ctx context.Context, officeID, employeeID string, start, end time.Time) (int64, error)
	FindApprovedInRange(ctx context.Context, officeID string, from, to time.Time) ([]Absence, error)
	Update(ctx context.Context, a *Absence) error

	CreateHoliday(ctx context.Context, h *Holiday) error
	FindHolidaysInRange(ctx context.Context, officeID string, from, to time.Time) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, officeID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	conn := r.db.Session(&gorm.Session{NewDB: true})
	conn.Statement.ConnPool = tx
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, a *Absence) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAllByOffice(ctx context.Context, officeID, status string) ([]Absence, error) {
	var absences []Absence
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(officeID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("start_date DESC").Find(&absences).Error
	return absences, err
}

func (r *repository) FindByIDAndOffice(ctx context.Context, officeID, id string) (*Absence, error) {
	var a Absence
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindOverlapping counts live requests of the employee whose period
// intersects [start, end]. REJECTED and CANCELLED rows do not block.
func (r *repository) FindOverlapping(ctx context.Context, officeID, employeeID string, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Absence{}).
		Scopes(tenant.Scope(officeID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count, err
}

func (r *repository) FindApprovedInRange(ctx context.Context, officeID string, from, to time.Time) ([]Absence, error) {
	var absences []Absence
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Find(&absences).Error
	return absences, err
}

func (r *repository) Update(ctx context.Context, a *Absence) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) CreateHoliday(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindHolidaysInRange(ctx context.Context, officeID string, from, to time.Time) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) DeleteHoliday(ctx context.Context, officeID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Where("id = ?", id).
		Delete(&Holiday{}).Error
}
