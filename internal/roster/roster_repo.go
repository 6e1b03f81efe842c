package roster

import (
	"context"
	"database/sql"
	"time"

	"go-roster/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=roster_repo.go -destination=mock/roster_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *WeekSnapshot) error
	FindByOfficeAndWeek(ctx context.Context, officeID string, weekStart time.Time) (*WeekSnapshot, error)
	FindAllByOffice(ctx context.Context, officeID string) ([]WeekSnapshot, error)
	Update(ctx context.Context, s *WeekSnapshot) error
	DeleteByOfficeAndWeek(ctx context.Context, officeID string, weekStart time.Time) error
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

func (r *repository) Create(ctx context.Context, s *WeekSnapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByOfficeAndWeek(ctx context.Context, officeID string, weekStart time.Time) (*WeekSnapshot, error) {
	var s WeekSnapshot
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Where("week_start = ?", weekStart).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllByOffice(ctx context.Context, officeID string) ([]WeekSnapshot, error) {
	var snapshots []WeekSnapshot
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Order("week_start DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *repository) Update(ctx context.Context, s *WeekSnapshot) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) DeleteByOfficeAndWeek(ctx context.Context, officeID string, weekStart time.Time) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Where("week_start = ?", weekStart).
		Delete(&WeekSnapshot{}).Error
}
