package preset

import (
	"context"
	"database/sql"

	"go-roster/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=preset_repo.go -destination=mock/preset_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Preset) error
	FindAllByOffice(ctx context.Context, officeID string) ([]Preset, error)
	FindByIDAndOffice(ctx context.Context, officeID, id string) (*Preset, error)
	FindActiveByOffice(ctx context.Context, officeID string) (*Preset, error)
	Update(ctx context.Context, p *Preset) error
	DeactivateAllByOffice(ctx context.Context, officeID string) error
	Delete(ctx context.Context, officeID, id string) error
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

func (r *repository) Create(ctx context.Context, p *Preset) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAllByOffice(ctx context.Context, officeID string) ([]Preset, error) {
	var presets []Preset
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Order("name ASC").
		Find(&presets).Error
	return presets, err
}

func (r *repository) FindByIDAndOffice(ctx context.Context, officeID, id string) (*Preset, error) {
	var p Preset
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindActiveByOffice(ctx context.Context, officeID string) (*Preset, error) {
	var p Preset
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Where("active = ?", true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Preset) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) DeactivateAllByOffice(ctx context.Context, officeID string) error {
	return r.db.WithContext(ctx).
		Model(&Preset{}).
		Scopes(tenant.Scope(officeID)).
		Where("active = ?", true).
		Update("active", false).Error
}

func (r *repository) Delete(ctx context.Context, officeID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(officeID)).
		Delete(&Preset{}, "id = ?", id).Error
}
