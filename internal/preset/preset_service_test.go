package preset_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-roster/internal/preset"
	preseterrors "go-roster/internal/preset/errors"
	"go-roster/internal/rota"
)

type fakePresetRepo struct {
	createFn                func(ctx context.Context, p *preset.Preset) error
	findAllByOfficeFn       func(ctx context.Context, officeID string) ([]preset.Preset, error)
	findByIDAndOfficeFn     func(ctx context.Context, officeID, id string) (*preset.Preset, error)
	findActiveByOfficeFn    func(ctx context.Context, officeID string) (*preset.Preset, error)
	updateFn                func(ctx context.Context, p *preset.Preset) error
	deactivateAllByOfficeFn func(ctx context.Context, officeID string) error
	deleteFn                func(ctx context.Context, officeID, id string) error
}

func (f *fakePresetRepo) WithTx(tx *sql.Tx) preset.Repository { return f }

func (f *fakePresetRepo) Create(ctx context.Context, p *preset.Preset) error {
	return f.createFn(ctx, p)
}

func (f *fakePresetRepo) FindAllByOffice(ctx context.Context, officeID string) ([]preset.Preset, error) {
	return f.findAllByOfficeFn(ctx, officeID)
}

func (f *fakePresetRepo) FindByIDAndOffice(ctx context.Context, officeID, id string) (*preset.Preset, error) {
	return f.findByIDAndOfficeFn(ctx, officeID, id)
}

func (f *fakePresetRepo) FindActiveByOffice(ctx context.Context, officeID string) (*preset.Preset, error) {
	return f.findActiveByOfficeFn(ctx, officeID)
}

func (f *fakePresetRepo) Update(ctx context.Context, p *preset.Preset) error {
	return f.updateFn(ctx, p)
}

func (f *fakePresetRepo) DeactivateAllByOffice(ctx context.Context, officeID string) error {
	return f.deactivateAllByOfficeFn(ctx, officeID)
}

func (f *fakePresetRepo) Delete(ctx context.Context, officeID, id string) error {
	return f.deleteFn(ctx, officeID, id)
}

func setupPresetTest(t *testing.T, repo preset.Repository) (preset.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return preset.NewService(db, repo, zap.NewNop()), mock
}

func validConfig() preset.PlannerConfig {
	return preset.PlannerConfig{
		Slots: map[string]int{
			"CAS_SUPERVISOR": 1,
			"OPERATION":      5,
			"PICKPACK":       2,
			"CONSULATE":      2,
		},
		WorkstationDistribution: map[string]int{"O": 2, "R": 1, "F": 1, "WS": 1},
		MealSlots: []preset.MealSlotConfig{
			{
				Label:             "First lunch",
				StartTime:         "12:30",
				EndTime:           "13:15",
				Enabled:           true,
				OperationCapacity: 3,
				PickPackCapacity:  1,
			},
		},
		RegularParityRestTeam:    "A",
		SupervisorParityRestTeam: "B",
	}
}

func TestPresetService_Create(t *testing.T) {
	officeID := uuid.NewString()

	var created *preset.Preset
	repo := &fakePresetRepo{
		createFn: func(ctx context.Context, p *preset.Preset) error {
			created = p
			return nil
		},
	}
	svc, mock := setupPresetTest(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), officeID, preset.CreatePresetRequest{
		Name:   "High season",
		Config: validConfig(),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "High season", created.Name)
	assert.False(t, created.Active)

	var stored preset.PlannerConfig
	require.NoError(t, json.Unmarshal(created.Payload, &stored))
	assert.Equal(t, 5, stored.Slots["OPERATION"])
	assert.Equal(t, "High season", resp.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPresetService_CreateDuplicateName(t *testing.T) {
	repo := &fakePresetRepo{
		createFn: func(ctx context.Context, p *preset.Preset) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}
	svc, mock := setupPresetTest(t, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), uuid.NewString(), preset.CreatePresetRequest{
		Name:   "Dup",
		Config: validConfig(),
	})
	assert.ErrorIs(t, err, preseterrors.ErrPresetNameTaken)
}

func TestPresetService_ConfigValidation(t *testing.T) {
	svc, _ := setupPresetTest(t, &fakePresetRepo{})
	officeID := uuid.NewString()

	t.Run("unknown position", func(t *testing.T) {
		cfg := validConfig()
		cfg.Slots["JANITOR"] = 1
		_, err := svc.Create(context.Background(), officeID, preset.CreatePresetRequest{Name: "x", Config: cfg})
		assert.ErrorIs(t, err, preseterrors.ErrUnknownPosition)
	})

	t.Run("negative slot count", func(t *testing.T) {
		cfg := validConfig()
		cfg.Slots["OPERATION"] = -1
		_, err := svc.Create(context.Background(), officeID, preset.CreatePresetRequest{Name: "x", Config: cfg})
		assert.ErrorIs(t, err, preseterrors.ErrNegativeSlotCount)
	})

	t.Run("reversed meal window", func(t *testing.T) {
		cfg := validConfig()
		cfg.MealSlots[0].StartTime = "14:00"
		cfg.MealSlots[0].EndTime = "13:00"
		_, err := svc.Create(context.Background(), officeID, preset.CreatePresetRequest{Name: "x", Config: cfg})
		assert.ErrorIs(t, err, preseterrors.ErrInvalidMealWindow)
	})

	t.Run("unknown workstation code", func(t *testing.T) {
		cfg := validConfig()
		cfg.WorkstationDistribution["Z"] = 1
		_, err := svc.Create(context.Background(), officeID, preset.CreatePresetRequest{Name: "x", Config: cfg})
		assert.ErrorIs(t, err, preseterrors.ErrInvalidWorkstationCode)
	})
}

func TestPresetService_Activate(t *testing.T) {
	officeID := uuid.NewString()
	id := uuid.New()
	payload, _ := json.Marshal(validConfig())

	deactivated := false
	var saved *preset.Preset
	repo := &fakePresetRepo{
		findByIDAndOfficeFn: func(ctx context.Context, gotOffice, gotID string) (*preset.Preset, error) {
			return &preset.Preset{ID: id, Payload: payload}, nil
		},
		deactivateAllByOfficeFn: func(ctx context.Context, gotOffice string) error {
			deactivated = true
			return nil
		},
		updateFn: func(ctx context.Context, p *preset.Preset) error {
			saved = p
			return nil
		},
	}
	svc, mock := setupPresetTest(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Activate(context.Background(), officeID, id.String())
	require.NoError(t, err)
	assert.True(t, deactivated)
	require.NotNil(t, saved)
	assert.True(t, saved.Active)
	assert.True(t, resp.Active)
}

func TestPresetService_ResolveForPlanning(t *testing.T) {
	cfg := validConfig()
	payload, _ := json.Marshal(cfg)

	repo := &fakePresetRepo{
		findActiveByOfficeFn: func(ctx context.Context, officeID string) (*preset.Preset, error) {
			return &preset.Preset{ID: uuid.New(), Active: true, Payload: payload}, nil
		},
	}
	svc, _ := setupPresetTest(t, repo)

	// Ten configured seats against eight heads: the slot table shrinks.
	resolved, err := svc.ResolveForPlanning(context.Background(), uuid.NewString(), 8)
	require.NoError(t, err)
	assert.Equal(t, 8, resolved.Slots.Total())
	assert.Equal(t, 1, resolved.Slots[rota.PositionCASSupervisor])

	assert.Equal(t, rota.TeamA, resolved.RegularParityRestTeam)
	assert.Equal(t, rota.TeamB, resolved.SupervisorParityRestTeam)
	assert.Equal(t, rota.DefaultVacationRestricted, resolved.VacationRestricted)

	require.Len(t, resolved.MealSlots, 1)
	assert.NotEmpty(t, resolved.MealSlots[0].ID)
	assert.Equal(t, 3, resolved.MealSlots[0].OperationCapacity)

	assert.Equal(t, 2, resolved.WorkstationDistribution[rota.CodeO])
}

func TestPresetService_ResolveNoActivePreset(t *testing.T) {
	repo := &fakePresetRepo{
		findActiveByOfficeFn: func(ctx context.Context, officeID string) (*preset.Preset, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, _ := setupPresetTest(t, repo)

	_, err := svc.ResolveForPlanning(context.Background(), uuid.NewString(), 10)
	assert.ErrorIs(t, err, preseterrors.ErrNoActivePreset)
}
