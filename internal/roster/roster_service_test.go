package roster_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	redismock "github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-roster/internal/absence"
	"go-roster/internal/employee"
	"go-roster/internal/messaging/kafka"
	"go-roster/internal/preset"
	"go-roster/internal/roster"
	rostererrors "go-roster/internal/roster/errors"
	"go-roster/internal/rota"
	rotaerrors "go-roster/internal/rota/errors"
)

type fakeRosterRepo struct {
	createFn                func(ctx context.Context, s *roster.WeekSnapshot) error
	findByOfficeAndWeekFn   func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error)
	findAllByOfficeFn       func(ctx context.Context, officeID string) ([]roster.WeekSnapshot, error)
	updateFn                func(ctx context.Context, s *roster.WeekSnapshot) error
	deleteByOfficeAndWeekFn func(ctx context.Context, officeID string, weekStart time.Time) error
}

func (f *fakeRosterRepo) WithTx(tx *sql.Tx) roster.Repository { return f }

func (f *fakeRosterRepo) Create(ctx context.Context, s *roster.WeekSnapshot) error {
	return f.createFn(ctx, s)
}

func (f *fakeRosterRepo) FindByOfficeAndWeek(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
	return f.findByOfficeAndWeekFn(ctx, officeID, weekStart)
}

func (f *fakeRosterRepo) FindAllByOffice(ctx context.Context, officeID string) ([]roster.WeekSnapshot, error) {
	return f.findAllByOfficeFn(ctx, officeID)
}

func (f *fakeRosterRepo) Update(ctx context.Context, s *roster.WeekSnapshot) error {
	return f.updateFn(ctx, s)
}

func (f *fakeRosterRepo) DeleteByOfficeAndWeek(ctx context.Context, officeID string, weekStart time.Time) error {
	return f.deleteByOfficeAndWeekFn(ctx, officeID, weekStart)
}

type fakeEmployeeService struct {
	snapshot employee.RosterSnapshot
}

func (f *fakeEmployeeService) Create(ctx context.Context, officeID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, nil
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, officeID string) ([]employee.EmployeeResponse, error) {
	return nil, nil
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, officeID, id string) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, nil
}
func (f *fakeEmployeeService) Update(ctx context.Context, officeID, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, nil
}
func (f *fakeEmployeeService) Delete(ctx context.Context, officeID, id string) error { return nil }
func (f *fakeEmployeeService) RosterSnapshot(ctx context.Context, officeID string) (employee.RosterSnapshot, error) {
	return f.snapshot, nil
}

type fakeAbsenceService struct {
	wc absence.WeekContext
}

func (f *fakeAbsenceService) Create(ctx context.Context, officeID, actorID string, req absence.CreateAbsenceRequest) (absence.AbsenceResponse, error) {
	return absence.AbsenceResponse{}, nil
}
func (f *fakeAbsenceService) GetAll(ctx context.Context, officeID, status string) ([]absence.AbsenceResponse, error) {
	return nil, nil
}
func (f *fakeAbsenceService) GetByID(ctx context.Context, officeID, id string) (absence.AbsenceResponse, error) {
	return absence.AbsenceResponse{}, nil
}
func (f *fakeAbsenceService) Approve(ctx context.Context, officeID, id, approverID string) (absence.AbsenceResponse, error) {
	return absence.AbsenceResponse{}, nil
}
func (f *fakeAbsenceService) Reject(ctx context.Context, officeID, id, approverID string, req absence.RejectAbsenceRequest) (absence.AbsenceResponse, error) {
	return absence.AbsenceResponse{}, nil
}
func (f *fakeAbsenceService) Cancel(ctx context.Context, officeID, id string) (absence.AbsenceResponse, error) {
	return absence.AbsenceResponse{}, nil
}
func (f *fakeAbsenceService) CreateHoliday(ctx context.Context, officeID string, req absence.CreateHolidayRequest) (absence.HolidayResponse, error) {
	return absence.HolidayResponse{}, nil
}
func (f *fakeAbsenceService) GetHolidays(ctx context.Context, officeID string, from, to time.Time) ([]absence.HolidayResponse, error) {
	return nil, nil
}
func (f *fakeAbsenceService) DeleteHoliday(ctx context.Context, officeID, id string) error {
	return nil
}
func (f *fakeAbsenceService) WeekContext(ctx context.Context, officeID string, week rota.WeekCalendar) (absence.WeekContext, error) {
	return f.wc, nil
}

type fakePresetService struct {
	cfg preset.ResolvedConfig
}

func (f *fakePresetService) Create(ctx context.Context, officeID string, req preset.CreatePresetRequest) (preset.PresetResponse, error) {
	return preset.PresetResponse{}, nil
}
func (f *fakePresetService) GetAll(ctx context.Context, officeID string) ([]preset.PresetResponse, error) {
	return nil, nil
}
func (f *fakePresetService) GetByID(ctx context.Context, officeID, id string) (preset.PresetResponse, error) {
	return preset.PresetResponse{}, nil
}
func (f *fakePresetService) Update(ctx context.Context, officeID, id string, req preset.UpdatePresetRequest) (preset.PresetResponse, error) {
	return preset.PresetResponse{}, nil
}
func (f *fakePresetService) Activate(ctx context.Context, officeID, id string) (preset.PresetResponse, error) {
	return preset.PresetResponse{}, nil
}
func (f *fakePresetService) Delete(ctx context.Context, officeID, id string) error { return nil }
func (f *fakePresetService) ResolveForPlanning(ctx context.Context, officeID string, headcount int) (preset.ResolvedConfig, error) {
	return f.cfg, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

const testWeekStart = "2026-03-09" // a Monday

func testDirectory() employee.RosterSnapshot {
	mk := func(id, name, title string) rota.Employee {
		return rota.Employee{ID: id, DisplayName: name, RawPositionTitle: title, Active: true}
	}
	snap := employee.RosterSnapshot{
		Employees: []rota.Employee{
			mk("sup-cas", "Laura Muñoz", "Supervisora de Operaciones"),
			mk("aux-1", "Ana García", "Auxiliar de Operaciones"),
			mk("aux-2", "Bruno Díaz", "Auxiliar de Operaciones"),
			mk("aux-3", "Carla Reyes", "Auxiliar de Operaciones"),
			mk("aux-4", "Diego Luna", "Auxiliar de Operaciones"),
			mk("aux-5", "Elena Sosa", "Auxiliar de Operaciones"),
			mk("aux-6", "Fabián Cruz", "Auxiliar de Operaciones"),
			mk("aux-7", "Gina Prado", "Auxiliar de Operaciones"),
		},
		Attrs: rota.Attributes{
			WS:                  rota.NewIDSet("aux-1"),
			Training:            rota.NewIDSet(),
			ConsulateAuthorized: rota.NewIDSet("aux-6", "aux-7"),
			RestrictedPickPack:  rota.NewIDSet(),
			RestrictedConsulate: rota.NewIDSet(),
		},
		Teams: rota.TeamPartition{
			"sup-cas": rota.TeamA,
			"aux-1":   rota.TeamA, "aux-2": rota.TeamB, "aux-3": rota.TeamA,
			"aux-4": rota.TeamB, "aux-5": rota.TeamA, "aux-6": rota.TeamB,
			"aux-7": rota.TeamA,
		},
	}
	return snap
}

func testConfig() preset.ResolvedConfig {
	return preset.ResolvedConfig{
		Slots: rota.PositionSlots{
			rota.PositionCASSupervisor: 1,
			rota.PositionOperation:     3,
			rota.PositionPickPack:      2,
			rota.PositionConsulate:     2,
		},
		Fixed:                   map[rota.Position][]string{},
		WorkstationDistribution: rota.Distribution{rota.CodeO: 1, rota.CodeR: 1, rota.CodeWS: 1},
		MealSlots: []rota.MealSlot{
			{
				ID:                "slot-1",
				Label:             "First lunch",
				StartTime:         "12:30",
				EndTime:           "13:15",
				Enabled:           true,
				OperationCapacity: 2,
				PickPackCapacity:  1,
			},
		},
		RegularParityRestTeam:    rota.TeamA,
		SupervisorParityRestTeam: rota.TeamA,
		SupervisorRestCalendar:   rota.RestCalendar{},
		VacationRestricted:       rota.DefaultVacationRestricted,
	}
}

func setupRosterTest(t *testing.T, repo roster.Repository, outbox *fakeOutbox) (roster.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := roster.NewService(
		db,
		repo,
		&fakeEmployeeService{snapshot: testDirectory()},
		&fakeAbsenceService{wc: absence.WeekContext{
			Holidays:  rota.NewIDSet(),
			Vacations: rota.VacationMap{},
		}},
		&fakePresetService{cfg: testConfig()},
		outbox,
		nil,
		zap.NewNop(),
	)
	return svc, mock
}

func TestRosterService_Generate(t *testing.T) {
	var created *roster.WeekSnapshot
	repo := &fakeRosterRepo{
		findByOfficeAndWeekFn: func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, s *roster.WeekSnapshot) error {
			created = s
			return nil
		},
	}
	outbox := &fakeOutbox{}
	svc, mock := setupRosterTest(t, repo, outbox)
	mock.ExpectBegin()
	mock.ExpectCommit()

	seed := int64(42)
	resp, err := svc.Generate(context.Background(), uuid.NewString(), roster.GenerateRosterRequest{
		WeekStart: testWeekStart,
		Seed:      &seed,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, seed, created.Seed)

	plan := resp.Plan
	assert.Equal(t, testWeekStart, plan.WeekStart)
	assert.Equal(t, seed, plan.Seed)

	// The only supervisor lands in the supervisor seat; every slot fills.
	assert.Equal(t, []string{"sup-cas"}, plan.Assignment["CAS_SUPERVISOR"])
	assert.Len(t, plan.Assignment["PICKPACK"], 2)
	assert.Len(t, plan.Assignment["CONSULATE"], 2)
	assert.Len(t, plan.Assignment["OPERATION"], 3)
	assert.Empty(t, plan.Shortages)

	// Six plan days, Saturday included.
	assert.Len(t, plan.Days, 6)
	assert.Contains(t, plan.Days, "2026-03-14")

	// Workstation codes rotate over the Operation roster.
	for _, id := range plan.Assignment["OPERATION"] {
		assert.NotEmpty(t, plan.Workstations[id])
	}

	// Meal seating exists for the configured slot on a plain weekday.
	require.Contains(t, plan.Meals, "2026-03-10")
	assert.NotEmpty(t, plan.Meals["2026-03-10"]["slot-1"])

	// One outbox row in the same transaction.
	require.Len(t, outbox.created, 1)
	assert.Equal(t, "roster.week.generated.v1", outbox.created[0].Topic)
	assert.Equal(t, kafka.OutboxStatusPending, outbox.created[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterService_GenerateDeterministicWithSeed(t *testing.T) {
	run := func() roster.PlanDocument {
		repo := &fakeRosterRepo{
			findByOfficeAndWeekFn: func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(ctx context.Context, s *roster.WeekSnapshot) error { return nil },
		}
		svc, mock := setupRosterTest(t, repo, &fakeOutbox{})
		mock.ExpectBegin()
		mock.ExpectCommit()

		seed := int64(7)
		resp, err := svc.Generate(context.Background(), uuid.NewString(), roster.GenerateRosterRequest{
			WeekStart: testWeekStart,
			Seed:      &seed,
		})
		require.NoError(t, err)
		return resp.Plan
	}

	first := run()
	second := run()
	assert.Equal(t, first.Assignment, second.Assignment)
	assert.Equal(t, first.Days, second.Days)
	assert.Equal(t, first.Meals, second.Meals)
}

func TestRosterService_GenerateExistingWeek(t *testing.T) {
	repo := &fakeRosterRepo{
		findByOfficeAndWeekFn: func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
			return &roster.WeekSnapshot{ID: uuid.New()}, nil
		},
	}
	svc, _ := setupRosterTest(t, repo, &fakeOutbox{})

	_, err := svc.Generate(context.Background(), uuid.NewString(), roster.GenerateRosterRequest{
		WeekStart: testWeekStart,
	})
	assert.ErrorIs(t, err, rostererrors.ErrRosterExists)
}

func TestRosterService_GenerateRejectsNonMonday(t *testing.T) {
	svc, _ := setupRosterTest(t, &fakeRosterRepo{}, &fakeOutbox{})

	_, err := svc.Generate(context.Background(), uuid.NewString(), roster.GenerateRosterRequest{
		WeekStart: "2026-03-10",
	})
	assert.ErrorIs(t, err, rostererrors.ErrInvalidWeekStart)
}

func TestRosterService_GetNotFound(t *testing.T) {
	repo := &fakeRosterRepo{
		findByOfficeAndWeekFn: func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, _ := setupRosterTest(t, repo, &fakeOutbox{})

	_, err := svc.Get(context.Background(), uuid.NewString(), testWeekStart)
	assert.ErrorIs(t, err, rostererrors.ErrRosterNotFound)
}

func TestRosterService_List(t *testing.T) {
	officeID := uuid.NewString()
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	repo := &fakeRosterRepo{
		findAllByOfficeFn: func(ctx context.Context, gotOffice string) ([]roster.WeekSnapshot, error) {
			assert.Equal(t, officeID, gotOffice)
			return []roster.WeekSnapshot{
				{ID: uuid.New(), OfficeID: uuid.MustParse(officeID), WeekStart: monday.AddDate(0, 0, 7), Seed: 2},
				{ID: uuid.New(), OfficeID: uuid.MustParse(officeID), WeekStart: monday, Seed: 1},
			}, nil
		},
	}
	svc, _ := setupRosterTest(t, repo, &fakeOutbox{})

	got, err := svc.List(context.Background(), officeID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-16", got[0].WeekStart)
	assert.Equal(t, "2026-03-09", got[1].WeekStart)
	assert.Equal(t, int64(2), got[0].Seed)

	_, err = svc.List(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, rostererrors.ErrInvalidOfficeID)
}

func TestRosterService_GetCacheHit(t *testing.T) {
	officeID := uuid.NewString()
	want := roster.RosterResponse{
		ID:       uuid.NewString(),
		OfficeID: officeID,
		Plan:     roster.PlanDocument{WeekStart: testWeekStart, Seed: 42},
	}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client, cacheMock := redismock.NewClientMock()
	cacheMock.ExpectGet("roster:" + officeID + ":" + testWeekStart).SetVal(string(raw))

	repo := &fakeRosterRepo{
		findByOfficeAndWeekFn: func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
			t.Fatal("database must not be hit on a cache hit")
			return nil, nil
		},
	}
	svc := roster.NewService(
		db, repo,
		&fakeEmployeeService{snapshot: testDirectory()},
		&fakeAbsenceService{},
		&fakePresetService{cfg: testConfig()},
		&fakeOutbox{},
		client,
		zap.NewNop(),
	)

	got, err := svc.Get(context.Background(), officeID, testWeekStart)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestRosterService_FixPosition(t *testing.T) {
	officeID := uuid.NewString()

	// Seed a published week first.
	var stored *roster.WeekSnapshot
	repo := &fakeRosterRepo{
		findByOfficeAndWeekFn: func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
			if stored == nil {
				return nil, gorm.ErrRecordNotFound
			}
			return stored, nil
		},
		createFn: func(ctx context.Context, s *roster.WeekSnapshot) error {
			stored = s
			return nil
		},
		updateFn: func(ctx context.Context, s *roster.WeekSnapshot) error {
			stored = s
			return nil
		},
	}
	outbox := &fakeOutbox{}
	svc, mock := setupRosterTest(t, repo, outbox)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	seed := int64(42)
	generated, err := svc.Generate(context.Background(), officeID, roster.GenerateRosterRequest{
		WeekStart: testWeekStart,
		Seed:      &seed,
	})
	require.NoError(t, err)

	// Move a consulate-authorized employee into CONSULATE.
	fixed, err := svc.FixPosition(context.Background(), officeID, testWeekStart, roster.FixPositionRequest{
		EmployeeID: "aux-7",
		Position:   "CONSULATE",
	})
	require.NoError(t, err)

	assert.Contains(t, fixed.Plan.Assignment["CONSULATE"], "aux-7")
	assert.Contains(t, fixed.Plan.FixedPins, "aux-7")
	assert.Equal(t, generated.Plan.Seed, fixed.Plan.Seed)

	// aux-7 sits in exactly one position afterwards.
	occurrences := 0
	for _, ids := range fixed.Plan.Assignment {
		for _, id := range ids {
			if id == "aux-7" {
				occurrences++
			}
		}
	}
	assert.Equal(t, 1, occurrences)

	// Generate event plus fix event.
	require.Len(t, outbox.created, 2)
	assert.Equal(t, "roster.fix.applied.v1", outbox.created[1].Topic)
}

func TestRosterService_FixPositionUnauthorizedConsulate(t *testing.T) {
	// aux-6 and aux-7 hold consulate authorization, so the relaxed rule
	// must not apply to anyone else.
	payload, _ := json.Marshal(roster.PlanDocument{WeekStart: testWeekStart, Seed: 1, Assignment: map[string][]string{}})
	repo := &fakeRosterRepo{
		findByOfficeAndWeekFn: func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
			return &roster.WeekSnapshot{ID: uuid.New(), Seed: 1, Payload: payload}, nil
		},
	}
	svc, _ := setupRosterTest(t, repo, &fakeOutbox{})

	_, err := svc.FixPosition(context.Background(), uuid.NewString(), testWeekStart, roster.FixPositionRequest{
		EmployeeID: "aux-1",
		Position:   "CONSULATE",
	})
	assert.ErrorIs(t, err, rotaerrors.ErrConsulateAuthRequired)
}

func TestRosterService_FixPositionUnknownEmployee(t *testing.T) {
	payload, _ := json.Marshal(roster.PlanDocument{WeekStart: testWeekStart, Seed: 1, Assignment: map[string][]string{}})
	repo := &fakeRosterRepo{
		findByOfficeAndWeekFn: func(ctx context.Context, officeID string, weekStart time.Time) (*roster.WeekSnapshot, error) {
			return &roster.WeekSnapshot{ID: uuid.New(), Seed: 1, Payload: payload}, nil
		},
	}
	svc, _ := setupRosterTest(t, repo, &fakeOutbox{})

	_, err := svc.FixPosition(context.Background(), uuid.NewString(), testWeekStart, roster.FixPositionRequest{
		EmployeeID: uuid.NewString(),
		Position:   "OPERATION",
	})
	assert.ErrorIs(t, err, rostererrors.ErrEmployeeNotInRoster)
}
