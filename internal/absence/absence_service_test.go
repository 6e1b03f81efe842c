package absence_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-roster/internal/absence"
	absenceerrors "go-roster/internal/absence/errors"
	"go-roster/internal/rota"
)

type fakeAbsenceRepo struct {
	createFn              func(ctx context.Context, a *absence.Absence) error
	findAllByOfficeFn     func(ctx context.Context, officeID, status string) ([]absence.Absence, error)
	findByIDAndOfficeFn   func(ctx context.Context, officeID, id string) (*absence.Absence, error)
	findOverlappingFn     func(ctx context.Context, officeID, employeeID string, start, end time.Time) (int64, error)
	findApprovedInRangeFn func(ctx context.Context, officeID string, from, to time.Time) ([]absence.Absence, error)
	updateFn              func(ctx context.Context, a *absence.Absence) error
	createHolidayFn       func(ctx context.Context, h *absence.Holiday) error
	findHolidaysInRangeFn func(ctx context.Context, officeID string, from, to time.Time) ([]absence.Holiday, error)
	deleteHolidayFn       func(ctx context.Context, officeID, id string) error
}

func (f *fakeAbsenceRepo) WithTx(tx *sql.Tx) absence.Repository { return f }

func (f *fakeAbsenceRepo) Create(ctx context.Context, a *absence.Absence) error {
	return f.createFn(ctx, a)
}

func (f *fakeAbsenceRepo) FindAllByOffice(ctx context.Context, officeID, status string) ([]absence.Absence, error) {
	return f.findAllByOfficeFn(ctx, officeID, status)
}

func (f *fakeAbsenceRepo) FindByIDAndOffice(ctx context.Context, officeID, id string) (*absence.Absence, error) {
	return f.findByIDAndOfficeFn(ctx, officeID, id)
}

func (f *fakeAbsenceRepo) FindOverlapping(ctx context.Context, officeID, employeeID string, start, end time.Time) (int64, error) {
	return f.findOverlappingFn(ctx, officeID, employeeID, start, end)
}

func (f *fakeAbsenceRepo) FindApprovedInRange(ctx context.Context, officeID string, from, to time.Time) ([]absence.Absence, error) {
	return f.findApprovedInRangeFn(ctx, officeID, from, to)
}

func (f *fakeAbsenceRepo) Update(ctx context.Context, a *absence.Absence) error {
	return f.updateFn(ctx, a)
}

func (f *fakeAbsenceRepo) CreateHoliday(ctx context.Context, h *absence.Holiday) error {
	return f.createHolidayFn(ctx, h)
}

func (f *fakeAbsenceRepo) FindHolidaysInRange(ctx context.Context, officeID string, from, to time.Time) ([]absence.Holiday, error) {
	return f.findHolidaysInRangeFn(ctx, officeID, from, to)
}

func (f *fakeAbsenceRepo) DeleteHoliday(ctx context.Context, officeID, id string) error {
	return f.deleteHolidayFn(ctx, officeID, id)
}

func setupAbsenceTest(t *testing.T, repo absence.Repository) (absence.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return absence.NewService(db, repo, zap.NewNop()), mock
}

func TestAbsenceService_Create(t *testing.T) {
	officeID := uuid.NewString()
	actorID := uuid.NewString()
	employeeID := uuid.NewString()

	repo := &fakeAbsenceRepo{
		findOverlappingFn: func(ctx context.Context, gotOffice, gotEmployee string, start, end time.Time) (int64, error) {
			assert.Equal(t, officeID, gotOffice)
			assert.Equal(t, employeeID, gotEmployee)
			return 0, nil
		},
		createFn: func(ctx context.Context, a *absence.Absence) error {
			assert.Equal(t, absence.StatusPending, a.Status)
			assert.Equal(t, 3, a.TotalDays)
			return nil
		},
	}
	svc, mock := setupAbsenceTest(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), officeID, actorID, absence.CreateAbsenceRequest{
		EmployeeID:  employeeID,
		AbsenceType: "VACATION",
		StartDate:   "2026-03-10",
		EndDate:     "2026-03-12",
	})
	require.NoError(t, err)
	assert.Equal(t, absence.StatusPending, resp.Status)
	assert.Equal(t, "2026-03-10", resp.StartDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceService_CreateOverlapRejected(t *testing.T) {
	repo := &fakeAbsenceRepo{
		findOverlappingFn: func(ctx context.Context, officeID, employeeID string, start, end time.Time) (int64, error) {
			return 1, nil
		},
	}
	svc, _ := setupAbsenceTest(t, repo)

	_, err := svc.Create(context.Background(), uuid.NewString(), uuid.NewString(), absence.CreateAbsenceRequest{
		EmployeeID:  uuid.NewString(),
		AbsenceType: "VACATION",
		StartDate:   "2026-03-10",
		EndDate:     "2026-03-12",
	})
	assert.ErrorIs(t, err, absenceerrors.ErrAbsenceOverlap)
}

func TestAbsenceService_CreateInvalidRange(t *testing.T) {
	svc, _ := setupAbsenceTest(t, &fakeAbsenceRepo{})

	_, err := svc.Create(context.Background(), uuid.NewString(), uuid.NewString(), absence.CreateAbsenceRequest{
		EmployeeID:  uuid.NewString(),
		AbsenceType: "VACATION",
		StartDate:   "2026-03-12",
		EndDate:     "2026-03-10",
	})
	assert.ErrorIs(t, err, absenceerrors.ErrInvalidDateRange)
}

func TestAbsenceService_Approve(t *testing.T) {
	officeID := uuid.NewString()
	approverID := uuid.NewString()
	id := uuid.New()

	var saved *absence.Absence
	repo := &fakeAbsenceRepo{
		findByIDAndOfficeFn: func(ctx context.Context, gotOffice, gotID string) (*absence.Absence, error) {
			return &absence.Absence{ID: id, Status: absence.StatusPending}, nil
		},
		updateFn: func(ctx context.Context, a *absence.Absence) error {
			saved = a
			return nil
		},
	}
	svc, mock := setupAbsenceTest(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Approve(context.Background(), officeID, id.String(), approverID)
	require.NoError(t, err)
	assert.Equal(t, absence.StatusApproved, resp.Status)
	require.NotNil(t, saved)
	require.NotNil(t, saved.ApprovedBy)
	assert.Equal(t, approverID, saved.ApprovedBy.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceService_TransitionMachine(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		apply   func(svc absence.Service, officeID, id string) error
		wantErr error
	}{
		{
			name: "rejected is terminal",
			from: absence.StatusRejected,
			apply: func(svc absence.Service, officeID, id string) error {
				_, err := svc.Approve(context.Background(), officeID, id, uuid.NewString())
				return err
			},
			wantErr: absenceerrors.ErrInvalidStatusTransition,
		},
		{
			name: "cancelled is terminal",
			from: absence.StatusCancelled,
			apply: func(svc absence.Service, officeID, id string) error {
				_, err := svc.Cancel(context.Background(), officeID, id)
				return err
			},
			wantErr: absenceerrors.ErrInvalidStatusTransition,
		},
		{
			name: "approved can be cancelled",
			from: absence.StatusApproved,
			apply: func(svc absence.Service, officeID, id string) error {
				_, err := svc.Cancel(context.Background(), officeID, id)
				return err
			},
			wantErr: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := uuid.New()
			repo := &fakeAbsenceRepo{
				findByIDAndOfficeFn: func(ctx context.Context, officeID, gotID string) (*absence.Absence, error) {
					return &absence.Absence{ID: id, Status: tc.from}, nil
				},
				updateFn: func(ctx context.Context, a *absence.Absence) error { return nil },
			}
			svc, mock := setupAbsenceTest(t, repo)
			mock.ExpectBegin()
			if tc.wantErr == nil {
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := tc.apply(svc, uuid.NewString(), id.String())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAbsenceService_RejectRequiresReason(t *testing.T) {
	svc, _ := setupAbsenceTest(t, &fakeAbsenceRepo{})

	_, err := svc.Reject(context.Background(), uuid.NewString(), uuid.NewString(), uuid.NewString(), absence.RejectAbsenceRequest{})
	assert.ErrorIs(t, err, absenceerrors.ErrRejectionReasonRequired)
}

func TestAbsenceService_WeekContext(t *testing.T) {
	officeID := uuid.NewString()
	empA := uuid.New()
	empB := uuid.New()
	week := rota.NewWeekCalendar(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))

	repo := &fakeAbsenceRepo{
		findHolidaysInRangeFn: func(ctx context.Context, gotOffice string, from, to time.Time) ([]absence.Holiday, error) {
			assert.Equal(t, officeID, gotOffice)
			return []absence.Holiday{
				{Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), Name: "Local holiday"},
			}, nil
		},
		findApprovedInRangeFn: func(ctx context.Context, gotOffice string, from, to time.Time) ([]absence.Absence, error) {
			return []absence.Absence{
				// Spans into the week from the previous one; only the
				// in-window days must land in the map.
				{
					EmployeeID: empA,
					StartDate:  time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
					EndDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				},
				{
					EmployeeID: empB,
					StartDate:  time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
					EndDate:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	svc, _ := setupAbsenceTest(t, repo)

	wc, err := svc.WeekContext(context.Background(), officeID, week)
	require.NoError(t, err)

	assert.True(t, wc.Holidays.Has("2026-03-11"))
	assert.Len(t, wc.Holidays, 1)

	assert.True(t, wc.Vacations.OnVacation(empA.String(), "2026-03-09"))
	assert.True(t, wc.Vacations.OnVacation(empA.String(), "2026-03-10"))
	assert.False(t, wc.Vacations.OnVacation(empA.String(), "2026-03-11"))

	assert.True(t, wc.Vacations.OnVacation(empB.String(), "2026-03-13"))
	assert.True(t, wc.Vacations.OnVacation(empB.String(), "2026-03-14"))

	assert.Equal(t, 2, wc.Vacations.AbsenceScore(empA.String(), week, wc.Holidays))
	assert.Equal(t, 2, wc.Vacations.AbsenceScore(empB.String(), week, wc.Holidays))
}

func TestAbsenceService_HolidayDuplicate(t *testing.T) {
	repo := &fakeAbsenceRepo{
		findHolidaysInRangeFn: func(ctx context.Context, officeID string, from, to time.Time) ([]absence.Holiday, error) {
			return []absence.Holiday{{Date: from}}, nil
		},
	}
	svc, _ := setupAbsenceTest(t, repo)

	_, err := svc.CreateHoliday(context.Background(), uuid.NewString(), absence.CreateHolidayRequest{Date: "2026-03-11"})
	assert.ErrorIs(t, err, absenceerrors.ErrHolidayExists)
}
