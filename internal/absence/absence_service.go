package absence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	absenceerrors "go-roster/internal/absence/errors"
	"go-roster/internal/rota"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const dateLayout = "2006-01-02"

// WeekContext bundles the approved-leave and holiday view of one planning
// window, keyed the way the engines expect.
type WeekContext struct {
	Holidays  rota.HolidaySet
	Vacations rota.VacationMap
}

//go:generate mockgen -source=absence_service.go -destination=mock/absence_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, officeID, actorID string, req CreateAbsenceRequest) (AbsenceResponse, error)
	GetAll(ctx context.Context, officeID, status string) ([]AbsenceResponse, error)
	GetByID(ctx context.Context, officeID, id string) (AbsenceResponse, error)
	Approve(ctx context.Context, officeID, id, approverID string) (AbsenceResponse, error)
	Reject(ctx context.Context, officeID, id, approverID string, req RejectAbsenceRequest) (AbsenceResponse, error)
	Cancel(ctx context.Context, officeID, id string) (AbsenceResponse, error)

	CreateHoliday(ctx context.Context, officeID string, req CreateHolidayRequest) (HolidayResponse, error)
	GetHolidays(ctx context.Context, officeID string, from, to time.Time) ([]HolidayResponse, error)
	DeleteHoliday(ctx context.Context, officeID, id string) error

	WeekContext(ctx context.Context, officeID string, week rota.WeekCalendar) (WeekContext, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("absence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("absence.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, officeID, actorID string, req CreateAbsenceRequest) (AbsenceResponse, error) {
	officeUUID, err := uuid.Parse(officeID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidOfficeID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidEmployeeID
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return AbsenceResponse{}, absenceerrors.ErrInvalidDateRange
	}

	overlapping, err := s.repo.FindOverlapping(ctx, officeID, req.EmployeeID, start, end)
	if err != nil {
		s.logger.Error("create absence overlap check failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	if overlapping > 0 {
		return AbsenceResponse{}, absenceerrors.ErrAbsenceOverlap
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create absence begin tx failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	defer tx.Rollback()

	a := &Absence{
		ID:          uuid.New(),
		OfficeID:    officeUUID,
		EmployeeID:  employeeUUID,
		AbsenceType: req.AbsenceType,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   int(end.Sub(start).Hours()/24) + 1,
		Reason:      req.Reason,
		Status:      StatusPending,
		CreatedBy:   actorUUID,
	}

	if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
		s.logger.Error("create absence persist failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create absence commit failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	s.logger.Info("create absence success",
		zap.String("absence_id", a.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("office_id", officeID),
	)
	return mapAbsenceResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, officeID, status string) ([]AbsenceResponse, error) {
	absences, err := s.repo.FindAllByOffice(ctx, officeID, status)
	if err != nil {
		return nil, err
	}
	resp := make([]AbsenceResponse, len(absences))
	for i, a := range absences {
		resp[i] = mapAbsenceResponse(a)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, officeID, id string) (AbsenceResponse, error) {
	a, err := s.findAbsence(ctx, s.repo, officeID, id)
	if err != nil {
		return AbsenceResponse{}, err
	}
	return mapAbsenceResponse(*a), nil
}

func (s *service) Approve(ctx context.Context, officeID, id, approverID string) (AbsenceResponse, error) {
	return s.transition(ctx, officeID, id, StatusApproved, approverID, nil)
}

func (s *service) Reject(ctx context.Context, officeID, id, approverID string, req RejectAbsenceRequest) (AbsenceResponse, error) {
	if req.RejectionReason == "" {
		return AbsenceResponse{}, absenceerrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, officeID, id, StatusRejected, approverID, &req.RejectionReason)
}

func (s *service) Cancel(ctx context.Context, officeID, id string) (AbsenceResponse, error) {
	return s.transition(ctx, officeID, id, StatusCancelled, "", nil)
}

// transition applies the status machine. PENDING can be approved,
// rejected or cancelled; APPROVED can still be cancelled; terminal
// states stay terminal.
func (s *service) transition(ctx context.Context, officeID, id, target, approverID string, rejectionReason *string) (AbsenceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("absence transition begin tx failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := s.findAbsence(ctx, qtx, officeID, id)
	if err != nil {
		return AbsenceResponse{}, err
	}

	if !validTransition(a.Status, target) {
		return AbsenceResponse{}, absenceerrors.ErrInvalidStatusTransition
	}

	a.Status = target
	switch target {
	case StatusApproved, StatusRejected:
		approverUUID, err := uuid.Parse(approverID)
		if err != nil {
			return AbsenceResponse{}, absenceerrors.ErrInvalidActorID
		}
		now := time.Now()
		a.ApprovedBy = &approverUUID
		a.ApprovedAt = &now
		a.RejectionReason = rejectionReason
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("absence transition persist failed",
			zap.String("absence_id", id),
			zap.String("target", target),
			zap.Error(err),
		)
		return AbsenceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("absence transition commit failed", zap.String("absence_id", id), zap.Error(err))
		return AbsenceResponse{}, err
	}

	s.logger.Info("absence transition success",
		zap.String("absence_id", id),
		zap.String("status", target),
		zap.String("office_id", officeID),
	)
	return mapAbsenceResponse(*a), nil
}

func validTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled
	case StatusApproved:
		return to == StatusCancelled
	default:
		return false
	}
}

func (s *service) findAbsence(ctx context.Context, repo Repository, officeID, id string) (*Absence, error) {
	a, err := repo.FindByIDAndOffice(ctx, officeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, absenceerrors.ErrAbsenceNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *service) CreateHoliday(ctx context.Context, officeID string, req CreateHolidayRequest) (HolidayResponse, error) {
	officeUUID, err := uuid.Parse(officeID)
	if err != nil {
		return HolidayResponse{}, absenceerrors.ErrInvalidOfficeID
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return HolidayResponse{}, absenceerrors.ErrInvalidDateFormat
	}

	existing, err := s.repo.FindHolidaysInRange(ctx, officeID, date, date)
	if err != nil {
		return HolidayResponse{}, err
	}
	if len(existing) > 0 {
		return HolidayResponse{}, absenceerrors.ErrHolidayExists
	}

	h := &Holiday{
		ID:       uuid.New(),
		OfficeID: officeUUID,
		Date:     date,
		Name:     req.Name,
	}
	if err := s.repo.CreateHoliday(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	return mapHolidayResponse(*h), nil
}

func (s *service) GetHolidays(ctx context.Context, officeID string, from, to time.Time) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindHolidaysInRange(ctx, officeID, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapHolidayResponse(h)
	}
	return resp, nil
}

func (s *service) DeleteHoliday(ctx context.Context, officeID, id string) error {
	return s.repo.DeleteHoliday(ctx, officeID, id)
}

// WeekContext clips approved leave and registered holidays to the Mon-Sat
// window of the given week.
func (s *service) WeekContext(ctx context.Context, officeID string, week rota.WeekCalendar) (WeekContext, error) {
	from, err := time.Parse(dateLayout, week.Days[0].Date)
	if err != nil {
		return WeekContext{}, absenceerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, week.Days[len(week.Days)-1].Date)
	if err != nil {
		return WeekContext{}, absenceerrors.ErrInvalidDateFormat
	}

	wc := WeekContext{
		Holidays:  rota.NewIDSet(),
		Vacations: rota.VacationMap{},
	}

	holidays, err := s.repo.FindHolidaysInRange(ctx, officeID, from, to)
	if err != nil {
		return WeekContext{}, err
	}
	for _, h := range holidays {
		wc.Holidays[h.Date.Format(dateLayout)] = true
	}

	absences, err := s.repo.FindApprovedInRange(ctx, officeID, from, to)
	if err != nil {
		return WeekContext{}, err
	}
	for _, a := range absences {
		id := a.EmployeeID.String()
		for _, day := range week.Days {
			d, err := time.Parse(dateLayout, day.Date)
			if err != nil {
				continue
			}
			if d.Before(a.StartDate) || d.After(a.EndDate) {
				continue
			}
			if wc.Vacations[id] == nil {
				wc.Vacations[id] = rota.NewIDSet()
			}
			wc.Vacations[id][day.Date] = true
		}
	}

	return wc, nil
}

func mapAbsenceResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:              a.ID.String(),
		OfficeID:        a.OfficeID.String(),
		EmployeeID:      a.EmployeeID.String(),
		AbsenceType:     a.AbsenceType,
		StartDate:       a.StartDate.Format(dateLayout),
		EndDate:         a.EndDate.Format(dateLayout),
		TotalDays:       a.TotalDays,
		Reason:          a.Reason,
		Status:          a.Status,
		CreatedBy:       a.CreatedBy.String(),
		RejectionReason: a.RejectionReason,
	}
	if a.ApprovedBy != nil {
		v := a.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if a.ApprovedAt != nil {
		v := a.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:       h.ID.String(),
		OfficeID: h.OfficeID.String(),
		Date:     h.Date.Format(dateLayout),
		Name:     h.Name,
	}
}
