package employee

import (
	"context"
	"database/sql"
	"errors"

	employeeerrors "go-roster/internal/employee/errors"
	"go-roster/internal/rota"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RosterSnapshot is the directory feed the planning pipeline consumes:
// the pre-filtered roster members plus their attribute sets and the
// Saturday team partition.
type RosterSnapshot struct {
	Employees []rota.Employee
	Attrs     rota.Attributes
	Teams     rota.TeamPartition
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, officeID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, officeID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, officeID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, officeID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, officeID, id string) error
	RosterSnapshot(ctx context.Context, officeID string) (RosterSnapshot, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, officeID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	officeUUID, err := uuid.Parse(officeID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidOfficeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e := &Employee{
		ID:                  uuid.New(),
		OfficeID:            officeUUID,
		FullName:            req.FullName,
		PositionTitle:       req.PositionTitle,
		EmployeeCode:        req.EmployeeCode,
		OfficeTag:           req.OfficeTag,
		Active:              true,
		WS:                  req.WS,
		Training:            req.Training,
		ConsulateAuthorized: req.ConsulateAuthorized,
		RestrictedPickPack:  req.RestrictedPickPack,
		RestrictedConsulate: req.RestrictedConsulate,
		SaturdayTeam:        defaultTeam(req.SaturdayTeam),
	}
	if req.Active != nil {
		e.Active = *req.Active
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("create employee success",
		zap.String("employee_id", e.ID.String()),
		zap.String("office_id", officeID),
	)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, officeID string) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAllByOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, officeID, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByIDAndOffice(ctx, officeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, officeID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByIDAndOffice(ctx, officeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	e.FullName = req.FullName
	e.PositionTitle = req.PositionTitle
	e.EmployeeCode = req.EmployeeCode
	e.OfficeTag = req.OfficeTag
	e.WS = req.WS
	e.Training = req.Training
	e.ConsulateAuthorized = req.ConsulateAuthorized
	e.RestrictedPickPack = req.RestrictedPickPack
	e.RestrictedConsulate = req.RestrictedConsulate
	e.SaturdayTeam = defaultTeam(req.SaturdayTeam)
	if req.Active != nil {
		e.Active = *req.Active
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, officeID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, officeID, id); err != nil {
		return err
	}
	return tx.Commit()
}

// RosterSnapshot filters the directory down to active, in-scope staff and
// assembles the attribute sets the engines work with.
func (s *service) RosterSnapshot(ctx context.Context, officeID string) (RosterSnapshot, error) {
	employees, err := s.repo.FindAllByOffice(ctx, officeID)
	if err != nil {
		return RosterSnapshot{}, err
	}

	snap := RosterSnapshot{
		Attrs: rota.Attributes{
			WS:                  rota.NewIDSet(),
			Training:            rota.NewIDSet(),
			ConsulateAuthorized: rota.NewIDSet(),
			RestrictedPickPack:  rota.NewIDSet(),
			RestrictedConsulate: rota.NewIDSet(),
		},
		Teams: rota.TeamPartition{},
	}

	for _, e := range employees {
		if !e.RosterMember() {
			continue
		}
		id := e.ID.String()
		snap.Employees = append(snap.Employees, rota.Employee{
			ID:               id,
			DisplayName:      e.FullName,
			RawPositionTitle: e.PositionTitle,
			EmployeeCode:     e.EmployeeCode,
			Active:           e.Active,
			OfficeTag:        e.OfficeTag,
		})
		if e.WS {
			snap.Attrs.WS[id] = true
		}
		if e.Training {
			snap.Attrs.Training[id] = true
		}
		if e.ConsulateAuthorized {
			snap.Attrs.ConsulateAuthorized[id] = true
		}
		if e.RestrictedPickPack {
			snap.Attrs.RestrictedPickPack[id] = true
		}
		if e.RestrictedConsulate {
			snap.Attrs.RestrictedConsulate[id] = true
		}
		snap.Teams[id] = rota.Team(defaultTeam(e.SaturdayTeam))
	}

	return snap, nil
}

func defaultTeam(team string) string {
	if team == string(rota.TeamB) {
		return string(rota.TeamB)
	}
	return string(rota.TeamA)
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                  e.ID.String(),
		OfficeID:            e.OfficeID.String(),
		FullName:            e.FullName,
		PositionTitle:       e.PositionTitle,
		EmployeeCode:        e.EmployeeCode,
		OfficeTag:           e.OfficeTag,
		Active:              e.Active,
		WS:                  e.WS,
		Training:            e.Training,
		ConsulateAuthorized: e.ConsulateAuthorized,
		RestrictedPickPack:  e.RestrictedPickPack,
		RestrictedConsulate: e.RestrictedConsulate,
		SaturdayTeam:        e.SaturdayTeam,
	}
}
