package preset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	preseterrors "go-roster/internal/preset/errors"
	"go-roster/internal/rota"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

//go:generate mockgen -source=preset_service.go -destination=mock/preset_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, officeID string, req CreatePresetRequest) (PresetResponse, error)
	GetAll(ctx context.Context, officeID string) ([]PresetResponse, error)
	GetByID(ctx context.Context, officeID, id string) (PresetResponse, error)
	Update(ctx context.Context, officeID, id string, req UpdatePresetRequest) (PresetResponse, error)
	Activate(ctx context.Context, officeID, id string) (PresetResponse, error)
	Delete(ctx context.Context, officeID, id string) error

	// ResolveForPlanning loads the office's active preset and translates
	// it to engine types, fitting the slot table to the given headcount.
	ResolveForPlanning(ctx context.Context, officeID string, headcount int) (ResolvedConfig, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("preset.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("preset.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, officeID string, req CreatePresetRequest) (PresetResponse, error) {
	officeUUID, err := uuid.Parse(officeID)
	if err != nil {
		return PresetResponse{}, preseterrors.ErrInvalidOfficeID
	}
	if err := validateConfig(req.Config); err != nil {
		return PresetResponse{}, err
	}

	payload, err := json.Marshal(req.Config)
	if err != nil {
		return PresetResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create preset begin tx failed", zap.Error(err))
		return PresetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.Active {
		if err := qtx.DeactivateAllByOffice(ctx, officeID); err != nil {
			return PresetResponse{}, err
		}
	}

	p := &Preset{
		ID:       uuid.New(),
		OfficeID: officeUUID,
		Name:     req.Name,
		Active:   req.Active,
		Payload:  payload,
	}
	if err := qtx.Create(ctx, p); err != nil {
		if isUniqueViolation(err) {
			return PresetResponse{}, preseterrors.ErrPresetNameTaken
		}
		s.logger.Error("create preset persist failed", zap.Error(err))
		return PresetResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create preset commit failed", zap.Error(err))
		return PresetResponse{}, err
	}

	s.logger.Info("create preset success",
		zap.String("preset_id", p.ID.String()),
		zap.String("office_id", officeID),
		zap.Bool("active", p.Active),
	)
	return mapPresetResponse(*p, req.Config), nil
}

func (s *service) GetAll(ctx context.Context, officeID string) ([]PresetResponse, error) {
	presets, err := s.repo.FindAllByOffice(ctx, officeID)
	if err != nil {
		return nil, err
	}
	resp := make([]PresetResponse, 0, len(presets))
	for _, p := range presets {
		cfg, err := decodePayload(p.Payload)
		if err != nil {
			return nil, err
		}
		resp = append(resp, mapPresetResponse(p, cfg))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, officeID, id string) (PresetResponse, error) {
	p, err := s.findPreset(ctx, s.repo, officeID, id)
	if err != nil {
		return PresetResponse{}, err
	}
	cfg, err := decodePayload(p.Payload)
	if err != nil {
		return PresetResponse{}, err
	}
	return mapPresetResponse(*p, cfg), nil
}

func (s *service) Update(ctx context.Context, officeID, id string, req UpdatePresetRequest) (PresetResponse, error) {
	if err := validateConfig(req.Config); err != nil {
		return PresetResponse{}, err
	}
	payload, err := json.Marshal(req.Config)
	if err != nil {
		return PresetResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update preset begin tx failed", zap.Error(err))
		return PresetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findPreset(ctx, qtx, officeID, id)
	if err != nil {
		return PresetResponse{}, err
	}

	p.Name = req.Name
	p.Payload = payload
	p.UpdatedAt = time.Now()

	if err := qtx.Update(ctx, p); err != nil {
		if isUniqueViolation(err) {
			return PresetResponse{}, preseterrors.ErrPresetNameTaken
		}
		s.logger.Error("update preset persist failed", zap.String("preset_id", id), zap.Error(err))
		return PresetResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update preset commit failed", zap.String("preset_id", id), zap.Error(err))
		return PresetResponse{}, err
	}

	return mapPresetResponse(*p, req.Config), nil
}

// Activate makes the preset the office's single active one.
func (s *service) Activate(ctx context.Context, officeID, id string) (PresetResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PresetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.findPreset(ctx, qtx, officeID, id)
	if err != nil {
		return PresetResponse{}, err
	}

	if err := qtx.DeactivateAllByOffice(ctx, officeID); err != nil {
		return PresetResponse{}, err
	}
	p.Active = true
	if err := qtx.Update(ctx, p); err != nil {
		return PresetResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PresetResponse{}, err
	}

	cfg, err := decodePayload(p.Payload)
	if err != nil {
		return PresetResponse{}, err
	}

	s.logger.Info("activate preset success",
		zap.String("preset_id", id),
		zap.String("office_id", officeID),
	)
	return mapPresetResponse(*p, cfg), nil
}

func (s *service) Delete(ctx context.Context, officeID, id string) error {
	return s.repo.Delete(ctx, officeID, id)
}

func (s *service) ResolveForPlanning(ctx context.Context, officeID string, headcount int) (ResolvedConfig, error) {
	p, err := s.repo.FindActiveByOffice(ctx, officeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResolvedConfig{}, preseterrors.ErrNoActivePreset
		}
		return ResolvedConfig{}, err
	}
	cfg, err := decodePayload(p.Payload)
	if err != nil {
		return ResolvedConfig{}, err
	}
	return resolveConfig(cfg, headcount), nil
}

func (s *service) findPreset(ctx context.Context, repo Repository, officeID, id string) (*Preset, error) {
	p, err := repo.FindByIDAndOffice(ctx, officeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, preseterrors.ErrPresetNotFound
		}
		return nil, err
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func decodePayload(payload []byte) (PlannerConfig, error) {
	var cfg PlannerConfig
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return PlannerConfig{}, preseterrors.ErrCorruptPresetPayload
	}
	return cfg, nil
}

const clockLayout = "15:04"

func validateConfig(cfg PlannerConfig) error {
	for name, n := range cfg.Slots {
		if !rota.Position(name).Known() {
			return preseterrors.ErrUnknownPosition
		}
		if n < 0 {
			return preseterrors.ErrNegativeSlotCount
		}
	}
	for name := range cfg.Fixed {
		if !rota.Position(name).Known() {
			return preseterrors.ErrUnknownPosition
		}
	}
	for _, name := range cfg.VacationRestricted {
		if !rota.Position(name).Known() {
			return preseterrors.ErrUnknownPosition
		}
	}
	for code := range cfg.WorkstationDistribution {
		if !knownWorkstationCode(code) {
			return preseterrors.ErrInvalidWorkstationCode
		}
	}
	for _, slot := range cfg.MealSlots {
		start, err := time.Parse(clockLayout, slot.StartTime)
		if err != nil {
			return preseterrors.ErrInvalidMealWindow
		}
		end, err := time.Parse(clockLayout, slot.EndTime)
		if err != nil {
			return preseterrors.ErrInvalidMealWindow
		}
		if !end.After(start) {
			return preseterrors.ErrInvalidMealWindow
		}
		if slot.OperationCapacity < 0 || slot.PickPackCapacity < 0 {
			return preseterrors.ErrNegativeMealCapacity
		}
	}
	return nil
}

func knownWorkstationCode(code string) bool {
	for _, c := range rota.WorkstationCodes {
		if string(c) == code {
			return true
		}
	}
	return false
}

func resolveConfig(cfg PlannerConfig, headcount int) ResolvedConfig {
	out := ResolvedConfig{
		Slots:                    rota.PositionSlots{},
		Fixed:                    map[rota.Position][]string{},
		WorkstationDistribution:  rota.Distribution{},
		SupervisorRestCalendar:   rota.RestCalendar{},
		RegularParityRestTeam:    parseTeam(cfg.RegularParityRestTeam),
		SupervisorParityRestTeam: parseTeam(cfg.SupervisorParityRestTeam),
	}
	for name, n := range cfg.Slots {
		out.Slots[rota.Position(name)] = n
	}
	out.Slots = out.Slots.FitTo(headcount)

	for name, ids := range cfg.Fixed {
		out.Fixed[rota.Position(name)] = append([]string(nil), ids...)
	}
	for code, n := range cfg.WorkstationDistribution {
		out.WorkstationDistribution[rota.WorkstationCode(code)] = n
	}
	for date, names := range cfg.SupervisorRestCalendar {
		out.SupervisorRestCalendar[date] = append([]string(nil), names...)
	}
	for _, slot := range cfg.MealSlots {
		id := slot.ID
		if id == "" {
			id = uuid.NewString()
		}
		out.MealSlots = append(out.MealSlots, rota.MealSlot{
			ID:                id,
			Label:             slot.Label,
			StartTime:         slot.StartTime,
			EndTime:           slot.EndTime,
			Enabled:           slot.Enabled,
			OperationCapacity: slot.OperationCapacity,
			PickPackCapacity:  slot.PickPackCapacity,
			FixedEmployeeIDs:  append([]string(nil), slot.FixedEmployeeIDs...),
		})
	}
	if len(cfg.VacationRestricted) == 0 {
		out.VacationRestricted = append([]rota.Position(nil), rota.DefaultVacationRestricted...)
	} else {
		for _, name := range cfg.VacationRestricted {
			out.VacationRestricted = append(out.VacationRestricted, rota.Position(name))
		}
	}
	return out
}

func parseTeam(team string) rota.Team {
	if team == string(rota.TeamB) {
		return rota.TeamB
	}
	return rota.TeamA
}

func mapPresetResponse(p Preset, cfg PlannerConfig) PresetResponse {
	return PresetResponse{
		ID:       p.ID.String(),
		OfficeID: p.OfficeID.String(),
		Name:     p.Name,
		Active:   p.Active,
		Config:   cfg,
	}
}
