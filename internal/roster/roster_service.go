package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-roster/internal/absence"
	"go-roster/internal/employee"
	"go-roster/internal/events"
	"go-roster/internal/messaging/kafka"
	"go-roster/internal/preset"
	rostererrors "go-roster/internal/roster/errors"
	"go-roster/internal/rota"
	"go-roster/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	cacheTTL   = 10 * time.Minute
)

//go:generate mockgen -source=roster_service.go -destination=mock/roster_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, officeID string, req GenerateRosterRequest) (RosterResponse, error)
	Get(ctx context.Context, officeID, weekStart string) (RosterResponse, error)
	List(ctx context.Context, officeID string) ([]RosterSummary, error)
	FixPosition(ctx context.Context, officeID, weekStart string, req FixPositionRequest) (RosterResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Service
	absences  absence.Service
	presets   preset.Service
	outbox    kafka.OutboxRepository
	cache     *redis.Client
	group     singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Service,
	absences absence.Service,
	presets preset.Service,
	outbox kafka.OutboxRepository,
	cache *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("roster.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		absences:  absences,
		presets:   presets,
		outbox:    outbox,
		cache:     cache,
		logger:    l,
	}
}

func (s *service) Generate(ctx context.Context, officeID string, req GenerateRosterRequest) (RosterResponse, error) {
	if _, err := uuid.Parse(officeID); err != nil {
		return RosterResponse{}, rostererrors.ErrInvalidOfficeID
	}
	weekStart, err := parseMonday(req.WeekStart)
	if err != nil {
		return RosterResponse{}, err
	}

	existing, err := s.repo.FindByOfficeAndWeek(ctx, officeID, weekStart)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return RosterResponse{}, err
	}
	if existing != nil && !req.Regenerate {
		return RosterResponse{}, rostererrors.ErrRosterExists
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	doc, err := s.buildPlan(ctx, officeID, weekStart, seed)
	if err != nil {
		return RosterResponse{}, err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return RosterResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate roster begin tx failed", zap.Error(err))
		return RosterResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	snapshot := existing
	if snapshot == nil {
		snapshot = &WeekSnapshot{
			ID:        uuid.New(),
			OfficeID:  uuid.MustParse(officeID),
			WeekStart: weekStart,
			Seed:      seed,
			Payload:   payload,
		}
		if err := qtx.Create(ctx, snapshot); err != nil {
			s.logger.Error("generate roster persist failed", zap.Error(err))
			return RosterResponse{}, err
		}
	} else {
		snapshot.Seed = seed
		snapshot.Payload = payload
		if err := qtx.Update(ctx, snapshot); err != nil {
			s.logger.Error("regenerate roster persist failed", zap.Error(err))
			return RosterResponse{}, err
		}
	}

	event := events.RosterWeekGeneratedEvent{
		EventType:  "roster.week.generated",
		RosterID:   snapshot.ID.String(),
		OfficeID:   officeID,
		WeekStart:  doc.WeekStart,
		Seed:       seed,
		Regenerate: existing != nil,
		OccurredAt: time.Now(),
	}
	if err := s.enqueueEvent(ctx, tx, events.RosterWeekGeneratedTopic, snapshot.ID.String(), event.EventType, event); err != nil {
		return RosterResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate roster commit failed", zap.Error(err))
		return RosterResponse{}, err
	}

	s.invalidate(ctx, officeID, doc.WeekStart)
	s.logger.Info("generate roster success",
		zap.String("roster_id", snapshot.ID.String()),
		zap.String("office_id", officeID),
		zap.String("week_start", doc.WeekStart),
		zap.Int64("seed", seed),
		zap.Bool("regenerate", existing != nil),
	)

	return RosterResponse{ID: snapshot.ID.String(), OfficeID: officeID, Plan: doc}, nil
}

// Get serves from the Redis cache when possible; concurrent misses for
// the same week collapse into one database load.
func (s *service) Get(ctx context.Context, officeID, weekStart string) (RosterResponse, error) {
	weekTime, err := parseMonday(weekStart)
	if err != nil {
		return RosterResponse{}, err
	}

	key := cacheKey(officeID, weekStart)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var resp RosterResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		snapshot, err := s.repo.FindByOfficeAndWeek(ctx, officeID, weekTime)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, rostererrors.ErrRosterNotFound
			}
			return nil, err
		}
		doc, err := decodePlan(snapshot.Payload)
		if err != nil {
			return nil, err
		}
		resp := RosterResponse{ID: snapshot.ID.String(), OfficeID: officeID, Plan: doc}

		if s.cache != nil {
			if raw, err := json.Marshal(resp); err == nil {
				if err := s.cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
					s.logger.Warn("roster cache set failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return RosterResponse{}, err
	}
	return v.(RosterResponse), nil
}

func (s *service) List(ctx context.Context, officeID string) ([]RosterSummary, error) {
	if _, err := uuid.Parse(officeID); err != nil {
		return nil, rostererrors.ErrInvalidOfficeID
	}
	snapshots, err := s.repo.FindAllByOffice(ctx, officeID)
	if err != nil {
		s.logger.Error("list rosters failed", zap.String("office_id", officeID), zap.Error(err))
		return nil, err
	}
	out := make([]RosterSummary, 0, len(snapshots))
	for _, snap := range snapshots {
		out = append(out, RosterSummary{
			ID:        snap.ID.String(),
			OfficeID:  snap.OfficeID.String(),
			WeekStart: snap.WeekStart.Format(dateLayout),
			Seed:      snap.Seed,
			CreatedAt: snap.CreatedAt.Format(time.RFC3339),
			UpdatedAt: snap.UpdatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// FixPosition moves one employee to a target position on a published
// week and replays the downstream engines with the stored seed so the
// rest of the plan only shifts where the move forces it to.
func (s *service) FixPosition(ctx context.Context, officeID, weekStart string, req FixPositionRequest) (RosterResponse, error) {
	weekTime, err := parseMonday(weekStart)
	if err != nil {
		return RosterResponse{}, err
	}

	snapshot, err := s.repo.FindByOfficeAndWeek(ctx, officeID, weekTime)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RosterResponse{}, rostererrors.ErrRosterNotFound
		}
		return RosterResponse{}, err
	}
	doc, err := decodePlan(snapshot.Payload)
	if err != nil {
		return RosterResponse{}, err
	}

	directory, err := s.employees.RosterSnapshot(ctx, officeID)
	if err != nil {
		return RosterResponse{}, err
	}
	var target *rota.Employee
	for i := range directory.Employees {
		if directory.Employees[i].ID == req.EmployeeID {
			target = &directory.Employees[i]
			break
		}
	}
	if target == nil {
		return RosterResponse{}, rostererrors.ErrEmployeeNotInRoster
	}

	week := rota.NewWeekCalendar(weekTime)
	wc, err := s.absences.WeekContext(ctx, officeID, week)
	if err != nil {
		return RosterResponse{}, err
	}
	cfg, err := s.presets.ResolveForPlanning(ctx, officeID, len(directory.Employees))
	if err != nil {
		return RosterResponse{}, err
	}

	assignment := assignmentFromDoc(doc.Assignment)
	fixed := rota.NewIDSet(doc.FixedPins...)
	for _, ids := range cfg.Fixed {
		for _, id := range ids {
			fixed[id] = true
		}
	}

	position := rota.Position(req.Position)
	onVacation := wc.Vacations.AbsenceScore(target.ID, week, wc.Holidays) > 0
	allowFallback := consulateFallbackAllowed(position, directory)

	next, err := rota.FixToPosition(assignment, cfg.Slots, fixed, *target, position, directory.Attrs, onVacation, allowFallback)
	if err != nil {
		return RosterResponse{}, err
	}

	doc = s.replayDownstream(doc, next, week, wc, cfg, directory)
	doc.FixedPins = appendUnique(doc.FixedPins, target.ID)

	payload, err := json.Marshal(doc)
	if err != nil {
		return RosterResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RosterResponse{}, err
	}
	defer tx.Rollback()

	snapshot.Payload = payload
	if err := s.repo.WithTx(tx).Update(ctx, snapshot); err != nil {
		s.logger.Error("fix position persist failed", zap.Error(err))
		return RosterResponse{}, err
	}

	event := events.RosterFixAppliedEvent{
		EventType:  "roster.fix.applied",
		RosterID:   snapshot.ID.String(),
		OfficeID:   officeID,
		WeekStart:  doc.WeekStart,
		EmployeeID: target.ID,
		Position:   string(position),
		OccurredAt: time.Now(),
	}
	if err := s.enqueueEvent(ctx, tx, events.RosterFixAppliedTopic, snapshot.ID.String(), event.EventType, event); err != nil {
		return RosterResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RosterResponse{}, err
	}

	s.invalidate(ctx, officeID, doc.WeekStart)
	s.logger.Info("fix position success",
		zap.String("roster_id", snapshot.ID.String()),
		zap.String("employee_id", target.ID),
		zap.String("position", string(position)),
	)

	return RosterResponse{ID: snapshot.ID.String(), OfficeID: officeID, Plan: doc}, nil
}

// buildPlan runs the full pipeline: weekly allocation, Saturday rest,
// daily unit rotation, workstation codes and meal slots.
func (s *service) buildPlan(ctx context.Context, officeID string, weekStart time.Time, seed int64) (PlanDocument, error) {
	directory, err := s.employees.RosterSnapshot(ctx, officeID)
	if err != nil {
		return PlanDocument{}, err
	}
	week := rota.NewWeekCalendar(weekStart)
	wc, err := s.absences.WeekContext(ctx, officeID, week)
	if err != nil {
		return PlanDocument{}, err
	}
	cfg, err := s.presets.ResolveForPlanning(ctx, officeID, len(directory.Employees))
	if err != nil {
		return PlanDocument{}, err
	}

	rng := rota.NewRand(seed)

	fixed := make(rota.IDSet)
	current := rota.WeeklyAssignment{}
	for p, ids := range cfg.Fixed {
		for _, id := range ids {
			fixed[id] = true
		}
		current[p] = append([]string(nil), ids...)
	}

	alloc, err := rota.Allocate(rota.AllocatorInput{
		Slots:              cfg.Slots,
		Fixed:              fixed,
		Current:            current,
		Attrs:              directory.Attrs,
		Employees:          directory.Employees,
		Week:               week,
		Holidays:           wc.Holidays,
		Vacations:          wc.Vacations,
		VacationRestricted: cfg.VacationRestricted,
	}, rng)
	if err != nil {
		return PlanDocument{}, err
	}

	rest := s.resolveRest(week, directory, cfg)

	rot := rota.RotateWeek(rota.RotationInput{
		Week:       week,
		Assignment: alloc.Assignment,
		Slots:      cfg.Slots,
		Holidays:   wc.Holidays,
		Vacations:  wc.Vacations,
		Rest:       rest,
	}, rng)

	ws := rota.RotateWorkstations(rota.WorkstationInput{
		Week:      week,
		Employees: workstationPool(alloc.Assignment),
		Desired:   cfg.WorkstationDistribution,
		Holidays:  wc.Holidays,
		Vacations: wc.Vacations,
	})

	meals := rota.AssignMealSlots(rota.MealInput{
		Week:                week,
		Days:                rot.Days,
		Slots:               cfg.MealSlots,
		CASSupervisors:      alloc.Assignment[rota.PositionCASSupervisor],
		PickPackSupervisors: alloc.Assignment[rota.PositionPickPackSupervisor],
		Passback:            alloc.Assignment[rota.PositionPickPackPassback],
		Holidays:            wc.Holidays,
		Vacations:           wc.Vacations,
		Rest:                rest,
	}, rng)

	return buildDocument(week, seed, alloc, rest, rot, ws, meals), nil
}

// replayDownstream recomputes everything derived from the weekly
// assignment after a manual fix, reusing the stored seed.
func (s *service) replayDownstream(
	doc PlanDocument,
	assignment rota.WeeklyAssignment,
	week rota.WeekCalendar,
	wc absence.WeekContext,
	cfg preset.ResolvedConfig,
	directory employee.RosterSnapshot,
) PlanDocument {
	rng := rota.NewRand(doc.Seed)

	rest := s.resolveRest(week, directory, cfg)

	rot := rota.RotateWeek(rota.RotationInput{
		Week:       week,
		Assignment: assignment,
		Slots:      cfg.Slots,
		Holidays:   wc.Holidays,
		Vacations:  wc.Vacations,
		Rest:       rest,
	}, rng)

	ws := rota.RotateWorkstations(rota.WorkstationInput{
		Week:      week,
		Employees: workstationPool(assignment),
		Desired:   cfg.WorkstationDistribution,
		Holidays:  wc.Holidays,
		Vacations: wc.Vacations,
	})

	meals := rota.AssignMealSlots(rota.MealInput{
		Week:                week,
		Days:                rot.Days,
		Slots:               cfg.MealSlots,
		CASSupervisors:      assignment[rota.PositionCASSupervisor],
		PickPackSupervisors: assignment[rota.PositionPickPackSupervisor],
		Passback:            assignment[rota.PositionPickPackPassback],
		Holidays:            wc.Holidays,
		Vacations:           wc.Vacations,
		Rest:                rest,
	}, rng)

	next := buildDocument(week, doc.Seed, rota.AllocationResult{Assignment: assignment}, rest, rot, ws, meals)
	next.Shortages = doc.Shortages
	next.FallbackUsed = doc.FallbackUsed
	next.FixedPins = doc.FixedPins
	return next
}

func (s *service) resolveRest(week rota.WeekCalendar, directory employee.RosterSnapshot, cfg preset.ResolvedConfig) rota.RestResolution {
	var regulars, supervisors []rota.Employee
	for _, e := range directory.Employees {
		if rota.IsSupervisorTitle(e.RawPositionTitle) {
			supervisors = append(supervisors, e)
		} else {
			regulars = append(regulars, e)
		}
	}
	return rota.ResolveSaturdayRest(rota.RestInput{
		Week:                     week,
		Regulars:                 regulars,
		Supervisors:              supervisors,
		RegularTeams:             directory.Teams,
		SupervisorTeams:          directory.Teams,
		RegularParityRestTeam:    cfg.RegularParityRestTeam,
		SupervisorParityRestTeam: cfg.SupervisorParityRestTeam,
		Calendar:                 cfg.SupervisorRestCalendar,
	})
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, topic, aggregateID, eventType string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "roster",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("enqueue outbox event failed",
			zap.String("topic", topic),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, officeID, weekStart string) {
	if s.cache == nil {
		return
	}
	key := cacheKey(officeID, weekStart)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("roster cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(officeID, weekStart string) string {
	return fmt.Sprintf("roster:%s:%s", officeID, weekStart)
}

func parseMonday(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, rostererrors.ErrInvalidWeekStart
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, rostererrors.ErrInvalidWeekStart
	}
	return t, nil
}

// consulateFallbackAllowed reports whether a manual fix into a
// consulate position may use the relaxed authorization rule. Like
// automatic allocation, the relaxation only applies when nobody in the
// directory qualifies under the primary rules.
func consulateFallbackAllowed(position rota.Position, directory employee.RosterSnapshot) bool {
	if !position.Consulate() {
		return false
	}
	for _, e := range directory.Employees {
		if rota.CanCover(e, position, directory.Attrs) {
			return false
		}
	}
	return true
}

// workstationPool is the Operation roster plus passback staff not
// already in it, in weekly order.
func workstationPool(assignment rota.WeeklyAssignment) []string {
	pool := append([]string(nil), assignment[rota.PositionOperation]...)
	seen := rota.NewIDSet(pool...)
	for _, id := range assignment[rota.PositionPickPackPassback] {
		if !seen.Has(id) {
			pool = append(pool, id)
			seen[id] = true
		}
	}
	return pool
}

func decodePlan(payload []byte) (PlanDocument, error) {
	var doc PlanDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return PlanDocument{}, rostererrors.ErrCorruptSnapshot
	}
	return doc, nil
}

func assignmentFromDoc(m map[string][]string) rota.WeeklyAssignment {
	out := make(rota.WeeklyAssignment, len(m))
	for p, ids := range m {
		out[rota.Position(p)] = append([]string(nil), ids...)
	}
	return out
}

func setToSorted(set rota.IDSet) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func buildDocument(
	week rota.WeekCalendar,
	seed int64,
	alloc rota.AllocationResult,
	rest rota.RestResolution,
	rot rota.RotationResult,
	ws rota.WorkstationResult,
	meals rota.MealResult,
) PlanDocument {
	doc := PlanDocument{
		WeekStart:             week.WeekStart,
		Seed:                  seed,
		Assignment:            make(map[string][]string, len(alloc.Assignment)),
		Days:                  make(map[string]map[string][]string, len(rot.Days)),
		Workstations:          make(map[string]map[string]string, len(ws.Codes)),
		WorkstationReconciled: make(map[string]int, len(ws.Reconciled)),
		Meals:                 meals.Days,
		Rest: RestView{
			SaturdayDate: rest.SaturdayDate,
			Resting:      setToSorted(rest.Resting),
			Working:      setToSorted(rest.Working),
		},
	}

	for p, ids := range alloc.Assignment {
		doc.Assignment[string(p)] = append([]string(nil), ids...)
	}
	if len(alloc.Shortages) > 0 {
		doc.Shortages = make(map[string]int, len(alloc.Shortages))
		for p, n := range alloc.Shortages {
			doc.Shortages[string(p)] = n
		}
	}
	if len(alloc.FallbackUsed) > 0 {
		doc.FallbackUsed = make(map[string][]string, len(alloc.FallbackUsed))
		for p, ids := range alloc.FallbackUsed {
			doc.FallbackUsed[string(p)] = append([]string(nil), ids...)
		}
	}

	for date, day := range rot.Days {
		units := make(map[string][]string, len(day))
		for u, ids := range day {
			units[string(u)] = append([]string(nil), ids...)
		}
		doc.Days[date] = units
	}
	if len(rot.Shortages) > 0 {
		doc.UnitShortages = make(map[string]int, len(rot.Shortages))
		for u, n := range rot.Shortages {
			doc.UnitShortages[string(u)] = n
		}
	}

	for id, days := range ws.Codes {
		codes := make(map[string]string, len(days))
		for date, code := range days {
			codes[date] = string(code)
		}
		doc.Workstations[id] = codes
	}
	for code, n := range ws.Reconciled {
		doc.WorkstationReconciled[string(code)] = n
	}
	if len(ws.Shortages) > 0 {
		doc.WorkstationShortages = make(map[string]int, len(ws.Shortages))
		for date, n := range ws.Shortages {
			doc.WorkstationShortages[date] = n
		}
	}

	return doc
}
