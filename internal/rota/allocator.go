package rota

import (
	"math/rand"
	"sort"

	rotaerrors "go-roster/internal/rota/errors"
)

// AllocatorInput is the full snapshot the weekly allocation runs over.
type AllocatorInput struct {
	Slots     PositionSlots
	Fixed     IDSet            // pinned employee ids
	Current   WeeklyAssignment // where pinned employees currently sit
	Attrs     Attributes
	Employees []Employee // active, pre-filtered roster
	Week      WeekCalendar
	Holidays  HolidaySet
	Vacations VacationMap
	// VacationRestricted lists the positions whose occupants must be
	// fully available this week. Nil means DefaultVacationRestricted.
	VacationRestricted []Position
}

// AllocationResult is the static weekly skeleton consumed by RotateWeek.
type AllocationResult struct {
	Assignment WeeklyAssignment
	Shortages  map[Position]int
	// FallbackUsed lists, per consulate position, the employees placed
	// under the relaxed authorization rule so the operator can be warned.
	FallbackUsed map[Position][]string
}

// Allocate fills every position's weekly slots. Fixed occupants keep
// their seats, the rest of the pool is drawn at random with
// fully-available staff preferred, and Operation absorbs everyone left
// over. The only hard failure is a configuration error; coverage
// shortfalls are recorded per position instead.
func Allocate(in AllocatorInput, rng *rand.Rand) (AllocationResult, error) {
	rng = ensureRand(rng)

	if in.Slots.Total() > len(in.Employees) {
		return AllocationResult{}, rotaerrors.ErrSlotsExceedHeadcount
	}

	restricted := in.VacationRestricted
	if restricted == nil {
		restricted = DefaultVacationRestricted
	}
	vacationRestricted := make(map[Position]bool, len(restricted))
	for _, p := range restricted {
		vacationRestricted[p] = true
	}

	byID := make(map[string]Employee, len(in.Employees))
	for _, e := range in.Employees {
		byID[e.ID] = e
	}

	scores := make(map[string]int, len(in.Employees))
	for _, e := range in.Employees {
		scores[e.ID] = in.Vacations.AbsenceScore(e.ID, in.Week, in.Holidays)
	}

	// Pass 1: fixed occupants keep their seats; overflow is fatal before
	// anything is assigned so the previous assignment stays intact.
	fixedByPosition := make(map[Position][]string, len(Positions))
	placed := make(IDSet)
	for _, p := range Positions {
		if p == PositionOperation {
			continue
		}
		var keep []string
		for _, id := range in.Current[p] {
			e, present := byID[id]
			if !present || !in.Fixed.Has(id) || placed.Has(id) {
				continue
			}
			if !CanCover(e, p, in.Attrs) {
				continue
			}
			if vacationRestricted[p] && scores[id] > 0 {
				continue
			}
			keep = append(keep, id)
			placed[id] = true
		}
		if len(keep) > int(in.Slots[p]) {
			return AllocationResult{}, rotaerrors.ErrFixedOverflow
		}
		fixedByPosition[p] = keep
	}

	// Pass 2: the unassigned pool, fully-available staff first.
	pool := make([]Employee, 0, len(in.Employees))
	for _, e := range in.Employees {
		if !placed.Has(e.ID) {
			pool = append(pool, e)
		}
	}
	sort.Slice(pool, func(i, j int) bool {
		si, sj := scores[pool[i].ID], scores[pool[j].ID]
		if si != sj {
			return si < sj
		}
		return pool[i].DisplayName < pool[j].DisplayName
	})

	result := AllocationResult{
		Assignment:   make(WeeklyAssignment, len(Positions)),
		Shortages:    make(map[Position]int),
		FallbackUsed: make(map[Position][]string),
	}

	take := func(candidates []Employee, n int) []string {
		// Shuffle inside equal-absence-score groups so the preference for
		// fully-available staff survives the randomization.
		shuffleWithinScoreGroups(rng, candidates, scores)
		if n > len(candidates) {
			n = len(candidates)
		}
		ids := make([]string, 0, n)
		for _, e := range candidates[:n] {
			ids = append(ids, e.ID)
		}
		return ids
	}

	removeFromPool := func(ids []string) {
		for _, id := range ids {
			placed[id] = true
		}
		out := pool[:0]
		for _, e := range pool {
			if !placed.Has(e.ID) {
				out = append(out, e)
			}
		}
		pool = out
	}

	// Pass 3: fill non-Operation positions in priority order.
	for _, p := range allocationOrder {
		assigned := append([]string(nil), fixedByPosition[p]...)
		needed := in.Slots[p] - len(assigned)
		if needed < 0 {
			needed = 0
		}

		if needed > 0 {
			var candidates []Employee
			for _, e := range pool {
				if !CanCover(e, p, in.Attrs) {
					continue
				}
				if in.Attrs.Restricted(e.ID, p) {
					continue
				}
				if vacationRestricted[p] && scores[e.ID] > 0 {
					continue
				}
				candidates = append(candidates, e)
			}
			picked := take(candidates, needed)
			assigned = append(assigned, picked...)
			removeFromPool(picked)
			needed -= len(picked)
		}

		if needed > 0 && p.Consulate() {
			var candidates []Employee
			for _, e := range pool {
				ok, fallback := CanCoverWithFallback(e, p, in.Attrs)
				if !ok || !fallback {
					continue
				}
				if in.Attrs.Restricted(e.ID, p) {
					continue
				}
				if vacationRestricted[p] && scores[e.ID] > 0 {
					continue
				}
				candidates = append(candidates, e)
			}
			picked := take(candidates, needed)
			assigned = append(assigned, picked...)
			removeFromPool(picked)
			needed -= len(picked)
			if len(picked) > 0 {
				result.FallbackUsed[p] = picked
			}
		}

		result.Assignment[p] = assigned
		if needed > 0 {
			result.Shortages[p] = needed
		}
	}

	// Pass 4: Operation absorbs its fixed occupants plus every
	// role-eligible employee still in the pool. No numeric cap here;
	// the daily rotation enforces the slot count.
	operation := make([]string, 0, len(pool))
	for _, id := range in.Current[PositionOperation] {
		e, present := byID[id]
		if !present || !in.Fixed.Has(id) || placed.Has(id) {
			continue
		}
		if !CanCover(e, PositionOperation, in.Attrs) {
			continue
		}
		operation = append(operation, id)
		placed[id] = true
	}
	for _, e := range pool {
		if CanCover(e, PositionOperation, in.Attrs) {
			operation = append(operation, e.ID)
		}
	}
	result.Assignment[PositionOperation] = operation

	return result, nil
}

func shuffleWithinScoreGroups(rng *rand.Rand, candidates []Employee, scores map[string]int) {
	start := 0
	for i := 1; i <= len(candidates); i++ {
		if i == len(candidates) || scores[candidates[i].ID] != scores[candidates[start].ID] {
			group := candidates[start:i]
			rng.Shuffle(len(group), func(a, b int) {
				group[a], group[b] = group[b], group[a]
			})
			start = i
		}
	}
}

// FixToPosition pins an employee to a position: the id is removed from
// every other list and inserted into the target, evicting a non-fixed
// occupant when the list is at capacity. allowFallback relaxes the
// consulate authorization check and must only be set when the primary
// eligible pool for the target is empty, mirroring automatic
// allocation. The input assignment is never mutated; on error the
// caller keeps its previous state.
func FixToPosition(
	assignment WeeklyAssignment,
	slots PositionSlots,
	fixed IDSet,
	e Employee,
	target Position,
	attrs Attributes,
	onVacation bool,
	allowFallback bool,
) (WeeklyAssignment, error) {
	if err := ExplainCover(e, target, attrs, onVacation, allowFallback); err != nil {
		return nil, err
	}

	next := assignment.Clone()
	next.RemoveEverywhere(e.ID)

	occupants := next[target]
	capacity := slots[target]
	// Operation has no numeric cap at assignment time; every other
	// position is bounded by its configured slot count.
	if target != PositionOperation {
		if capacity <= 0 {
			return nil, rotaerrors.ErrPositionUnstaffed
		}
		if len(occupants) >= capacity {
			evicted := -1
			for i := len(occupants) - 1; i >= 0; i-- {
				if !fixed.Has(occupants[i]) {
					evicted = i
					break
				}
			}
			if evicted == -1 {
				return nil, rotaerrors.ErrAllOccupantsFixed
			}
			occupants = append(occupants[:evicted], occupants[evicted+1:]...)
		}
	}
	next[target] = append(occupants, e.ID)

	return next, nil
}
