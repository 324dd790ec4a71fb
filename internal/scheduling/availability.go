package scheduling

import (
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// AvailabilityStore is a pure query view over a member's unavailability
// windows. It does not know about ATM rest days; that state belongs to
// RestCooldownMap below and is produced by the ATM phase, not read from
// persisted input.
type AvailabilityStore struct {
	byMember map[string][]model.UnavailablePeriod
}

// NewAvailabilityStore indexes periods by member for O(1) lookup during
// a generation; mirrors the teacher's userUnavailables index built once
// before the per-slot loop.
func NewAvailabilityStore(periods []model.UnavailablePeriod) *AvailabilityStore {
	store := &AvailabilityStore{byMember: make(map[string][]model.UnavailablePeriod)}
	for _, p := range periods {
		store.byMember[p.MemberID] = append(store.byMember[p.MemberID], p)
	}
	return store
}

// IsAvailable reports whether member is free of any UnavailablePeriod
// covering date d.
func (a *AvailabilityStore) IsAvailable(memberID string, d time.Time) bool {
	for i := range a.byMember[memberID] {
		if a.byMember[memberID][i].Overlaps(d) {
			return false
		}
	}
	return true
}

// IsAvailableAll reports whether member is free of any UnavailablePeriod
// overlapping any day in [start, end].
func (a *AvailabilityStore) IsAvailableAll(memberID string, start, end time.Time) bool {
	available := true
	IterDays(start, end, func(d time.Time) bool {
		if !a.IsAvailable(memberID, d) {
			available = false
			return false
		}
		return true
	})
	return available
}

// RestCooldownMap is the ATM phase's local, in-process state: which
// members are resting on which dates, and when each member last pulled
// an ATM_MIDNIGHT shift. It is never persisted directly — only the
// Assignments it is derived from are — and never shared across
// generations (spec §5, §9: "local to one generation's stack").
type RestCooldownMap struct {
	restDates   map[string]map[string]bool // memberID -> civil-date key -> resting
	lastMidnight map[string]time.Time       // memberID -> date of last ATM_MIDNIGHT
}

// NewRestCooldownMap builds an empty map and seeds lastMidnight from any
// ATM_MIDNIGHT assignments already on record (so cooldown is respected
// across generation boundaries, not just within one run).
func NewRestCooldownMap(priorMidnightDates map[string]time.Time) *RestCooldownMap {
	seed := make(map[string]time.Time, len(priorMidnightDates))
	for member, d := range priorMidnightDates {
		seed[member] = civilDate(d)
	}
	return &RestCooldownMap{
		restDates:    make(map[string]map[string]bool),
		lastMidnight: seed,
	}
}

func dateKey(d time.Time) string { return civilDate(d).Format("2006-01-02") }

// IsResting reports whether member is blocked from any ATM assignment on d.
func (r *RestCooldownMap) IsResting(memberID string, d time.Time) bool {
	days := r.restDates[memberID]
	return days != nil && days[dateKey(d)]
}

// MarkRest flags member as resting on d (called for d = midnightDate+1).
func (r *RestCooldownMap) MarkRest(memberID string, d time.Time) {
	if r.restDates[memberID] == nil {
		r.restDates[memberID] = make(map[string]bool)
	}
	r.restDates[memberID][dateKey(d)] = true
}

// RecordMidnight updates the member's last ATM_MIDNIGHT date for cooldown
// purposes.
func (r *RestCooldownMap) RecordMidnight(memberID string, d time.Time) {
	r.lastMidnight[memberID] = civilDate(d)
}

// CooldownSatisfied reports whether assigning member to ATM_MIDNIGHT on d
// respects the configured minimum gap since their last ATM_MIDNIGHT.
func (r *RestCooldownMap) CooldownSatisfied(memberID string, d time.Time, cooldownDays int) bool {
	last, ok := r.lastMidnight[memberID]
	if !ok {
		return true
	}
	gap := int(civilDate(d).Sub(last).Hours() / 24)
	return gap >= cooldownDays
}

// HasRestInRange reports whether member has any rest day inside [start,end],
// used by the SysAid eligibility branch to drop members resting from the
// just-completed ATM phase (spec §4.4).
func (r *RestCooldownMap) HasRestInRange(memberID string, start, end time.Time) bool {
	resting := false
	IterDays(start, end, func(d time.Time) bool {
		if r.IsResting(memberID, d) {
			resting = true
			return false
		}
		return true
	})
	return resting
}
