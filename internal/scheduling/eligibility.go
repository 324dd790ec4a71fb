package scheduling

import (
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// MemberInput is the slice of Member state the eligibility filter needs:
// identity, office days, and whether the roster entry is active.
type MemberInput struct {
	MemberID   string
	Name       string
	OfficeDays model.WeekdaySet
	Active     bool
}

// EligibilityFilter produces the candidate set for an ATM (date, shift)
// or a SysAid (week, role), applying the hard constraints of spec §4.4
// in order so the caller can see exactly which gate removed a member.
type EligibilityFilter struct {
	members     []MemberInput
	availability *AvailabilityStore
	rest        *RestCooldownMap
	cfg         SchedulingConfig
}

// NewEligibilityFilter wires the roster snapshot against the
// availability store and the rest/cooldown state produced by the ATM
// phase.
func NewEligibilityFilter(members []MemberInput, availability *AvailabilityStore, rest *RestCooldownMap, cfg SchedulingConfig) *EligibilityFilter {
	return &EligibilityFilter{members: members, availability: availability, rest: rest, cfg: cfg}
}

// ATMCandidates returns the members eligible for shift on date d, given
// the set of members already assigned another ATM shift that same day
// (alreadyAssignedToday), per spec §4.4's five-step ATM filter.
func (f *EligibilityFilter) ATMCandidates(d time.Time, shift model.Shift, alreadyAssignedToday map[string]bool) []MemberInput {
	var out []MemberInput
	for _, m := range f.members {
		if !m.Active {
			continue
		}
		if !f.availability.IsAvailable(m.MemberID, d) {
			continue
		}
		if f.rest.IsResting(m.MemberID, d) {
			continue
		}
		if shift.Kind == model.ATMMidnight && !f.rest.CooldownSatisfied(m.MemberID, d, f.cfg.ATMCooldownDays) {
			continue
		}
		if alreadyAssignedToday[m.MemberID] {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SysAidCandidates returns the members eligible for role within week
// [weekStart, weekEnd], excluding excludeMemberID (the already-chosen
// maker, when filtering for checker), per spec §4.4's SysAid branch.
func (f *EligibilityFilter) SysAidCandidates(weekStart, weekEnd time.Time, excludeMemberID string) []MemberInput {
	var out []MemberInput
	for _, m := range f.members {
		if !m.Active {
			continue
		}
		if m.MemberID == excludeMemberID {
			continue
		}
		if !m.OfficeDays.Contains(f.cfg.SysAidRequiredOfficeDays) {
			continue
		}
		if !f.availability.IsAvailableAll(m.MemberID, weekStart, weekEnd) {
			continue
		}
		if f.rest.HasRestInRange(m.MemberID, weekStart, weekEnd) {
			continue
		}
		out = append(out, m)
	}
	return out
}
