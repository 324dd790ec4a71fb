package scheduling

import (
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// ConstraintViolation names the single constraint a swap/reassign
// attempt failed, so the caller can surface an actionable message
// verbatim (spec §7).
type ConstraintViolation struct {
	Constraint string
}

func (e *ConstraintViolation) Error() string { return "constraint violation: " + e.Constraint }

// ExistingAssignment is the slice of Assignment state the validator
// needs about the slot being reassigned.
type ExistingAssignment struct {
	AssignmentID string
	Date         time.Time
	Kind         model.TaskKind
	ShiftLabel   string
	MemberID     string
}

// SwapValidator re-runs the full eligibility check for a single
// assignment against a proposed replacement member, independent of any
// in-flight generation (spec §4.9).
type SwapValidator struct {
	filter *EligibilityFilter
	cfg    SchedulingConfig
}

// NewSwapValidator wires the validator to the same eligibility rules a
// generation uses.
func NewSwapValidator(filter *EligibilityFilter, cfg SchedulingConfig) *SwapValidator {
	return &SwapValidator{filter: filter, cfg: cfg}
}

// ValidateATM checks whether proposedMemberID may replace the current
// assignee of an ATM assignment, given the set of members already
// carrying another active ATM assignment that day (excluding the slot
// being replaced).
func (v *SwapValidator) ValidateATM(assignment ExistingAssignment, proposedMemberID string, alreadyAssignedToday map[string]bool) error {
	shift := model.Shift{Kind: assignment.Kind, Label: assignment.ShiftLabel, RequiredCount: 1}
	candidates := v.filter.ATMCandidates(assignment.Date, shift, alreadyAssignedToday)
	for _, c := range candidates {
		if c.MemberID == proposedMemberID {
			return nil
		}
	}
	return v.diagnose(assignment.Date, proposedMemberID, shift)
}

// ValidateSysAid checks whether proposedMemberID may take over a maker
// or checker role for the given week, excluding the week's other role
// holder (maker when validating a checker swap, and vice versa).
func (v *SwapValidator) ValidateSysAid(weekStart time.Time, kind model.TaskKind, proposedMemberID, otherRoleMemberID string) error {
	weekEnd := weekStart.AddDate(0, 0, 5)
	candidates := v.filter.SysAidCandidates(weekStart, weekEnd, otherRoleMemberID)
	for _, c := range candidates {
		if c.MemberID == proposedMemberID {
			return nil
		}
	}
	if proposedMemberID == otherRoleMemberID {
		return &ConstraintViolation{Constraint: "distinctness"}
	}
	return &ConstraintViolation{Constraint: "office-day or availability or rest"}
}

// diagnose produces a specific constraint name for an ATM rejection by
// re-checking each gate individually, so the caller gets "rest-rule"
// instead of a generic failure.
func (v *SwapValidator) diagnose(d time.Time, memberID string, shift model.Shift) error {
	if v.filter.rest.IsResting(memberID, d) {
		return &ConstraintViolation{Constraint: "rest-rule"}
	}
	if shift.Kind == model.ATMMidnight && !v.filter.rest.CooldownSatisfied(memberID, d, v.cfg.ATMCooldownDays) {
		return &ConstraintViolation{Constraint: "cooldown"}
	}
	if !v.filter.availability.IsAvailable(memberID, d) {
		return &ConstraintViolation{Constraint: "unavailability"}
	}
	return &ConstraintViolation{Constraint: "same-day distinctness"}
}
