package scheduling

import (
	"fmt"
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// ATMAssignment is one slot filled by the ATM Scheduler.
type ATMAssignment struct {
	Date       time.Time
	Kind       model.TaskKind
	ShiftLabel string
	MemberID   string
}

// ATMScheduler iterates a date range, filling the day shift plan for
// each date in order, mutating the rest/cooldown map as it goes so that
// day N's selection sees day N-1's consequences (spec §4.6; parallelism
// across days is explicitly rejected for exactly this reason, per §5).
type ATMScheduler struct {
	cfg      SchedulingConfig
	filter   *EligibilityFilter
	ledger   *FairnessLedger
	rest     *RestCooldownMap
	selector *Selector
	audit    *AuditLog
}

// NewATMScheduler wires the ATM phase's collaborators.
func NewATMScheduler(cfg SchedulingConfig, filter *EligibilityFilter, ledger *FairnessLedger, rest *RestCooldownMap, selector *Selector, audit *AuditLog) *ATMScheduler {
	return &ATMScheduler{cfg: cfg, filter: filter, ledger: ledger, rest: rest, selector: selector, audit: audit}
}

// Run fills every shift on every date in [start, end], returning the
// assignments produced. Insufficient candidates for a slot never abort
// the run: a warning is recorded and the slot is left unfilled (spec
// §4.6, §7 InsufficientCandidates).
func (s *ATMScheduler) Run(start, end time.Time, aggressiveness int) []ATMAssignment {
	var out []ATMAssignment

	IterDays(start, end, func(d time.Time) bool {
		shifts := s.cfg.Plan[Weekday(d)]
		assignedToday := make(map[string]bool, len(shifts))

		for _, shift := range shifts {
			for slot := 0; slot < shift.RequiredCount; slot++ {
				date := d
				candidates := s.filter.ATMCandidates(d, shift, assignedToday)
				key := dateKey(d) + "|" + shift.Label
				result := s.selector.Select(candidates, shift.Kind, key, aggressiveness)

				if result.Chosen == nil {
					s.audit.RecordWarning(shift.Kind, shift.Label, &date, nil,
						fmt.Sprintf("no eligible candidate for %s on %s", shift.Label, dateKey(d)))
					continue
				}

				member := result.Chosen.MemberID
				assignedToday[member] = true
				s.ledger.Increment(member, shift.Kind)
				s.audit.RecordSelection(shift.Kind, shift.Label, &date, nil, result)

				if shift.Kind.TriggersRest() {
					if s.cfg.ATMRestRuleEnabled {
						s.rest.MarkRest(member, AddDays(d, 1))
					}
					s.rest.RecordMidnight(member, d)
				}

				out = append(out, ATMAssignment{Date: d, Kind: shift.Kind, ShiftLabel: shift.Label, MemberID: member})
			}
		}
		return true
	})

	return out
}
