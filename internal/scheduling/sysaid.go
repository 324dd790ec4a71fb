package scheduling

import (
	"fmt"
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// SysAidAssignment is one day-row emitted for a weekly maker or checker
// role; one Assignment per assigned day is produced even though the
// ledger counts the role once per week (spec §4.7).
type SysAidAssignment struct {
	Date       time.Time
	Kind       model.TaskKind
	MemberID   string
}

// SysAidScheduler buckets a date range into Monday-keyed weeks and
// assigns a maker and a checker per week, reading the rest flags the
// ATM phase just produced (spec §4.7).
type SysAidScheduler struct {
	cfg      SchedulingConfig
	filter   *EligibilityFilter
	ledger   *FairnessLedger
	selector *Selector
	audit    *AuditLog
}

// NewSysAidScheduler wires the SysAid phase's collaborators.
func NewSysAidScheduler(cfg SchedulingConfig, filter *EligibilityFilter, ledger *FairnessLedger, selector *Selector, audit *AuditLog) *SysAidScheduler {
	return &SysAidScheduler{cfg: cfg, filter: filter, ledger: ledger, selector: selector, audit: audit}
}

// Run assigns a maker and a checker for every week intersecting [start,
// end], emitting one row per assigned day of the week's span.
func (s *SysAidScheduler) Run(start, end time.Time, aggressiveness int) []SysAidAssignment {
	var out []SysAidAssignment

	IterWeeks(start, end, func(weekStart, spanStart, spanEnd time.Time) bool {
		ws := weekStart
		candidates := s.filter.SysAidCandidates(weekStart, weekStart.AddDate(0, 0, 5), "")
		key := dateKey(weekStart)

		// A distinct maker and checker need at least 2 eligible members
		// for the week; fewer than that is a DistinctnessViolation and
		// both roles are skipped outright, before either is selected
		// (spec §7) — no maker assignment survives an empty checker pool.
		if len(candidates) < 2 {
			s.audit.RecordWarning(model.SysAidMaker, "", nil, &ws,
				fmt.Sprintf("fewer than 2 eligible members for week of %s, skipping maker and checker", key))
			s.audit.RecordWarning(model.SysAidCheck, "", nil, &ws,
				fmt.Sprintf("fewer than 2 eligible members for week of %s, skipping maker and checker", key))
			return true
		}

		makerResult := s.selector.Select(candidates, model.SysAidMaker, key, aggressiveness)
		if makerResult.Chosen == nil {
			s.audit.RecordWarning(model.SysAidMaker, "", nil, &ws,
				fmt.Sprintf("no eligible candidate for maker in week of %s", key))
			s.audit.RecordWarning(model.SysAidCheck, "", nil, &ws,
				fmt.Sprintf("maker unassigned, skipping checker for week of %s", key))
			return true
		}
		maker := makerResult.Chosen.MemberID

		checkerCandidates := s.filter.SysAidCandidates(weekStart, weekStart.AddDate(0, 0, 5), maker)
		checkerResult := s.selector.Select(checkerCandidates, model.SysAidCheck, key, aggressiveness)
		if checkerResult.Chosen == nil {
			s.audit.RecordWarning(model.SysAidCheck, "", nil, &ws,
				fmt.Sprintf("no eligible checker distinct from maker in week of %s, skipping maker and checker", key))
			return true
		}

		s.ledger.Increment(maker, model.SysAidMaker)
		s.audit.RecordSelection(model.SysAidMaker, "", nil, &ws, makerResult)
		checker := checkerResult.Chosen.MemberID
		s.ledger.Increment(checker, model.SysAidCheck)
		s.audit.RecordSelection(model.SysAidCheck, "", nil, &ws, checkerResult)

		IterDays(spanStart, spanEnd, func(d time.Time) bool {
			date := d
			out = append(out, SysAidAssignment{Date: date, Kind: model.SysAidMaker, MemberID: maker})
			out = append(out, SysAidAssignment{Date: date, Kind: model.SysAidCheck, MemberID: checker})
			return true
		})
		return true
	})

	return out
}
