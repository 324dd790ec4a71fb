package scheduling

import (
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// AssignmentRecord is the slice of an Assignment the ledger needs to
// rebuild counts from history; keeps this package decoupled from GORM.
type AssignmentRecord struct {
	MemberID string
	Kind     model.TaskKind
	Date     time.Time
}

// FairnessLedger tracks, per (member, kind), an integer count restricted
// to a rolling window of days ending at the generation date (spec §4.3).
// It is the single source of fairness truth during a generation: seeded
// from persisted history up front, mutated in place by the schedulers,
// and written back as deltas by the caller on success.
type FairnessLedger struct {
	windowDays  int
	windowStart time.Time
	windowEnd   time.Time
	counts      map[string]map[model.TaskKind]int
}

// NewFairnessLedger creates an empty ledger for the window ending at
// asOf and spanning windowDays back.
func NewFairnessLedger(windowDays int, asOf time.Time) *FairnessLedger {
	end := civilDate(asOf)
	return &FairnessLedger{
		windowDays:  windowDays,
		windowStart: AddDays(end, -windowDays),
		windowEnd:   end,
		counts:      make(map[string]map[model.TaskKind]int),
	}
}

// Window reports the ledger's current (start, end] boundaries.
func (l *FairnessLedger) Window() (start, end time.Time) { return l.windowStart, l.windowEnd }

// Count returns the current count for (member, kind).
func (l *FairnessLedger) Count(memberID string, kind model.TaskKind) int {
	return l.counts[memberID][kind]
}

// Total returns the sum of counts across all kinds for member.
func (l *FairnessLedger) Total(memberID string) int {
	total := 0
	for _, c := range l.counts[memberID] {
		total += c
	}
	return total
}

// Increment bumps (member, kind) by one.
func (l *FairnessLedger) Increment(memberID string, kind model.TaskKind) {
	if l.counts[memberID] == nil {
		l.counts[memberID] = make(map[model.TaskKind]int)
	}
	l.counts[memberID][kind]++
}

// Decrement lowers (member, kind) by one, floored at zero (used by the
// swap validator to reverse a superseded assignment's contribution).
func (l *FairnessLedger) Decrement(memberID string, kind model.TaskKind) {
	if l.counts[memberID] == nil {
		return
	}
	if l.counts[memberID][kind] > 0 {
		l.counts[memberID][kind]--
	}
}

// RecomputeFromHistory discards all current counts and rebuilds them
// from scratch by filtering records to the window (windowEnd-windowDays,
// windowEnd], per spec §4.3/§8 property 6. Records whose date falls
// outside the window, or whose window_start < date <= window_end is
// violated, are skipped entirely — no partial credit for a record
// straddling the boundary, since the window is date-granular.
//
// Weekly-cadence kinds (SysAid maker/checker) persist one Assignment row
// per day of their week, but a maker/checker role counts once per week
// regardless (spec §4.3 invariant 4, §8 property 6): records of a weekly
// kind are first collapsed to one per (member, kind, week) before being
// counted, so a six-day SysAid week increments its ledger entry once,
// not six times.
func (l *FairnessLedger) RecomputeFromHistory(records []AssignmentRecord, asOf time.Time) {
	end := civilDate(asOf)
	start := AddDays(end, -l.windowDays)
	l.windowStart, l.windowEnd = start, end
	l.counts = make(map[string]map[model.TaskKind]int)

	type weekKey struct {
		memberID  string
		kind      model.TaskKind
		weekStart time.Time
	}
	seenWeeks := make(map[weekKey]bool)

	for _, r := range records {
		d := civilDate(r.Date)
		if !d.After(start) || d.After(end) {
			continue
		}
		if r.Kind.Cadence() == model.CadenceWeekly {
			weekStart, _ := WeekBucket(d)
			k := weekKey{memberID: r.MemberID, kind: r.Kind, weekStart: weekStart}
			if seenWeeks[k] {
				continue
			}
			seenWeeks[k] = true
		}
		l.Increment(r.MemberID, r.Kind)
	}
}

// LedgerRow is one (member, kind, count) triple, the shape the Assembler
// persists as FairnessCount rows.
type LedgerRow struct {
	MemberID string
	Kind     model.TaskKind
	Count    int
}

// Snapshot returns every row currently tracked by the ledger.
func (l *FairnessLedger) Snapshot() []LedgerRow {
	var out []LedgerRow
	for member, kinds := range l.counts {
		for kind, count := range kinds {
			out = append(out, LedgerRow{MemberID: member, Kind: kind, Count: count})
		}
	}
	return out
}
