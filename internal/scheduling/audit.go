package scheduling

import (
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// AuditEntry is the in-run shape of one selection decision; the service
// layer maps this onto model.AuditEntry for persistence (spec §4.8).
type AuditEntry struct {
	Date           *time.Time // set for ATM (daily) decisions
	WeekStart      *time.Time // set for SysAid (weekly) decisions
	Kind           model.TaskKind
	ShiftLabel     string
	ChosenMemberID *string
	Candidates     []RankKey
	TieBreakReason string
	Warnings       []string
}

// AuditLog accumulates entries append-only within one generation.
type AuditLog struct {
	entries []AuditEntry
}

// NewAuditLog returns an empty log.
func NewAuditLog() *AuditLog { return &AuditLog{} }

// RecordSelection appends an entry for a successful selection.
func (l *AuditLog) RecordSelection(kind model.TaskKind, shiftLabel string, date, weekStart *time.Time, result SelectionResult) {
	entry := AuditEntry{
		Date:           date,
		WeekStart:      weekStart,
		Kind:           kind,
		ShiftLabel:     shiftLabel,
		Candidates:     result.Ranked,
		TieBreakReason: result.Reason,
	}
	if result.Chosen != nil {
		id := result.Chosen.MemberID
		entry.ChosenMemberID = &id
	}
	l.entries = append(l.entries, entry)
}

// RecordWarning appends a slot-skipped entry carrying only a warning,
// per spec §4.6/§4.7's "emit a warning, leave the slot unassigned,
// continue" failure semantics.
func (l *AuditLog) RecordWarning(kind model.TaskKind, shiftLabel string, date, weekStart *time.Time, warning string) {
	l.entries = append(l.entries, AuditEntry{
		Date:       date,
		WeekStart:  weekStart,
		Kind:       kind,
		ShiftLabel: shiftLabel,
		Warnings:   []string{warning},
	})
}

// Entries returns every entry recorded so far, in recording order.
func (l *AuditLog) Entries() []AuditEntry { return l.entries }

// Warnings collects every warning string across all entries, the shape
// the generation response returns to the caller.
func (l *AuditLog) Warnings() []string {
	var out []string
	for _, e := range l.entries {
		out = append(out, e.Warnings...)
	}
	return out
}
