package model

// TaskKind is one of the four canonical work kinds. Fixed; custom task
// kinds are explicitly out of the core's scope (spec.md §1 Non-goals).
type TaskKind string

const (
	ATMMorning   TaskKind = "ATM_MORNING"
	ATMMidnight  TaskKind = "ATM_MIDNIGHT"
	SysAidMaker  TaskKind = "SYSAID_MAKER"
	SysAidCheck  TaskKind = "SYSAID_CHECKER"
)

// Cadence says whether a kind is filled once per day or once per week.
type Cadence int

const (
	CadenceDaily Cadence = iota
	CadenceWeekly
)

// kindBehavior is the single table every kind-dependent decision is driven
// from, replacing scattered `if kind == ...` branches (Design Notes).
type kindBehavior struct {
	cadence      Cadence
	triggersRest bool // assigning this kind blocks the member the next day
	cooldownGate bool // assigning this kind is itself gated by a cooldown
}

var kindTable = map[TaskKind]kindBehavior{
	ATMMorning:  {cadence: CadenceDaily},
	ATMMidnight: {cadence: CadenceDaily, triggersRest: true, cooldownGate: true},
	SysAidMaker: {cadence: CadenceWeekly},
	SysAidCheck: {cadence: CadenceWeekly},
}

// Cadence reports whether k is filled per-day or per-week.
func (k TaskKind) Cadence() Cadence { return kindTable[k].cadence }

// TriggersRest reports whether an assignment of k blocks the member from
// any ATM assignment on the following day (the rest rule, spec.md §4.1/§4.6).
func (k TaskKind) TriggersRest() bool { return kindTable[k].triggersRest }

// CooldownGated reports whether new assignments of k must respect the
// cooldown window since the member's last assignment of the same kind.
func (k TaskKind) CooldownGated() bool { return kindTable[k].cooldownGate }

// IsATM reports whether k belongs to the daily ATM stream.
func (k TaskKind) IsATM() bool { return k == ATMMorning || k == ATMMidnight }

// IsSysAid reports whether k belongs to the weekly SysAid stream.
func (k TaskKind) IsSysAid() bool { return k == SysAidMaker || k == SysAidCheck }

// KindOrder is the canonical ordering used when iterating a schedule's
// assignments for export (spec.md §6): ATM_MORNING < ATM_MIDNIGHT <
// SYSAID_MAKER < SYSAID_CHECKER.
func KindOrder(k TaskKind) int {
	switch k {
	case ATMMorning:
		return 0
	case ATMMidnight:
		return 1
	case SysAidMaker:
		return 2
	case SysAidCheck:
		return 3
	default:
		return 99
	}
}

// Shift is one slot within a day's ATM plan.
type Shift struct {
	Kind          TaskKind
	Label         string
	StartTime     string
	EndTime       string
	RequiredCount int
}

// DayShiftPlan maps an ISO weekday to its ordered list of ATM shifts.
// The canonical table lives in internal/scheduling/config.go (spec.md §6);
// this type is the shared shape both the scheduling core and the
// persistence/export layers reference.
type DayShiftPlan map[Weekday][]Shift
