package scheduling

import (
	"errors"
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// ErrEndBeforeStart is an InputError (spec §7): the caller asked for an
// impossible range.
var ErrEndBeforeStart = errors.New("end_date is before start_date")

// GenerationRequest is the semantic generation request of spec §6.
type GenerationRequest struct {
	Start          time.Time
	End            time.Time
	Seed           int64
	Aggressiveness int // 1..5; 0 means "use cfg.DefaultAggressiveness"
}

// GenerationResult is everything one Generate call produces, ready for
// the caller to persist atomically (spec §4.10 step 4).
type GenerationResult struct {
	Start          time.Time
	End            time.Time
	Seed           int64
	Aggressiveness int
	ATM            []ATMAssignment
	SysAid         []SysAidAssignment
	Audit          []AuditEntry
	Warnings       []string
	LedgerRows     []LedgerRow
}

// Assembler glues the ATM and SysAid schedulers into one generation,
// sharing a single Fairness Ledger and Eligibility Filter across both
// phases and threading the rest/cooldown map ATM produces into SysAid's
// eligibility check (spec §2 data flow, §4.10).
type Assembler struct {
	cfg SchedulingConfig
}

// NewAssembler binds a frozen configuration value (Design Notes: "pass a
// frozen SchedulingConfig value into the Assembler", not a global
// singleton).
func NewAssembler(cfg SchedulingConfig) *Assembler {
	return &Assembler{cfg: cfg}
}

// Generate runs one full generation: seed the ledger from history, run
// ATM then SysAid, and return everything produced. It never mutates
// persisted state itself — the caller commits GenerationResult as one
// transaction (spec §4.10 step 4, §5).
func (a *Assembler) Generate(req GenerationRequest, members []MemberInput, periods []model.UnavailablePeriod, history []AssignmentRecord, priorMidnightDates map[string]time.Time) (*GenerationResult, error) {
	if req.End.Before(req.Start) {
		return nil, ErrEndBeforeStart
	}

	aggressiveness := req.Aggressiveness
	if aggressiveness == 0 {
		aggressiveness = a.cfg.DefaultAggressiveness
	}

	ledger := NewFairnessLedger(a.cfg.FairnessWindowDays, req.Start)
	ledger.RecomputeFromHistory(history, req.Start)

	availability := NewAvailabilityStore(periods)
	rest := NewRestCooldownMap(priorMidnightDates)
	selector := NewSelector(ledger, req.Seed)
	audit := NewAuditLog()
	filter := NewEligibilityFilter(members, availability, rest, a.cfg)

	atmScheduler := NewATMScheduler(a.cfg, filter, ledger, rest, selector, audit)
	atmResult := atmScheduler.Run(req.Start, req.End, aggressiveness)

	sysAidScheduler := NewSysAidScheduler(a.cfg, filter, ledger, selector, audit)
	sysAidResult := sysAidScheduler.Run(req.Start, req.End, aggressiveness)

	return &GenerationResult{
		Start:          req.Start,
		End:            req.End,
		Seed:           req.Seed,
		Aggressiveness: aggressiveness,
		ATM:            atmResult,
		SysAid:         sysAidResult,
		Audit:          audit.Entries(),
		Warnings:       audit.Warnings(),
		LedgerRows:     ledger.Snapshot(),
	}, nil
}
