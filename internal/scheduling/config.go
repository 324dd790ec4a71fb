// Package scheduling is the dependency-free scheduling core: calendar
// arithmetic, availability, the fairness ledger, eligibility filtering,
// selection, the ATM and SysAid schedulers, the audit log, the swap
// validator and the assembler that drives all of them. Nothing in this
// package touches a database, a clock, or the network; every function
// takes plain values and returns plain values, so every decision here is
// reproducible from its inputs alone.
package scheduling

import "github.com/opsroster/scheduler/internal/model"

// SchedulingConfig is the frozen set of knobs the Assembler reads for one
// generation. Built once in internal/service from config.Config and
// passed down by value — no process-wide singleton.
type SchedulingConfig struct {
	Timezone string // IANA zone name, e.g. "UTC" or "Africa/Addis_Ababa"

	FairnessWindowDays int // rolling window length for the ledger, default 90

	ATMRestRuleEnabled bool // prohibit ATM assignment the day after a B-shift
	ATMCooldownDays    int  // minimum gap between ATM_MIDNIGHT assignments, default 2

	SysAidWeekDays           model.WeekdaySet // days a SysAid week covers, default Mon-Sat
	SysAidRequiredOfficeDays model.WeekdaySet // office-day coverage required of maker/checker, default Mon-Fri

	DefaultAggressiveness int // 1..5, used when a generation request omits it

	Plan model.DayShiftPlan // the canonical weekday -> shift list table
}

// DefaultConfig returns the canonical configuration described in the
// external interfaces table: weekdays carry a Morning and a Mid/Night
// shift, Saturday adds two extra Mid/Night variants, Sunday swaps in a
// second Morning slot and a single Night slot.
func DefaultConfig() SchedulingConfig {
	return SchedulingConfig{
		Timezone:                 "UTC",
		FairnessWindowDays:       90,
		ATMRestRuleEnabled:       true,
		ATMCooldownDays:          2,
		SysAidWeekDays:           model.WeekdaysMonSat,
		SysAidRequiredOfficeDays: model.WeekdaysMonFri,
		DefaultAggressiveness:    1,
		Plan:                     CanonicalDayShiftPlan(),
	}
}

// CanonicalDayShiftPlan is the authoritative weekday -> shift table (§6 of
// the governing spec): Mon-Fri get 2 shifts, Saturday gets 4, Sunday
// gets 3. Built fresh on each call since model.Shift values are plain
// data with no shared mutable state.
func CanonicalDayShiftPlan() model.DayShiftPlan {
	weekdayShifts := []model.Shift{
		{Kind: model.ATMMorning, Label: "Morning", StartTime: "08:00", EndTime: "16:00", RequiredCount: 1},
		{Kind: model.ATMMidnight, Label: "Mid/Night", StartTime: "16:00", EndTime: "08:00", RequiredCount: 1},
	}

	saturdayShifts := []model.Shift{
		{Kind: model.ATMMorning, Label: "Morning", StartTime: "08:00", EndTime: "16:00", RequiredCount: 1},
		{Kind: model.ATMMidnight, Label: "Mid/Night-1", StartTime: "16:00", EndTime: "20:00", RequiredCount: 1},
		{Kind: model.ATMMidnight, Label: "Mid/Night-2", StartTime: "20:00", EndTime: "00:00", RequiredCount: 1},
		{Kind: model.ATMMidnight, Label: "Mid/Night-3", StartTime: "00:00", EndTime: "08:00", RequiredCount: 1},
	}

	sundayShifts := []model.Shift{
		{Kind: model.ATMMorning, Label: "Morning-1", StartTime: "08:00", EndTime: "12:00", RequiredCount: 1},
		{Kind: model.ATMMorning, Label: "Morning-2", StartTime: "12:00", EndTime: "16:00", RequiredCount: 1},
		{Kind: model.ATMMidnight, Label: "Night", StartTime: "16:00", EndTime: "08:00", RequiredCount: 1},
	}

	return model.DayShiftPlan{
		model.Monday:    weekdayShifts,
		model.Tuesday:   weekdayShifts,
		model.Wednesday: weekdayShifts,
		model.Thursday:  weekdayShifts,
		model.Friday:    weekdayShifts,
		model.Saturday:  saturdayShifts,
		model.Sunday:    sundayShifts,
	}
}
