package scheduling

import (
	"time"

	"github.com/opsroster/scheduler/internal/model"
)

// civilDate truncates t to a date-only instant at midnight UTC, the
// representation every function in this package compares by. All inputs
// crossing the boundary into this package are expected to already be
// date-only; Truncate here guards against a caller accidentally leaking
// a wall-clock time-of-day component into a comparison.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the ISO weekday (Monday=1..Sunday=7) of d.
func Weekday(d time.Time) model.Weekday {
	switch d.Weekday() {
	case time.Monday:
		return model.Monday
	case time.Tuesday:
		return model.Tuesday
	case time.Wednesday:
		return model.Wednesday
	case time.Thursday:
		return model.Thursday
	case time.Friday:
		return model.Friday
	case time.Saturday:
		return model.Saturday
	default:
		return model.Sunday
	}
}

// AddDays returns the civil date n days after d (n may be negative).
func AddDays(d time.Time, n int) time.Time {
	return civilDate(d).AddDate(0, 0, n)
}

// IterDays calls fn once for every civil date in [start, end] inclusive,
// in ascending order. Stops early if fn returns false.
func IterDays(start, end time.Time, fn func(d time.Time) bool) {
	for d := civilDate(start); !d.After(civilDate(end)); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}

// WeekBucket returns the Monday..Saturday span containing d: Monday is
// the first day of a SysAid week, Sunday belongs to the following
// week's span and is never assigned for SysAid (spec §3).
func WeekBucket(d time.Time) (weekStart, weekEnd time.Time) {
	cd := civilDate(d)
	offset := int(Weekday(cd)) - int(model.Monday)
	weekStart = cd.AddDate(0, 0, -offset)
	weekEnd = weekStart.AddDate(0, 0, 5) // Monday + 5 = Saturday
	return weekStart, weekEnd
}

// IterWeeks buckets [start, end] into consecutive Monday-keyed weeks and
// calls fn once per week with the portion of [start,end] the week
// actually spans (clamped, so a range starting mid-week doesn't yield a
// phantom earlier Monday).
func IterWeeks(start, end time.Time, fn func(weekStart, spanStart, spanEnd time.Time) bool) {
	cd, cend := civilDate(start), civilDate(end)
	weekStart, _ := WeekBucket(cd)
	for !weekStart.After(cend) {
		_, weekEnd := WeekBucket(weekStart)
		spanStart := weekStart
		if spanStart.Before(cd) {
			spanStart = cd
		}
		spanEnd := weekEnd
		if spanEnd.After(cend) {
			spanEnd = cend
		}
		if !fn(weekStart, spanStart, spanEnd) {
			return
		}
		weekStart = weekStart.AddDate(0, 0, 7)
	}
}

// InRange reports whether d falls within [start, end] inclusive.
func InRange(d, start, end time.Time) bool {
	cd, cs, ce := civilDate(d), civilDate(start), civilDate(end)
	return !cd.Before(cs) && !cd.After(ce)
}
