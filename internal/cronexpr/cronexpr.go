// Package cronexpr computes timezone-aware next-run instants for 5-field cron
// expressions (minute, hour, day-of-month, month, day-of-week).
package cronexpr

import (
	"fmt"
	"time"
	// Compile in the IANA timezone database so evaluation does not depend on
	// the host's zoneinfo files.
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// starBit mirrors the marker robfig/cron sets on fields parsed from "*",
// used for the standard day-of-month vs day-of-week matching rule.
const starBit = 1 << 63

// searchYears bounds the forward search; expressions with no match inside
// this window are reported as invalid.
const searchYears = 5

// NextRun returns the earliest instant strictly after from whose wall-clock
// time in the given IANA timezone matches the cron expression.
//
// The search runs over nominal wall-clock minutes, so a nominal time erased
// by a spring-forward transition resolves to the first valid instant at or
// after it rather than being skipped, and a time duplicated by fall-back
// resolves to its earliest occurrence.
//
// A malformed expression or unknown timezone yields an error, never a panic.
func NextRun(expression, timezone string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(expression)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", expression, err)
	}
	spec, ok := sched.(*cron.SpecSchedule)
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported cron expression %q", expression)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	local := from.In(loc)
	year, month, day := local.Date()
	mo := int(month)
	hour, minute := local.Hour(), local.Minute()
	minute++ // strictly after from

	yearLimit := year + searchYears
	for year <= yearLimit {
		// Normalize carries from the previous iteration.
		if minute > 59 {
			minute = 0
			hour++
		}
		if hour > 23 {
			hour = 0
			day++
		}
		if mo > 12 {
			mo = 1
			year++
			continue
		}
		if day > daysInMonth(year, mo) {
			day = 1
			mo++
			continue
		}

		if spec.Month&(1<<uint(mo)) == 0 {
			mo++
			day, hour, minute = 1, 0, 0
			continue
		}
		if !dayMatches(spec, year, mo, day) {
			day++
			hour, minute = 0, 0
			continue
		}
		h, ok := nextBit(spec.Hour, hour, 23)
		if !ok {
			day++
			hour, minute = 0, 0
			continue
		}
		if h != hour {
			hour = h
			minute = 0
		}
		m, ok := nextBit(spec.Minute, minute, 59)
		if !ok {
			hour++
			minute = 0
			continue
		}
		minute = m

		// Nominal times inside a spring-forward gap are normalized forward
		// by time.Date onto the first valid instant. Nominal times repeated
		// by fall-back resolve to their earliest occurrence; time.Date's pick
		// between the two is unspecified, so it is corrected here.
		t := time.Date(year, time.Month(mo), day, hour, minute, 0, 0, loc)
		t = earliestOccurrence(t)
		if t.After(from) {
			return t, nil
		}
		minute++
	}

	return time.Time{}, fmt.Errorf("cron expression %q has no run within %d years", expression, searchYears)
}

// dayMatches applies the standard cron rule: when either day field is
// restricted (no star), a day matching one of them is enough; when both
// carry stars, both must match.
func dayMatches(spec *cron.SpecSchedule, year, month, day int) bool {
	weekday := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Weekday()
	domMatch := spec.Dom&(1<<uint(day)) > 0
	dowMatch := spec.Dow&(1<<uint(weekday)) > 0
	if spec.Dom&starBit > 0 || spec.Dow&starBit > 0 {
		return domMatch && dowMatch
	}
	return domMatch || dowMatch
}

// earliestOccurrence steps back across a possible fall-back transition and
// returns the earlier instant when it shows the same wall clock as t.
// Transitions of one hour and thirty minutes cover the IANA database.
func earliestOccurrence(t time.Time) time.Time {
	for _, d := range []time.Duration{time.Hour, 30 * time.Minute} {
		earlier := t.Add(-d)
		if sameWallClock(earlier, t) {
			return earlier
		}
	}
	return t
}

func sameWallClock(a, b time.Time) bool {
	ay, amo, ad := a.Date()
	by, bmo, bd := b.Date()
	return ay == by && amo == bmo && ad == bd &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute()
}

func nextBit(set uint64, from, max int) (int, bool) {
	for v := from; v <= max; v++ {
		if set&(1<<uint(v)) != 0 {
			return v, true
		}
	}
	return 0, false
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 12, 0, 0, 0, time.UTC).Day()
}
