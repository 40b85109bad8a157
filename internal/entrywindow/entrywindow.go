// Package entrywindow computes the wall-clock instant after which
// general-type codes are refused at the door. The math is pure: callers
// inject the event start, the HH:mm limit and the business timezone.
package entrywindow

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultLimit is the fallback cutoff applied when an event has no entry
// limit of its own.
const DefaultLimit = "23:30"

var limitPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// Limit is a parsed HH:mm wall-clock cutoff.
type Limit struct {
	Hour   int
	Minute int
}

// minuteOfDay positions the limit within a calendar day for the tie-break
// against the event start.
func (l Limit) minuteOfDay() int {
	return l.Hour*60 + l.Minute
}

// ParseLimit accepts "HH:mm" or "HH:mm:ss" with hour 0-23 and minute
// 0-59. Anything else reports ok=false so the caller can fall back.
func ParseLimit(s string) (Limit, bool) {
	m := limitPattern.FindStringSubmatch(s)
	if m == nil {
		return Limit{}, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 0 || hour > 23 {
		return Limit{}, false
	}

	minute, err := strconv.Atoi(m[2])
	if err != nil || minute < 0 || minute > 59 {
		return Limit{}, false
	}

	return Limit{Hour: hour, Minute: minute}, true
}

// Cutoff is the computed entry deadline. At is in UTC; NextDay records
// whether the limit rolled past midnight relative to the event start.
type Cutoff struct {
	At      time.Time
	NextDay bool
}

// Passed reports whether the window has closed at the given instant.
func (c Cutoff) Passed(now time.Time) bool {
	return now.After(c.At)
}

// Compute resolves the cutoff for an event starting at startsAt with the
// given limit, in the business location. An unparseable limit falls back
// to fallback; if the fallback is also unparseable there is no cutoff and
// ok is false (absence, not an error).
//
// The candidate cutoff sits on the start's calendar day in the business
// zone. If the limit's minute-of-day is strictly below the start's, the
// cutoff is read as "after midnight" and shifts one day forward.
func Compute(startsAt time.Time, limit, fallback string, loc *time.Location) (Cutoff, bool) {
	parsed, ok := ParseLimit(limit)
	if !ok {
		parsed, ok = ParseLimit(fallback)
		if !ok {
			return Cutoff{}, false
		}
	}

	local := startsAt.In(loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(),
		parsed.Hour, parsed.Minute, 0, 0, loc)

	startMinute := local.Hour()*60 + local.Minute()
	nextDay := parsed.minuteOfDay() < startMinute
	if nextDay {
		candidate = candidate.AddDate(0, 0, 1)
	}

	return Cutoff{At: candidate.UTC(), NextDay: nextDay}, true
}
