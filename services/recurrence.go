// services/recurrence.go
package services

import (
	"fmt"
	"time"
)

// RepeatType is one of the six supported booking cadences.
type RepeatType string

const (
	RepeatNone        RepeatType = "none"
	RepeatWeekly      RepeatType = "weekly"
	RepeatFortnightly RepeatType = "fortnightly"
	RepeatThreeWeekly RepeatType = "3-weekly"
	RepeatMonthly     RepeatType = "monthly"
	RepeatTwoMonthly  RepeatType = "2-monthly"
)

const (
	// Open-ended series stop generating a year out from the anchor.
	defaultHorizonDays = 365
	// Cap for repeating series when the caller gives no target count.
	defaultRepeatingCount = 52
)

// ParseRepeatType validates a cadence string. Empty means none.
func ParseRepeatType(s string) (RepeatType, error) {
	switch RepeatType(s) {
	case "", RepeatNone:
		return RepeatNone, nil
	case RepeatWeekly, RepeatFortnightly, RepeatThreeWeekly, RepeatMonthly, RepeatTwoMonthly:
		return RepeatType(s), nil
	default:
		return "", fmt.Errorf("unknown repeat type %q", s)
	}
}

// DefaultOccurrenceCount returns the generation cap used when the caller
// supplies no explicit target count.
func DefaultOccurrenceCount(repeat RepeatType) int {
	if repeat == RepeatNone {
		return 1
	}
	return defaultRepeatingCount
}

// ExpandDates turns an anchor start time and a repeat cadence into the
// ordered occurrence dates for a series. The anchor is always the first
// entry. Generation stops at the count cap or once the next candidate falls
// past the bound; with no explicit until date an implicit one-year horizon
// applies.
//
// Monthly cadences keep the anchor's day-of-month and clamp to the last day
// of shorter months (an anchor on the 31st lands on Feb 28/29), so no month
// is ever skipped.
func ExpandDates(anchor time.Time, repeat RepeatType, until *time.Time, count int) []time.Time {
	if repeat == RepeatNone {
		return []time.Time{anchor}
	}

	if count <= 0 {
		count = defaultRepeatingCount
	}
	bound := anchor.AddDate(0, 0, defaultHorizonDays)
	if until != nil {
		bound = *until
	}

	dates := []time.Time{anchor}
	for i := 1; len(dates) < count; i++ {
		next := nthOccurrence(anchor, repeat, i)
		if next.After(bound) {
			break
		}
		dates = append(dates, next)
	}
	return dates
}

func nthOccurrence(anchor time.Time, repeat RepeatType, n int) time.Time {
	switch repeat {
	case RepeatWeekly:
		return anchor.AddDate(0, 0, 7*n)
	case RepeatFortnightly:
		return anchor.AddDate(0, 0, 14*n)
	case RepeatThreeWeekly:
		return anchor.AddDate(0, 0, 21*n)
	case RepeatMonthly:
		return addMonthsClamped(anchor, n)
	case RepeatTwoMonthly:
		return addMonthsClamped(anchor, 2*n)
	default:
		return anchor
	}
}

// addMonthsClamped advances the calendar month while preserving the
// day-of-month, clamping to the target month's length. time.AddDate would
// normalize Jan 31 + 1 month into March; this keeps it in February.
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
