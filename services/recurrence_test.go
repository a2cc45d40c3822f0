package services

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestExpandDates_WeeklyFullYear(t *testing.T) {
	anchor := mustTime(t, "2025-03-10T09:00:00Z")

	dates := ExpandDates(anchor, RepeatWeekly, nil, 52)

	if len(dates) != 52 {
		t.Fatalf("expected 52 dates, got %d", len(dates))
	}
	if !dates[0].Equal(anchor) {
		t.Fatalf("first date should be the anchor, got %v", dates[0])
	}
	for i := 1; i < len(dates); i++ {
		if diff := dates[i].Sub(dates[i-1]); diff != 7*24*time.Hour {
			t.Fatalf("step %d: expected 7 days, got %v", i, diff)
		}
	}
	wantLast := anchor.AddDate(0, 0, 51*7)
	if !dates[51].Equal(wantLast) {
		t.Fatalf("last date: expected %v, got %v", wantLast, dates[51])
	}
}

func TestExpandDates_MonthlyStopsAtBound(t *testing.T) {
	anchor := mustTime(t, "2025-01-15T09:00:00Z")
	until := mustTime(t, "2025-04-01T00:00:00Z")

	dates := ExpandDates(anchor, RepeatMonthly, &until, 52)

	want := []time.Time{
		anchor,
		mustTime(t, "2025-02-15T09:00:00Z"),
		mustTime(t, "2025-03-15T09:00:00Z"),
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(dates), dates)
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("date %d: expected %v, got %v", i, want[i], dates[i])
		}
	}
}

func TestExpandDates_NonePolicyIgnoresBoundsAndCount(t *testing.T) {
	anchor := mustTime(t, "2025-06-01T14:00:00Z")
	until := mustTime(t, "2030-01-01T00:00:00Z")

	dates := ExpandDates(anchor, RepeatNone, &until, 52)

	if len(dates) != 1 || !dates[0].Equal(anchor) {
		t.Fatalf("none policy must yield exactly the anchor, got %v", dates)
	}
}

func TestExpandDates_MonthEndClamping(t *testing.T) {
	// Anchor on the 31st: shorter months clamp to their last day, longer
	// months get the 31st back.
	anchor := mustTime(t, "2025-01-31T10:00:00Z")

	dates := ExpandDates(anchor, RepeatMonthly, nil, 4)

	want := []time.Time{
		anchor,
		mustTime(t, "2025-02-28T10:00:00Z"),
		mustTime(t, "2025-03-31T10:00:00Z"),
		mustTime(t, "2025-04-30T10:00:00Z"),
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(dates), dates)
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("date %d: expected %v, got %v", i, want[i], dates[i])
		}
	}
}

func TestExpandDates_WeeklyFamilySteps(t *testing.T) {
	anchor := mustTime(t, "2025-05-05T08:30:00Z")

	tests := []struct {
		repeat   RepeatType
		stepDays int
	}{
		{RepeatWeekly, 7},
		{RepeatFortnightly, 14},
		{RepeatThreeWeekly, 21},
	}

	for _, tt := range tests {
		dates := ExpandDates(anchor, tt.repeat, nil, 3)
		if len(dates) != 3 {
			t.Fatalf("%s: expected 3 dates, got %d", tt.repeat, len(dates))
		}
		for i, d := range dates {
			want := anchor.AddDate(0, 0, tt.stepDays*i)
			if !d.Equal(want) {
				t.Fatalf("%s date %d: expected %v, got %v", tt.repeat, i, want, d)
			}
		}
	}
}

func TestExpandDates_TwoMonthlyStep(t *testing.T) {
	anchor := mustTime(t, "2025-01-10T09:00:00Z")

	dates := ExpandDates(anchor, RepeatTwoMonthly, nil, 3)

	want := []time.Time{
		anchor,
		mustTime(t, "2025-03-10T09:00:00Z"),
		mustTime(t, "2025-05-10T09:00:00Z"),
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("date %d: expected %v, got %v", i, want[i], dates[i])
		}
	}
}

func TestExpandDates_ImplicitOneYearHorizon(t *testing.T) {
	anchor := mustTime(t, "2025-01-01T09:00:00Z")

	// Without an until date, a large count is capped by the one-year horizon.
	dates := ExpandDates(anchor, RepeatWeekly, nil, 500)

	horizon := anchor.AddDate(0, 0, 365)
	for _, d := range dates {
		if d.After(horizon) {
			t.Fatalf("date %v is past the one-year horizon %v", d, horizon)
		}
	}
	// 52 full weekly steps fit inside 365 days, plus the anchor itself.
	if len(dates) != 53 {
		t.Fatalf("expected 53 dates within the horizon, got %d", len(dates))
	}
}

func TestExpandDates_BoundEqualToCandidateIsIncluded(t *testing.T) {
	anchor := mustTime(t, "2025-02-03T09:00:00Z")
	until := anchor.AddDate(0, 0, 7)

	dates := ExpandDates(anchor, RepeatWeekly, &until, 10)

	if len(dates) != 2 {
		t.Fatalf("expected 2 dates (candidate equal to bound kept), got %d", len(dates))
	}
	if !dates[1].Equal(until) {
		t.Fatalf("expected second date %v, got %v", until, dates[1])
	}
}

func TestExpandDates_ZeroCountUsesDefault(t *testing.T) {
	anchor := mustTime(t, "2025-01-06T09:00:00Z")

	dates := ExpandDates(anchor, RepeatWeekly, nil, 0)

	if len(dates) != 52 {
		t.Fatalf("expected the default cap of 52 repeating occurrences, got %d", len(dates))
	}
}

func TestDefaultOccurrenceCount(t *testing.T) {
	if got := DefaultOccurrenceCount(RepeatNone); got != 1 {
		t.Fatalf("none: expected 1, got %d", got)
	}
	for _, repeat := range []RepeatType{RepeatWeekly, RepeatFortnightly, RepeatThreeWeekly, RepeatMonthly, RepeatTwoMonthly} {
		if got := DefaultOccurrenceCount(repeat); got != 52 {
			t.Fatalf("%s: expected 52, got %d", repeat, got)
		}
	}
}

func TestParseRepeatType(t *testing.T) {
	valid := []string{"", "none", "weekly", "fortnightly", "3-weekly", "monthly", "2-monthly"}
	for _, s := range valid {
		if _, err := ParseRepeatType(s); err != nil {
			t.Fatalf("%q should parse, got %v", s, err)
		}
	}
	if _, err := ParseRepeatType("daily"); err == nil {
		t.Fatal("daily should be rejected")
	}
}
