package utils

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-03-10T09:00:00Z", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"2025-03-10T09:00:00+01:00", time.Date(2025, 3, 10, 9, 0, 0, 0, time.FixedZone("", 3600))},
		{"2025-03-10T09:00:00", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"2025-03-10T09:00", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"2025-03-10 09:00", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"  2025-03-10T09:00:00Z  ", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDateTime(tt.input)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.input, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("%q: expected %v, got %v", tt.input, tt.want, got)
		}
	}

	for _, bad := range []string{"", "next tuesday", "10/03/2025", "2025-13-01T09:00"} {
		if _, err := ParseDateTime(bad); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-04-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected midnight UTC, got %v", got)
	}

	if _, err := ParseDate("01-04-2025"); err == nil {
		t.Fatal("wrong format should not parse")
	}
}

func TestBeginningOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	in := time.Date(2025, 3, 10, 23, 45, 12, 0, loc)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	if got := BeginningOfDay(in); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
