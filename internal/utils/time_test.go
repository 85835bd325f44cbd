package utils

import (
	"testing"
	"time"
)

func TestDateCutoff(t *testing.T) {
	tests := []struct {
		date string
		days int
		want string
	}{
		{"2026-06-15", 90, "2026-03-17"},
		{"2026-03-10", 30, "2026-02-08"},
		{"2026-03-10", 0, "2026-03-10"},
		{"2026-01-01", 1, "2025-12-31"}, // crosses the year boundary
	}
	for _, tt := range tests {
		got, err := DateCutoff(tt.date, tt.days)
		if err != nil {
			t.Fatalf("DateCutoff(%q, %d) failed: %v", tt.date, tt.days, err)
		}
		if got != tt.want {
			t.Errorf("DateCutoff(%q, %d) = %q, want %q", tt.date, tt.days, got, tt.want)
		}
	}

	if _, err := DateCutoff("not-a-date", 7); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"08:00", 480},
		{"12:30", 750},
		{"23:59", 1439},
	}
	for _, tt := range tests {
		got, err := ParseTimeToMinutes(tt.in)
		if err != nil {
			t.Fatalf("ParseTimeToMinutes(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTimeToMinutes("8am"); err == nil {
		t.Error("expected an error for a malformed time")
	}
}

func TestCombineDateAndTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}

	got, err := CombineDateAndTime("2026-03-10", "08:30", loc)
	if err != nil {
		t.Fatalf("CombineDateAndTime failed: %v", err)
	}
	want := time.Date(2026, 3, 10, 8, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("CombineDateAndTime() = %v, want %v", got, want)
	}

	if _, err := CombineDateAndTime("2026-03-10", "bad", loc); err == nil {
		t.Error("expected an error for a malformed time")
	}
	if _, err := CombineDateAndTime("bad", "08:30", loc); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestValidators(t *testing.T) {
	if !ValidateDateFormat("2026-03-10") {
		t.Error("valid date rejected")
	}
	if ValidateDateFormat("03/10/2026") {
		t.Error("invalid date accepted")
	}
	if !ValidateTimeFormat("18:00") {
		t.Error("valid time rejected")
	}
	if ValidateTimeFormat("6pm") {
		t.Error("invalid time accepted")
	}

	for _, tz := range []string{"", "Local", "UTC", "America/New_York"} {
		if !ValidateTimezone(tz) {
			t.Errorf("valid timezone %q rejected", tz)
		}
	}
	if ValidateTimezone("Mars/Olympus_Mons") {
		t.Error("invalid timezone accepted")
	}
}

func TestGetTodayInTimezone(t *testing.T) {
	got, err := GetTodayInTimezone("UTC")
	if err != nil {
		t.Fatalf("GetTodayInTimezone failed: %v", err)
	}
	want := time.Now().UTC().Format("2006-01-02")
	if got != want {
		t.Errorf("GetTodayInTimezone(UTC) = %q, want %q", got, want)
	}

	if _, err := GetTodayInTimezone("Nowhere/Invalid"); err == nil {
		t.Error("expected an error for an invalid timezone")
	}
}
