package cli

import (
	"testing"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in      string
		want    []time.Weekday
		wantErr bool
	}{
		{"mon", []time.Weekday{time.Monday}, false},
		{"Monday", []time.Weekday{time.Monday}, false},
		{"mon,wed,fri", []time.Weekday{time.Monday, time.Wednesday, time.Friday}, false},
		{"0,6", []time.Weekday{time.Sunday, time.Saturday}, false},
		{"tue, thu", []time.Weekday{time.Tuesday, time.Thursday}, false},
		{"blursday", nil, true},
		{"7", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseWeekdays(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseWeekdays(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWeekdays(%q) failed: %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseWeekdays(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("ParseWeekdays(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestParseWindows(t *testing.T) {
	windows, err := ParseWindows("morning,evening")
	if err != nil {
		t.Fatalf("ParseWindows failed: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].Name != constants.WindowMorning || windows[0].At != "" {
		t.Errorf("named window parsed wrong: %+v", windows[0])
	}

	windows, err = ParseWindows("14:30")
	if err != nil {
		t.Fatalf("ParseWindows failed: %v", err)
	}
	if len(windows) != 1 || windows[0].At != "14:30" {
		t.Errorf("exact window parsed wrong: %+v", windows)
	}

	if _, err := ParseWindows("brunch"); err == nil {
		t.Error("expected error for an unknown window")
	}
	if _, err := ParseWindows("25:00"); err == nil {
		t.Error("expected error for an out-of-range time")
	}
}

func TestFormatSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule models.Schedule
		want     string
	}{
		{
			"daily without windows",
			models.Schedule{Frequency: constants.FrequencyDaily},
			"daily",
		},
		{
			"daily with windows",
			models.Schedule{
				Frequency: constants.FrequencyDaily,
				Windows:   []models.TimeWindow{{Name: "morning"}, {Name: "night"}},
			},
			"daily at morning,night",
		},
		{
			"weekly with weekdays",
			models.Schedule{
				Frequency: constants.FrequencyWeekly,
				Weekdays:  []time.Weekday{time.Monday, time.Friday},
			},
			"weekly on Mon,Fri",
		},
		{
			"every other day",
			models.Schedule{Frequency: constants.FrequencyEveryOtherDay},
			"every other day",
		},
	}
	for _, tt := range tests {
		if got := FormatSchedule(tt.schedule); got != tt.want {
			t.Errorf("%s: FormatSchedule() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestStatusGlyph(t *testing.T) {
	if StatusGlyph(constants.InstanceCompleted) != "✓" {
		t.Error("completed glyph wrong")
	}
	if StatusGlyph(constants.InstanceSkipped) != "–" {
		t.Error("skipped glyph wrong")
	}
	if StatusGlyph(constants.InstancePending) != " " {
		t.Error("pending glyph wrong")
	}
}
