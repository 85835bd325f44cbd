package utils

import (
	"testing"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func itemWith(schedule models.Schedule) models.RegimenItem {
	return models.RegimenItem{ID: "item-1", Name: "test", Active: true, Schedule: schedule}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestShouldScheduleItem(t *testing.T) {
	tests := []struct {
		name     string
		schedule models.Schedule
		date     string
		want     bool
	}{
		{
			name:     "daily always schedules",
			schedule: models.Schedule{Frequency: constants.FrequencyDaily},
			date:     "2026-03-10",
			want:     true,
		},
		{
			name: "weekly on a listed weekday",
			schedule: models.Schedule{
				Frequency: constants.FrequencyWeekly,
				Weekdays:  []time.Weekday{time.Tuesday},
			},
			date: "2026-03-10", // a Tuesday
			want: true,
		},
		{
			name: "weekly off a listed weekday",
			schedule: models.Schedule{
				Frequency: constants.FrequencyWeekly,
				Weekdays:  []time.Weekday{time.Tuesday},
			},
			date: "2026-03-11",
			want: false,
		},
		{
			name:     "weekly with no weekdays never schedules",
			schedule: models.Schedule{Frequency: constants.FrequencyWeekly},
			date:     "2026-03-10",
			want:     false,
		},
		{
			name: "every other day on the anchor",
			schedule: models.Schedule{
				Frequency:  constants.FrequencyEveryOtherDay,
				AnchorDate: "2026-03-10",
			},
			date: "2026-03-10",
			want: true,
		},
		{
			name: "every other day odd parity",
			schedule: models.Schedule{
				Frequency:  constants.FrequencyEveryOtherDay,
				AnchorDate: "2026-03-10",
			},
			date: "2026-03-11",
			want: false,
		},
		{
			name: "every other day even parity",
			schedule: models.Schedule{
				Frequency:  constants.FrequencyEveryOtherDay,
				AnchorDate: "2026-03-10",
			},
			date: "2026-03-12",
			want: true,
		},
		{
			name: "every other day before the anchor uses absolute distance",
			schedule: models.Schedule{
				Frequency:  constants.FrequencyEveryOtherDay,
				AnchorDate: "2026-03-10",
			},
			date: "2026-03-08",
			want: true,
		},
		{
			name:     "every other day without an anchor schedules",
			schedule: models.Schedule{Frequency: constants.FrequencyEveryOtherDay},
			date:     "2026-03-11",
			want:     true,
		},
		{
			name: "custom on a listed weekday",
			schedule: models.Schedule{
				Frequency: constants.FrequencyCustom,
				Weekdays:  []time.Weekday{time.Monday, time.Wednesday},
			},
			date: "2026-03-11", // a Wednesday
			want: true,
		},
		{
			name:     "unknown frequency never schedules",
			schedule: models.Schedule{Frequency: "fortnightly"},
			date:     "2026-03-10",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldScheduleItem(itemWith(tt.schedule), mustDate(t, tt.date))
			if got != tt.want {
				t.Errorf("ShouldScheduleItem() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveWindowTime(t *testing.T) {
	tests := []struct {
		window models.TimeWindow
		want   string
	}{
		{models.TimeWindow{ID: "morning", Name: constants.WindowMorning}, "08:00"},
		{models.TimeWindow{ID: "midday", Name: constants.WindowMidday}, "12:00"},
		{models.TimeWindow{ID: "evening", Name: constants.WindowEvening}, "18:00"},
		{models.TimeWindow{ID: "night", Name: constants.WindowNight}, "21:00"},
		{models.TimeWindow{ID: "w1", Name: "exact", At: "14:30"}, "14:30"},
	}
	for _, tt := range tests {
		if got := ResolveWindowTime(tt.window); got != tt.want {
			t.Errorf("ResolveWindowTime(%q) = %q, want %q", tt.window.Name, got, tt.want)
		}
	}
}

func TestScheduleWindows_DefaultsToMorning(t *testing.T) {
	item := itemWith(models.Schedule{Frequency: constants.FrequencyDaily})
	windows := ScheduleWindows(item)
	if len(windows) != 1 {
		t.Fatalf("expected one default window, got %d", len(windows))
	}
	if windows[0].Name != constants.WindowMorning {
		t.Errorf("expected morning default, got %q", windows[0].Name)
	}

	item.Schedule.Windows = []models.TimeWindow{{ID: "w1", Name: constants.WindowNight}}
	windows = ScheduleWindows(item)
	if len(windows) != 1 || windows[0].Name != constants.WindowNight {
		t.Errorf("declared windows not returned as-is: %+v", windows)
	}
}
