package utils

import (
	"math"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

// ShouldScheduleItem determines if a regimen item falls on the given date
// based on its schedule. This is a pure function of (schedule, date); the
// materializer and validation both rely on it for consistency.
func ShouldScheduleItem(item models.RegimenItem, date time.Time) bool {
	switch item.Schedule.Frequency {
	case constants.FrequencyDaily:
		return true
	case constants.FrequencyWeekly:
		if len(item.Schedule.Weekdays) == 0 {
			return false
		}
		for _, wd := range item.Schedule.Weekdays {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	case constants.FrequencyEveryOtherDay:
		if item.Schedule.AnchorDate == "" {
			// No parity epoch yet; the first materialized date becomes it.
			return true
		}
		anchor, err := time.Parse(constants.DateFormat, item.Schedule.AnchorDate)
		if err != nil {
			return false
		}
		// Date-based arithmetic with explicit rounding to avoid DST drift
		daysSince := int(math.Round(date.Sub(anchor).Hours() / 24))
		if daysSince < 0 {
			daysSince = -daysSince
		}
		return daysSince%2 == 0
	case constants.FrequencyCustom:
		for _, wd := range item.Schedule.Weekdays {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ResolveWindowTime returns the clock time (HH:MM) a window resolves to.
// Named windows map to their fixed times; exact windows carry their own.
func ResolveWindowTime(w models.TimeWindow) string {
	if at, ok := constants.NamedWindowTimes[w.Name]; ok {
		return at
	}
	return w.At
}

// ScheduleWindows returns the item's time windows, defaulting to a single
// morning window when the schedule declares none.
func ScheduleWindows(item models.RegimenItem) []models.TimeWindow {
	if len(item.Schedule.Windows) > 0 {
		return item.Schedule.Windows
	}
	return []models.TimeWindow{{ID: constants.WindowMorning, Name: constants.WindowMorning}}
}
