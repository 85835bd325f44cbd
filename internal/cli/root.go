package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/engine"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Engine *engine.Engine
}

// PatientID resolves the patient a command acts on: an explicit flag wins,
// otherwise the default from settings.
func (c *Context) PatientID(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.DefaultPatientID == "" {
		return constants.DefaultPatientID, nil
	}
	return settings.DefaultPatientID, nil
}

// Today resolves today's date in the configured timezone.
func (c *Context) Today() (string, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return utils.GetTodayFromSettings(settings)
}

// ResolveDate accepts an explicit YYYY-MM-DD date, "today", "yesterday", or
// empty (today).
func (c *Context) ResolveDate(flag string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "today":
		return c.Today()
	case "yesterday":
		today, err := c.Today()
		if err != nil {
			return "", err
		}
		t, err := utils.ParseDate(today)
		if err != nil {
			return "", err
		}
		return t.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	default:
		if !utils.ValidateDateFormat(flag) {
			return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", flag)
		}
		return flag, nil
	}
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, time.Weekday(num))
			} else {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

// ParseWindows parses a comma-separated list of windows. Each entry is either
// a named window (morning, midday, evening, night) or an exact HH:MM time.
func ParseWindows(s string) ([]models.TimeWindow, error) {
	parts := strings.Split(s, ",")
	var windows []models.TimeWindow

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if _, ok := constants.NamedWindowTimes[part]; ok {
			windows = append(windows, models.TimeWindow{ID: part, Name: part})
			continue
		}
		if !utils.ValidateTimeFormat(part) {
			return nil, fmt.Errorf("invalid window %q: not a named window or HH:MM time", part)
		}
		windows = append(windows, models.TimeWindow{ID: part, Name: part, At: part})
	}

	return windows, nil
}

// FormatSchedule formats a schedule into a human-readable string
func FormatSchedule(s models.Schedule) string {
	var freq string
	switch s.Frequency {
	case constants.FrequencyDaily:
		freq = "daily"
	case constants.FrequencyWeekly, constants.FrequencyCustom:
		if len(s.Weekdays) > 0 {
			var days []string
			for _, wd := range s.Weekdays {
				days = append(days, wd.String()[:3])
			}
			freq = fmt.Sprintf("weekly on %s", strings.Join(days, ","))
		} else {
			freq = "weekly"
		}
	case constants.FrequencyEveryOtherDay:
		freq = "every other day"
	default:
		freq = "unknown"
	}

	if len(s.Windows) == 0 {
		return freq
	}
	var ws []string
	for _, w := range s.Windows {
		ws = append(ws, w.Name)
	}
	return fmt.Sprintf("%s at %s", freq, strings.Join(ws, ","))
}

// StatusGlyph returns the single-character marker used in day listings.
func StatusGlyph(status constants.InstanceStatus) string {
	switch status {
	case constants.InstanceCompleted:
		return "✓"
	case constants.InstanceSkipped:
		return "–"
	default:
		return " "
	}
}

// ParseTimeToMinutes converts HH:MM to minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	return utils.ParseTimeToMinutes(timeStr)
}
