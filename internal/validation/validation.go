// Package validation checks care configurations and schedules before they
// are saved, so the engine never has to materialize from malformed input.
package validation

import (
	"fmt"
	"strings"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

// ValidationError collects every problem found in one pass so the user can
// fix them all at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid care configuration: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// ValidateSchedule checks one schedule in isolation.
func ValidateSchedule(schedule models.Schedule, owner string) error {
	verr := &ValidationError{}
	validateScheduleInto(verr, schedule, owner)
	return verr.orNil()
}

func validateScheduleInto(verr *ValidationError, schedule models.Schedule, owner string) {
	switch schedule.Frequency {
	case constants.FrequencyDaily, constants.FrequencyEveryOtherDay:
	case constants.FrequencyWeekly, constants.FrequencyCustom:
		if len(schedule.Weekdays) == 0 {
			verr.add("%s: %s schedule needs at least one weekday", owner, schedule.Frequency)
		}
	case "":
		verr.add("%s: schedule has no frequency", owner)
	default:
		verr.add("%s: unknown frequency %q", owner, schedule.Frequency)
	}

	if schedule.AnchorDate != "" && !utils.ValidateDateFormat(schedule.AnchorDate) {
		verr.add("%s: anchor date %q is not YYYY-MM-DD", owner, schedule.AnchorDate)
	}

	for _, w := range schedule.Windows {
		if _, named := constants.NamedWindowTimes[w.Name]; named {
			continue
		}
		if w.At == "" {
			verr.add("%s: window %q is neither a named window nor carries a time", owner, w.Name)
			continue
		}
		if !utils.ValidateTimeFormat(w.At) {
			verr.add("%s: window %q has malformed time %q (want HH:MM)", owner, w.Name, w.At)
		}
	}
}

// ValidateCarePlanConfig checks a full care configuration: every schedule in
// it, duplicate medication and custom item names, and duplicate meal slots.
func ValidateCarePlanConfig(cfg models.CarePlanConfig) error {
	verr := &ValidationError{}

	for cat, cc := range cfg.Categories {
		if !cc.Enabled {
			continue
		}
		schedule := models.Schedule{Frequency: cc.Frequency, Weekdays: cc.Weekdays, Windows: cc.Windows}
		if schedule.Frequency == "" {
			continue // defaults to daily at derivation time
		}
		validateScheduleInto(verr, schedule, string(cat))
	}

	medNames := make(map[string]bool)
	for _, med := range cfg.Medications {
		if med.Name == "" {
			verr.add("medication %s has no name", med.ID)
			continue
		}
		key := strings.ToLower(med.Name)
		if medNames[key] {
			verr.add("duplicate medication name %q", med.Name)
		}
		medNames[key] = true
		if med.Schedule.Frequency != "" {
			validateScheduleInto(verr, med.Schedule, med.Name)
		}
	}

	customNames := make(map[string]bool)
	for _, item := range cfg.CustomItems {
		if item.Name == "" {
			verr.add("custom item has no name")
			continue
		}
		key := strings.ToLower(item.Name)
		if customNames[key] {
			verr.add("duplicate custom item name %q", item.Name)
		}
		customNames[key] = true
		validateScheduleInto(verr, item.Schedule, item.Name)
	}

	slots := make(map[string]bool)
	for _, slot := range cfg.MealSlots {
		if slots[slot] {
			verr.add("duplicate meal slot %q", slot)
		}
		slots[slot] = true
	}

	return verr.orNil()
}
