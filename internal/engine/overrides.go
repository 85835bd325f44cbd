package engine

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

// SetOverride records a per-day adjustment for one regimen item: marking it
// done outside the normal completion flow, suppressing it for the day, or
// both. Saving an override for a (date, item) pair replaces any previous one
// and prunes overrides older than the retention window.
func (e *Engine) SetOverride(patientID, date, itemID string, done, suppressed bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !utils.ValidateDateFormat(date) {
		return fmt.Errorf("invalid date %q", date)
	}
	cutoff, err := utils.DateCutoff(e.today(), constants.OverrideRetainDays)
	if err != nil {
		return err
	}
	override := models.CarePlanOverride{
		PatientID:  patientID,
		Date:       date,
		ItemID:     itemID,
		Done:       done,
		Suppressed: suppressed,
		Timestamp:  e.timestamp(),
	}
	if err := e.store.SaveOverride(override, cutoff); err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}
	e.notify(patientID, "")
	return nil
}

// RemoveOverride deletes one (date, item) override if present.
func (e *Engine) RemoveOverride(patientID, date, itemID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.RemoveOverride(patientID, date, itemID); err != nil {
		return fmt.Errorf("failed to remove override: %w", err)
	}
	e.notify(patientID, "")
	return nil
}

// GetOverrides returns the overrides recorded for a date.
func (e *Engine) GetOverrides(patientID, date string) ([]models.CarePlanOverride, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetOverrides(patientID, date)
}

// IsItemSuppressed reports whether an item is suppressed for the date.
func (e *Engine) IsItemSuppressed(patientID, date, itemID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	overrides, err := e.store.GetOverrides(patientID, date)
	if err != nil {
		return false, err
	}
	for _, o := range overrides {
		if o.ItemID == itemID && o.Suppressed {
			return true, nil
		}
	}
	return false, nil
}

// ResetDaySuppressions clears the date's suppressions: pure suppressions are
// removed entirely, while overrides that also carry a done mark keep it and
// only lose the suppressed flag.
func (e *Engine) ResetDaySuppressions(patientID, date string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.ClearSuppressedOverrides(patientID, date); err != nil {
		return fmt.Errorf("failed to clear suppressions: %w", err)
	}
	e.notify(patientID, "")
	return nil
}

// ApplyOverrides folds a date's overrides into its instances for display:
// suppressed items disappear from the day and done-marked items read as
// completed. The stored instances are untouched; overrides are a view-time
// adjustment.
func ApplyOverrides(instances []models.DailyInstance, overrides []models.CarePlanOverride) []models.DailyInstance {
	if len(overrides) == 0 {
		return instances
	}
	byItem := make(map[string]models.CarePlanOverride, len(overrides))
	for _, o := range overrides {
		byItem[o.ItemID] = o
	}

	out := make([]models.DailyInstance, 0, len(instances))
	for _, inst := range instances {
		o, ok := byItem[inst.ItemID]
		if !ok {
			out = append(out, inst)
			continue
		}
		if o.Suppressed {
			continue
		}
		if o.Done && inst.Status == constants.InstancePending {
			inst.Status = constants.InstanceCompleted
			ts := o.Timestamp
			inst.CompletedAt = &ts
		}
		out = append(out, inst)
	}
	return out
}

// DayView materializes the date and returns its instances with overrides
// applied, which is what the today screen and notifier consume.
func (e *Engine) DayView(patientID, date string) ([]models.DailyInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	instances, err := e.ensureDailyInstances(patientID, date)
	if err != nil {
		return nil, err
	}
	overrides, err := e.store.GetOverrides(patientID, date)
	if err != nil {
		return nil, err
	}
	return ApplyOverrides(instances, overrides), nil
}
