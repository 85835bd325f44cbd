package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/logger"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

// EnsureDailyInstances expands the patient's active regimen items into daily
// instances for the given date. The operation is idempotent: at most one
// instance ever exists per (item, date, window), repeat calls create nothing
// new, and completed or skipped instances are never reset. Instances that
// were hidden by a same-day deactivation are reactivated in place when their
// item is active again, preserving whatever status they already had.
//
// Returned instances are the date's visible ones, in stable (scheduled time,
// name) order.
func (e *Engine) EnsureDailyInstances(patientID, date string) ([]models.DailyInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureDailyInstances(patientID, date)
}

func (e *Engine) ensureDailyInstances(patientID, date string) ([]models.DailyInstance, error) {
	dateT, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	// Freeze the day's snapshot before anything else so that "what did the
	// plan look like on date D" is answerable even after later edits.
	if _, err := e.effectiveCarePlan(patientID, date); err != nil {
		return nil, err
	}

	plan, err := e.getOrCreatePlan(patientID)
	if err != nil {
		return nil, err
	}

	created := 0
	planDirty := false
	for i := range plan.Items {
		item := &plan.Items[i]
		if !item.Active {
			continue
		}

		// The first materialized date becomes the parity epoch for
		// every-other-day items.
		if item.Schedule.Frequency == constants.FrequencyEveryOtherDay && item.Schedule.AnchorDate == "" {
			item.Schedule.AnchorDate = date
			planDirty = true
		}

		if !utils.ShouldScheduleItem(*item, dateT) {
			continue
		}

		for _, w := range utils.ScheduleWindows(*item) {
			existing, err := e.store.GetDailyInstance(patientID, item.ID, date, w.ID)
			if err == nil {
				if !existing.Active {
					existing.Active = true
					if err := e.store.SaveDailyInstance(existing); err != nil {
						return nil, fmt.Errorf("failed to reactivate instance: %w", err)
					}
				}
				continue
			}
			if !isNotFound(err) {
				return nil, err
			}

			inst := models.DailyInstance{
				ID:          uuid.New().String(),
				PatientID:   patientID,
				PlanID:      plan.ID,
				ItemID:      item.ID,
				Category:    item.Category,
				Name:        item.Name,
				Date:        date,
				WindowID:    w.ID,
				ScheduledAt: utils.ResolveWindowTime(w),
				Status:      constants.InstancePending,
				Active:      true,
			}
			if err := e.store.SaveDailyInstance(inst); err != nil {
				return nil, fmt.Errorf("failed to save daily instance: %w", err)
			}
			created++
		}
	}

	if planDirty {
		plan.UpdatedAt = e.timestamp()
		if err := e.store.SaveCarePlan(plan); err != nil {
			return nil, fmt.Errorf("failed to save care plan: %w", err)
		}
	}

	cutoff, err := utils.DateCutoff(e.today(), constants.InstanceIndexDays)
	if err != nil {
		return nil, err
	}
	if err := e.store.AddInstanceIndexDate(patientID, date, cutoff); err != nil {
		return nil, fmt.Errorf("failed to update instance index: %w", err)
	}

	if created > 0 {
		logger.Debug("Materialized daily instances", "patient", patientID, "date", date, "created", created)
	}

	instances, err := e.store.GetDailyInstancesForDate(patientID, date)
	if err != nil {
		return nil, err
	}
	visible := instances[:0]
	for _, inst := range instances {
		if inst.Active {
			visible = append(visible, inst)
		}
	}
	return visible, nil
}

// GetDailyInstances returns the visible instances for a date without
// materializing anything. Past dates stay exactly as they were left.
func (e *Engine) GetDailyInstances(patientID, date string) ([]models.DailyInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	instances, err := e.store.GetDailyInstancesForDate(patientID, date)
	if err != nil {
		return nil, err
	}
	visible := instances[:0]
	for _, inst := range instances {
		if inst.Active {
			visible = append(visible, inst)
		}
	}
	return visible, nil
}

// GetDailyInstancesRange returns visible instances across an inclusive date
// range, bounded to the dates the instance index still retains.
func (e *Engine) GetDailyInstancesRange(patientID, start, end string) ([]models.DailyInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	index, err := e.store.GetInstanceIndex(patientID)
	if err != nil {
		return nil, err
	}
	var out []models.DailyInstance
	for _, date := range index {
		if date < start || date > end {
			continue
		}
		instances, err := e.store.GetDailyInstancesForDate(patientID, date)
		if err != nil {
			return nil, err
		}
		for _, inst := range instances {
			if inst.Active {
				out = append(out, inst)
			}
		}
	}
	return out, nil
}
