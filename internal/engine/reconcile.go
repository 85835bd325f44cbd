package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/logger"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}

// desiredItem is one regimen item the care configuration currently calls for.
type desiredItem struct {
	Category     constants.Category
	Name         string
	Priority     constants.Priority
	MedicationID string
	Dose         string
	Instructions string
	Schedule     models.Schedule
}

// mealWindows maps the well-known meal slots onto the named time windows.
var mealWindows = map[string]models.TimeWindow{
	"breakfast": {ID: constants.WindowMorning, Name: constants.WindowMorning, At: constants.WindowMorningTime},
	"lunch":     {ID: constants.WindowMidday, Name: constants.WindowMidday, At: constants.WindowMiddayTime},
	"dinner":    {ID: constants.WindowEvening, Name: constants.WindowEvening, At: constants.WindowEveningTime},
}

// desiredItems derives the set of regimen items the configuration calls for.
// Medications carry their stable MedicationID; everything else is generated
// and matched by (category, name) during reconciliation.
func desiredItems(cfg models.CarePlanConfig) []desiredItem {
	var out []desiredItem

	for _, cat := range constants.AllCategories {
		cc := cfg.Category(cat)
		if !cc.Enabled {
			continue
		}

		categorySchedule := models.Schedule{
			Frequency: cc.Frequency,
			Weekdays:  cc.Weekdays,
			Windows:   cc.Windows,
		}
		if categorySchedule.Frequency == "" {
			categorySchedule.Frequency = constants.FrequencyDaily
		}

		switch cat {
		case constants.CategoryMedication:
			for _, med := range cfg.Medications {
				schedule := med.Schedule
				if schedule.Frequency == "" {
					schedule = categorySchedule
				}
				out = append(out, desiredItem{
					Category:     cat,
					Name:         med.Name,
					Priority:     cc.Priority,
					MedicationID: med.ID,
					Dose:         med.Dose,
					Instructions: med.Instructions,
					Schedule:     schedule,
				})
			}
		case constants.CategoryMeals:
			for _, slot := range cfg.MealSlots {
				schedule := categorySchedule
				if w, ok := mealWindows[slot]; ok {
					schedule.Windows = []models.TimeWindow{w}
				}
				out = append(out, desiredItem{
					Category: cat,
					Name:     slot,
					Priority: cc.Priority,
					Schedule: schedule,
				})
			}
		case constants.CategoryAppointment, constants.CategoryCustom:
			// Appointments are ad-hoc and custom items come from their own
			// config list; neither is generated per category.
		default:
			out = append(out, desiredItem{
				Category: cat,
				Name:     string(cat),
				Priority: cc.Priority,
				Schedule: categorySchedule,
			})
		}
	}

	for _, custom := range cfg.CustomItems {
		out = append(out, desiredItem{
			Category: constants.CategoryCustom,
			Name:     custom.Name,
			Priority: constants.PriorityOptional,
			Schedule: custom.Schedule,
		})
	}

	return out
}

// matches reports whether an existing regimen item corresponds to a desired
// one. Medications match on their stable MedicationID; generated items match
// on category and name.
func (d desiredItem) matches(item models.RegimenItem) bool {
	if d.Category != item.Category {
		return false
	}
	if d.Category == constants.CategoryMedication {
		return d.MedicationID != "" && d.MedicationID == item.MedicationID
	}
	return d.Name == item.Name
}

// getOrCreatePlan returns the patient's care plan, reconciling it into
// existence from the configuration on first access.
func (e *Engine) getOrCreatePlan(patientID string) (models.CarePlan, error) {
	plan, err := e.store.GetCarePlan(patientID)
	if err == nil {
		return plan, nil
	}
	if !isNotFound(err) {
		return models.CarePlan{}, err
	}

	now := e.timestamp()
	plan = models.CarePlan{
		ID:        uuid.New().String(),
		PatientID: patientID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.SaveCarePlan(plan); err != nil {
		return models.CarePlan{}, fmt.Errorf("failed to create care plan: %w", err)
	}
	if _, err := e.reconcile(patientID); err != nil {
		return models.CarePlan{}, err
	}
	return e.store.GetCarePlan(patientID)
}

// Reconcile aligns the patient's care plan with the current configuration:
// new items are created, existing ones updated in place, items the
// configuration no longer calls for are deactivated (never deleted), and
// previously deactivated items the configuration calls for again are
// reactivated under their original identity.
func (e *Engine) Reconcile(patientID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	changed, err := e.reconcile(patientID)
	if err != nil {
		return err
	}
	for cat := range changed {
		e.notify(patientID, cat)
	}
	return nil
}

func (e *Engine) reconcile(patientID string) (map[constants.Category]bool, error) {
	cfg, err := e.getOrCreateConfig(patientID)
	if err != nil {
		return nil, err
	}
	plan, err := e.store.GetCarePlan(patientID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		now := e.timestamp()
		plan = models.CarePlan{
			ID:        uuid.New().String(),
			PatientID: patientID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	now := e.timestamp()
	changed := make(map[constants.Category]bool)
	desired := desiredItems(cfg)
	claimed := make(map[string]bool)

	for _, d := range desired {
		var item *models.RegimenItem
		for i := range plan.Items {
			if claimed[plan.Items[i].ID] {
				continue
			}
			if d.matches(plan.Items[i]) {
				item = &plan.Items[i]
				break
			}
		}

		if item == nil {
			plan.Items = append(plan.Items, models.RegimenItem{
				ID:           uuid.New().String(),
				PatientID:    patientID,
				PlanID:       plan.ID,
				Category:     d.Category,
				Name:         d.Name,
				Priority:     d.Priority,
				Active:       true,
				Schedule:     d.Schedule,
				MedicationID: d.MedicationID,
				Dose:         d.Dose,
				Instructions: d.Instructions,
				CreatedAt:    now,
			})
			claimed[plan.Items[len(plan.Items)-1].ID] = true
			changed[d.Category] = true
			continue
		}

		claimed[item.ID] = true
		if !item.Active {
			item.Active = true
			item.DeactivatedAt = nil
			changed[d.Category] = true
			logger.Debug("Reactivated regimen item", "item", item.Name, "category", item.Category)
		}
		item.Name = d.Name
		item.Priority = d.Priority
		item.Dose = d.Dose
		item.Instructions = d.Instructions
		item.Schedule = d.Schedule
	}

	today := e.today()
	var deactivated []string
	for i := range plan.Items {
		if claimed[plan.Items[i].ID] || !plan.Items[i].Active {
			continue
		}
		plan.Items[i].Active = false
		ts := now
		plan.Items[i].DeactivatedAt = &ts
		deactivated = append(deactivated, plan.Items[i].ID)
		changed[plan.Items[i].Category] = true
	}

	plan.UpdatedAt = now
	if err := e.store.SaveCarePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to save care plan: %w", err)
	}

	if len(deactivated) > 0 {
		if err := e.deactivateInstances(patientID, today, deactivated); err != nil {
			return nil, err
		}
	}

	return changed, nil
}

// deactivateInstances hides the current day's instances of items that were
// just deactivated, preserving their status so a same-day reactivation can
// restore them in place.
func (e *Engine) deactivateInstances(patientID, date string, itemIDs []string) error {
	instances, err := e.store.GetDailyInstancesForDate(patientID, date)
	if err != nil {
		return err
	}
	ids := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = true
	}
	for _, inst := range instances {
		if !inst.Active || !ids[inst.ItemID] {
			continue
		}
		inst.Active = false
		if err := e.store.SaveDailyInstance(inst); err != nil {
			return fmt.Errorf("failed to deactivate instance: %w", err)
		}
	}
	return nil
}

// SetCategoryEnabled toggles a care category on or off and reconciles the
// plan so the change takes effect immediately.
func (e *Engine) SetCategoryEnabled(patientID string, category constants.Category, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.getOrCreateConfig(patientID)
	if err != nil {
		return err
	}
	cc := cfg.Category(category)
	if cc.Enabled == enabled {
		return nil
	}
	cc.Enabled = enabled
	cfg.Categories[category] = cc
	cfg.UpdatedAt = e.timestamp()
	if err := e.store.SaveCarePlanConfig(cfg); err != nil {
		return fmt.Errorf("failed to save care config: %w", err)
	}

	changed, err := e.reconcile(patientID)
	if err != nil {
		return err
	}
	for cat := range changed {
		e.notify(patientID, cat)
	}
	return nil
}

// AddMedication registers a medication in the care configuration and
// reconciles the plan. The returned ID is the medication's stable identity.
func (e *Engine) AddMedication(patientID string, med models.MedicationConfig) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.getOrCreateConfig(patientID)
	if err != nil {
		return "", err
	}
	if med.ID == "" {
		med.ID = uuid.New().String()
	}
	cfg.Medications = append(cfg.Medications, med)
	cfg.UpdatedAt = e.timestamp()
	if err := e.store.SaveCarePlanConfig(cfg); err != nil {
		return "", fmt.Errorf("failed to save care config: %w", err)
	}
	if _, err := e.reconcile(patientID); err != nil {
		return "", err
	}
	e.notify(patientID, constants.CategoryMedication)
	return med.ID, nil
}

// RemoveMedication removes a medication from the configuration. The matching
// regimen item is deactivated by reconciliation, not deleted, so its history
// survives.
func (e *Engine) RemoveMedication(patientID, medicationID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.getOrCreateConfig(patientID)
	if err != nil {
		return err
	}
	kept := cfg.Medications[:0]
	found := false
	for _, med := range cfg.Medications {
		if med.ID == medicationID {
			found = true
			continue
		}
		kept = append(kept, med)
	}
	if !found {
		return models.ErrNotFound
	}
	cfg.Medications = kept
	cfg.UpdatedAt = e.timestamp()
	if err := e.store.SaveCarePlanConfig(cfg); err != nil {
		return fmt.Errorf("failed to save care config: %w", err)
	}
	if _, err := e.reconcile(patientID); err != nil {
		return err
	}
	e.notify(patientID, constants.CategoryMedication)
	return nil
}

// AddCustomItem registers a one-off custom regimen item in the configuration
// and reconciles the plan.
func (e *Engine) AddCustomItem(patientID string, item models.CustomItemConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.getOrCreateConfig(patientID)
	if err != nil {
		return err
	}
	cfg.CustomItems = append(cfg.CustomItems, item)
	cfg.UpdatedAt = e.timestamp()
	if err := e.store.SaveCarePlanConfig(cfg); err != nil {
		return fmt.Errorf("failed to save care config: %w", err)
	}
	if _, err := e.reconcile(patientID); err != nil {
		return err
	}
	e.notify(patientID, constants.CategoryCustom)
	return nil
}

// RemoveCustomItem removes a custom item from the configuration by name.
func (e *Engine) RemoveCustomItem(patientID, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.getOrCreateConfig(patientID)
	if err != nil {
		return err
	}
	kept := cfg.CustomItems[:0]
	found := false
	for _, item := range cfg.CustomItems {
		if item.Name == name {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return models.ErrNotFound
	}
	cfg.CustomItems = kept
	cfg.UpdatedAt = e.timestamp()
	if err := e.store.SaveCarePlanConfig(cfg); err != nil {
		return fmt.Errorf("failed to save care config: %w", err)
	}
	if _, err := e.reconcile(patientID); err != nil {
		return err
	}
	e.notify(patientID, constants.CategoryCustom)
	return nil
}

// GetCarePlan returns the patient's live care plan, creating it on first
// access.
func (e *Engine) GetCarePlan(patientID string) (models.CarePlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getOrCreatePlan(patientID)
}
