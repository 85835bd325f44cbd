package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/logger"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

// SyncLogToInstance routes a logged event to the matching daily instance for
// the date. The earliest still-pending instance of the category (narrowed by
// hint, when given) is completed atomically with its log entry. If every
// matching instance is already completed, the latest one's outcome is
// updated in place and no new log entry is appended, so repeated identical
// logs leave exactly one entry behind. When nothing matches at all the event
// is kept as a freeform quick log and nil is returned; logging outside the
// configured plan is expected, not an error.
//
// The hint matches a medication's stable ID or, case-insensitively, an
// instance name (used for meal slots and custom items).
func (e *Engine) SyncLogToInstance(patientID, date string, category constants.Category, hint string, outcome json.RawMessage) (*models.DailyInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	instances, err := e.ensureDailyInstances(patientID, date)
	if err != nil {
		return nil, err
	}

	plan, err := e.getOrCreatePlan(patientID)
	if err != nil {
		return nil, err
	}

	var pending, completed []models.DailyInstance
	for _, inst := range instances {
		if inst.Category != category {
			continue
		}
		if !matchesHint(inst, plan, hint) {
			continue
		}
		switch inst.Status {
		case constants.InstancePending:
			pending = append(pending, inst)
		case constants.InstanceCompleted:
			completed = append(completed, inst)
		}
	}

	if len(pending) > 0 {
		inst := pending[0] // instances arrive in scheduled-time order
		if err := e.completeInstance(&inst, outcome, constants.SourceRecord); err != nil {
			return nil, err
		}
		e.notify(patientID, category)
		return &inst, nil
	}

	if len(completed) > 0 {
		inst := completed[len(completed)-1]
		inst.Outcome = outcome
		if err := e.store.SaveDailyInstance(inst); err != nil {
			return nil, fmt.Errorf("failed to update instance outcome: %w", err)
		}
		e.notify(patientID, category)
		return &inst, nil
	}

	// Freeform log: no scheduled instance to attach to.
	entry := models.LogEntry{
		ID:        uuid.New().String(),
		PatientID: patientID,
		PlanID:    plan.ID,
		Category:  category,
		Date:      date,
		Timestamp: e.timestamp(),
		Outcome:   outcome,
		Source:    constants.SourceQuickLog,
	}
	if err := e.appendLog(entry); err != nil {
		return nil, err
	}
	logger.Debug("Recorded quick log", "patient", patientID, "category", category, "date", date)
	return nil, nil
}

func matchesHint(inst models.DailyInstance, plan models.CarePlan, hint string) bool {
	if hint == "" {
		return true
	}
	if strings.EqualFold(inst.Name, hint) {
		return true
	}
	if item := plan.FindItem(inst.ItemID); item != nil && item.MedicationID == hint {
		return true
	}
	return false
}

// completeInstance marks the instance completed and appends its log entry in
// a single storage write.
func (e *Engine) completeInstance(inst *models.DailyInstance, outcome json.RawMessage, source constants.LogSource) error {
	now := e.timestamp()
	inst.Status = constants.InstanceCompleted
	inst.CompletedAt = &now
	inst.Outcome = outcome

	entry := models.LogEntry{
		ID:         uuid.New().String(),
		PatientID:  inst.PatientID,
		PlanID:     inst.PlanID,
		ItemID:     inst.ItemID,
		InstanceID: inst.ID,
		Category:   inst.Category,
		Date:       inst.Date,
		Timestamp:  now,
		Outcome:    outcome,
		Source:     source,
	}
	if err := e.store.SaveDailyInstanceWithLog(*inst, entry); err != nil {
		return fmt.Errorf("failed to complete instance: %w", err)
	}
	return e.updateLogIndex(inst.PatientID, inst.Date)
}

func (e *Engine) appendLog(entry models.LogEntry) error {
	if err := e.store.AddLogEntry(entry); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return e.updateLogIndex(entry.PatientID, entry.Date)
}

func (e *Engine) updateLogIndex(patientID, date string) error {
	cutoff, err := utils.DateCutoff(e.today(), constants.LogIndexDays)
	if err != nil {
		return err
	}
	if err := e.store.AddLogIndexDate(patientID, date, cutoff); err != nil {
		return fmt.Errorf("failed to update log index: %w", err)
	}
	return nil
}

// SetInstanceStatus transitions an instance directly, for the done/skip flows
// that act on a specific instance rather than routing a logged event.
// Completing appends a log entry atomically with the status change; completing
// an already-completed instance only refreshes its outcome. Skipping and
// reverting to pending write no log entries. Transitions on an inactive
// instance are rejected.
func (e *Engine) SetInstanceStatus(patientID, date, instanceID string, status constants.InstanceStatus, outcome json.RawMessage, source constants.LogSource) (*models.DailyInstance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	instances, err := e.store.GetDailyInstancesForDate(patientID, date)
	if err != nil {
		return nil, err
	}
	var inst *models.DailyInstance
	for i := range instances {
		if instances[i].ID == instanceID {
			inst = &instances[i]
			break
		}
	}
	if inst == nil {
		return nil, models.ErrNotFound
	}
	if !inst.Active {
		return nil, fmt.Errorf("instance %s is inactive", instanceID)
	}

	switch status {
	case constants.InstanceCompleted:
		if inst.Status == constants.InstanceCompleted {
			inst.Outcome = outcome
			if err := e.store.SaveDailyInstance(*inst); err != nil {
				return nil, fmt.Errorf("failed to update instance outcome: %w", err)
			}
		} else {
			if err := e.completeInstance(inst, outcome, source); err != nil {
				return nil, err
			}
		}
	case constants.InstanceSkipped, constants.InstancePending:
		inst.Status = status
		inst.CompletedAt = nil
		if status == constants.InstancePending {
			inst.Outcome = nil
		}
		if err := e.store.SaveDailyInstance(*inst); err != nil {
			return nil, fmt.Errorf("failed to save instance: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid instance status %q", status)
	}

	e.notify(patientID, inst.Category)
	return inst, nil
}
