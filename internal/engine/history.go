package engine

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

// GetLogHistory returns the patient's log entries across an inclusive date
// range, restricted to the dates the log index still retains.
func (e *Engine) GetLogHistory(patientID, start, end string) ([]models.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	index, err := e.store.GetLogIndex(patientID)
	if err != nil {
		return nil, err
	}
	if len(index) == 0 {
		return nil, nil
	}
	if start < index[0] {
		start = index[0]
	}
	return e.store.GetLogEntries(patientID, start, end)
}

// QuickLog records a freeform event that is not tied to any scheduled
// instance, such as an ad-hoc symptom note.
func (e *Engine) QuickLog(patientID, date string, category constants.Category, outcome json.RawMessage) (models.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, err := e.getOrCreatePlan(patientID)
	if err != nil {
		return models.LogEntry{}, err
	}
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
		return models.LogEntry{}, err
	}
	e.notify(patientID, category)
	return entry, nil
}
