package engine

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

// GetEffectiveCarePlan returns the care plan as it stood when the given date
// was first materialized. The first request for a date freezes a deep copy of
// the live plan; later edits to the live plan never change what that date's
// plan looked like. Only one snapshot is retained per patient, so requesting
// a date other than the frozen one re-freezes from the live plan.
func (e *Engine) GetEffectiveCarePlan(patientID, date string) (models.CarePlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.effectiveCarePlan(patientID, date)
}

func (e *Engine) effectiveCarePlan(patientID, date string) (models.CarePlan, error) {
	snap, err := e.store.GetDailySnapshot(patientID)
	if err == nil && snap.Date == date {
		return snap.Plan, nil
	}
	if err != nil && !isNotFound(err) {
		return models.CarePlan{}, err
	}

	plan, err := e.getOrCreatePlan(patientID)
	if err != nil {
		return models.CarePlan{}, err
	}
	snap = models.DailySnapshot{
		PatientID: patientID,
		Date:      date,
		Plan:      plan.Clone(),
		CreatedAt: e.timestamp(),
	}
	if err := e.store.SaveDailySnapshot(snap); err != nil {
		return models.CarePlan{}, fmt.Errorf("failed to save daily snapshot: %w", err)
	}
	return snap.Plan, nil
}
