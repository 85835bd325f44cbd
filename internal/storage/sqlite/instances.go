package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/logger"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

const instanceColumns = `id, patient_id, plan_id, item_id, category, name, date,
	window_id, scheduled_at, status, active, completed_at, outcome`

func (s *Store) GetDailyInstance(patientID, itemID, date, windowID string) (models.DailyInstance, error) {
	row := s.db.QueryRow(`
		SELECT `+instanceColumns+`
		FROM daily_instances
		WHERE patient_id = ? AND item_id = ? AND date = ? AND window_id = ?`,
		patientID, itemID, date, windowID)

	inst, err := scanInstance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyInstance{}, fmt.Errorf("daily instance: %w", models.ErrNotFound)
	}
	return inst, err
}

func (s *Store) GetDailyInstancesForDate(patientID, date string) ([]models.DailyInstance, error) {
	return s.GetDailyInstancesRange(patientID, date, date)
}

func (s *Store) GetDailyInstancesRange(patientID, startDate, endDate string) ([]models.DailyInstance, error) {
	rows, err := s.db.Query(`
		SELECT `+instanceColumns+`
		FROM daily_instances
		WHERE patient_id = ? AND date >= ? AND date <= ?
		ORDER BY date, scheduled_at, name`, patientID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInstances(rows)
}

func (s *Store) GetAllDailyInstances(patientID string) ([]models.DailyInstance, error) {
	rows, err := s.db.Query(`
		SELECT `+instanceColumns+`
		FROM daily_instances
		WHERE patient_id = ?
		ORDER BY date, scheduled_at, name`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInstances(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInstance(row rowScanner) (models.DailyInstance, error) {
	var inst models.DailyInstance
	var category, status string
	var completedAt, outcome sql.NullString

	err := row.Scan(
		&inst.ID, &inst.PatientID, &inst.PlanID, &inst.ItemID, &category, &inst.Name,
		&inst.Date, &inst.WindowID, &inst.ScheduledAt, &status, &inst.Active,
		&completedAt, &outcome,
	)
	if err != nil {
		return models.DailyInstance{}, err
	}

	inst.Category = constants.Category(category)
	inst.Status = constants.InstanceStatus(status)
	if completedAt.Valid {
		inst.CompletedAt = &completedAt.String
	}
	if outcome.Valid && outcome.String != "" {
		if !json.Valid([]byte(outcome.String)) {
			logger.Warn("Malformed outcome payload, treating as absent", "instance", inst.ID)
		} else {
			inst.Outcome = json.RawMessage(outcome.String)
		}
	}

	return inst, nil
}

func collectInstances(rows *sql.Rows) ([]models.DailyInstance, error) {
	instances := make([]models.DailyInstance, 0)
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

func (s *Store) SaveDailyInstance(inst models.DailyInstance) error {
	return execSaveInstance(s.db, inst)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func execSaveInstance(db execer, inst models.DailyInstance) error {
	var completedAt interface{}
	if inst.CompletedAt != nil {
		completedAt = *inst.CompletedAt
	}
	var outcome interface{}
	if len(inst.Outcome) > 0 {
		outcome = string(inst.Outcome)
	}

	_, err := db.Exec(`
		INSERT INTO daily_instances (
			id, patient_id, plan_id, item_id, category, name, date,
			window_id, scheduled_at, status, active, completed_at, outcome
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id, date, window_id) DO UPDATE SET
			status = excluded.status,
			active = excluded.active,
			scheduled_at = excluded.scheduled_at,
			completed_at = excluded.completed_at,
			outcome = excluded.outcome`,
		inst.ID, inst.PatientID, inst.PlanID, inst.ItemID, string(inst.Category),
		inst.Name, inst.Date, inst.WindowID, inst.ScheduledAt, string(inst.Status),
		inst.Active, completedAt, outcome)
	if err != nil {
		return fmt.Errorf("failed to save daily instance: %w", err)
	}
	return nil
}

// SaveDailyInstanceWithLog persists the instance update and the log append
// inside one transaction, so a failure of either leaves both untouched.
func (s *Store) SaveDailyInstanceWithLog(inst models.DailyInstance, entry models.LogEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if err := execSaveInstance(tx, inst); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := execAppendLog(tx, entry); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
