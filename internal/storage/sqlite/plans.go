package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/logger"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func (s *Store) GetCarePlan(patientID string) (models.CarePlan, error) {
	var plan models.CarePlan
	err := s.db.QueryRow(`
		SELECT id, patient_id, created_at, updated_at
		FROM care_plans WHERE patient_id = ?`, patientID).
		Scan(&plan.ID, &plan.PatientID, &plan.CreatedAt, &plan.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CarePlan{}, fmt.Errorf("care plan for patient %s: %w", patientID, models.ErrNotFound)
	}
	if err != nil {
		return models.CarePlan{}, err
	}

	rows, err := s.db.Query(`
		SELECT id, patient_id, plan_id, category, name, priority, active,
		       frequency, weekdays, anchor_date, windows, medication_id,
		       dose, instructions, created_at, deactivated_at
		FROM regimen_items WHERE plan_id = ?
		ORDER BY created_at, name`, plan.ID)
	if err != nil {
		return models.CarePlan{}, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanRegimenItem(rows)
		if err != nil {
			return models.CarePlan{}, err
		}
		plan.Items = append(plan.Items, item)
	}
	if err := rows.Err(); err != nil {
		return models.CarePlan{}, err
	}

	return plan, nil
}

func scanRegimenItem(rows *sql.Rows) (models.RegimenItem, error) {
	var item models.RegimenItem
	var category, priority, frequency, weekdays, windows string
	var deactivatedAt sql.NullString

	err := rows.Scan(
		&item.ID, &item.PatientID, &item.PlanID, &category, &item.Name, &priority, &item.Active,
		&frequency, &weekdays, &item.Schedule.AnchorDate, &windows, &item.MedicationID,
		&item.Dose, &item.Instructions, &item.CreatedAt, &deactivatedAt,
	)
	if err != nil {
		return models.RegimenItem{}, err
	}

	item.Category = constants.Category(category)
	item.Priority = constants.Priority(priority)
	item.Schedule.Frequency = constants.Frequency(frequency)

	if deactivatedAt.Valid {
		item.DeactivatedAt = &deactivatedAt.String
	}

	// Malformed weekday/window blobs are treated as absent, never repaired
	// on disk.
	if weekdays != "" {
		var days []int
		if err := json.Unmarshal([]byte(weekdays), &days); err != nil {
			logger.Warn("Malformed weekday mask, treating as empty", "item", item.ID, "error", err)
		} else {
			for _, d := range days {
				item.Schedule.Weekdays = append(item.Schedule.Weekdays, time.Weekday(d))
			}
		}
	}
	if windows != "" {
		if err := json.Unmarshal([]byte(windows), &item.Schedule.Windows); err != nil {
			logger.Warn("Malformed window list, treating as empty", "item", item.ID, "error", err)
			item.Schedule.Windows = nil
		}
	}

	return item, nil
}

func encodeSchedule(sch models.Schedule) (weekdays, windows string, err error) {
	if len(sch.Weekdays) > 0 {
		days := make([]int, len(sch.Weekdays))
		for i, d := range sch.Weekdays {
			days[i] = int(d)
		}
		raw, err := json.Marshal(days)
		if err != nil {
			return "", "", fmt.Errorf("failed to serialize weekdays: %w", err)
		}
		weekdays = string(raw)
	}
	if len(sch.Windows) > 0 {
		raw, err := json.Marshal(sch.Windows)
		if err != nil {
			return "", "", fmt.Errorf("failed to serialize windows: %w", err)
		}
		windows = string(raw)
	}
	return weekdays, windows, nil
}

func (s *Store) SaveCarePlan(plan models.CarePlan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO care_plans (id, patient_id, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(patient_id) DO UPDATE SET updated_at = excluded.updated_at`,
		plan.ID, plan.PatientID, plan.CreatedAt, plan.UpdatedAt); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to save care plan: %w", err)
	}

	// Items are never hard-deleted; the plan always carries its full item
	// set, so an upsert per item is sufficient.
	for _, item := range plan.Items {
		weekdays, windows, err := encodeSchedule(item.Schedule)
		if err != nil {
			_ = tx.Rollback()
			return err
		}

		var deactivatedAt interface{}
		if item.DeactivatedAt != nil {
			deactivatedAt = *item.DeactivatedAt
		}

		if _, err := tx.Exec(`
			INSERT INTO regimen_items (
				id, patient_id, plan_id, category, name, priority, active,
				frequency, weekdays, anchor_date, windows, medication_id,
				dose, instructions, created_at, deactivated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				priority = excluded.priority,
				active = excluded.active,
				frequency = excluded.frequency,
				weekdays = excluded.weekdays,
				anchor_date = excluded.anchor_date,
				windows = excluded.windows,
				medication_id = excluded.medication_id,
				dose = excluded.dose,
				instructions = excluded.instructions,
				deactivated_at = excluded.deactivated_at`,
			item.ID, item.PatientID, item.PlanID, string(item.Category), item.Name,
			string(item.Priority), item.Active, string(item.Schedule.Frequency),
			weekdays, item.Schedule.AnchorDate, windows, item.MedicationID,
			item.Dose, item.Instructions, item.CreatedAt, deactivatedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save regimen item %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetDailySnapshot(patientID string) (models.DailySnapshot, error) {
	var snap models.DailySnapshot
	var raw string
	err := s.db.QueryRow(`
		SELECT patient_id, date, plan, created_at
		FROM daily_snapshots WHERE patient_id = ?`, patientID).
		Scan(&snap.PatientID, &snap.Date, &raw, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailySnapshot{}, fmt.Errorf("daily snapshot for patient %s: %w", patientID, models.ErrNotFound)
	}
	if err != nil {
		return models.DailySnapshot{}, err
	}

	if err := json.Unmarshal([]byte(raw), &snap.Plan); err != nil {
		logger.Warn("Malformed daily snapshot, treating as absent", "patient", patientID, "error", err)
		return models.DailySnapshot{}, fmt.Errorf("daily snapshot for patient %s: %w", patientID, models.ErrNotFound)
	}

	return snap, nil
}

func (s *Store) SaveDailySnapshot(snap models.DailySnapshot) error {
	raw, err := json.Marshal(snap.Plan)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot plan: %w", err)
	}

	// One snapshot per patient: a stale date is simply overwritten.
	_, err = s.db.Exec(`
		INSERT INTO daily_snapshots (patient_id, date, plan, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(patient_id) DO UPDATE SET
			date = excluded.date,
			plan = excluded.plan,
			created_at = excluded.created_at`,
		snap.PatientID, snap.Date, string(raw), snap.CreatedAt)
	return err
}

func (s *Store) GetPatientIDs() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT patient_id FROM care_plans
		UNION SELECT patient_id FROM care_plan_configs
		ORDER BY patient_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
