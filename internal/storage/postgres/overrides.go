package postgres

import (
	"database/sql"
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func (s *Store) GetOverrides(patientID, date string) ([]models.CarePlanOverride, error) {
	rows, err := s.db.Query(`
		SELECT patient_id, date, item_id, done, suppressed, timestamp
		FROM care_plan_overrides
		WHERE patient_id = $1 AND date = $2
		ORDER BY item_id`, patientID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOverrides(rows)
}

func (s *Store) GetAllOverrides(patientID string) ([]models.CarePlanOverride, error) {
	rows, err := s.db.Query(`
		SELECT patient_id, date, item_id, done, suppressed, timestamp
		FROM care_plan_overrides
		WHERE patient_id = $1
		ORDER BY date, item_id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOverrides(rows)
}

func collectOverrides(rows *sql.Rows) ([]models.CarePlanOverride, error) {
	overrides := make([]models.CarePlanOverride, 0)
	for rows.Next() {
		var o models.CarePlanOverride
		if err := rows.Scan(&o.PatientID, &o.Date, &o.ItemID, &o.Done, &o.Suppressed, &o.Timestamp); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// SaveOverride replaces any existing override for the (date, item) key and
// opportunistically prunes overrides dated before the cutoff.
func (s *Store) SaveOverride(override models.CarePlanOverride, cutoff string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO care_plan_overrides (patient_id, date, item_id, done, suppressed, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date, item_id) DO UPDATE SET
			done = EXCLUDED.done,
			suppressed = EXCLUDED.suppressed,
			timestamp = EXCLUDED.timestamp`,
		override.PatientID, override.Date, override.ItemID, override.Done,
		override.Suppressed, override.Timestamp); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to save override: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM care_plan_overrides
		WHERE patient_id = $1 AND date < $2`, override.PatientID, cutoff); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prune overrides: %w", err)
	}

	return tx.Commit()
}

func (s *Store) RemoveOverride(patientID, date, itemID string) error {
	_, err := s.db.Exec(`
		DELETE FROM care_plan_overrides
		WHERE patient_id = $1 AND date = $2 AND item_id = $3`, patientID, date, itemID)
	return err
}

// ClearSuppressedOverrides resets the day's scope: suppressions are dropped,
// done overrides are preserved.
func (s *Store) ClearSuppressedOverrides(patientID, date string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`
		UPDATE care_plan_overrides SET suppressed = FALSE
		WHERE patient_id = $1 AND date = $2 AND suppressed AND done`, patientID, date); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear suppressions: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM care_plan_overrides
		WHERE patient_id = $1 AND date = $2 AND suppressed AND NOT done`, patientID, date); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear suppressions: %w", err)
	}

	return tx.Commit()
}
