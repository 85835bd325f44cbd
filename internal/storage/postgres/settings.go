package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/logger"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for key, value := range models.SettingsToMap(settings) {
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetCarePlanConfig(patientID string) (models.CarePlanConfig, error) {
	var raw string
	err := s.db.QueryRow("SELECT config FROM care_plan_configs WHERE patient_id = $1", patientID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CarePlanConfig{}, fmt.Errorf("care plan config for patient %s: %w", patientID, models.ErrNotFound)
	}
	if err != nil {
		return models.CarePlanConfig{}, err
	}

	var cfg models.CarePlanConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		logger.Warn("Malformed care plan config, treating as absent", "patient", patientID, "error", err)
		return models.CarePlanConfig{}, fmt.Errorf("care plan config for patient %s: %w", patientID, models.ErrNotFound)
	}
	cfg.PatientID = patientID
	return cfg, nil
}

func (s *Store) SaveCarePlanConfig(cfg models.CarePlanConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize care plan config: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO care_plan_configs (patient_id, config, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (patient_id) DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at`,
		cfg.PatientID, string(raw), cfg.UpdatedAt)
	return err
}
