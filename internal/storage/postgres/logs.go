package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/logger"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

const logColumns = `id, patient_id, plan_id, item_id, instance_id, category,
	date, timestamp, outcome, source`

func (s *Store) AddLogEntry(entry models.LogEntry) error {
	return execAppendLog(s.db, entry)
}

// execAppendLog inserts the entry and enforces the global cap by append
// order: the seq column is authoritative, not the timestamp.
func execAppendLog(db execer, entry models.LogEntry) error {
	var outcome interface{}
	if len(entry.Outcome) > 0 {
		outcome = string(entry.Outcome)
	}

	if _, err := db.Exec(`
		INSERT INTO log_entries (
			id, patient_id, plan_id, item_id, instance_id, category,
			date, timestamp, outcome, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.PatientID, entry.PlanID, entry.ItemID, entry.InstanceID,
		string(entry.Category), entry.Date, entry.Timestamp, outcome,
		string(entry.Source)); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	if _, err := db.Exec(`
		DELETE FROM log_entries WHERE seq <= (
			SELECT seq FROM log_entries ORDER BY seq DESC LIMIT 1 OFFSET $1
		)`, constants.MaxLogEntries); err != nil {
		return fmt.Errorf("failed to enforce log cap: %w", err)
	}

	return nil
}

func (s *Store) GetLogEntries(patientID, startDate, endDate string) ([]models.LogEntry, error) {
	rows, err := s.db.Query(`
		SELECT `+logColumns+`
		FROM log_entries
		WHERE patient_id = $1 AND date >= $2 AND date <= $3
		ORDER BY seq`, patientID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLogEntries(rows)
}

func (s *Store) GetAllLogEntries() ([]models.LogEntry, error) {
	rows, err := s.db.Query(`SELECT ` + logColumns + ` FROM log_entries ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLogEntries(rows)
}

func (s *Store) CountLogEntries() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT count(*) FROM log_entries").Scan(&count)
	return count, err
}

func collectLogEntries(rows *sql.Rows) ([]models.LogEntry, error) {
	entries := make([]models.LogEntry, 0)
	for rows.Next() {
		var e models.LogEntry
		var category, source string
		var outcome sql.NullString

		err := rows.Scan(
			&e.ID, &e.PatientID, &e.PlanID, &e.ItemID, &e.InstanceID, &category,
			&e.Date, &e.Timestamp, &outcome, &source,
		)
		if err != nil {
			return nil, err
		}

		e.Category = constants.Category(category)
		e.Source = constants.LogSource(source)
		if outcome.Valid && outcome.String != "" {
			if !json.Valid([]byte(outcome.String)) {
				logger.Warn("Malformed outcome payload, treating as absent", "entry", e.ID)
			} else {
				e.Outcome = json.RawMessage(outcome.String)
			}
		}

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetInstanceIndex(patientID string) ([]string, error) {
	return s.getIndex(patientID, "instances")
}

func (s *Store) AddInstanceIndexDate(patientID, date, cutoff string) error {
	return s.addIndexDate(patientID, "instances", date, cutoff)
}

func (s *Store) GetLogIndex(patientID string) ([]string, error) {
	return s.getIndex(patientID, "logs")
}

func (s *Store) AddLogIndexDate(patientID, date, cutoff string) error {
	return s.addIndexDate(patientID, "logs", date, cutoff)
}

func (s *Store) getIndex(patientID, kind string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT date FROM date_indices
		WHERE patient_id = $1 AND kind = $2
		ORDER BY date`, patientID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// addIndexDate inserts the date if absent and prunes stale dates only when
// the insert actually happened; an index without new writes is never pruned.
func (s *Store) addIndexDate(patientID, kind, date, cutoff string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Exec(`
		INSERT INTO date_indices (patient_id, kind, date) VALUES ($1, $2, $3)
		ON CONFLICT (patient_id, kind, date) DO NOTHING`, patientID, kind, date)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update %s index: %w", kind, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if inserted > 0 {
		if _, err := tx.Exec(`
			DELETE FROM date_indices
			WHERE patient_id = $1 AND kind = $2 AND date < $3`, patientID, kind, cutoff); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to prune %s index: %w", kind, err)
		}
	}

	return tx.Commit()
}
