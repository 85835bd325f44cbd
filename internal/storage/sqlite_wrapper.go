package storage

import (
	"database/sql"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage/sqlite"
)

// SQLiteStore adapts sqlite.Store to the Provider interface.
type SQLiteStore struct {
	store *sqlite.Store
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		store: sqlite.NewStore(path),
	}
}

// Lifecycle methods
func (s *SQLiteStore) Init() error  { return s.store.Init() }
func (s *SQLiteStore) Load() error  { return s.store.Load() }
func (s *SQLiteStore) Close() error { return s.store.Close() }

func (s *SQLiteStore) GetConfigPath() string { return s.store.GetConfigPath() }
func (s *SQLiteStore) GetDB() *sql.DB        { return s.store.GetDB() }

// ApplyMigrations runs pending schema migrations, reporting progress through logFn.
func (s *SQLiteStore) ApplyMigrations(logFn func(string)) (int, error) {
	return s.store.ApplyMigrations(logFn)
}

// SchemaVersions returns the current and latest schema versions.
func (s *SQLiteStore) SchemaVersions() (current, latest int, err error) {
	return s.store.SchemaVersions()
}

// Settings
func (s *SQLiteStore) GetSettings() (models.Settings, error)      { return s.store.GetSettings() }
func (s *SQLiteStore) SaveSettings(settings models.Settings) error { return s.store.SaveSettings(settings) }

// Care plan config
func (s *SQLiteStore) GetCarePlanConfig(patientID string) (models.CarePlanConfig, error) {
	return s.store.GetCarePlanConfig(patientID)
}
func (s *SQLiteStore) SaveCarePlanConfig(cfg models.CarePlanConfig) error {
	return s.store.SaveCarePlanConfig(cfg)
}

// Care plans
func (s *SQLiteStore) GetCarePlan(patientID string) (models.CarePlan, error) {
	return s.store.GetCarePlan(patientID)
}
func (s *SQLiteStore) SaveCarePlan(plan models.CarePlan) error { return s.store.SaveCarePlan(plan) }

// Daily snapshot
func (s *SQLiteStore) GetDailySnapshot(patientID string) (models.DailySnapshot, error) {
	return s.store.GetDailySnapshot(patientID)
}
func (s *SQLiteStore) SaveDailySnapshot(snap models.DailySnapshot) error {
	return s.store.SaveDailySnapshot(snap)
}

// Daily instances
func (s *SQLiteStore) GetDailyInstance(patientID, itemID, date, windowID string) (models.DailyInstance, error) {
	return s.store.GetDailyInstance(patientID, itemID, date, windowID)
}
func (s *SQLiteStore) GetDailyInstancesForDate(patientID, date string) ([]models.DailyInstance, error) {
	return s.store.GetDailyInstancesForDate(patientID, date)
}
func (s *SQLiteStore) GetDailyInstancesRange(patientID, startDate, endDate string) ([]models.DailyInstance, error) {
	return s.store.GetDailyInstancesRange(patientID, startDate, endDate)
}
func (s *SQLiteStore) GetAllDailyInstances(patientID string) ([]models.DailyInstance, error) {
	return s.store.GetAllDailyInstances(patientID)
}
func (s *SQLiteStore) SaveDailyInstance(inst models.DailyInstance) error {
	return s.store.SaveDailyInstance(inst)
}
func (s *SQLiteStore) SaveDailyInstanceWithLog(inst models.DailyInstance, entry models.LogEntry) error {
	return s.store.SaveDailyInstanceWithLog(inst, entry)
}

// Log entries
func (s *SQLiteStore) AddLogEntry(entry models.LogEntry) error { return s.store.AddLogEntry(entry) }
func (s *SQLiteStore) GetLogEntries(patientID, startDate, endDate string) ([]models.LogEntry, error) {
	return s.store.GetLogEntries(patientID, startDate, endDate)
}
func (s *SQLiteStore) GetAllLogEntries() ([]models.LogEntry, error) { return s.store.GetAllLogEntries() }
func (s *SQLiteStore) CountLogEntries() (int, error)                { return s.store.CountLogEntries() }

// Bounded date indices
func (s *SQLiteStore) GetInstanceIndex(patientID string) ([]string, error) {
	return s.store.GetInstanceIndex(patientID)
}
func (s *SQLiteStore) AddInstanceIndexDate(patientID, date, cutoff string) error {
	return s.store.AddInstanceIndexDate(patientID, date, cutoff)
}
func (s *SQLiteStore) GetLogIndex(patientID string) ([]string, error) {
	return s.store.GetLogIndex(patientID)
}
func (s *SQLiteStore) AddLogIndexDate(patientID, date, cutoff string) error {
	return s.store.AddLogIndexDate(patientID, date, cutoff)
}

// Overrides
func (s *SQLiteStore) GetOverrides(patientID, date string) ([]models.CarePlanOverride, error) {
	return s.store.GetOverrides(patientID, date)
}
func (s *SQLiteStore) GetAllOverrides(patientID string) ([]models.CarePlanOverride, error) {
	return s.store.GetAllOverrides(patientID)
}
func (s *SQLiteStore) SaveOverride(override models.CarePlanOverride, cutoff string) error {
	return s.store.SaveOverride(override, cutoff)
}
func (s *SQLiteStore) RemoveOverride(patientID, date, itemID string) error {
	return s.store.RemoveOverride(patientID, date, itemID)
}
func (s *SQLiteStore) ClearSuppressedOverrides(patientID, date string) error {
	return s.store.ClearSuppressedOverrides(patientID, date)
}

// Bulk retrieval
func (s *SQLiteStore) GetPatientIDs() ([]string, error) { return s.store.GetPatientIDs() }
