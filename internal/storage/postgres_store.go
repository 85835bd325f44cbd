package storage

import (
	"database/sql"
	"net/url"
	"strings"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage/postgres"
)

// PostgresStore adapts postgres.Store to the Provider interface.
type PostgresStore struct {
	store *postgres.Store
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		store: postgres.New(connStr),
	}
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries an inline password. Such strings are rejected at startup; the
// password belongs in the environment, .pgpass, or the OS keyring.
func HasEmbeddedCredentials(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if u.User != nil {
			if _, hasPassword := u.User.Password(); hasPassword {
				return true
			}
		}
		return false
	}

	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return true
		}
	}
	return false
}

// Lifecycle methods
func (s *PostgresStore) Init() error  { return s.store.Init() }
func (s *PostgresStore) Load() error  { return s.store.Load() }
func (s *PostgresStore) Close() error { return s.store.Close() }

func (s *PostgresStore) GetConfigPath() string { return s.store.GetConfigPath() }
func (s *PostgresStore) GetDB() *sql.DB        { return s.store.GetDB() }

// ApplyMigrations runs pending schema migrations, reporting progress through logFn.
func (s *PostgresStore) ApplyMigrations(logFn func(string)) (int, error) {
	return s.store.ApplyMigrations(logFn)
}

// SchemaVersions returns the current and latest schema versions.
func (s *PostgresStore) SchemaVersions() (current, latest int, err error) {
	return s.store.SchemaVersions()
}

// Settings
func (s *PostgresStore) GetSettings() (models.Settings, error)       { return s.store.GetSettings() }
func (s *PostgresStore) SaveSettings(settings models.Settings) error { return s.store.SaveSettings(settings) }

// Care plan config
func (s *PostgresStore) GetCarePlanConfig(patientID string) (models.CarePlanConfig, error) {
	return s.store.GetCarePlanConfig(patientID)
}
func (s *PostgresStore) SaveCarePlanConfig(cfg models.CarePlanConfig) error {
	return s.store.SaveCarePlanConfig(cfg)
}

// Care plans
func (s *PostgresStore) GetCarePlan(patientID string) (models.CarePlan, error) {
	return s.store.GetCarePlan(patientID)
}
func (s *PostgresStore) SaveCarePlan(plan models.CarePlan) error { return s.store.SaveCarePlan(plan) }

// Daily snapshot
func (s *PostgresStore) GetDailySnapshot(patientID string) (models.DailySnapshot, error) {
	return s.store.GetDailySnapshot(patientID)
}
func (s *PostgresStore) SaveDailySnapshot(snap models.DailySnapshot) error {
	return s.store.SaveDailySnapshot(snap)
}

// Daily instances
func (s *PostgresStore) GetDailyInstance(patientID, itemID, date, windowID string) (models.DailyInstance, error) {
	return s.store.GetDailyInstance(patientID, itemID, date, windowID)
}
func (s *PostgresStore) GetDailyInstancesForDate(patientID, date string) ([]models.DailyInstance, error) {
	return s.store.GetDailyInstancesForDate(patientID, date)
}
func (s *PostgresStore) GetDailyInstancesRange(patientID, startDate, endDate string) ([]models.DailyInstance, error) {
	return s.store.GetDailyInstancesRange(patientID, startDate, endDate)
}
func (s *PostgresStore) GetAllDailyInstances(patientID string) ([]models.DailyInstance, error) {
	return s.store.GetAllDailyInstances(patientID)
}
func (s *PostgresStore) SaveDailyInstance(inst models.DailyInstance) error {
	return s.store.SaveDailyInstance(inst)
}
func (s *PostgresStore) SaveDailyInstanceWithLog(inst models.DailyInstance, entry models.LogEntry) error {
	return s.store.SaveDailyInstanceWithLog(inst, entry)
}

// Log entries
func (s *PostgresStore) AddLogEntry(entry models.LogEntry) error { return s.store.AddLogEntry(entry) }
func (s *PostgresStore) GetLogEntries(patientID, startDate, endDate string) ([]models.LogEntry, error) {
	return s.store.GetLogEntries(patientID, startDate, endDate)
}
func (s *PostgresStore) GetAllLogEntries() ([]models.LogEntry, error) {
	return s.store.GetAllLogEntries()
}
func (s *PostgresStore) CountLogEntries() (int, error) { return s.store.CountLogEntries() }

// Bounded date indices
func (s *PostgresStore) GetInstanceIndex(patientID string) ([]string, error) {
	return s.store.GetInstanceIndex(patientID)
}
func (s *PostgresStore) AddInstanceIndexDate(patientID, date, cutoff string) error {
	return s.store.AddInstanceIndexDate(patientID, date, cutoff)
}
func (s *PostgresStore) GetLogIndex(patientID string) ([]string, error) {
	return s.store.GetLogIndex(patientID)
}
func (s *PostgresStore) AddLogIndexDate(patientID, date, cutoff string) error {
	return s.store.AddLogIndexDate(patientID, date, cutoff)
}

// Overrides
func (s *PostgresStore) GetOverrides(patientID, date string) ([]models.CarePlanOverride, error) {
	return s.store.GetOverrides(patientID, date)
}
func (s *PostgresStore) GetAllOverrides(patientID string) ([]models.CarePlanOverride, error) {
	return s.store.GetAllOverrides(patientID)
}
func (s *PostgresStore) SaveOverride(override models.CarePlanOverride, cutoff string) error {
	return s.store.SaveOverride(override, cutoff)
}
func (s *PostgresStore) RemoveOverride(patientID, date, itemID string) error {
	return s.store.RemoveOverride(patientID, date, itemID)
}
func (s *PostgresStore) ClearSuppressedOverrides(patientID, date string) error {
	return s.store.ClearSuppressedOverrides(patientID, date)
}

// Bulk retrieval
func (s *PostgresStore) GetPatientIDs() ([]string, error) { return s.store.GetPatientIDs() }
