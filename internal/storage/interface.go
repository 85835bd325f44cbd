package storage

import (
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

// ErrNotFound is returned by all providers for logical not-found reads.
// Callers that auto-create (care plans, configs, snapshots) test for it
// with errors.Is.
var ErrNotFound = models.ErrNotFound

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Care plan config
	GetCarePlanConfig(patientID string) (models.CarePlanConfig, error)
	SaveCarePlanConfig(models.CarePlanConfig) error

	// Care plans
	GetCarePlan(patientID string) (models.CarePlan, error)
	SaveCarePlan(models.CarePlan) error

	// Daily snapshot. Exactly one snapshot is retained per patient; saving
	// replaces whatever date was frozen before.
	GetDailySnapshot(patientID string) (models.DailySnapshot, error)
	SaveDailySnapshot(models.DailySnapshot) error

	// Daily instances, keyed by (item, date, window)
	GetDailyInstance(patientID, itemID, date, windowID string) (models.DailyInstance, error)
	GetDailyInstancesForDate(patientID, date string) ([]models.DailyInstance, error)
	GetDailyInstancesRange(patientID, startDate, endDate string) ([]models.DailyInstance, error)
	GetAllDailyInstances(patientID string) ([]models.DailyInstance, error)
	SaveDailyInstance(models.DailyInstance) error
	// SaveDailyInstanceWithLog persists a completed instance and appends its
	// log entry as a single atomic write (one file write for the JSON store,
	// one transaction for SQL stores). The global log cap is enforced.
	SaveDailyInstanceWithLog(models.DailyInstance, models.LogEntry) error

	// Log entries (append-only, capped at constants.MaxLogEntries by append
	// order: when the cap is exceeded the oldest entries are dropped)
	AddLogEntry(models.LogEntry) error
	GetLogEntries(patientID, startDate, endDate string) ([]models.LogEntry, error)
	GetAllLogEntries() ([]models.LogEntry, error)
	CountLogEntries() (int, error)

	// Bounded date indices. Adding a date that is already present is a
	// no-op; adding a new date prunes everything older than the cutoff.
	// The indices are never pruned on read.
	GetInstanceIndex(patientID string) ([]string, error)
	AddInstanceIndexDate(patientID, date, cutoff string) error
	GetLogIndex(patientID string) ([]string, error)
	AddLogIndexDate(patientID, date, cutoff string) error

	// Overrides, keyed by (date, item). SaveOverride replaces any existing
	// override for the key and opportunistically prunes overrides dated
	// before the cutoff, since the full map is rewritten anyway.
	GetOverrides(patientID, date string) ([]models.CarePlanOverride, error)
	GetAllOverrides(patientID string) ([]models.CarePlanOverride, error)
	SaveOverride(override models.CarePlanOverride, cutoff string) error
	RemoveOverride(patientID, date, itemID string) error
	ClearSuppressedOverrides(patientID, date string) error

	// Bulk retrieval for backend-to-backend migration
	GetPatientIDs() ([]string, error)

	// Utils
	GetConfigPath() string
}
