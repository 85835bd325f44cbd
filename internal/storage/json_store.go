package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

// Store is the on-disk document of the JSON backend. Every record lives in a
// true key->record map keyed by its unique id, never by array position, so
// "exists already" checks are O(1) and collision-free. The log entries are
// the one deliberate exception: an append-only slice whose order is
// authoritative for the retention cap.
type Store struct {
	Version       int                                          `json:"version"`
	Settings      models.Settings                              `json:"settings"`
	Configs       map[string]models.CarePlanConfig             `json:"configs"`   // patient id -> config
	Plans         map[string]models.CarePlan                   `json:"plans"`     // patient id -> care plan
	Snapshots     map[string]models.DailySnapshot              `json:"snapshots"` // patient id -> frozen plan
	Instances     map[string]map[string]models.DailyInstance   `json:"instances"` // patient id -> instance key -> instance
	Logs          []models.LogEntry                            `json:"logs"`
	InstanceIndex map[string][]string                          `json:"instance_index"` // patient id -> dates with instances
	LogIndex      map[string][]string                          `json:"log_index"`      // patient id -> dates with log entries
	Overrides     map[string]map[string]models.CarePlanOverride `json:"overrides"`     // patient id -> override key -> override
}

// JSONStore persists the whole document to a single file. Every mutation is
// read-modify-write against the in-memory copy followed by one atomic file
// write, so a failed write never leaves partial state behind.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = newEmptyStore()
	s.store.Settings = models.DefaultSettings()

	return s.save()
}

func newEmptyStore() *Store {
	return &Store{
		Version:       1,
		Configs:       make(map[string]models.CarePlanConfig),
		Plans:         make(map[string]models.CarePlan),
		Snapshots:     make(map[string]models.DailySnapshot),
		Instances:     make(map[string]map[string]models.DailyInstance),
		Logs:          []models.LogEntry{},
		InstanceIndex: make(map[string][]string),
		LogIndex:      make(map[string][]string),
		Overrides:     make(map[string]map[string]models.CarePlanOverride),
	}
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'carekeep init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		// A parse failure must never trigger a write-back of repaired empty
		// state; the file on disk stays untouched and the error surfaces.
		s.store = nil
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Configs == nil {
		s.store.Configs = make(map[string]models.CarePlanConfig)
	}
	if s.store.Plans == nil {
		s.store.Plans = make(map[string]models.CarePlan)
	}
	if s.store.Snapshots == nil {
		s.store.Snapshots = make(map[string]models.DailySnapshot)
	}
	if s.store.Instances == nil {
		s.store.Instances = make(map[string]map[string]models.DailyInstance)
	}
	if s.store.InstanceIndex == nil {
		s.store.InstanceIndex = make(map[string][]string)
	}
	if s.store.LogIndex == nil {
		s.store.LogIndex = make(map[string][]string)
	}
	if s.store.Overrides == nil {
		s.store.Overrides = make(map[string]map[string]models.CarePlanOverride)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if s.store == nil {
		return models.Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) GetCarePlanConfig(patientID string) (models.CarePlanConfig, error) {
	if s.store == nil {
		return models.CarePlanConfig{}, fmt.Errorf("storage not loaded")
	}
	cfg, ok := s.store.Configs[patientID]
	if !ok {
		return models.CarePlanConfig{}, fmt.Errorf("care plan config for patient %s: %w", patientID, ErrNotFound)
	}
	return cfg, nil
}

func (s *JSONStore) SaveCarePlanConfig(cfg models.CarePlanConfig) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Configs[cfg.PatientID] = cfg
	return s.save()
}

func (s *JSONStore) GetCarePlan(patientID string) (models.CarePlan, error) {
	if s.store == nil {
		return models.CarePlan{}, fmt.Errorf("storage not loaded")
	}
	plan, ok := s.store.Plans[patientID]
	if !ok {
		return models.CarePlan{}, fmt.Errorf("care plan for patient %s: %w", patientID, ErrNotFound)
	}
	return plan, nil
}

func (s *JSONStore) SaveCarePlan(plan models.CarePlan) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Plans[plan.PatientID] = plan
	return s.save()
}

func (s *JSONStore) GetDailySnapshot(patientID string) (models.DailySnapshot, error) {
	if s.store == nil {
		return models.DailySnapshot{}, fmt.Errorf("storage not loaded")
	}
	snap, ok := s.store.Snapshots[patientID]
	if !ok {
		return models.DailySnapshot{}, fmt.Errorf("daily snapshot for patient %s: %w", patientID, ErrNotFound)
	}
	return snap, nil
}

func (s *JSONStore) SaveDailySnapshot(snap models.DailySnapshot) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	// Only one snapshot is retained per patient; a stale date is overwritten.
	s.store.Snapshots[snap.PatientID] = snap
	return s.save()
}

func (s *JSONStore) GetDailyInstance(patientID, itemID, date, windowID string) (models.DailyInstance, error) {
	if s.store == nil {
		return models.DailyInstance{}, fmt.Errorf("storage not loaded")
	}
	inst, ok := s.store.Instances[patientID][models.InstanceKey(itemID, date, windowID)]
	if !ok {
		return models.DailyInstance{}, fmt.Errorf("daily instance: %w", ErrNotFound)
	}
	return inst, nil
}

func (s *JSONStore) GetDailyInstancesForDate(patientID, date string) ([]models.DailyInstance, error) {
	return s.GetDailyInstancesRange(patientID, date, date)
}

func (s *JSONStore) GetDailyInstancesRange(patientID, startDate, endDate string) ([]models.DailyInstance, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	instances := make([]models.DailyInstance, 0)
	for _, inst := range s.store.Instances[patientID] {
		if inst.Date >= startDate && inst.Date <= endDate {
			instances = append(instances, inst)
		}
	}
	sortInstances(instances)
	return instances, nil
}

func (s *JSONStore) GetAllDailyInstances(patientID string) ([]models.DailyInstance, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	instances := make([]models.DailyInstance, 0, len(s.store.Instances[patientID]))
	for _, inst := range s.store.Instances[patientID] {
		instances = append(instances, inst)
	}
	sortInstances(instances)
	return instances, nil
}

func sortInstances(instances []models.DailyInstance) {
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].Date != instances[j].Date {
			return instances[i].Date < instances[j].Date
		}
		if instances[i].ScheduledAt != instances[j].ScheduledAt {
			return instances[i].ScheduledAt < instances[j].ScheduledAt
		}
		return instances[i].Name < instances[j].Name
	})
}

func (s *JSONStore) SaveDailyInstance(inst models.DailyInstance) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.putInstance(inst)
	return s.save()
}

func (s *JSONStore) SaveDailyInstanceWithLog(inst models.DailyInstance, entry models.LogEntry) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	// One document, one file write: the instance update and the log append
	// either both land or neither does.
	s.putInstance(inst)
	s.appendLog(entry)
	return s.save()
}

func (s *JSONStore) putInstance(inst models.DailyInstance) {
	if s.store.Instances[inst.PatientID] == nil {
		s.store.Instances[inst.PatientID] = make(map[string]models.DailyInstance)
	}
	s.store.Instances[inst.PatientID][inst.Key()] = inst
}

func (s *JSONStore) appendLog(entry models.LogEntry) {
	s.store.Logs = append(s.store.Logs, entry)
	// Cap by append order, not timestamp comparison: the newest entries are
	// the ones at the retained end.
	if len(s.store.Logs) > constants.MaxLogEntries {
		s.store.Logs = s.store.Logs[len(s.store.Logs)-constants.MaxLogEntries:]
	}
}

func (s *JSONStore) AddLogEntry(entry models.LogEntry) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.appendLog(entry)
	return s.save()
}

func (s *JSONStore) GetLogEntries(patientID, startDate, endDate string) ([]models.LogEntry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	entries := make([]models.LogEntry, 0)
	for _, e := range s.store.Logs {
		if e.PatientID == patientID && e.Date >= startDate && e.Date <= endDate {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *JSONStore) GetAllLogEntries() ([]models.LogEntry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	entries := make([]models.LogEntry, len(s.store.Logs))
	copy(entries, s.store.Logs)
	return entries, nil
}

func (s *JSONStore) CountLogEntries() (int, error) {
	if s.store == nil {
		return 0, fmt.Errorf("storage not loaded")
	}
	return len(s.store.Logs), nil
}

func (s *JSONStore) GetInstanceIndex(patientID string) ([]string, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return sortedIndexCopy(s.store.InstanceIndex[patientID]), nil
}

func (s *JSONStore) AddInstanceIndexDate(patientID, date, cutoff string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	index, changed := insertIndexDate(s.store.InstanceIndex[patientID], date, cutoff)
	if !changed {
		return nil
	}
	s.store.InstanceIndex[patientID] = index
	return s.save()
}

func (s *JSONStore) GetLogIndex(patientID string) ([]string, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	return sortedIndexCopy(s.store.LogIndex[patientID]), nil
}

func (s *JSONStore) AddLogIndexDate(patientID, date, cutoff string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	index, changed := insertIndexDate(s.store.LogIndex[patientID], date, cutoff)
	if !changed {
		return nil
	}
	s.store.LogIndex[patientID] = index
	return s.save()
}

// insertIndexDate adds date to the index if absent and, only then, prunes
// dates older than the cutoff. An index that has not seen a new date is left
// alone, which is the documented insert-triggered pruning property.
func insertIndexDate(index []string, date, cutoff string) ([]string, bool) {
	for _, d := range index {
		if d == date {
			return index, false
		}
	}
	pruned := make([]string, 0, len(index)+1)
	for _, d := range index {
		if d >= cutoff {
			pruned = append(pruned, d)
		}
	}
	pruned = append(pruned, date)
	return pruned, true
}

func sortedIndexCopy(index []string) []string {
	out := make([]string, len(index))
	copy(out, index)
	sort.Strings(out)
	return out
}

func (s *JSONStore) GetOverrides(patientID, date string) ([]models.CarePlanOverride, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	overrides := make([]models.CarePlanOverride, 0)
	for _, o := range s.store.Overrides[patientID] {
		if o.Date == date {
			overrides = append(overrides, o)
		}
	}
	sort.Slice(overrides, func(i, j int) bool { return overrides[i].ItemID < overrides[j].ItemID })
	return overrides, nil
}

func (s *JSONStore) GetAllOverrides(patientID string) ([]models.CarePlanOverride, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	overrides := make([]models.CarePlanOverride, 0, len(s.store.Overrides[patientID]))
	for _, o := range s.store.Overrides[patientID] {
		overrides = append(overrides, o)
	}
	sort.Slice(overrides, func(i, j int) bool { return overrides[i].Key() < overrides[j].Key() })
	return overrides, nil
}

func (s *JSONStore) SaveOverride(override models.CarePlanOverride, cutoff string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	m := s.store.Overrides[override.PatientID]
	if m == nil {
		m = make(map[string]models.CarePlanOverride)
	}
	// The full map is rewritten anyway, so stale dates are pruned here.
	for key, o := range m {
		if o.Date < cutoff {
			delete(m, key)
		}
	}
	m[override.Key()] = override
	s.store.Overrides[override.PatientID] = m
	return s.save()
}

func (s *JSONStore) RemoveOverride(patientID, date, itemID string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	m, ok := s.store.Overrides[patientID]
	if !ok {
		return nil
	}
	key := models.OverrideKey(date, itemID)
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save()
}

func (s *JSONStore) ClearSuppressedOverrides(patientID, date string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	m, ok := s.store.Overrides[patientID]
	if !ok {
		return nil
	}
	changed := false
	for key, o := range m {
		if o.Date != date || !o.Suppressed {
			continue
		}
		if o.Done {
			// Keep the completion, drop only the suppression.
			o.Suppressed = false
			m[key] = o
		} else {
			delete(m, key)
		}
		changed = true
	}
	if !changed {
		return nil
	}
	return s.save()
}

func (s *JSONStore) GetPatientIDs() ([]string, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	seen := make(map[string]bool)
	for id := range s.store.Configs {
		seen[id] = true
	}
	for id := range s.store.Plans {
		seen[id] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
