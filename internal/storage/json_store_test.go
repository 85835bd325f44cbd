package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func newLoadedStore(t *testing.T) *JSONStore {
	t.Helper()
	s := NewJSONStore(filepath.Join(t.TempDir(), "carekeep.json"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func TestInit_RefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carekeep.json")
	s := NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	if err := NewJSONStore(path).Init(); err == nil {
		t.Error("second Init should refuse to overwrite")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := s.Load(); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoad_MalformedFileIsNotRewritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carekeep.json")
	garbage := []byte("{not json")
	if err := os.WriteFile(path, garbage, 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	s := NewJSONStore(path)
	if err := s.Load(); err == nil {
		t.Fatal("expected a parse error")
	}

	// The broken file must survive untouched for manual recovery.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read-back failed: %v", err)
	}
	if string(data) != string(garbage) {
		t.Error("malformed file was rewritten")
	}

	// And the store must refuse operations rather than serve empty state.
	if _, err := s.GetSettings(); err == nil {
		t.Error("expected operations to fail after a failed load")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carekeep.json")
	s := NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	settings.Timezone = "America/Chicago"
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	inst := models.DailyInstance{
		ID:        "i1",
		PatientID: "self",
		ItemID:    "item1",
		Date:      "2026-03-10",
		WindowID:  "morning",
		Status:    constants.InstancePending,
		Active:    true,
	}
	if err := s.SaveDailyInstance(inst); err != nil {
		t.Fatalf("SaveDailyInstance failed: %v", err)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := reopened.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.Timezone != "America/Chicago" {
		t.Errorf("timezone not persisted: %q", got.Timezone)
	}
	back, err := reopened.GetDailyInstance("self", "item1", "2026-03-10", "morning")
	if err != nil {
		t.Fatalf("GetDailyInstance failed: %v", err)
	}
	if back.ID != "i1" {
		t.Errorf("instance not persisted: %+v", back)
	}
}

func TestGetDailyInstance_NotFound(t *testing.T) {
	s := newLoadedStore(t)
	_, err := s.GetDailyInstance("self", "nope", "2026-03-10", "morning")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveDailyInstanceWithLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carekeep.json")
	s := NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	inst := models.DailyInstance{
		ID:        "i1",
		PatientID: "self",
		ItemID:    "item1",
		Date:      "2026-03-10",
		WindowID:  "morning",
		Status:    constants.InstanceCompleted,
		Active:    true,
	}
	entry := models.LogEntry{
		ID:         "e1",
		PatientID:  "self",
		InstanceID: "i1",
		Category:   constants.CategoryMedication,
		Date:       "2026-03-10",
		Source:     constants.SourceRecord,
	}
	if err := s.SaveDailyInstanceWithLog(inst, entry); err != nil {
		t.Fatalf("SaveDailyInstanceWithLog failed: %v", err)
	}

	// Both sides of the write are visible after a fresh load.
	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := reopened.GetDailyInstance("self", "item1", "2026-03-10", "morning"); err != nil {
		t.Errorf("instance missing after reload: %v", err)
	}
	entries, err := reopened.GetAllLogEntries()
	if err != nil {
		t.Fatalf("GetAllLogEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Errorf("log entry missing after reload: %+v", entries)
	}
}

func TestLogCap(t *testing.T) {
	s := newLoadedStore(t)

	// Seed the in-memory document at the cap, then push one past it.
	for i := 0; i < constants.MaxLogEntries; i++ {
		s.store.Logs = append(s.store.Logs, models.LogEntry{
			ID:        fmt.Sprintf("e%d", i),
			PatientID: "self",
			Date:      "2026-03-10",
		})
	}

	if err := s.AddLogEntry(models.LogEntry{ID: "overflow", PatientID: "self", Date: "2026-03-10"}); err != nil {
		t.Fatalf("AddLogEntry failed: %v", err)
	}

	count, err := s.CountLogEntries()
	if err != nil {
		t.Fatalf("CountLogEntries failed: %v", err)
	}
	if count != constants.MaxLogEntries {
		t.Errorf("cap not enforced: %d entries", count)
	}

	entries, _ := s.GetAllLogEntries()
	if entries[0].ID != "e1" {
		t.Errorf("oldest entry should be dropped first, head is %s", entries[0].ID)
	}
	if entries[len(entries)-1].ID != "overflow" {
		t.Errorf("newest entry missing, tail is %s", entries[len(entries)-1].ID)
	}
}

func TestIndexInsertTriggeredPruning(t *testing.T) {
	s := newLoadedStore(t)

	if err := s.AddInstanceIndexDate("self", "2026-01-01", "2025-01-01"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := s.AddInstanceIndexDate("self", "2026-02-01", "2025-01-01"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// Re-inserting an existing date is a no-op even with a cutoff that would
	// otherwise prune.
	if err := s.AddInstanceIndexDate("self", "2026-02-01", "2026-01-15"); err != nil {
		t.Fatalf("re-insert failed: %v", err)
	}
	index, err := s.GetInstanceIndex("self")
	if err != nil {
		t.Fatalf("GetInstanceIndex failed: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("re-insert pruned the index: %v", index)
	}

	// A genuinely new date triggers the prune.
	if err := s.AddInstanceIndexDate("self", "2026-03-01", "2026-01-15"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	index, _ = s.GetInstanceIndex("self")
	want := []string{"2026-02-01", "2026-03-01"}
	if len(index) != len(want) {
		t.Fatalf("index = %v, want %v", index, want)
	}
	for i := range want {
		if index[i] != want[i] {
			t.Fatalf("index = %v, want %v", index, want)
		}
	}
}

func TestSaveOverride_ReplacesAndPrunes(t *testing.T) {
	s := newLoadedStore(t)

	old := models.CarePlanOverride{PatientID: "self", Date: "2026-01-01", ItemID: "a", Suppressed: true}
	if err := s.SaveOverride(old, "2025-01-01"); err != nil {
		t.Fatalf("SaveOverride failed: %v", err)
	}

	// Same (date, item) replaces rather than accumulates.
	replacement := models.CarePlanOverride{PatientID: "self", Date: "2026-01-01", ItemID: "a", Done: true}
	if err := s.SaveOverride(replacement, "2025-01-01"); err != nil {
		t.Fatalf("SaveOverride failed: %v", err)
	}
	overrides, err := s.GetOverrides("self", "2026-01-01")
	if err != nil {
		t.Fatalf("GetOverrides failed: %v", err)
	}
	if len(overrides) != 1 || !overrides[0].Done || overrides[0].Suppressed {
		t.Errorf("override not replaced: %+v", overrides)
	}

	// Writing with a later cutoff prunes the stale date.
	recent := models.CarePlanOverride{PatientID: "self", Date: "2026-03-10", ItemID: "b", Suppressed: true}
	if err := s.SaveOverride(recent, "2026-02-08"); err != nil {
		t.Fatalf("SaveOverride failed: %v", err)
	}
	all, err := s.GetAllOverrides("self")
	if err != nil {
		t.Fatalf("GetAllOverrides failed: %v", err)
	}
	if len(all) != 1 || all[0].ItemID != "b" {
		t.Errorf("stale override not pruned: %+v", all)
	}
}

func TestClearSuppressedOverrides_KeepsDoneMarks(t *testing.T) {
	s := newLoadedStore(t)

	pure := models.CarePlanOverride{PatientID: "self", Date: "2026-03-10", ItemID: "a", Suppressed: true}
	both := models.CarePlanOverride{PatientID: "self", Date: "2026-03-10", ItemID: "b", Done: true, Suppressed: true}
	otherDay := models.CarePlanOverride{PatientID: "self", Date: "2026-03-11", ItemID: "c", Suppressed: true}
	for _, o := range []models.CarePlanOverride{pure, both, otherDay} {
		if err := s.SaveOverride(o, "2025-01-01"); err != nil {
			t.Fatalf("SaveOverride failed: %v", err)
		}
	}

	if err := s.ClearSuppressedOverrides("self", "2026-03-10"); err != nil {
		t.Fatalf("ClearSuppressedOverrides failed: %v", err)
	}

	day, err := s.GetOverrides("self", "2026-03-10")
	if err != nil {
		t.Fatalf("GetOverrides failed: %v", err)
	}
	if len(day) != 1 {
		t.Fatalf("expected only the done-marked override to survive, got %+v", day)
	}
	if day[0].ItemID != "b" || !day[0].Done || day[0].Suppressed {
		t.Errorf("done mark not preserved correctly: %+v", day[0])
	}

	other, err := s.GetOverrides("self", "2026-03-11")
	if err != nil {
		t.Fatalf("GetOverrides failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("other day's override must be untouched, got %+v", other)
	}
}

func TestGetPatientIDs(t *testing.T) {
	s := newLoadedStore(t)

	if err := s.SaveCarePlanConfig(models.CarePlanConfig{PatientID: "beta"}); err != nil {
		t.Fatalf("SaveCarePlanConfig failed: %v", err)
	}
	if err := s.SaveCarePlan(models.CarePlan{ID: "p1", PatientID: "alpha"}); err != nil {
		t.Fatalf("SaveCarePlan failed: %v", err)
	}

	ids, err := s.GetPatientIDs()
	if err != nil {
		t.Fatalf("GetPatientIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "beta" {
		t.Errorf("GetPatientIDs() = %v, want [alpha beta]", ids)
	}
}
