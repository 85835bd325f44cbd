package engine

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage"
)

const testPatient = "self"

func newTestEngine(t *testing.T, now time.Time) (*Engine, storage.Provider) {
	t.Helper()

	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "carekeep.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Pin the timezone so "today" is derived from the injected clock alone.
	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	eng := New(store, WithClock(func() time.Time { return now }))
	return eng, store
}

func addDailyMedication(t *testing.T, eng *Engine, name, window string) string {
	t.Helper()
	id, err := eng.AddMedication(testPatient, models.MedicationConfig{
		Name: name,
		Dose: "10mg",
		Schedule: models.Schedule{
			Frequency: constants.FrequencyDaily,
			Windows:   []models.TimeWindow{{ID: window, Name: window}},
		},
	})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}
	return id
}

func findByName(instances []models.DailyInstance, name string) *models.DailyInstance {
	for i := range instances {
		if instances[i].Name == name {
			return &instances[i]
		}
	}
	return nil
}

func TestEnsureDailyInstances_MedicationDaily(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, now)

	addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)

	instances, err := eng.EnsureDailyInstances(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("EnsureDailyInstances failed: %v", err)
	}

	inst := findByName(instances, "Lisinopril")
	if inst == nil {
		t.Fatal("expected a Lisinopril instance")
	}
	if inst.Status != constants.InstancePending {
		t.Errorf("expected pending, got %s", inst.Status)
	}
	if inst.ScheduledAt != "08:00" {
		t.Errorf("expected morning window to resolve to 08:00, got %s", inst.ScheduledAt)
	}
	if inst.Date != "2026-03-10" {
		t.Errorf("expected date 2026-03-10, got %s", inst.Date)
	}
}

func TestEnsureDailyInstances_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)

	first, err := eng.EnsureDailyInstances(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("first EnsureDailyInstances failed: %v", err)
	}

	// Complete one instance, then re-materialize several times.
	target := findByName(first, "Lisinopril")
	if _, err := eng.SetInstanceStatus(testPatient, "2026-03-10", target.ID, constants.InstanceCompleted, nil, constants.SourceRecord); err != nil {
		t.Fatalf("SetInstanceStatus failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := eng.EnsureDailyInstances(testPatient, "2026-03-10"); err != nil {
			t.Fatalf("repeat EnsureDailyInstances failed: %v", err)
		}
	}

	again, err := eng.EnsureDailyInstances(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("final EnsureDailyInstances failed: %v", err)
	}
	if len(again) != len(first) {
		t.Errorf("instance count changed across materializations: %d != %d", len(again), len(first))
	}

	got := findByName(again, "Lisinopril")
	if got.ID != target.ID {
		t.Errorf("instance identity changed: %s != %s", got.ID, target.ID)
	}
	if got.Status != constants.InstanceCompleted {
		t.Errorf("materialization reset a completed instance to %s", got.Status)
	}

	// No duplicates in storage either.
	all, err := store.GetDailyInstancesForDate(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("GetDailyInstancesForDate failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, inst := range all {
		if seen[inst.Key()] {
			t.Errorf("duplicate instance for key %s", inst.Key())
		}
		seen[inst.Key()] = true
	}
}

func TestSyncLogToInstance_CompletesEarliestPending(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	medID, err := eng.AddMedication(testPatient, models.MedicationConfig{
		Name: "Metformin",
		Schedule: models.Schedule{
			Frequency: constants.FrequencyDaily,
			Windows: []models.TimeWindow{
				{ID: constants.WindowMorning, Name: constants.WindowMorning},
				{ID: constants.WindowEvening, Name: constants.WindowEvening},
			},
		},
	})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	outcome := json.RawMessage(`{"taken":true}`)
	inst, err := eng.SyncLogToInstance(testPatient, "2026-03-10", constants.CategoryMedication, medID, outcome)
	if err != nil {
		t.Fatalf("SyncLogToInstance failed: %v", err)
	}
	if inst == nil {
		t.Fatal("expected a matched instance")
	}
	if inst.ScheduledAt != "08:00" {
		t.Errorf("expected the earliest window (08:00) to complete first, got %s", inst.ScheduledAt)
	}
	if inst.Status != constants.InstanceCompleted {
		t.Errorf("expected completed, got %s", inst.Status)
	}
	if inst.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}

	entries, err := store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("GetAllLogEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(entries))
	}
	if entries[0].InstanceID != inst.ID {
		t.Errorf("log entry references %s, want %s", entries[0].InstanceID, inst.ID)
	}
	if entries[0].Source != constants.SourceRecord {
		t.Errorf("expected source record, got %s", entries[0].Source)
	}

	// Second sync completes the evening instance, not the morning one again.
	second, err := eng.SyncLogToInstance(testPatient, "2026-03-10", constants.CategoryMedication, medID, outcome)
	if err != nil {
		t.Fatalf("second SyncLogToInstance failed: %v", err)
	}
	if second.ID == inst.ID {
		t.Error("second log re-completed the same instance")
	}
	if second.ScheduledAt != "18:00" {
		t.Errorf("expected 18:00 instance, got %s", second.ScheduledAt)
	}
}

func TestSyncLogToInstance_RepeatUpdatesOutcomeWithoutNewEntry(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	// Default config tracks vitals daily with a single morning window.
	first := json.RawMessage(`{"systolic":120,"diastolic":80}`)
	inst, err := eng.SyncLogToInstance(testPatient, "2026-03-10", constants.CategoryVitals, "", first)
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if inst == nil {
		t.Fatal("expected the vitals instance to match")
	}

	second := json.RawMessage(`{"systolic":118,"diastolic":79}`)
	updated, err := eng.SyncLogToInstance(testPatient, "2026-03-10", constants.CategoryVitals, "", second)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if updated == nil {
		t.Fatal("expected the completed instance back")
	}
	if updated.ID != inst.ID {
		t.Errorf("expected the same instance, got %s and %s", inst.ID, updated.ID)
	}
	if string(updated.Outcome) != string(second) {
		t.Errorf("outcome not updated: %s", updated.Outcome)
	}

	entries, err := store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("GetAllLogEntries failed: %v", err)
	}
	count := 0
	for _, e := range entries {
		if e.Category == constants.CategoryVitals {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one vitals log entry, got %d", count)
	}
}

func TestSyncLogToInstance_QuickLogFallback(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	// Sleep tracking is off in the default config: nothing to match.
	inst, err := eng.SyncLogToInstance(testPatient, "2026-03-10", constants.CategorySleep, "", json.RawMessage(`{"hours":7}`))
	if err != nil {
		t.Fatalf("SyncLogToInstance failed: %v", err)
	}
	if inst != nil {
		t.Fatalf("expected no match, got instance %s", inst.Name)
	}

	entries, err := store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("GetAllLogEntries failed: %v", err)
	}
	var quick *models.LogEntry
	for i := range entries {
		if entries[i].Category == constants.CategorySleep {
			quick = &entries[i]
		}
	}
	if quick == nil {
		t.Fatal("expected the event to be kept as a quick log")
	}
	if quick.Source != constants.SourceQuickLog {
		t.Errorf("expected quick_log source, got %s", quick.Source)
	}
	if quick.InstanceID != "" {
		t.Errorf("quick log should not reference an instance, got %s", quick.InstanceID)
	}
}

func TestSetInstanceStatus_AtMostOneCompletionEntry(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)
	instances, err := eng.EnsureDailyInstances(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("EnsureDailyInstances failed: %v", err)
	}
	target := findByName(instances, "Lisinopril")

	for i := 0; i < 4; i++ {
		outcome := json.RawMessage(fmt.Sprintf(`{"attempt":%d}`, i))
		if _, err := eng.SetInstanceStatus(testPatient, "2026-03-10", target.ID, constants.InstanceCompleted, outcome, constants.SourceRecord); err != nil {
			t.Fatalf("SetInstanceStatus %d failed: %v", i, err)
		}
	}

	entries, err := store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("GetAllLogEntries failed: %v", err)
	}
	count := 0
	for _, e := range entries {
		if e.InstanceID == target.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one completion entry, got %d", count)
	}
}

func TestSetInstanceStatus_SkipAndUndo(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)
	instances, err := eng.EnsureDailyInstances(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("EnsureDailyInstances failed: %v", err)
	}
	target := findByName(instances, "Lisinopril")

	skipped, err := eng.SetInstanceStatus(testPatient, "2026-03-10", target.ID, constants.InstanceSkipped, nil, constants.SourceRecord)
	if err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if skipped.Status != constants.InstanceSkipped {
		t.Errorf("expected skipped, got %s", skipped.Status)
	}

	pending, err := eng.SetInstanceStatus(testPatient, "2026-03-10", target.ID, constants.InstancePending, nil, constants.SourceRecord)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if pending.Status != constants.InstancePending {
		t.Errorf("expected pending, got %s", pending.Status)
	}
	if pending.CompletedAt != nil {
		t.Error("expected CompletedAt cleared")
	}

	entries, err := store.GetAllLogEntries()
	if err != nil {
		t.Fatalf("GetAllLogEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("skip/undo should write no log entries, got %d", len(entries))
	}
}

func TestBucketToggleConvergence(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, now)

	medID := addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)

	instances, err := eng.EnsureDailyInstances(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("EnsureDailyInstances failed: %v", err)
	}
	before := findByName(instances, "Lisinopril")
	if before == nil {
		t.Fatal("expected a Lisinopril instance")
	}
	if _, err := eng.SetInstanceStatus(testPatient, "2026-03-10", before.ID, constants.InstanceCompleted, nil, constants.SourceRecord); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	planBefore, err := eng.GetCarePlan(testPatient)
	if err != nil {
		t.Fatalf("GetCarePlan failed: %v", err)
	}
	itemCount := len(planBefore.Items)

	// Toggle the bucket off and on several times.
	for i := 0; i < 3; i++ {
		if err := eng.SetCategoryEnabled(testPatient, constants.CategoryMedication, false); err != nil {
			t.Fatalf("disable failed: %v", err)
		}

		hidden, err := eng.DayView(testPatient, "2026-03-10")
		if err != nil {
			t.Fatalf("DayView failed: %v", err)
		}
		if findByName(hidden, "Lisinopril") != nil {
			t.Fatal("disabled bucket's instance still visible")
		}

		if err := eng.SetCategoryEnabled(testPatient, constants.CategoryMedication, true); err != nil {
			t.Fatalf("enable failed: %v", err)
		}
	}

	planAfter, err := eng.GetCarePlan(testPatient)
	if err != nil {
		t.Fatalf("GetCarePlan failed: %v", err)
	}
	if len(planAfter.Items) != itemCount {
		t.Errorf("toggling created items: %d != %d", len(planAfter.Items), itemCount)
	}

	var medItems []models.RegimenItem
	for _, item := range planAfter.Items {
		if item.MedicationID == medID {
			medItems = append(medItems, item)
		}
	}
	if len(medItems) != 1 {
		t.Fatalf("expected one medication item after toggling, got %d", len(medItems))
	}
	if !medItems[0].Active {
		t.Error("medication item not reactivated")
	}

	visible, err := eng.DayView(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("DayView failed: %v", err)
	}
	after := findByName(visible, "Lisinopril")
	if after == nil {
		t.Fatal("instance not restored after re-enable")
	}
	if after.ID != before.ID {
		t.Errorf("toggling replaced the instance: %s != %s", after.ID, before.ID)
	}
	if after.Status != constants.InstanceCompleted {
		t.Errorf("completion lost across toggle, got %s", after.Status)
	}
}

func TestSnapshotStability(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, now)

	addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)
	if _, err := eng.EnsureDailyInstances(testPatient, "2026-03-10"); err != nil {
		t.Fatalf("EnsureDailyInstances failed: %v", err)
	}

	frozen, err := eng.GetEffectiveCarePlan(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("GetEffectiveCarePlan failed: %v", err)
	}
	frozenCount := len(frozen.Items)

	// Mid-day edit to the live plan.
	addDailyMedication(t, eng, "Metformin", constants.WindowEvening)

	frozenAgain, err := eng.GetEffectiveCarePlan(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("second GetEffectiveCarePlan failed: %v", err)
	}
	if len(frozenAgain.Items) != frozenCount {
		t.Errorf("frozen plan changed after live edit: %d != %d", len(frozenAgain.Items), frozenCount)
	}

	live, err := eng.GetCarePlan(testPatient)
	if err != nil {
		t.Fatalf("GetCarePlan failed: %v", err)
	}
	if len(live.Items) != frozenCount+1 {
		t.Errorf("live plan should have gained an item: %d != %d", len(live.Items), frozenCount+1)
	}
}

func TestEveryOtherDayAnchor(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, now)

	if _, err := eng.AddMedication(testPatient, models.MedicationConfig{
		Name: "Warfarin",
		Schedule: models.Schedule{
			Frequency: constants.FrequencyEveryOtherDay,
			Windows:   []models.TimeWindow{{ID: constants.WindowEvening, Name: constants.WindowEvening}},
		},
	}); err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	day1, err := eng.EnsureDailyInstances(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("day1 failed: %v", err)
	}
	if findByName(day1, "Warfarin") == nil {
		t.Fatal("first materialized date should schedule and become the anchor")
	}

	day2, err := eng.EnsureDailyInstances(testPatient, "2026-03-11")
	if err != nil {
		t.Fatalf("day2 failed: %v", err)
	}
	if findByName(day2, "Warfarin") != nil {
		t.Error("odd parity day should not schedule")
	}

	day3, err := eng.EnsureDailyInstances(testPatient, "2026-03-12")
	if err != nil {
		t.Fatalf("day3 failed: %v", err)
	}
	if findByName(day3, "Warfarin") == nil {
		t.Error("even parity day should schedule")
	}
}

func TestOverrides_SuppressAndReset(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)

	plan, err := eng.GetCarePlan(testPatient)
	if err != nil {
		t.Fatalf("GetCarePlan failed: %v", err)
	}
	var itemID string
	for _, item := range plan.Items {
		if item.Name == "Lisinopril" {
			itemID = item.ID
		}
	}

	if err := eng.SetOverride(testPatient, "2026-03-10", itemID, false, true); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}

	view, err := eng.DayView(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("DayView failed: %v", err)
	}
	if findByName(view, "Lisinopril") != nil {
		t.Error("suppressed item still visible")
	}

	suppressed, err := eng.IsItemSuppressed(testPatient, "2026-03-10", itemID)
	if err != nil {
		t.Fatalf("IsItemSuppressed failed: %v", err)
	}
	if !suppressed {
		t.Error("expected item suppressed")
	}

	// The stored instance is untouched by the override.
	stored, err := store.GetDailyInstancesForDate(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("GetDailyInstancesForDate failed: %v", err)
	}
	if raw := findByName(stored, "Lisinopril"); raw == nil || raw.Status != constants.InstancePending {
		t.Error("override mutated the stored instance")
	}

	if err := eng.ResetDaySuppressions(testPatient, "2026-03-10"); err != nil {
		t.Fatalf("ResetDaySuppressions failed: %v", err)
	}
	view, err = eng.DayView(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("DayView failed: %v", err)
	}
	if findByName(view, "Lisinopril") == nil {
		t.Error("item still hidden after reset")
	}
}

func TestOverrides_DoneMarkSurvivesReset(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, now)

	addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)
	plan, _ := eng.GetCarePlan(testPatient)
	var itemID string
	for _, item := range plan.Items {
		if item.Name == "Lisinopril" {
			itemID = item.ID
		}
	}

	// Done and suppressed at once.
	if err := eng.SetOverride(testPatient, "2026-03-10", itemID, true, true); err != nil {
		t.Fatalf("SetOverride failed: %v", err)
	}
	if err := eng.ResetDaySuppressions(testPatient, "2026-03-10"); err != nil {
		t.Fatalf("ResetDaySuppressions failed: %v", err)
	}

	overrides, err := eng.GetOverrides(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("GetOverrides failed: %v", err)
	}
	if len(overrides) != 1 {
		t.Fatalf("expected the done override to survive, got %d overrides", len(overrides))
	}
	if !overrides[0].Done || overrides[0].Suppressed {
		t.Errorf("expected done=true suppressed=false, got %+v", overrides[0])
	}

	view, err := eng.DayView(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("DayView failed: %v", err)
	}
	inst := findByName(view, "Lisinopril")
	if inst == nil {
		t.Fatal("instance should be visible again")
	}
	if inst.Status != constants.InstanceCompleted {
		t.Errorf("done override should read as completed, got %s", inst.Status)
	}
}

func TestInstanceIndexPrunesOnInsertOnly(t *testing.T) {
	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	// Seed a stale date well past the retention window.
	if err := store.AddInstanceIndexDate(testPatient, "2026-01-01", "2025-01-01"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// Reads never prune.
	index, err := store.GetInstanceIndex(testPatient)
	if err != nil {
		t.Fatalf("GetInstanceIndex failed: %v", err)
	}
	if len(index) != 1 || index[0] != "2026-01-01" {
		t.Fatalf("expected the stale date untouched, got %v", index)
	}

	// Materializing a new date prunes anything older than 90 days.
	if _, err := eng.EnsureDailyInstances(testPatient, "2026-06-15"); err != nil {
		t.Fatalf("EnsureDailyInstances failed: %v", err)
	}

	index, err = store.GetInstanceIndex(testPatient)
	if err != nil {
		t.Fatalf("GetInstanceIndex failed: %v", err)
	}
	for _, date := range index {
		if date == "2026-01-01" {
			t.Error("stale date not pruned on insert")
		}
	}
	found := false
	for _, date := range index {
		if date == "2026-06-15" {
			found = true
		}
	}
	if !found {
		t.Error("new date missing from index")
	}

	// Re-materializing the same date changes nothing.
	before := len(index)
	if _, err := eng.EnsureDailyInstances(testPatient, "2026-06-15"); err != nil {
		t.Fatalf("repeat EnsureDailyInstances failed: %v", err)
	}
	index, _ = store.GetInstanceIndex(testPatient)
	if len(index) != before {
		t.Errorf("re-inserting an existing date changed the index: %d != %d", len(index), before)
	}
}

func TestReconcile_DeactivationHidesTodayKeepsHistory(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	medID := addDailyMedication(t, eng, "Lisinopril", constants.WindowMorning)

	// Yesterday's completed instance must survive deactivation untouched.
	yesterday, err := eng.EnsureDailyInstances(testPatient, "2026-03-09")
	if err != nil {
		t.Fatalf("yesterday failed: %v", err)
	}
	yInst := findByName(yesterday, "Lisinopril")
	if _, err := eng.SetInstanceStatus(testPatient, "2026-03-09", yInst.ID, constants.InstanceCompleted, nil, constants.SourceRecord); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if _, err := eng.EnsureDailyInstances(testPatient, "2026-03-10"); err != nil {
		t.Fatalf("today failed: %v", err)
	}

	if err := eng.RemoveMedication(testPatient, medID); err != nil {
		t.Fatalf("RemoveMedication failed: %v", err)
	}

	today, err := eng.DayView(testPatient, "2026-03-10")
	if err != nil {
		t.Fatalf("DayView failed: %v", err)
	}
	if findByName(today, "Lisinopril") != nil {
		t.Error("deactivated item's instance still visible today")
	}

	hist, err := store.GetDailyInstancesForDate(testPatient, "2026-03-09")
	if err != nil {
		t.Fatalf("history read failed: %v", err)
	}
	h := findByName(hist, "Lisinopril")
	if h == nil {
		t.Fatal("history instance deleted")
	}
	if !h.Active || h.Status != constants.InstanceCompleted {
		t.Errorf("history instance mutated: active=%v status=%s", h.Active, h.Status)
	}

	// The item itself is deactivated, not removed.
	plan, _ := eng.GetCarePlan(testPatient)
	var item *models.RegimenItem
	for i := range plan.Items {
		if plan.Items[i].MedicationID == medID {
			item = &plan.Items[i]
		}
	}
	if item == nil {
		t.Fatal("item hard-deleted from plan")
	}
	if item.Active || item.DeactivatedAt == nil {
		t.Error("item not soft-deactivated")
	}
}

func TestQuickLog_AppendsEntryAndIndex(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	eng, store := newTestEngine(t, now)

	entry, err := eng.QuickLog(testPatient, "2026-03-10", constants.CategoryMood, json.RawMessage(`{"mood":"ok"}`))
	if err != nil {
		t.Fatalf("QuickLog failed: %v", err)
	}
	if entry.Source != constants.SourceQuickLog {
		t.Errorf("expected quick_log source, got %s", entry.Source)
	}

	index, err := store.GetLogIndex(testPatient)
	if err != nil {
		t.Fatalf("GetLogIndex failed: %v", err)
	}
	if len(index) != 1 || index[0] != "2026-03-10" {
		t.Errorf("log index not updated: %v", index)
	}

	history, err := eng.GetLogHistory(testPatient, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("GetLogHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != entry.ID {
		t.Errorf("history did not return the entry: %+v", history)
	}
}
