package models

import (
	"testing"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
)

func TestCarePlanClone_IsDeep(t *testing.T) {
	deactivated := "2026-03-09T10:00:00Z"
	plan := CarePlan{
		ID:        "p1",
		PatientID: "self",
		Items: []RegimenItem{
			{
				ID:     "item1",
				Name:   "Lisinopril",
				Active: true,
				Schedule: Schedule{
					Frequency: constants.FrequencyWeekly,
					Weekdays:  []time.Weekday{time.Monday},
					Windows:   []TimeWindow{{ID: "morning", Name: constants.WindowMorning}},
				},
				DeactivatedAt: &deactivated,
			},
		},
	}

	clone := plan.Clone()

	// Mutating the clone must never leak into the original.
	clone.Items[0].Name = "changed"
	clone.Items[0].Schedule.Weekdays[0] = time.Friday
	clone.Items[0].Schedule.Windows[0].Name = "night"
	*clone.Items[0].DeactivatedAt = "mutated"

	orig := plan.Items[0]
	if orig.Name != "Lisinopril" {
		t.Error("item name leaked through the clone")
	}
	if orig.Schedule.Weekdays[0] != time.Monday {
		t.Error("weekday slice shared with the clone")
	}
	if orig.Schedule.Windows[0].Name != constants.WindowMorning {
		t.Error("window slice shared with the clone")
	}
	if *orig.DeactivatedAt != deactivated {
		t.Error("DeactivatedAt pointer shared with the clone")
	}
}

func TestActiveItems(t *testing.T) {
	plan := CarePlan{
		Items: []RegimenItem{
			{ID: "a", Active: true},
			{ID: "b", Active: false},
			{ID: "c", Active: true},
		},
	}
	active := plan.ActiveItems()
	if len(active) != 2 {
		t.Fatalf("expected 2 active items, got %d", len(active))
	}
	if active[0].ID != "a" || active[1].ID != "c" {
		t.Errorf("wrong active items: %+v", active)
	}
}

func TestInstanceAndOverrideKeys(t *testing.T) {
	inst := DailyInstance{ItemID: "item1", Date: "2026-03-10", WindowID: "morning"}
	if got := inst.Key(); got != "item1|2026-03-10|morning" {
		t.Errorf("instance key = %q", got)
	}
	o := CarePlanOverride{Date: "2026-03-10", ItemID: "item1"}
	if got := o.Key(); got != "2026-03-10|item1" {
		t.Errorf("override key = %q", got)
	}
}
