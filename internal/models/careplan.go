package models

import (
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
)

// TimeWindow is one time-of-day slot a regimen item is scheduled into.
// Named windows (morning/midday/evening/night) resolve to fixed clock times;
// an exact window carries its own HH:MM.
type TimeWindow struct {
	ID   string `json:"id"`
	Name string `json:"name"`         // morning|midday|evening|night|exact
	At   string `json:"at,omitempty"` // HH:MM, required when Name == "exact"
}

// Schedule describes when a regimen item recurs.
type Schedule struct {
	Frequency  constants.Frequency `json:"frequency"`
	Weekdays   []time.Weekday      `json:"weekdays,omitempty"`    // weekly and custom frequencies
	AnchorDate string              `json:"anchor_date,omitempty"` // YYYY-MM-DD parity epoch for every_other_day
	Windows    []TimeWindow        `json:"windows"`
}

// RegimenItem is one concrete trackable thing derived from the care config:
// a single medication, "track vitals", one meal slot, and so on.
type RegimenItem struct {
	ID            string             `json:"id"`
	PatientID     string             `json:"patient_id"`
	PlanID        string             `json:"plan_id"`
	Category      constants.Category `json:"category"`
	Name          string             `json:"name"`
	Priority      constants.Priority `json:"priority"`
	Active        bool               `json:"active"`
	Schedule      Schedule           `json:"schedule"`
	MedicationID  string             `json:"medication_id,omitempty"` // stable back-reference for medication items
	Dose          string             `json:"dose,omitempty"`
	Instructions  string             `json:"instructions,omitempty"`
	CreatedAt     string             `json:"created_at"`               // RFC3339
	DeactivatedAt *string            `json:"deactivated_at,omitempty"` // RFC3339, set on soft deactivation
}

// CarePlan is the set of regimen items tracked for one patient. Items are
// never hard-deleted from a plan, only deactivated, so historical daily
// instances stay attributable.
type CarePlan struct {
	ID        string        `json:"id"`
	PatientID string        `json:"patient_id"`
	Items     []RegimenItem `json:"items"`
	CreatedAt string        `json:"created_at"` // RFC3339
	UpdatedAt string        `json:"updated_at"` // RFC3339
}

// Clone returns a deep copy of the plan. Snapshots depend on this never
// sharing slice memory with the live plan.
func (p CarePlan) Clone() CarePlan {
	cp := p
	cp.Items = make([]RegimenItem, len(p.Items))
	for i, item := range p.Items {
		ci := item
		ci.Schedule.Weekdays = append([]time.Weekday(nil), item.Schedule.Weekdays...)
		ci.Schedule.Windows = append([]TimeWindow(nil), item.Schedule.Windows...)
		if item.DeactivatedAt != nil {
			da := *item.DeactivatedAt
			ci.DeactivatedAt = &da
		}
		cp.Items[i] = ci
	}
	return cp
}

// ActiveItems returns the plan's currently active regimen items.
func (p CarePlan) ActiveItems() []RegimenItem {
	items := make([]RegimenItem, 0, len(p.Items))
	for _, item := range p.Items {
		if item.Active {
			items = append(items, item)
		}
	}
	return items
}

// FindItem returns a pointer into Items for the given item id, or nil.
func (p *CarePlan) FindItem(id string) *RegimenItem {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}
