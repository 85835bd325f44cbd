package models

import (
	"encoding/json"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
)

// DailyInstance is one dated, timed occurrence of a regimen item. At most one
// instance exists per (item, date, window); materialization is idempotent on
// that key.
type DailyInstance struct {
	ID          string                   `json:"id"`
	PatientID   string                   `json:"patient_id"`
	PlanID      string                   `json:"plan_id"`
	ItemID      string                   `json:"item_id"`
	Category    constants.Category       `json:"category"`
	Name        string                   `json:"name"`
	Date        string                   `json:"date"`         // YYYY-MM-DD
	WindowID    string                   `json:"window_id"`    // window the instance was expanded from
	ScheduledAt string                   `json:"scheduled_at"` // HH:MM
	Status      constants.InstanceStatus `json:"status"`
	Active      bool                     `json:"active"` // cleared when the owning item is deactivated mid-day
	CompletedAt *string                  `json:"completed_at,omitempty"` // RFC3339
	Outcome     json.RawMessage          `json:"outcome,omitempty"`      // structured payload of what was actually logged
}

// Key returns the unique materialization key for the instance.
func (i DailyInstance) Key() string {
	return InstanceKey(i.ItemID, i.Date, i.WindowID)
}

// InstanceKey builds the unique (item, date, window) key used by every store.
func InstanceKey(itemID, date, windowID string) string {
	return itemID + "|" + date + "|" + windowID
}

// LogEntry is an immutable record of a completion event. Entries are
// append-only; once written they are never mutated, only dropped from the
// retained window.
type LogEntry struct {
	ID         string              `json:"id"`
	PatientID  string              `json:"patient_id"`
	PlanID     string              `json:"plan_id"`
	ItemID     string              `json:"item_id,omitempty"`
	InstanceID string              `json:"instance_id,omitempty"`
	Category   constants.Category  `json:"category"`
	Date       string              `json:"date"`      // YYYY-MM-DD
	Timestamp  string              `json:"timestamp"` // RFC3339
	Outcome    json.RawMessage     `json:"outcome,omitempty"`
	Source     constants.LogSource `json:"source"`
}
