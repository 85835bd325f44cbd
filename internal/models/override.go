package models

// CarePlanOverride is a today's-scope exception layered above a regimen item
// without altering it. At most one override exists per (date, item); setting
// a new one replaces the old.
type CarePlanOverride struct {
	PatientID  string `json:"patient_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	ItemID     string `json:"item_id"`
	Done       bool   `json:"done"`       // manually marked complete, no log entry required
	Suppressed bool   `json:"suppressed"` // hidden from the day's view
	Timestamp  string `json:"timestamp"`  // RFC3339
}

// Key returns the unique (date, item) key for the override.
func (o CarePlanOverride) Key() string {
	return OverrideKey(o.Date, o.ItemID)
}

// OverrideKey builds the unique (date, item) key used by every store.
func OverrideKey(date, itemID string) string {
	return date + "|" + itemID
}

// DailySnapshot is the care plan frozen for exactly one date. Only one
// snapshot is retained per patient at a time; a new day's first access
// overwrites it.
type DailySnapshot struct {
	PatientID string   `json:"patient_id"`
	Date      string   `json:"date"` // YYYY-MM-DD
	Plan      CarePlan `json:"plan"`
	CreatedAt string   `json:"created_at"` // RFC3339
}
