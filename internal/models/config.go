package models

import (
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
)

// CategoryConfig holds the per-bucket settings for one trackable category.
type CategoryConfig struct {
	Enabled       bool                `json:"enabled"`
	Priority      constants.Priority  `json:"priority"`
	Frequency     constants.Frequency `json:"frequency"`
	Weekdays      []time.Weekday      `json:"weekdays,omitempty"`
	Windows       []TimeWindow        `json:"windows,omitempty"`
	TrackingStyle string              `json:"tracking_style,omitempty"`
}

// MedicationConfig describes one configured medication. The ID is the stable
// reference reconciliation matches medication regimen items by.
type MedicationConfig struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Dose         string       `json:"dose,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Schedule     Schedule     `json:"schedule"`
}

// CustomItemConfig describes one user-defined trackable item.
type CustomItemConfig struct {
	Name     string   `json:"name"`
	Schedule Schedule `json:"schedule"`
}

// CarePlanConfig is the declarative care configuration a patient's regimen
// items are derived from. It is owned by the config screens; the engine only
// reads it, except on the reactivation path.
type CarePlanConfig struct {
	PatientID   string                                 `json:"patient_id"`
	Categories  map[constants.Category]CategoryConfig  `json:"categories"`
	Medications []MedicationConfig                     `json:"medications,omitempty"`
	MealSlots   []string                               `json:"meal_slots,omitempty"`
	CustomItems []CustomItemConfig                     `json:"custom_items,omitempty"`
	UpdatedAt   string                                 `json:"updated_at"` // RFC3339
}

// Category returns the config for a category, defaulting to disabled.
func (c CarePlanConfig) Category(cat constants.Category) CategoryConfig {
	if c.Categories == nil {
		return CategoryConfig{}
	}
	return c.Categories[cat]
}

// DefaultCarePlanConfig returns the configuration a fresh patient starts
// with: vitals, meals, and mood tracked daily, everything else off.
func DefaultCarePlanConfig(patientID string) CarePlanConfig {
	morning := TimeWindow{ID: constants.WindowMorning, Name: constants.WindowMorning}
	midday := TimeWindow{ID: constants.WindowMidday, Name: constants.WindowMidday}
	evening := TimeWindow{ID: constants.WindowEvening, Name: constants.WindowEvening}

	return CarePlanConfig{
		PatientID: patientID,
		Categories: map[constants.Category]CategoryConfig{
			constants.CategoryMedication: {
				Enabled:   true,
				Priority:  constants.PriorityRequired,
				Frequency: constants.FrequencyDaily,
			},
			constants.CategoryVitals: {
				Enabled:   true,
				Priority:  constants.PriorityRecommended,
				Frequency: constants.FrequencyDaily,
				Windows:   []TimeWindow{morning},
			},
			constants.CategoryMeals: {
				Enabled:   true,
				Priority:  constants.PriorityRecommended,
				Frequency: constants.FrequencyDaily,
			},
			constants.CategoryMood: {
				Enabled:   true,
				Priority:  constants.PriorityOptional,
				Frequency: constants.FrequencyDaily,
				Windows:   []TimeWindow{evening},
			},
			constants.CategorySleep: {
				Priority:  constants.PriorityOptional,
				Frequency: constants.FrequencyDaily,
				Windows:   []TimeWindow{morning},
			},
			constants.CategoryHydration: {
				Priority:  constants.PriorityOptional,
				Frequency: constants.FrequencyDaily,
				Windows:   []TimeWindow{midday},
			},
		},
		MealSlots: []string{"breakfast", "lunch", "dinner"},
		UpdatedAt: "",
	}
}
