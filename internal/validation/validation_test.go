package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule models.Schedule
		wantErr  string // substring, empty means valid
	}{
		{
			name:     "daily is fine without weekdays",
			schedule: models.Schedule{Frequency: constants.FrequencyDaily},
		},
		{
			name: "weekly needs weekdays",
			schedule: models.Schedule{
				Frequency: constants.FrequencyWeekly,
			},
			wantErr: "needs at least one weekday",
		},
		{
			name: "weekly with weekdays is fine",
			schedule: models.Schedule{
				Frequency: constants.FrequencyWeekly,
				Weekdays:  []time.Weekday{time.Monday},
			},
		},
		{
			name: "custom needs weekdays",
			schedule: models.Schedule{
				Frequency: constants.FrequencyCustom,
			},
			wantErr: "needs at least one weekday",
		},
		{
			name:     "empty frequency rejected",
			schedule: models.Schedule{},
			wantErr:  "no frequency",
		},
		{
			name:     "unknown frequency rejected",
			schedule: models.Schedule{Frequency: "fortnightly"},
			wantErr:  "unknown frequency",
		},
		{
			name: "bad anchor date rejected",
			schedule: models.Schedule{
				Frequency:  constants.FrequencyEveryOtherDay,
				AnchorDate: "03/10/2026",
			},
			wantErr: "not YYYY-MM-DD",
		},
		{
			name: "named windows accepted",
			schedule: models.Schedule{
				Frequency: constants.FrequencyDaily,
				Windows: []models.TimeWindow{
					{ID: "w1", Name: constants.WindowMorning},
					{ID: "w2", Name: constants.WindowNight},
				},
			},
		},
		{
			name: "exact window with time accepted",
			schedule: models.Schedule{
				Frequency: constants.FrequencyDaily,
				Windows:   []models.TimeWindow{{ID: "w1", Name: "exact", At: "14:30"}},
			},
		},
		{
			name: "unnamed window without time rejected",
			schedule: models.Schedule{
				Frequency: constants.FrequencyDaily,
				Windows:   []models.TimeWindow{{ID: "w1", Name: "exact"}},
			},
			wantErr: "neither a named window nor carries a time",
		},
		{
			name: "malformed window time rejected",
			schedule: models.Schedule{
				Frequency: constants.FrequencyDaily,
				Windows:   []models.TimeWindow{{ID: "w1", Name: "exact", At: "2pm"}},
			},
			wantErr: "malformed time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule, "test")
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateCarePlanConfig(t *testing.T) {
	valid := models.DefaultCarePlanConfig("self")
	if err := ValidateCarePlanConfig(valid); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	t.Run("duplicate medication names are case-insensitive", func(t *testing.T) {
		cfg := models.DefaultCarePlanConfig("self")
		cfg.Medications = []models.MedicationConfig{
			{ID: "m1", Name: "Lisinopril", Schedule: models.Schedule{Frequency: constants.FrequencyDaily}},
			{ID: "m2", Name: "lisinopril", Schedule: models.Schedule{Frequency: constants.FrequencyDaily}},
		}
		err := ValidateCarePlanConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), "duplicate medication name") {
			t.Errorf("expected duplicate medication error, got %v", err)
		}
	})

	t.Run("nameless medication rejected", func(t *testing.T) {
		cfg := models.DefaultCarePlanConfig("self")
		cfg.Medications = []models.MedicationConfig{{ID: "m1"}}
		err := ValidateCarePlanConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), "has no name") {
			t.Errorf("expected nameless medication error, got %v", err)
		}
	})

	t.Run("medication without a frequency is allowed", func(t *testing.T) {
		// Falls back to the category schedule at derivation time.
		cfg := models.DefaultCarePlanConfig("self")
		cfg.Medications = []models.MedicationConfig{{ID: "m1", Name: "Lisinopril"}}
		if err := ValidateCarePlanConfig(cfg); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("duplicate custom item names rejected", func(t *testing.T) {
		cfg := models.DefaultCarePlanConfig("self")
		cfg.CustomItems = []models.CustomItemConfig{
			{Name: "Stretching", Schedule: models.Schedule{Frequency: constants.FrequencyDaily}},
			{Name: "stretching", Schedule: models.Schedule{Frequency: constants.FrequencyDaily}},
		}
		err := ValidateCarePlanConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), "duplicate custom item name") {
			t.Errorf("expected duplicate custom item error, got %v", err)
		}
	})

	t.Run("duplicate meal slots rejected", func(t *testing.T) {
		cfg := models.DefaultCarePlanConfig("self")
		cfg.MealSlots = []string{"breakfast", "breakfast"}
		err := ValidateCarePlanConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), "duplicate meal slot") {
			t.Errorf("expected duplicate meal slot error, got %v", err)
		}
	})

	t.Run("disabled category schedules are not checked", func(t *testing.T) {
		cfg := models.DefaultCarePlanConfig("self")
		cfg.Categories[constants.CategorySleep] = models.CategoryConfig{
			Enabled:   false,
			Frequency: "bogus",
		}
		if err := ValidateCarePlanConfig(cfg); err != nil {
			t.Errorf("disabled category should not be validated: %v", err)
		}
	})

	t.Run("every problem reported at once", func(t *testing.T) {
		cfg := models.DefaultCarePlanConfig("self")
		cfg.Medications = []models.MedicationConfig{{ID: "m1"}}
		cfg.MealSlots = []string{"lunch", "lunch"}
		err := ValidateCarePlanConfig(cfg)
		if err == nil {
			t.Fatal("expected errors")
		}
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if len(verr.Problems) != 2 {
			t.Errorf("expected 2 problems, got %d: %v", len(verr.Problems), verr.Problems)
		}
	})
}
