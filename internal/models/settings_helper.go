package models

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingDefaultPatientID:
			settings.DefaultPatientID = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingRemindersEnabled:
			settings.RemindersEnabled = value == "true"
		case constants.SettingReminderOffsetMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.ReminderOffsetMin); err != nil {
				return Settings{}, fmt.Errorf("parsing reminder_offset_min: %w", err)
			}
		case constants.SettingQuietHoursStart:
			settings.QuietHoursStart = value
		case constants.SettingQuietHoursEnd:
			settings.QuietHoursEnd = value
		}
	}

	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingDefaultPatientID:     settings.DefaultPatientID,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%t", settings.NotificationsEnabled),
		constants.SettingRemindersEnabled:     fmt.Sprintf("%t", settings.RemindersEnabled),
		constants.SettingReminderOffsetMin:    fmt.Sprintf("%d", settings.ReminderOffsetMin),
		constants.SettingQuietHoursStart:      settings.QuietHoursStart,
		constants.SettingQuietHoursEnd:        settings.QuietHoursEnd,
	}
}

// DefaultSettings returns the settings a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		DefaultPatientID:     constants.DefaultPatientID,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		RemindersEnabled:     constants.DefaultRemindersEnabled,
		ReminderOffsetMin:    constants.DefaultReminderOffsetMin,
		QuietHoursStart:      constants.DefaultQuietHoursStart,
		QuietHoursEnd:        constants.DefaultQuietHoursEnd,
	}
}
