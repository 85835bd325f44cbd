package constants

const (
	// General Settings
	SettingTimezone             = "timezone"
	SettingDefaultPatientID     = "default_patient_id"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingRemindersEnabled     = "reminders_enabled"
	SettingReminderOffsetMin    = "reminder_offset_min"
	SettingQuietHoursStart      = "quiet_hours_start"
	SettingQuietHoursEnd        = "quiet_hours_end"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultPatientID            = "self"
	DefaultNotificationsEnabled = true
	DefaultRemindersEnabled     = true
	DefaultReminderOffsetMin    = 5
	DefaultQuietHoursStart      = "22:00"
	DefaultQuietHoursEnd        = "07:00"
)
