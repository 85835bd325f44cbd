package models

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`               // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	DefaultPatientID     string `json:"default_patient_id"`     // patient used when commands omit --patient
	NotificationsEnabled bool   `json:"notifications_enabled"`  // master switch for the notification scheduling guard
	RemindersEnabled     bool   `json:"reminders_enabled"`      // whether pending-instance reminders are scheduled
	ReminderOffsetMin    int    `json:"reminder_offset_min"`    // minutes before a scheduled window to remind
	QuietHoursStart      string `json:"quiet_hours_start"`      // HH:MM, no reminders scheduled after this time
	QuietHoursEnd        string `json:"quiet_hours_end"`        // HH:MM, no reminders scheduled before this time
}
