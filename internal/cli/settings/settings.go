package settings

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone name, or 'Local'."`
	DefaultPatient       *string `help:"Patient used when commands omit --patient."`
	NotificationsEnabled *bool   `help:"Enable or disable notifications."`
	RemindersEnabled     *bool   `help:"Enable or disable pending-instance reminders."`
	ReminderOffsetMin    *int    `help:"Minutes before a scheduled window to remind."`
	QuietHoursStart      *string `help:"Start of quiet hours (HH:MM)."`
	QuietHoursEnd        *string `help:"End of quiet hours (HH:MM)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Default Patient:       %s\n", settings.DefaultPatientID)
		fmt.Println("\nReminder Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Reminders Enabled:     %v\n", settings.RemindersEnabled)
		fmt.Printf("  Reminder Offset:       %d min\n", settings.ReminderOffsetMin)
		fmt.Printf("  Quiet Hours:           %s – %s\n", settings.QuietHoursStart, settings.QuietHoursEnd)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DefaultPatient != nil {
		settings.DefaultPatientID = *c.DefaultPatient
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.RemindersEnabled != nil {
		settings.RemindersEnabled = *c.RemindersEnabled
		updated = true
	}
	if c.ReminderOffsetMin != nil {
		settings.ReminderOffsetMin = *c.ReminderOffsetMin
		updated = true
	}
	if c.QuietHoursStart != nil {
		if !utils.ValidateTimeFormat(*c.QuietHoursStart) {
			return fmt.Errorf("invalid time format: %s (want HH:MM)", *c.QuietHoursStart)
		}
		settings.QuietHoursStart = *c.QuietHoursStart
		updated = true
	}
	if c.QuietHoursEnd != nil {
		if !utils.ValidateTimeFormat(*c.QuietHoursEnd) {
			return fmt.Errorf("invalid time format: %s (want HH:MM)", *c.QuietHoursEnd)
		}
		settings.QuietHoursEnd = *c.QuietHoursEnd
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
