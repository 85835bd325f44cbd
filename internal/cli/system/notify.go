package system

import (
	"fmt"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/notifier"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

type NotifyCmd struct {
	Patient string `help:"Patient to check (defaults to settings)."`
	DryRun  bool   `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}

	now, err := utils.NowInTimezone(settings.Timezone)
	if err != nil {
		now = time.Now()
	}
	date := now.Format("2006-01-02")
	currentMinutes := now.Hour()*60 + now.Minute()

	instances, err := ctx.Engine.DayView(patientID, date)
	if err != nil {
		return err
	}

	due := notifier.DueInstances(instances, currentMinutes, settings.ReminderOffsetMin)
	if !notifier.ShouldRemind(settings, currentMinutes, due) {
		if c.DryRun {
			switch {
			case !settings.NotificationsEnabled || !settings.RemindersEnabled:
				fmt.Println("Reminders are disabled in settings.")
			case notifier.InQuietHours(settings, currentMinutes):
				fmt.Println("Inside quiet hours; no reminders.")
			default:
				fmt.Println("Nothing due.")
			}
		}
		return nil
	}

	n := notifier.New()
	for _, inst := range due {
		msg := fmt.Sprintf("Due: %s (%s)", inst.Name, inst.ScheduledAt)
		if c.DryRun {
			fmt.Println("[DryRun] " + msg)
			continue
		}
		if err := n.Notify(msg); err != nil {
			// Keep checking the rest of the day's instances
			fmt.Printf("Failed to send notification: %v\n", err)
		}
	}

	return nil
}
