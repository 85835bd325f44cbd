package items

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/validation"
)

type CustomAddCmd struct {
	Name      string `arg:"" help:"Item name, e.g. 'PT exercises'."`
	Patient   string `help:"Patient to act on (defaults to settings)."`
	Frequency string `help:"daily, weekly, every_other_day, or custom." default:"daily"`
	Weekdays  string `help:"Comma-separated weekdays for weekly/custom schedules."`
	Windows   string `help:"Comma-separated windows (morning/midday/evening/night or HH:MM)." default:"morning"`
}

func (c *CustomAddCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}

	schedule, err := buildSchedule(c.Frequency, c.Weekdays, c.Windows)
	if err != nil {
		return err
	}
	if err := validation.ValidateSchedule(schedule, c.Name); err != nil {
		return err
	}

	item := models.CustomItemConfig{Name: c.Name, Schedule: schedule}
	if err := ctx.Engine.AddCustomItem(patientID, item); err != nil {
		return err
	}

	fmt.Printf("Added custom item: %s\n", c.Name)
	fmt.Printf("  Schedule: %s\n", cli.FormatSchedule(schedule))
	return nil
}

type CustomDeleteCmd struct {
	Name    string `arg:"" help:"Custom item name."`
	Patient string `help:"Patient to act on (defaults to settings)."`
}

func (c *CustomDeleteCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}

	if err := ctx.Engine.RemoveCustomItem(patientID, c.Name); err != nil {
		return err
	}

	fmt.Printf("Removed custom item: %s\n", c.Name)
	return nil
}
