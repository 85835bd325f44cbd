package items

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/validation"
)

type MedAddCmd struct {
	Name         string `arg:"" help:"Medication name."`
	Patient      string `help:"Patient to act on (defaults to settings)."`
	Dose         string `help:"Dose, e.g. '10mg'."`
	Instructions string `help:"Free-text instructions, e.g. 'with food'."`
	Frequency    string `help:"daily, weekly, every_other_day, or custom." default:"daily"`
	Weekdays     string `help:"Comma-separated weekdays for weekly/custom schedules."`
	Windows      string `help:"Comma-separated windows (morning/midday/evening/night or HH:MM)." default:"morning"`
}

func (c *MedAddCmd) Run(ctx *cli.Context) error {
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

	med := models.MedicationConfig{
		Name:         c.Name,
		Dose:         c.Dose,
		Instructions: c.Instructions,
		Schedule:     schedule,
	}
	id, err := ctx.Engine.AddMedication(patientID, med)
	if err != nil {
		return err
	}

	fmt.Printf("Added medication: %s (%s)\n", c.Name, id)
	fmt.Printf("  Schedule: %s\n", cli.FormatSchedule(schedule))
	return nil
}

func buildSchedule(frequency, weekdays, windows string) (models.Schedule, error) {
	schedule := models.Schedule{Frequency: constants.Frequency(frequency)}

	if weekdays != "" {
		wds, err := cli.ParseWeekdays(weekdays)
		if err != nil {
			return models.Schedule{}, err
		}
		schedule.Weekdays = wds
	}
	if windows != "" {
		ws, err := cli.ParseWindows(windows)
		if err != nil {
			return models.Schedule{}, err
		}
		schedule.Windows = ws
	}
	return schedule, nil
}
