package cli

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

type HistoryCmd struct {
	Patient  string `help:"Patient to show (defaults to settings)."`
	Days     int    `help:"How many days back to show." default:"7"`
	Category string `help:"Only show one category."`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	start, err := utils.DateCutoff(today, c.Days-1)
	if err != nil {
		return err
	}

	entries, err := ctx.Engine.GetLogHistory(patientID, start, today)
	if err != nil {
		return err
	}

	shown := 0
	lastDate := ""
	for _, e := range entries {
		if c.Category != "" && e.Category != constants.Category(c.Category) {
			continue
		}
		if e.Date != lastDate {
			if lastDate != "" {
				fmt.Println()
			}
			fmt.Printf("%s:\n", e.Date)
			lastDate = e.Date
		}
		ts := e.Timestamp
		if len(ts) >= 16 {
			ts = ts[11:16]
		}
		line := fmt.Sprintf("  %s  %s", ts, e.Category)
		if len(e.Outcome) > 0 {
			line += "  " + string(e.Outcome)
		}
		if e.Source == constants.SourceQuickLog {
			line += "  (quick log)"
		}
		fmt.Println(line)
		shown++
	}

	if shown == 0 {
		fmt.Printf("No log entries in the last %d day(s).\n", c.Days)
	}
	return nil
}
