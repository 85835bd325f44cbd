package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
)

type LogCmd struct {
	Category string `arg:"" help:"Category to log (medication, vitals, meals, mood, sleep, hydration, custom)."`
	Hint     string `arg:"" optional:"" help:"Medication id or item/meal name to narrow the match."`
	Patient  string `help:"Patient to act on (defaults to settings)."`
	Date     string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
	Note     string `help:"Freeform note stored with the log."`
	Value    string `help:"Structured value as a JSON object, e.g. '{\"systolic\":120,\"diastolic\":80}'."`
}

func (c *LogCmd) Run(ctx *Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	category := constants.Category(c.Category)
	valid := false
	for _, cat := range constants.AllCategories {
		if cat == category {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown category %q", c.Category)
	}

	outcome, err := c.outcome()
	if err != nil {
		return err
	}

	inst, err := ctx.Engine.SyncLogToInstance(patientID, date, category, c.Hint, outcome)
	if err != nil {
		return err
	}

	if inst == nil {
		fmt.Printf("Logged %s for %s (no scheduled instance matched).\n", category, date)
		return nil
	}
	fmt.Printf("✓ %s (%s) recorded\n", inst.Name, inst.ScheduledAt)
	return nil
}

func (c *LogCmd) outcome() (json.RawMessage, error) {
	if c.Value != "" {
		if !json.Valid([]byte(c.Value)) {
			return nil, fmt.Errorf("--value is not valid JSON")
		}
		return json.RawMessage(c.Value), nil
	}
	if c.Note != "" {
		out, _ := json.Marshal(map[string]string{"note": c.Note})
		return out, nil
	}
	return nil, nil
}
