package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

// resolveInstance finds one instance for the date by id prefix or
// case-insensitive name. Ambiguous matches are an error rather than a guess.
func resolveInstance(ctx *Context, patientID, date, ref string) (*models.DailyInstance, error) {
	instances, err := ctx.Engine.DayView(patientID, date)
	if err != nil {
		return nil, err
	}

	var matches []models.DailyInstance
	for _, inst := range instances {
		if strings.HasPrefix(inst.ID, ref) || strings.EqualFold(inst.Name, ref) {
			matches = append(matches, inst)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no instance matching %q on %s", ref, date)
	case 1:
		return &matches[0], nil
	default:
		// Prefer the earliest still-pending one, mirroring log routing.
		for i := range matches {
			if matches[i].Status == constants.InstancePending {
				return &matches[i], nil
			}
		}
		return nil, fmt.Errorf("%q matches %d instances on %s; use an id prefix", ref, len(matches), date)
	}
}

type DoneCmd struct {
	Ref     string `arg:"" help:"Instance name or id prefix."`
	Patient string `help:"Patient to act on (defaults to settings)."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
	Note    string `help:"Freeform note stored with the completion."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	inst, err := resolveInstance(ctx, patientID, date, c.Ref)
	if err != nil {
		return err
	}

	var outcome json.RawMessage
	if c.Note != "" {
		outcome, _ = json.Marshal(map[string]string{"note": c.Note})
	}
	updated, err := ctx.Engine.SetInstanceStatus(patientID, date, inst.ID, constants.InstanceCompleted, outcome, constants.SourceRecord)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s (%s) marked done\n", updated.Name, updated.ScheduledAt)
	return nil
}

type SkipCmd struct {
	Ref     string `arg:"" help:"Instance name or id prefix."`
	Patient string `help:"Patient to act on (defaults to settings)."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *SkipCmd) Run(ctx *Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	inst, err := resolveInstance(ctx, patientID, date, c.Ref)
	if err != nil {
		return err
	}

	updated, err := ctx.Engine.SetInstanceStatus(patientID, date, inst.ID, constants.InstanceSkipped, nil, constants.SourceRecord)
	if err != nil {
		return err
	}

	fmt.Printf("– %s (%s) skipped\n", updated.Name, updated.ScheduledAt)
	return nil
}

type UndoCmd struct {
	Ref     string `arg:"" help:"Instance name or id prefix."`
	Patient string `help:"Patient to act on (defaults to settings)."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *UndoCmd) Run(ctx *Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	inst, err := resolveInstance(ctx, patientID, date, c.Ref)
	if err != nil {
		return err
	}

	updated, err := ctx.Engine.SetInstanceStatus(patientID, date, inst.ID, constants.InstancePending, nil, constants.SourceRecord)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s) is pending again\n", updated.Name, updated.ScheduledAt)
	return nil
}
