// Package overrides holds the commands for per-day exceptions: marking an
// item done outside the normal flow or hiding it for the day without
// touching the plan itself.
package overrides

import (
	"fmt"
	"strings"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

// resolveItem matches a plan item by id prefix or case-insensitive name.
func resolveItem(plan models.CarePlan, ref string) (*models.RegimenItem, error) {
	var matches []*models.RegimenItem
	for i := range plan.Items {
		item := &plan.Items[i]
		if strings.HasPrefix(item.ID, ref) || strings.EqualFold(item.Name, ref) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no regimen item matching %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d items; use an id prefix", ref, len(matches))
	}
}

type OverrideDoneCmd struct {
	Ref     string `arg:"" help:"Item name or id prefix."`
	Patient string `help:"Patient to act on (defaults to settings)."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *OverrideDoneCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	plan, err := ctx.Engine.GetCarePlan(patientID)
	if err != nil {
		return err
	}
	item, err := resolveItem(plan, c.Ref)
	if err != nil {
		return err
	}

	if err := ctx.Engine.SetOverride(patientID, date, item.ID, true, false); err != nil {
		return err
	}
	fmt.Printf("✓ %s marked done for %s (override)\n", item.Name, date)
	return nil
}

type OverrideHideCmd struct {
	Ref     string `arg:"" help:"Item name or id prefix."`
	Patient string `help:"Patient to act on (defaults to settings)."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *OverrideHideCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	plan, err := ctx.Engine.GetCarePlan(patientID)
	if err != nil {
		return err
	}
	item, err := resolveItem(plan, c.Ref)
	if err != nil {
		return err
	}

	if err := ctx.Engine.SetOverride(patientID, date, item.ID, false, true); err != nil {
		return err
	}
	fmt.Printf("%s hidden for %s\n", item.Name, date)
	return nil
}

type OverrideClearCmd struct {
	Ref     string `arg:"" help:"Item name or id prefix."`
	Patient string `help:"Patient to act on (defaults to settings)."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *OverrideClearCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	plan, err := ctx.Engine.GetCarePlan(patientID)
	if err != nil {
		return err
	}
	item, err := resolveItem(plan, c.Ref)
	if err != nil {
		return err
	}

	if err := ctx.Engine.RemoveOverride(patientID, date, item.ID); err != nil {
		return err
	}
	fmt.Printf("Override cleared for %s on %s\n", item.Name, date)
	return nil
}

type OverrideListCmd struct {
	Patient string `help:"Patient to show (defaults to settings)."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *OverrideListCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	overrides, err := ctx.Engine.GetOverrides(patientID, date)
	if err != nil {
		return err
	}
	if len(overrides) == 0 {
		fmt.Printf("No overrides for %s.\n", date)
		return nil
	}

	plan, err := ctx.Engine.GetCarePlan(patientID)
	if err != nil {
		return err
	}

	fmt.Printf("Overrides for %s:\n", date)
	for _, o := range overrides {
		name := o.ItemID
		if item := plan.FindItem(o.ItemID); item != nil {
			name = item.Name
		}
		var flags []string
		if o.Done {
			flags = append(flags, "done")
		}
		if o.Suppressed {
			flags = append(flags, "hidden")
		}
		fmt.Printf("  %-24s %s\n", name, strings.Join(flags, ", "))
	}
	return nil
}

type OverrideResetCmd struct {
	Patient string `help:"Patient to act on (defaults to settings)."`
	Date    string `help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *OverrideResetCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	if err := ctx.Engine.ResetDaySuppressions(patientID, date); err != nil {
		return err
	}
	fmt.Printf("Suppressions cleared for %s. Done marks were kept.\n", date)
	return nil
}
