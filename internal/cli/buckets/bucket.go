// Package buckets holds the commands that toggle trackable care categories
// on and off. A toggle reconciles the plan immediately: enabling re-creates
// or reactivates the category's items, disabling deactivates them in place.
package buckets

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
)

func parseCategory(s string) (constants.Category, error) {
	for _, cat := range constants.AllCategories {
		if string(cat) == s {
			return cat, nil
		}
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

type BucketListCmd struct {
	Patient string `help:"Patient to show (defaults to settings)."`
}

func (c *BucketListCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}

	cfg, err := ctx.Engine.GetOrCreateCarePlanConfig(patientID)
	if err != nil {
		return err
	}

	fmt.Printf("Buckets for %s:\n", patientID)
	for _, cat := range constants.AllCategories {
		if cat == constants.CategoryAppointment {
			continue
		}
		marker := " "
		if cfg.Category(cat).Enabled {
			marker = "✓"
		}
		fmt.Printf("  [%s] %s\n", marker, cat)
	}
	return nil
}

type BucketEnableCmd struct {
	Bucket  string `arg:"" help:"Bucket to enable (medication, vitals, meals, mood, sleep, hydration, custom)."`
	Patient string `help:"Patient to act on (defaults to settings)."`
}

func (c *BucketEnableCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	cat, err := parseCategory(c.Bucket)
	if err != nil {
		return err
	}

	if err := ctx.Engine.SetCategoryEnabled(patientID, cat, true); err != nil {
		return err
	}
	fmt.Printf("Enabled %s tracking.\n", cat)
	return nil
}

type BucketDisableCmd struct {
	Bucket  string `arg:"" help:"Bucket to disable."`
	Patient string `help:"Patient to act on (defaults to settings)."`
}

func (c *BucketDisableCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	cat, err := parseCategory(c.Bucket)
	if err != nil {
		return err
	}

	if err := ctx.Engine.SetCategoryEnabled(patientID, cat, false); err != nil {
		return err
	}
	fmt.Printf("Disabled %s tracking. Existing history is kept.\n", cat)
	return nil
}
