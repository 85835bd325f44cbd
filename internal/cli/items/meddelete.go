package items

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

type MedDeleteCmd struct {
	Ref     string `arg:"" help:"Medication name or id."`
	Patient string `help:"Patient to act on (defaults to settings)."`
}

func (c *MedDeleteCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}

	cfg, err := ctx.Engine.GetOrCreateCarePlanConfig(patientID)
	if err != nil {
		return err
	}

	var target *models.MedicationConfig
	for i := range cfg.Medications {
		if cfg.Medications[i].ID == c.Ref || strings.EqualFold(cfg.Medications[i].Name, c.Ref) {
			if target != nil {
				return fmt.Errorf("%q matches more than one medication; use the id", c.Ref)
			}
			target = &cfg.Medications[i]
		}
	}
	if target == nil {
		return fmt.Errorf("no medication matching %q", c.Ref)
	}

	if err := ctx.Engine.RemoveMedication(patientID, target.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("no medication matching %q", c.Ref)
		}
		return err
	}

	fmt.Printf("Removed medication: %s\n", target.Name)
	fmt.Println("  Its history is kept; the regimen item was deactivated, not deleted.")
	return nil
}
