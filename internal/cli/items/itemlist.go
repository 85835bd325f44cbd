package items

import (
	"fmt"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

type ItemListCmd struct {
	Patient  string `help:"Patient to show (defaults to settings)."`
	Inactive bool   `help:"Include deactivated items."`
}

func (c *ItemListCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}

	plan, err := ctx.Engine.GetCarePlan(patientID)
	if err != nil {
		return err
	}

	byCategory := make(map[constants.Category][]models.RegimenItem)
	for _, item := range plan.Items {
		if !item.Active && !c.Inactive {
			continue
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	shown := 0
	for _, cat := range constants.AllCategories {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		fmt.Printf("%s:\n", cat)
		for _, item := range group {
			marker := " "
			if !item.Active {
				marker = "x"
			}
			fmt.Printf("  [%s] %-24s %s", marker, item.Name, cli.FormatSchedule(item.Schedule))
			if item.Dose != "" {
				fmt.Printf("  (%s)", item.Dose)
			}
			fmt.Println()
			shown++
		}
		fmt.Println()
	}

	if shown == 0 {
		fmt.Println("No regimen items. Enable buckets or add medications to get started.")
	}
	return nil
}
