package cli

import (
	"fmt"
	"sort"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

type TodayCmd struct {
	Patient string `help:"Patient to show (defaults to settings)."`
	Date    string `help:"Date to show (YYYY-MM-DD, today, yesterday)." default:"today"`
	All     bool   `help:"Include completed and skipped instances."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	instances, err := ctx.Engine.DayView(patientID, date)
	if err != nil {
		return err
	}

	if len(instances) == 0 {
		fmt.Printf("Nothing scheduled for %s.\n", date)
		return nil
	}

	fmt.Printf("Care plan for %s (%s):\n\n", date, patientID)
	printInstances(instances, c.All)
	return nil
}

func printInstances(instances []models.DailyInstance, includeDone bool) {
	byCategory := make(map[constants.Category][]models.DailyInstance)
	for _, inst := range instances {
		if !includeDone && inst.Status != constants.InstancePending {
			continue
		}
		byCategory[inst.Category] = append(byCategory[inst.Category], inst)
	}

	n := 1
	for _, cat := range constants.AllCategories {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].ScheduledAt != group[j].ScheduledAt {
				return group[i].ScheduledAt < group[j].ScheduledAt
			}
			return group[i].Name < group[j].Name
		})
		fmt.Printf("%s:\n", cat)
		for _, inst := range group {
			fmt.Printf("  %2d. [%s] %s  %s\n", n, StatusGlyph(inst.Status), inst.ScheduledAt, inst.Name)
			n++
		}
		fmt.Println()
	}
}
