// Package plans holds the read-only commands over care plans and their
// frozen daily snapshots.
package plans

import (
	"fmt"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/cli"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

type PlanShowCmd struct {
	Patient string `help:"Patient to show (defaults to settings)."`
	Date    string `help:"Show the plan as it stood on this date (uses the frozen snapshot)."`
}

func (c *PlanShowCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}

	var plan models.CarePlan
	var label string
	if c.Date != "" {
		date, err := ctx.ResolveDate(c.Date)
		if err != nil {
			return err
		}
		plan, err = ctx.Engine.GetEffectiveCarePlan(patientID, date)
		if err != nil {
			return err
		}
		label = fmt.Sprintf("Care plan for %s as of %s", patientID, date)
	} else {
		plan, err = ctx.Engine.GetCarePlan(patientID)
		if err != nil {
			return err
		}
		label = fmt.Sprintf("Live care plan for %s", patientID)
	}

	fmt.Println(label)
	fmt.Printf("  Plan id: %s\n", plan.ID)
	fmt.Printf("  Updated: %s\n\n", plan.UpdatedAt)

	printPlanItems(plan)
	return nil
}

func printPlanItems(plan models.CarePlan) {
	byCategory := make(map[constants.Category][]models.RegimenItem)
	for _, item := range plan.ActiveItems() {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	empty := true
	for _, cat := range constants.AllCategories {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		empty = false
		fmt.Printf("%s:\n", cat)
		for _, item := range group {
			fmt.Printf("  %-24s %s\n", item.Name, cli.FormatSchedule(item.Schedule))
		}
	}
	if empty {
		fmt.Println("No active regimen items.")
	}
}

type PlanSummaryCmd struct {
	Patient string `help:"Patient to show (defaults to settings)."`
	Days    int    `help:"How many days back to summarize." default:"7"`
}

func (c *PlanSummaryCmd) Run(ctx *cli.Context) error {
	patientID, err := ctx.PatientID(c.Patient)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	instances, err := ctx.Engine.GetDailyInstancesRange(patientID, addDays(today, -(c.Days-1)), today)
	if err != nil {
		return err
	}

	type tally struct{ done, skipped, pending int }
	byDate := make(map[string]*tally)
	var dates []string
	for _, inst := range instances {
		t, ok := byDate[inst.Date]
		if !ok {
			t = &tally{}
			byDate[inst.Date] = t
			dates = append(dates, inst.Date)
		}
		switch inst.Status {
		case constants.InstanceCompleted:
			t.done++
		case constants.InstanceSkipped:
			t.skipped++
		default:
			t.pending++
		}
	}

	if len(dates) == 0 {
		fmt.Printf("No instances in the last %d day(s).\n", c.Days)
		return nil
	}

	fmt.Printf("Last %d day(s) for %s:\n", c.Days, patientID)
	for _, date := range dates {
		t := byDate[date]
		total := t.done + t.skipped + t.pending
		fmt.Printf("  %s  %d/%d done", date, t.done, total)
		if t.skipped > 0 {
			fmt.Printf(", %d skipped", t.skipped)
		}
		fmt.Println()
	}
	return nil
}

func addDays(date string, n int) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat)
}
