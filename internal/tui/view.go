package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case stateToday:
		content = docStyle.Render(m.viewToday())
	case statePlan:
		content = docStyle.Render(m.viewPlan())
	case stateHistory:
		content = docStyle.Render(m.viewHistory())
	case stateNoteForm:
		content = m.form.View()
	}

	var banner string
	if m.errMsg != "" {
		banner = errorStyle.Render("⚠ " + m.errMsg)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	titles := []string{"Today", "Plan", "History"}
	for i, title := range titles {
		if m.state == sessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	if len(m.instances) == 0 {
		return fmt.Sprintf("Nothing scheduled for %s.\n\nEnable buckets or add medications to get started.", m.date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n\n", m.date, m.patientID)

	lastCategory := constants.Category("")
	for i, inst := range m.instances {
		if inst.Category != lastCategory {
			if lastCategory != "" {
				b.WriteString("\n")
			}
			b.WriteString(categoryStyle.Render(string(inst.Category)) + "\n")
			lastCategory = inst.Category
		}

		line := fmt.Sprintf("  %s %s  %s", statusGlyph(inst.Status), inst.ScheduledAt, inst.Name)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render("▸" + line[1:])
		case inst.Status == constants.InstanceCompleted:
			line = doneStyle.Render(line)
		case inst.Status == constants.InstanceSkipped:
			line = skippedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

func statusGlyph(status constants.InstanceStatus) string {
	switch status {
	case constants.InstanceCompleted:
		return "✓"
	case constants.InstanceSkipped:
		return "–"
	default:
		return "○"
	}
}

func (m Model) viewPlan() string {
	items := m.plan.ActiveItems()
	if len(items) == 0 {
		return "No active regimen items."
	}

	var b strings.Builder
	lastCategory := constants.Category("")
	for _, cat := range constants.AllCategories {
		for _, item := range items {
			if item.Category != cat {
				continue
			}
			if cat != lastCategory {
				if lastCategory != "" {
					b.WriteString("\n")
				}
				b.WriteString(categoryStyle.Render(string(cat)) + "\n")
				lastCategory = cat
			}
			fmt.Fprintf(&b, "  %-24s %s\n", item.Name, formatSchedule(item.Schedule))
		}
	}
	return b.String()
}

func formatSchedule(s models.Schedule) string {
	var freq string
	switch s.Frequency {
	case constants.FrequencyDaily:
		freq = "daily"
	case constants.FrequencyWeekly, constants.FrequencyCustom:
		var days []string
		for _, wd := range s.Weekdays {
			days = append(days, wd.String()[:3])
		}
		if len(days) > 0 {
			freq = "weekly on " + strings.Join(days, ",")
		} else {
			freq = "weekly"
		}
	case constants.FrequencyEveryOtherDay:
		freq = "every other day"
	default:
		freq = string(s.Frequency)
	}

	if len(s.Windows) == 0 {
		return freq
	}
	var ws []string
	for _, w := range s.Windows {
		ws = append(ws, w.Name)
	}
	return freq + " at " + strings.Join(ws, ",")
}

func (m Model) viewHistory() string {
	if len(m.entries) == 0 {
		return "No log entries in the last week."
	}

	var b strings.Builder
	lastDate := ""
	for _, e := range m.entries {
		if e.Date != lastDate {
			if lastDate != "" {
				b.WriteString("\n")
			}
			b.WriteString(categoryStyle.Render(e.Date) + "\n")
			lastDate = e.Date
		}
		ts := e.Timestamp
		if len(ts) >= 16 {
			ts = ts[11:16]
		}
		fmt.Fprintf(&b, "  %s  %s", ts, e.Category)
		if len(e.Outcome) > 0 {
			fmt.Fprintf(&b, "  %s", string(e.Outcome))
		}
		b.WriteString("\n")
	}
	return b.String()
}
