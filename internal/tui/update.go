package tui

import (
	"encoding/json"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.state == stateNoteForm {
			return m.updateNoteForm(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Tab):
			m.state = nextState(m.state)
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.state = prevState(m.state)
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			return m, nil
		}

		if m.state == stateToday {
			return m.updateToday(msg)
		}
		return m, nil
	}

	if m.state == stateNoteForm && m.form != nil {
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		return m, cmd
	}

	return m, nil
}

func nextState(s sessionState) sessionState {
	switch s {
	case stateToday:
		return statePlan
	case statePlan:
		return stateHistory
	default:
		return stateToday
	}
}

func prevState(s sessionState) sessionState {
	switch s {
	case stateToday:
		return stateHistory
	case stateHistory:
		return statePlan
	default:
		return stateToday
	}
}

func (m Model) updateToday(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.instances)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Done):
		m.setStatus(constants.InstanceCompleted, nil)

	case key.Matches(msg, m.keys.Note):
		if m.selected() != nil {
			m.prevState = m.state
			m.state = stateNoteForm
			m.form = m.newNoteForm()
			return m, m.form.Init()
		}

	case key.Matches(msg, m.keys.Skip):
		m.setStatus(constants.InstanceSkipped, nil)

	case key.Matches(msg, m.keys.Undo):
		m.setStatus(constants.InstancePending, nil)

	case key.Matches(msg, m.keys.Hide):
		if inst := m.selected(); inst != nil {
			if err := m.engine.SetOverride(m.patientID, m.date, inst.ItemID, false, true); err != nil {
				m.errMsg = err.Error()
			} else {
				m.refresh()
			}
		}
	}

	return m, nil
}

func (m *Model) setStatus(status constants.InstanceStatus, outcome json.RawMessage) {
	inst := m.selected()
	if inst == nil {
		return
	}
	if _, err := m.engine.SetInstanceStatus(m.patientID, m.date, inst.ID, status, outcome, constants.SourceRecord); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.refresh()
}

func (m Model) updateNoteForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.state = m.prevState
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		var outcome json.RawMessage
		if m.noteText != "" {
			outcome, _ = json.Marshal(map[string]string{"note": m.noteText})
		}
		m.state = m.prevState
		m.form = nil
		m.setStatus(constants.InstanceCompleted, outcome)
	}

	return m, cmd
}
