// Package tui is the interactive day view: today's instances with keyboard
// completion, the live plan, and recent history.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/engine"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

type sessionState int

const (
	stateToday sessionState = iota
	statePlan
	stateHistory
	stateNoteForm
)

const historyDays = 7

type Model struct {
	store     storage.Provider
	engine    *engine.Engine
	patientID string
	date      string

	state     sessionState
	prevState sessionState
	keys      KeyMap
	help      help.Model

	instances []models.DailyInstance
	plan      models.CarePlan
	entries   []models.LogEntry
	cursor    int

	form     *huh.Form
	noteText string

	errMsg   string
	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, eng *engine.Engine, patientID string) Model {
	m := Model{
		store:     store,
		engine:    eng,
		patientID: patientID,
		state:     stateToday,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	m.refresh()
	return m
}

// refresh re-reads everything the views show. The engine serializes writers,
// so a plain re-read is always consistent.
func (m *Model) refresh() {
	m.errMsg = ""

	settings, err := m.store.GetSettings()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	date, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.date = date

	instances, err := m.engine.DayView(m.patientID, date)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.instances = instances
	if m.cursor >= len(instances) {
		m.cursor = len(instances) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	plan, err := m.engine.GetCarePlan(m.patientID)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.plan = plan

	start, err := utils.DateCutoff(date, historyDays-1)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	entries, err := m.engine.GetLogHistory(m.patientID, start, date)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.entries = entries
}

func (m *Model) selected() *models.DailyInstance {
	if m.cursor < 0 || m.cursor >= len(m.instances) {
		return nil
	}
	return &m.instances[m.cursor]
}

func (m *Model) newNoteForm() *huh.Form {
	m.noteText = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Note").
				Description("Stored with the completion").
				Value(&m.noteText),
		),
	)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == stateToday {
		keys = append(keys, m.keys.Done, m.keys.Skip, m.keys.Undo)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	actions := []key.Binding{m.keys.Done, m.keys.Note, m.keys.Skip, m.keys.Undo, m.keys.Hide}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
