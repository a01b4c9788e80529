// Package tui implements the optional live dashboard rendering
// population/archive/coverage state during a run (spec.md §2 `[FULL]`
// "tui — optional live dashboard"). Modeled on the teacher's
// pkg/ecosystem/tui: a channel-fed Bubble Tea model where a background
// goroutine (here, the GA loop via progress.Bus) pushes events and the
// model just accumulates/renders them, rather than the fuller
// pkg/tui's multi-panel JSON-RPC client (no live subprocess to talk to
// here — the GA loop runs in the same process as the TUI).
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/progress"
)

// iterationMsg delivers one GA iteration event to the TUI.
type iterationMsg struct{ event progress.IterationEvent }

// runCompleteMsg signals the run finished, carrying the final mutation
// score for the end-of-run report.
type runCompleteMsg struct {
	MutationScore float64
	Err           error
}

// Model is the Bubble Tea model for the live run dashboard.
type Model struct {
	arch *archive.MIOArchive

	selected   int
	iterations int
	coverage   float64
	population int
	bestLength int
	status     string // "running", "completed", "failed"
	err        error
	mutation   float64

	eventCh chan tea.Msg
	width   int
	height  int

	spinner spinner.Model
}

// NewModel creates a dashboard model over arch, which the GA loop
// mutates concurrently with the TUI reading it between frames —
// MIOArchive's own accessors are the only contract the model relies on,
// it never reaches into unexported state.
func NewModel(arch *archive.MIOArchive) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		arch:    arch,
		status:  "idle",
		eventCh: make(chan tea.Msg, 200),
		spinner: sp,
	}
}

// Observer returns a progress.Observer that feeds this model's event
// channel, for the caller to register on the same progress.Bus the GA
// loop publishes to.
func (m Model) Observer() progress.Observer {
	return progress.ObserverFunc(func(e progress.IterationEvent) {
		m.eventCh <- iterationMsg{event: e}
	})
}

// Complete signals run completion with the final mutation score,
// for the caller to invoke once the GA loop and assertion generator
// have both finished.
func (m Model) Complete(mutationScore float64, err error) {
	m.eventCh <- runCompleteMsg{MutationScore: mutationScore, Err: err}
}

// Run starts the Bubble Tea program over m, blocking until the user
// quits or the run completes and the user dismisses the report.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func waitForEvent(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.status = "running"
	return tea.Batch(waitForEvent(m.eventCh), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, keys.Down):
			if m.selected < m.arch.Total()-1 {
				m.selected++
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case iterationMsg:
		m.iterations = msg.event.Iteration
		m.coverage = msg.event.Coverage
		m.population = msg.event.Population
		m.bestLength = msg.event.BestLength
		m.status = "running"
		return m, waitForEvent(m.eventCh)

	case runCompleteMsg:
		m.mutation = msg.MutationScore
		m.err = msg.Err
		if msg.Err != nil {
			m.status = "failed"
		} else {
			m.status = "completed"
		}
		return m, nil
	}
	return m, nil
}

func stepIcon(coverageHit bool) string {
	if coverageHit {
		return "✓"
	}
	return "○"
}

func durationStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
}
