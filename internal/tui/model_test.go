package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/progress"
)

func TestNewModel_StartsIdle(t *testing.T) {
	m := NewModel(archive.NewMIOArchive())
	if m.status != "idle" {
		t.Errorf("want idle status, got %q", m.status)
	}
}

func TestObserver_DeliversIterationEvent(t *testing.T) {
	m := NewModel(archive.NewMIOArchive())
	obs := m.Observer()
	obs.OnIteration(progress.IterationEvent{Iteration: 3, Coverage: 0.5})

	msg := <-m.eventCh
	ev, ok := msg.(iterationMsg)
	if !ok || ev.event.Iteration != 3 {
		t.Fatalf("want iterationMsg{Iteration: 3}, got %#v", msg)
	}
}

func TestComplete_DeliversRunCompleteMsg(t *testing.T) {
	m := NewModel(archive.NewMIOArchive())
	m.Complete(0.75, nil)

	msg := <-m.eventCh
	rc, ok := msg.(runCompleteMsg)
	if !ok || rc.MutationScore != 0.75 {
		t.Fatalf("want runCompleteMsg{MutationScore: 0.75}, got %#v", msg)
	}
}

func TestUpdate_IterationMsgUpdatesFields(t *testing.T) {
	m := NewModel(archive.NewMIOArchive())
	next, _ := m.Update(iterationMsg{event: progress.IterationEvent{
		Iteration: 5, Coverage: 0.4, Population: 10, BestLength: 3,
	}})
	nm := next.(Model)
	if nm.iterations != 5 || nm.population != 10 || nm.bestLength != 3 || nm.status != "running" {
		t.Errorf("iteration fields not applied: %+v", nm)
	}
}

func TestUpdate_RunCompleteMsgSetsCompletedStatus(t *testing.T) {
	m := NewModel(archive.NewMIOArchive())
	next, cmd := m.Update(runCompleteMsg{MutationScore: 0.9})
	nm := next.(Model)
	if nm.status != "completed" || nm.mutation != 0.9 {
		t.Errorf("want completed status with mutation 0.9, got %+v", nm)
	}
	if cmd != nil {
		t.Errorf("want nil cmd on completion, got non-nil")
	}
}

func TestUpdate_RunCompleteMsgSetsFailedStatusOnError(t *testing.T) {
	m := NewModel(archive.NewMIOArchive())
	next, _ := m.Update(runCompleteMsg{Err: errors.New("boom")})
	nm := next.(Model)
	if nm.status != "failed" || nm.err == nil {
		t.Errorf("want failed status with error set, got %+v", nm)
	}
}

func TestUpdate_QuitKeyReturnsQuitCmd(t *testing.T) {
	m := NewModel(archive.NewMIOArchive())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("want a quit command for 'q'")
	}
}

func TestUpdate_NavigationClampedToArchiveBounds(t *testing.T) {
	arch := archive.NewMIOArchive()
	arch.Record("g1", nil, 0)
	arch.Record("g2", nil, 0)
	m := NewModel(arch)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	nm := next.(Model)
	if nm.selected != 1 {
		t.Errorf("want selected=1 after one down, got %d", nm.selected)
	}

	next, _ = nm.Update(tea.KeyMsg{Type: tea.KeyDown})
	nm = next.(Model)
	if nm.selected != 1 {
		t.Errorf("want selected clamped at 1 (len-1), got %d", nm.selected)
	}

	next, _ = nm.Update(tea.KeyMsg{Type: tea.KeyUp})
	nm = next.(Model)
	if nm.selected != 0 {
		t.Errorf("want selected=0 after one up, got %d", nm.selected)
	}
}
