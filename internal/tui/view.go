package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	okStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))
	failStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("  suitegen"))
	b.WriteString(fmt.Sprintf("  iteration %d  coverage %.1f%%  population %d  best-length %d\n\n",
		m.iterations, m.coverage*100, m.population, m.bestLength))

	goals := m.arch.Goals()
	for i, g := range goals {
		pop := m.arch.Population(g)
		hit := len(pop) > 0 && pop[0].H >= 1
		line := fmt.Sprintf("  %s %s", stepIcon(hit), g)
		if len(pop) > 0 {
			line += fmt.Sprintf("  h=%.2f", pop[0].H)
		}
		if i == m.selected {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(goals) == 0 {
		b.WriteString(durationStyle().Render("  no goals recorded yet"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.status {
	case "idle":
		b.WriteString(durationStyle().Render("  waiting to start"))
	case "running":
		b.WriteString(durationStyle().Render(fmt.Sprintf("  %s running — %d/%d goals covered", m.spinner.View(), m.arch.Covered(), m.arch.Total())))
	case "completed":
		b.WriteString(okStyle.Render(fmt.Sprintf("  ✓ done — %d/%d goals covered, mutation score %.2f", m.arch.Covered(), m.arch.Total(), m.mutation)))
		b.WriteString("\n\n")
		b.WriteString(renderMarkdown(buildReport(m)))
	case "failed":
		errMsg := ""
		if m.err != nil {
			errMsg = m.err.Error()
		}
		b.WriteString(failStyle.Render("  ✗ failed: " + errMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(durationStyle().Render(helpLine()))
	return b.String()
}
