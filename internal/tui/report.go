package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// renderer is a package-level glamour renderer for the end-of-run report.
var renderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err == nil {
		renderer = r
	}
}

// renderMarkdown converts a markdown string to styled terminal output,
// falling back to the raw input if glamour is unavailable or rendering fails.
func renderMarkdown(md string) string {
	if renderer == nil || strings.TrimSpace(md) == "" {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// buildReport composes the end-of-run summary shown once a run finishes.
func buildReport(m Model) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# run summary\n\n")
	fmt.Fprintf(&b, "- iterations: %d\n", m.iterations)
	fmt.Fprintf(&b, "- goals covered: %d/%d\n", m.arch.Covered(), m.arch.Total())
	fmt.Fprintf(&b, "- mutation score: %.2f\n", m.mutation)
	fmt.Fprintf(&b, "- best case length: %d\n", m.bestLength)

	b.WriteString("\n## goals\n\n")
	for _, g := range m.arch.Goals() {
		pop := m.arch.Population(g)
		if len(pop) == 0 {
			fmt.Fprintf(&b, "- `%s`: uncovered\n", g)
			continue
		}
		status := "uncovered"
		if pop[0].H >= 1 {
			status = "covered"
		}
		fmt.Fprintf(&b, "- `%s`: %s (h=%.2f)\n", g, status, pop[0].H)
	}
	return b.String()
}
