package repl

import (
	"fmt"
	"strconv"

	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/unparser"
)

// handleCases lists every case in the suite with its statement count and
// assertion count.
func (in *Inspector) handleCases() {
	if len(in.suite.Cases) == 0 {
		fmt.Fprintln(in.output, "Suite is empty.")
		return
	}
	for i, c := range in.suite.Cases {
		fmt.Fprintf(in.output, "  [%d] %d statements, %d assertions\n", i, c.Len(), len(c.Assertions))
	}
}

// handleCase prints one case rendered as source text via the unparser.
func (in *Inspector) handleCase(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(in.output, "Usage: case <index>")
		return
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 || idx >= len(in.suite.Cases) {
		fmt.Fprintf(in.output, "No such case: %q\n", parts[1])
		return
	}
	single := testcase.NewSuite(in.suite.Cases[idx])
	fmt.Fprint(in.output, unparser.Render(single))
}

// handleGoals lists every archive goal with its best candidate's h-value.
func (in *Inspector) handleGoals() {
	goals := in.arch.Goals()
	if len(goals) == 0 {
		fmt.Fprintln(in.output, "No goals recorded.")
		return
	}
	for _, g := range goals {
		pop := in.arch.Population(g)
		if len(pop) == 0 {
			fmt.Fprintf(in.output, "  %s: no population\n", g)
			continue
		}
		fmt.Fprintf(in.output, "  %s: best h=%.3f, %d stored\n", g, pop[0].H, len(pop))
	}
	fmt.Fprintf(in.output, "covered %d/%d\n", in.arch.Covered(), in.arch.Total())
}

// handleGoal prints one goal's full stored population.
func (in *Inspector) handleGoal(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(in.output, "Usage: goal <goal_id>")
		return
	}
	pop := in.arch.Population(parts[1])
	if len(pop) == 0 {
		fmt.Fprintf(in.output, "No population for goal %q\n", parts[1])
		return
	}
	for i, ind := range pop {
		fmt.Fprintf(in.output, "  [%d] h=%.3f samples=%d length=%d\n", i, ind.H, ind.Samples, ind.Case.Len())
	}
}

// handleAssertions lists one case's assertions.
func (in *Inspector) handleAssertions(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(in.output, "Usage: assertions <case index>")
		return
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 || idx >= len(in.suite.Cases) {
		fmt.Fprintf(in.output, "No such case: %q\n", parts[1])
		return
	}
	c := in.suite.Cases[idx]
	if len(c.Assertions) == 0 {
		fmt.Fprintln(in.output, "No assertions recorded.")
		return
	}
	for _, a := range c.Assertions {
		fmt.Fprintf(in.output, "  stmt %d: %s %v\n", a.StmtPos, a.Kind, a.Payload)
	}
}

// handleHelp lists available commands.
func (in *Inspector) handleHelp() {
	fmt.Fprintln(in.output, "Available commands:")
	fmt.Fprintln(in.output, "  cases                List every case with statement/assertion counts")
	fmt.Fprintln(in.output, "  case <n>             Render case n as source text")
	fmt.Fprintln(in.output, "  goals                List archive goals with best h-value")
	fmt.Fprintln(in.output, "  goal <goal_id>       Show one goal's stored population")
	fmt.Fprintln(in.output, "  assertions <n>       List case n's assertions")
	fmt.Fprintln(in.output, "  help (?)             Show this help")
	fmt.Fprintln(in.output, "  quit (q)             Exit the inspector")
}
