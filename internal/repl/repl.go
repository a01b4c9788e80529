// Package repl implements the optional post-run interactive inspector
// over a run's final archive and suite (spec.md §2 `[FULL]` "repl —
// optional post-run interactive inspector over the final archive and
// suite"). Modeled on the teacher's pkg/debugger: a readline-backed
// command loop with a small fixed verb set and one handleXxx method per
// verb, retargeted from stepping a live runbook execution to browsing a
// finished search run.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// Inspector is the post-run REPL's state: the final suite and archive,
// neither of which it mutates.
type Inspector struct {
	suite  *testcase.Suite
	arch   *archive.MIOArchive
	output io.Writer
	rl     *readline.Instance
}

// New creates an inspector over suite and arch, writing to os.Stdout.
func New(suite *testcase.Suite, arch *archive.MIOArchive) *Inspector {
	return &Inspector{suite: suite, arch: arch, output: os.Stdout}
}

// Run starts the interactive REPL loop, reading commands until the user
// quits or sends EOF/interrupt.
func (in *Inspector) Run() error {
	commands := []string{"cases", "case", "goals", "goal", "assertions", "help", "quit"}
	completer := readline.NewPrefixCompleter()
	for _, cmd := range commands {
		completer.Children = append(completer.Children, readline.PcItem(cmd))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "suitegen> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("repl: init readline: %w", err)
	}
	in.rl = rl
	defer rl.Close()

	fmt.Fprintf(in.output, "suitegen inspector -- %d cases, %d archive goals\n", len(in.suite.Cases), in.arch.Total())
	fmt.Fprintf(in.output, "Type 'help' for available commands, 'quit' to exit.\n\n")

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		switch parts[0] {
		case "cases":
			in.handleCases()
		case "case":
			in.handleCase(parts)
		case "goals":
			in.handleGoals()
		case "goal":
			in.handleGoal(parts)
		case "assertions":
			in.handleAssertions(parts)
		case "help", "?":
			in.handleHelp()
		case "quit", "q":
			fmt.Fprintln(in.output, "Exiting inspector.")
			return nil
		default:
			fmt.Fprintf(in.output, "Unknown command: %q. Type 'help' for available commands.\n", parts[0])
		}
	}
}
