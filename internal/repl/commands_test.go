package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

func abCase() *testcase.Case {
	c := testcase.New()
	lit := c.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: -3})
	c.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Callable: "abs", Args: []testcase.Ref{lit}})
	c.Assertions = append(c.Assertions, testcase.Assertion{StmtPos: 1, Kind: "equals", Payload: 3})
	return c
}

func TestHandleHelp_ListsAllCommands(t *testing.T) {
	var buf bytes.Buffer
	in := &Inspector{output: &buf}
	in.handleHelp()
	out := buf.String()
	for _, cmd := range []string{"cases", "case", "goals", "goal", "assertions", "help", "quit"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help output missing command %q", cmd)
		}
	}
}

func TestHandleCases_ListsStatementAndAssertionCounts(t *testing.T) {
	var buf bytes.Buffer
	in := &Inspector{output: &buf, suite: testcase.NewSuite(abCase())}
	in.handleCases()
	out := buf.String()
	if !strings.Contains(out, "2 statements") || !strings.Contains(out, "1 assertions") {
		t.Errorf("want statement/assertion counts, got %q", out)
	}
}

func TestHandleCase_RendersCaseSource(t *testing.T) {
	var buf bytes.Buffer
	in := &Inspector{output: &buf, suite: testcase.NewSuite(abCase())}
	in.handleCase([]string{"case", "0"})
	out := buf.String()
	if !strings.Contains(out, "func case0()") {
		t.Errorf("want rendered case source, got %q", out)
	}
}

func TestHandleCase_RejectsOutOfRangeIndex(t *testing.T) {
	var buf bytes.Buffer
	in := &Inspector{output: &buf, suite: testcase.NewSuite(abCase())}
	in.handleCase([]string{"case", "5"})
	if !strings.Contains(buf.String(), "No such case") {
		t.Errorf("want an out-of-range error, got %q", buf.String())
	}
}

func TestHandleGoals_ReportsCoveredOverTotal(t *testing.T) {
	var buf bytes.Buffer
	arch := archive.NewMIOArchive()
	arch.Record("g1", abCase(), 1.0)
	in := &Inspector{output: &buf, arch: arch}
	in.handleGoals()
	if !strings.Contains(buf.String(), "covered 1/1") {
		t.Errorf("want covered ratio, got %q", buf.String())
	}
}

func TestHandleAssertions_ListsCaseAssertions(t *testing.T) {
	var buf bytes.Buffer
	in := &Inspector{output: &buf, suite: testcase.NewSuite(abCase())}
	in.handleAssertions([]string{"assertions", "0"})
	if !strings.Contains(buf.String(), "equals") {
		t.Errorf("want the case's assertion listed, got %q", buf.String())
	}
}
