// Package unparser renders a frozen testcase.Suite as source text in the
// toy host language package langfe compiles (spec.md §1: "the unparser is
// an external collaborator" — this is only suitegen's Go-side half of that
// contract, a minimal literal/call printer, not a full pretty-printer with
// line-wrapping or import management).
package unparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// Render converts suite to one source-text blob: one function per case,
// named caseN, each containing one statement-per-line in declaration
// order plus a trailing comment block of its assertions. Variable names
// follow the arena position (v0, v1, ...) since testcase.Ref is already a
// positional index.
func Render(suite *testcase.Suite) string {
	var b strings.Builder
	for i, c := range suite.Cases {
		renderCase(&b, i, c)
		b.WriteString("\n")
	}
	return b.String()
}

func renderCase(b *strings.Builder, idx int, c *testcase.Case) {
	fmt.Fprintf(b, "func case%d() {\n", idx)
	for pos, s := range c.Stmts {
		line := renderStatement(pos, s)
		if s.Produces() {
			fmt.Fprintf(b, "    v%d = %s\n", pos, line)
		} else {
			fmt.Fprintf(b, "    %s\n", line)
		}
	}
	for _, a := range c.Assertions {
		fmt.Fprintf(b, "    # assert %s v%d %v\n", a.Kind, a.StmtPos, a.Payload)
	}
	b.WriteString("}\n")
}

func renderStatement(pos int, s *testcase.Statement) string {
	switch s.Kind {
	case testcase.KPrimitive:
		return renderLiteral(s.Literal)
	case testcase.KCollection:
		return "[" + joinRefs(s.Elems) + "]"
	case testcase.KConstructor, testcase.KFunctionCall:
		return s.Callable + "(" + renderArgs(s) + ")"
	case testcase.KMethodCall:
		return fmt.Sprintf("v%d.%s(%s)", s.Receiver, s.Callable, renderArgs(s))
	case testcase.KFieldRead:
		return fmt.Sprintf("v%d.%s", s.Receiver, s.Field)
	case testcase.KFieldWrite:
		return fmt.Sprintf("v%d.%s = v%d", s.Receiver, s.Field, s.From)
	case testcase.KAssign:
		return fmt.Sprintf("v%d", s.From)
	default:
		return fmt.Sprintf("# unrenderable statement kind %d at %d", s.Kind, pos)
	}
}

func renderArgs(s *testcase.Statement) string {
	parts := make([]string, 0, len(s.Args)+len(s.Named))
	for _, r := range s.Args {
		parts = append(parts, refName(r))
	}
	for name, r := range s.Named {
		parts = append(parts, name+"="+refName(r))
	}
	return strings.Join(parts, ", ")
}

func joinRefs(refs []testcase.Ref) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = refName(r)
	}
	return strings.Join(parts, ", ")
}

func refName(r testcase.Ref) string {
	if r == testcase.NoRef {
		return "none"
	}
	return fmt.Sprintf("v%d", r)
}

func renderLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "none"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// WriteFile renders suite and writes it to path, creating parent
// directories as needed — the same MkdirAll-then-WriteFile sequencing the
// teacher's compiler.WriteRunbook uses for its generated-file output.
func WriteFile(suite *testcase.Suite, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unparser: create directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(Render(suite)), 0o644)
}
