package unparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ormasoftchile/suitegen/internal/testcase"
)

func buildCase() *testcase.Case {
	c := testcase.New()
	c.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: -3})
	c.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Callable: "abs", Args: []testcase.Ref{0}})
	c.Assertions = append(c.Assertions, testcase.Assertion{StmtPos: 1, Kind: "equals", Payload: 3})
	return c
}

func TestRender_EmitsOneFunctionPerCase(t *testing.T) {
	suite := testcase.NewSuite(buildCase())
	out := Render(suite)

	if !strings.Contains(out, "func case0() {") {
		t.Errorf("want a case0 function, got:\n%s", out)
	}
	if !strings.Contains(out, "v0 = -3") {
		t.Errorf("want literal statement rendered, got:\n%s", out)
	}
	if !strings.Contains(out, "v1 = abs(v0)") {
		t.Errorf("want call statement rendered, got:\n%s", out)
	}
	if !strings.Contains(out, "# assert equals v1 3") {
		t.Errorf("want assertion comment, got:\n%s", out)
	}
}

func TestWriteFile_CreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "suite.case")

	suite := testcase.NewSuite(buildCase())
	if err := WriteFile(suite, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "func case0()") {
		t.Errorf("want rendered suite written to file, got:\n%s", data)
	}
}

func TestRenderLiteral_QuotesStrings(t *testing.T) {
	c := testcase.New()
	c.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: "hi"})
	out := Render(testcase.NewSuite(c))
	if !strings.Contains(out, `v0 = "hi"`) {
		t.Errorf("want quoted string literal, got:\n%s", out)
	}
}
