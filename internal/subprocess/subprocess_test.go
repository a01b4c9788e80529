package subprocess

import (
	"context"
	"io"
	"testing"

	"github.com/ormasoftchile/suitegen/internal/langfe"
	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

const absSrc = `
func abs(a) {
	if a < 0 {
		return 0 - a
	}
	return a
}
`

func buildAbs(t *testing.T) *vm.Module {
	t.Helper()
	prog, err := langfe.Parse(absSrc)
	if err != nil {
		t.Fatal(err)
	}
	mod, err := langfe.Compile(prog, "target")
	if err != nil {
		t.Fatal(err)
	}
	return mod
}

func absCase(arg int) *testcase.Case {
	tc := testcase.New()
	lit := tc.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: arg})
	tc.Append(&testcase.Statement{Kind: testcase.KFunctionCall, Callable: "abs", Args: []testcase.Ref{lit}})
	return tc
}

// pipePair wires a writer-to-reader pipe in each direction so RunWorker can
// be driven in-process, without exec'ing a real second binary.
func pipePair() (masterR *io.PipeReader, masterW *io.PipeWriter, workerR *io.PipeReader, workerW *io.PipeWriter) {
	masterR, workerW = io.Pipe()
	workerR, masterW = io.Pipe()
	return
}

func TestRunWorker_RoundTripsOneBatch(t *testing.T) {
	mod := buildAbs(t)
	interp := &vm.Interp{Mod: mod}
	stmtCall := tracer.ResolveStmtCall(mod)

	masterR, masterW, workerR, workerW := pipePair()
	done := make(chan error, 1)
	go func() {
		done <- RunWorker(context.Background(), workerR, workerW, interp, stmtCall, tracer.Limits{})
	}()

	req := BatchRequest{Cases: []*testcase.Case{absCase(-4), absCase(7)}}
	if err := writeFrame(masterW, req); err != nil {
		t.Fatal(err)
	}

	var resp BatchResponse
	if err := readFrame(masterR, &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Traces) != 2 {
		t.Fatalf("want 2 case traces, got %d", len(resp.Traces))
	}
	for _, ct := range resp.Traces {
		if ct.Error != "" {
			t.Errorf("case %d: unexpected error %q", ct.Index, ct.Error)
		}
		if ct.Trace == nil {
			t.Fatalf("case %d: want a trace, got nil", ct.Index)
		}
	}
	if got := resp.Traces[0].Trace.Results[1].Value; got != float64(4) {
		t.Errorf("abs(-4): want 4, got %v", got)
	}

	masterW.Close()
	if err := <-done; err != nil {
		t.Errorf("RunWorker: %v", err)
	}
}
