package subprocess

import (
	"context"
	"fmt"
	"io"

	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// StmtCall is the same per-statement resolver tracer.Run takes; the worker
// forwards it unchanged so it never has to know how a testcase.Statement
// maps onto vm object ids.
type StmtCall func(pos int, s *testcase.Statement, results []tracer.StmtResult) (objectID int, args []any, ok bool)

// RunWorker reads BatchRequests from in and writes one BatchResponse per
// request to out until in is closed, running each case through
// tracer.Run against interp. A panic escaping tracer.Run — the
// "unrecoverable crash in worker" spec.md §7 names under target-is-fatal —
// is caught and reported as BatchResponse.Fatal instead of taking the
// worker process down mid-batch, so the master can restart the batch with
// reduced remaining budget per spec.md §7.
func RunWorker(ctx context.Context, in io.Reader, out io.Writer, interp *vm.Interp, stmtCall StmtCall, limits tracer.Limits) error {
	for {
		var req BatchRequest
		if err := readFrame(in, &req); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("subprocess: worker read: %w", err)
		}
		resp := runBatch(ctx, &req, interp, stmtCall, limits)
		if err := writeFrame(out, resp); err != nil {
			return err
		}
	}
}

func runBatch(ctx context.Context, req *BatchRequest, interp *vm.Interp, stmtCall StmtCall, limits tracer.Limits) *BatchResponse {
	resp := &BatchResponse{Traces: make([]CaseTrace, 0, len(req.Cases))}
	for i, tc := range req.Cases {
		ct := runOneCase(ctx, i, tc, interp, stmtCall, limits)
		resp.Traces = append(resp.Traces, ct)
		if ct.Error != "" && ct.Trace == nil {
			resp.Fatal = ct.Error
			return resp // target-is-fatal: stop the batch, master restarts remainder
		}
	}
	return resp
}

func runOneCase(ctx context.Context, idx int, tc *testcase.Case, interp *vm.Interp, stmtCall StmtCall, limits tracer.Limits) (ct CaseTrace) {
	ct.Index = idx
	defer func() {
		if r := recover(); r != nil {
			ct.Error = fmt.Sprintf("worker panic: %v", r)
			ct.Trace = nil
		}
	}()
	tr, err := tracer.Run(ctx, interp, tc, stmtCall, limits)
	if err != nil {
		ct.Error = err.Error()
		return ct
	}
	ct.Trace = tr
	return ct
}
