package subprocess

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/ormasoftchile/suitegen/internal/testcase"
)

// Worker manages one worker subprocess: a second copy of the suitegen
// binary invoked with -worker, holding the instrumented module while this
// process keeps the archive and GA state (spec.md §5 "the master retains
// archive and GA state; the worker holds the instrumented module").
// Modeled on the teacher's CopilotCLIClient (pkg/compiler/copilot_cli.go):
// exec.Command a named binary, talk to it over std streams, surface a
// wrapped error on any failure — generalized here to a persistent
// bidirectional stream instead of one request/response CLI invocation.
type Worker struct {
	// Binary is the suitegen executable to relaunch in worker mode; it has
	// no default, and Start fails when it is empty.
	Binary string
	// Args are extra flags forwarded to the worker invocation (module
	// path, consent flag, etc.) ahead of the mandatory "-worker".
	Args []string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// Start launches the worker subprocess and leaves stdin/stdout attached
// for RunBatch calls.
func (w *Worker) Start(ctx context.Context) error {
	binary := w.Binary
	if binary == "" {
		return fmt.Errorf("subprocess: Worker.Binary must be set")
	}
	args := append([]string{"-worker"}, w.Args...)
	cmd := exec.CommandContext(ctx, binary, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("subprocess: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("subprocess: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("subprocess: start worker: %w", err)
	}

	w.cmd = cmd
	w.stdin = stdin
	w.stdout = bufio.NewReader(stdout)
	return nil
}

// RunBatch sends cases to the worker and waits for its BatchResponse.
func (w *Worker) RunBatch(cases []*testcase.Case) (*BatchResponse, error) {
	if w.cmd == nil {
		return nil, fmt.Errorf("subprocess: worker not started")
	}
	if err := writeFrame(w.stdin, BatchRequest{Cases: cases}); err != nil {
		return nil, err
	}
	var resp BatchResponse
	if err := readFrame(w.stdout, &resp); err != nil {
		return nil, fmt.Errorf("subprocess: read batch response: %w", err)
	}
	return &resp, nil
}

// Restart kills the current worker (if any survives the batch's fatal
// crash, spec.md §7 "restart batch with reduced remaining budget") and
// starts a fresh one in its place.
func (w *Worker) Restart(ctx context.Context) error {
	w.Stop()
	return w.Start(ctx)
}

// Stop closes the worker's stdin and waits for it to exit, ignoring the
// resulting error since a worker killed mid-batch is expected to exit
// non-zero.
func (w *Worker) Stop() {
	if w.stdin != nil {
		w.stdin.Close()
	}
	if w.cmd != nil {
		_ = w.cmd.Wait()
	}
	w.cmd = nil
	w.stdin = nil
	w.stdout = nil
}
