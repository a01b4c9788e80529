// Package subprocess implements spec.md §5's "optional subprocess mode":
// a worker subprocess holds the instrumented module and executes test-case
// batches, so a target-is-fatal crash (spec.md §7) takes down only the
// batch in flight rather than the whole run. Master and worker communicate
// over the worker's stdin/stdout with a length-prefixed JSON stream, the
// same wire shape SPEC_FULL.md §5 calls "serialized trace records."
package subprocess

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/tracer"
)

// maxFrameBytes bounds a single frame so a corrupted length prefix can't
// make the reader allocate an unbounded buffer.
const maxFrameBytes = 256 << 20

// BatchRequest asks the worker to run every case in Cases against the
// module it already has loaded (module identity is fixed at worker
// startup; the master never ships code, only test cases).
type BatchRequest struct {
	Cases []*testcase.Case `json:"cases"`
}

// CaseTrace pairs one result with the case index it belongs to, since
// responses may arrive out of the request's case order under future
// worker-side parallelism.
type CaseTrace struct {
	Index int           `json:"index"`
	Trace *tracer.Trace `json:"trace,omitempty"`
	Error string        `json:"error,omitempty"`
}

// BatchResponse is the worker's reply to one BatchRequest: one CaseTrace
// per case, including the raw instruction trace spec.md §9's open
// question on checked coverage requires for backward slicing in
// subprocess mode ("the worker must return the raw instruction trace, not
// just aggregates").
type BatchResponse struct {
	Traces []CaseTrace `json:"traces"`
	Fatal  string      `json:"fatal,omitempty"`
}

// writeFrame writes v as a 4-byte big-endian length prefix followed by its
// JSON encoding.
func writeFrame(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("subprocess: marshal frame: %w", err)
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(data)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("subprocess: write frame header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("subprocess: write frame body: %w", err)
	}
	return nil
}

// readFrame reads one length-prefixed JSON frame into v.
func readFrame(r io.Reader, v any) error {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return err // propagate io.EOF verbatim so callers can detect worker exit
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > maxFrameBytes {
		return fmt.Errorf("subprocess: frame of %d bytes exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("subprocess: read frame body: %w", err)
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("subprocess: unmarshal frame: %w", err)
	}
	return nil
}
