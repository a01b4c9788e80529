// Package tracer runs a testcase.Case's statements against a vm.Interp,
// wiring vm.Hooks to record branch-distance events, line hits, and memory
// accesses into a Trace (spec.md §4.2). Each statement's call runs on its
// own goroutine, under a per-statement and per-test deadline; abort is
// cooperative, since a goroutine cannot be killed from outside.
package tracer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ormasoftchile/suitegen/internal/testcase"
	"github.com/ormasoftchile/suitegen/internal/vm"
)

// BranchEvent is one recorded predicate evaluation.
type BranchEvent struct {
	Object    string // the function the predicate belongs to
	Predicate int
	Kind      vm.CompareKind
	Left      any
	Right     any
	Taken     bool
	Distance  float64 // normalized true-branch distance, [0,1]
}

// AccessEvent is one recorded memory access, read by fitness for
// checked-coverage goals.
type AccessEvent struct {
	SiteID   int
	Kind     string
	StmtPos  int
}

// StmtResult captures the outcome of executing one statement: its return
// value or raised exception, the captured exception type (empty if none),
// and elapsed wall time (spec.md §4.2 "Output").
type StmtResult struct {
	Value      any
	ExcType    string
	Elapsed    time.Duration
	TimedOut   bool
}

// Trace is the full execution record of one test case run.
type Trace struct {
	Branches     []BranchEvent
	LinesHit     map[int]bool
	EnteredObjs  map[int]bool
	Accesses     []AccessEvent
	Instructions []AccessEvent // same events as Accesses; read by fitness for checked goals
	Results      []StmtResult
	TimedOut     bool
}

func newTrace() *Trace {
	return &Trace{LinesHit: map[int]bool{}, EnteredObjs: map[int]bool{}}
}

// Limits bounds one Run: per-statement and per-test wall-clock deadlines.
type Limits struct {
	PerStatement time.Duration
	PerTest      time.Duration
	Grace        time.Duration // grace period after a per-statement abort request
}

// workerState holds per-Run trace state plus the id of the statement
// attempt currently allowed to write into it, mirroring spec.md §4.2's
// "thread-local trace storage": events tagged with an attempt id other
// than the active one are dropped rather than merged — defends against a
// stray goroutine from a previous timed-out statement still running (and
// still reading interp.Hooks, which Run overwrites per statement) when
// the next statement starts.
type workerState struct {
	id     uint64
	trace  *Trace
	active atomic.Uint64
}

var nextWorkerID uint64

// Run executes every statement of tc in order against interp's module,
// returning the accumulated Trace. stmtCall resolves one statement to its
// callable object id and positional arguments; Run doesn't know how to
// interpret testcase.Statement kinds itself — that's the factory/ga layer's
// job — so it's handed a small adapter instead of importing cluster/factory
// and creating an import cycle.
func Run(ctx context.Context, interp *vm.Interp, tc *testcase.Case, stmtCall func(pos int, s *testcase.Statement, results []StmtResult) (objectID int, args []any, ok bool), limits Limits) (*Trace, error) {
	ws := &workerState{id: atomic.AddUint64(&nextWorkerID, 1), trace: newTrace()}
	tr := ws.trace

	testDeadline := time.Now().Add(limits.PerTest)
	if limits.PerTest <= 0 {
		testDeadline = time.Now().Add(24 * time.Hour)
	}

	for pos, stmt := range tc.Stmts {
		if time.Now().After(testDeadline) {
			tr.TimedOut = true
			break
		}
		if res, handled := evalPureStatement(stmt, tr.Results); handled {
			tr.Results = append(tr.Results, res)
			continue
		}
		objectID, args, ok := stmtCall(pos, stmt, tr.Results)
		if !ok {
			tr.Results = append(tr.Results, StmtResult{})
			continue
		}

		attemptID := atomic.AddUint64(&nextWorkerID, 1)
		ws.active.Store(attemptID)

		var aborted atomic.Bool
		hooks := vm.Hooks{
			Branch: func(object string, predicateID int, kind vm.CompareKind, left, right any) {
				if ws.active.Load() != attemptID {
					return
				}
				dist := branchDistance(kind, left, right)
				tr.Branches = append(tr.Branches, BranchEvent{
					Object:    object,
					Predicate: predicateID,
					Kind:      kind,
					Left:      left,
					Right:     right,
					Taken:     dist == 0,
					Distance:  dist,
				})
			},
			Line: func(lineID int) {
				if ws.active.Load() != attemptID {
					return
				}
				tr.LinesHit[lineID] = true
			},
			Entered: func(objectID int) {
				if ws.active.Load() != attemptID {
					return
				}
				tr.EnteredObjs[objectID] = true
			},
			Access: func(siteID int, kind string) {
				if ws.active.Load() != attemptID {
					return
				}
				ev := AccessEvent{SiteID: siteID, Kind: kind, StmtPos: pos}
				tr.Accesses = append(tr.Accesses, ev)
				tr.Instructions = append(tr.Instructions, ev)
			},
			Abort: func() bool { return aborted.Load() },
		}
		interp.Hooks = hooks

		start := time.Now()
		done := make(chan struct{})
		var value any
		var callErr error
		go func() {
			value, callErr = interp.Call(objectID, args)
			close(done)
		}()

		statementTimeout := limits.PerStatement
		if statementTimeout <= 0 {
			statementTimeout = time.Hour
		}
		select {
		case <-done:
		case <-time.After(statementTimeout):
			aborted.Store(true)
			grace := limits.Grace
			if grace <= 0 {
				grace = 50 * time.Millisecond
			}
			select {
			case <-done:
			case <-time.After(grace):
				tr.Results = append(tr.Results, StmtResult{TimedOut: true, Elapsed: time.Since(start)})
				tr.TimedOut = true
				continue
			}
		case <-ctx.Done():
			return tr, ctx.Err()
		}

		res := StmtResult{Elapsed: time.Since(start)}
		if callErr != nil {
			if exc, ok := callErr.(*vm.Exception); ok {
				res.ExcType = exc.Type
			} else if callErr == vm.ErrAborted {
				res.TimedOut = true
				tr.TimedOut = true
			} else {
				return tr, fmt.Errorf("tracer: internal fault: %w", callErr)
			}
		} else {
			res.Value = value
		}
		tr.Results = append(tr.Results, res)
	}
	return tr, nil
}
