package ga

import "context"

// MOSA is DynaMOSA without the goal-activation frontier: every uncovered
// goal is in scope for preference sorting from the first iteration. It
// reuses DynaMOSA's loop verbatim — activeUncovered already degrades to the
// full uncovered set whenever RunContext.GoalManager is nil — and only
// requires the caller to not wire a GoalManager for a MOSA run.
type MOSA struct{}

func (MOSA) Name() string { return "mosa" }

func (MOSA) Run(ctx context.Context, rc *RunContext) (*Result, error) {
	rc.GoalManager = nil
	return DynaMOSA{}.Run(ctx, rc)
}
