// Package fitness computes per-goal minimization fitness from a tracer.Trace
// and memoizes per-chromosome fitness/coverage vectors (spec.md §4.4).
package fitness

import (
	"github.com/ormasoftchile/suitegen/internal/cfg"
	"github.com/ormasoftchile/suitegen/internal/goal"
	"github.com/ormasoftchile/suitegen/internal/tracer"
)

// Objects groups everything needed to score one code object's goals: its
// CFG/CDG (for approach-level distance) and which branch block owns each
// predicate id, which the instrumenter's branch adapter discovers but
// doesn't itself need to correlate to CFG blocks.
type ObjectInfo struct {
	Graph          *cfg.Graph
	CDG            *cfg.ControlDependence
	PredicateBlock map[int]int // predicate id -> owning CFG block id
}

// Evaluate scores every goal in goals against trace, using info to compute
// approach-level distance for branches never reached (spec.md §4.4).
func Evaluate(goals []goal.Goal, trace *tracer.Trace, info map[string]*ObjectInfo) map[string]float64 {
	out := make(map[string]float64, len(goals))
	for _, g := range goals {
		out[g.ID()] = evaluateOne(g, trace, info[g.Object])
	}
	return out
}

func evaluateOne(g goal.Goal, trace *tracer.Trace, info *ObjectInfo) float64 {
	switch g.Kind {
	case goal.KindEntry:
		// Entry goals are satisfied the moment any statement in the trace
		// executed a call into the object; EnteredObjs is keyed by object
		// id in the tracer, but goal.Goal only carries the qualified name,
		// so entry coverage is instead inferred from a branch event whose
		// predicate belongs to the object, or from any line hit at all:
		// LinesHit is keyed by line number only, so a line hit in any
		// object counts.
		for _, b := range trace.Branches {
			if b.Predicate >= 0 && info != nil {
				if _, ok := info.PredicateBlock[b.Predicate]; ok {
					return 0
				}
			}
		}
		if len(trace.LinesHit) > 0 {
			return 0
		}
		return 1
	case goal.KindBranchTrue:
		return branchFitness(g.Predicate, true, trace, info)
	case goal.KindBranchFalse:
		return branchFitness(g.Predicate, false, trace, info)
	case goal.KindLine:
		if trace.LinesHit[g.Line] {
			return 0
		}
		return 1
	case goal.KindChecked:
		for _, ev := range trace.Instructions {
			if ev.StmtPos == g.StmtPos {
				return 0
			}
		}
		return 1
	default:
		return 1
	}
}

// branchFitness implements spec.md §4.4's two-case rule: if the predicate
// was never executed, fitness is 1 + approach level from the nearest
// executed branch; if executed but the wanted direction never taken,
// fitness is the normalized minimum true-distance observed for that
// direction.
func branchFitness(predicate int, wantTrue bool, trace *tracer.Trace, info *ObjectInfo) float64 {
	executed := false
	minDist := -1.0
	for _, ev := range trace.Branches {
		if ev.Predicate != predicate {
			continue
		}
		executed = true
		if ev.Taken == wantTrue {
			return 0
		}
		if minDist < 0 || ev.Distance < minDist {
			minDist = ev.Distance
		}
	}
	if executed {
		if minDist < 0 {
			minDist = 0
		}
		return minDist
	}
	if info == nil || info.CDG == nil || info.PredicateBlock == nil {
		return 1
	}
	branchBlock, ok := info.PredicateBlock[predicate]
	if !ok {
		return 1
	}
	level := approachLevel(branchBlock, trace, info)
	return 1 + float64(level)
}

// approachLevel is the graph distance, in the control-dependence tree, from
// the nearest executed branch block to the target branch block.
func approachLevel(target int, trace *tracer.Trace, info *ObjectInfo) int {
	executedBlocks := map[int]bool{}
	for _, ev := range trace.Branches {
		if b, ok := info.PredicateBlock[ev.Predicate]; ok {
			executedBlocks[b] = true
		}
	}
	if len(executedBlocks) == 0 {
		return len(info.Graph.Blocks) // worst case: nothing executed at all
	}
	dist := map[int]int{}
	var queue []int
	for b := range executedBlocks {
		dist[b] = 0
		queue = append(queue, b)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return dist[cur]
		}
		for _, c := range info.CDG.Children[cur] {
			if _, seen := dist[c]; !seen {
				dist[c] = dist[cur] + 1
				queue = append(queue, c)
			}
		}
	}
	return len(info.Graph.Blocks)
}
