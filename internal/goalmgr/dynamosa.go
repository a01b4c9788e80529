// Package goalmgr maintains DynaMOSA's goal-activation frontier: initially
// only the CDG roots are active, and covering an active goal activates its
// CDG children (spec.md §4.5 "DynaMOSA goal manager").
package goalmgr

import (
	"strconv"

	"github.com/ormasoftchile/suitegen/internal/cfg"
	"github.com/ormasoftchile/suitegen/internal/goal"
)

// branchKey identifies a branch block within a specific code object, since
// cfg.Graph block ids are only unique within one object.
type branchKey struct {
	object string
	block  int
}

// DynaMOSAManager tracks which goals are currently active across every
// instrumented object's CDG.
type DynaMOSAManager struct {
	cdgs          map[string]*cfg.ControlDependence
	blockGoals    map[branchKey][]goal.Goal // goals owned by a branch block (its true/false goals)
	predicateKey  map[string]branchKey      // "object:predicate" -> owning branch block
	active        map[string]bool           // goal id -> active
	activatedFrom map[branchKey]bool        // branch blocks already expanded
}

// New builds a manager from each instrumented object's CDG and the set of
// branch goals it owns. predicateBlocks maps object name -> predicate id ->
// owning CFG block id, the correlation fitness.ObjectInfo also needs.
func New(cdgs map[string]*cfg.ControlDependence, goals []goal.Goal, predicateBlocks map[string]map[int]int) *DynaMOSAManager {
	m := &DynaMOSAManager{
		cdgs:          cdgs,
		blockGoals:    map[branchKey][]goal.Goal{},
		predicateKey:  map[string]branchKey{},
		active:        map[string]bool{},
		activatedFrom: map[branchKey]bool{},
	}
	for _, g := range goals {
		if g.Kind != goal.KindBranchTrue && g.Kind != goal.KindBranchFalse {
			// Non-branch goals (entry/line/checked) carry no CDG frontier
			// semantics; they start active unconditionally.
			m.active[g.ID()] = true
			continue
		}
		block, ok := predicateBlocks[g.Object][g.Predicate]
		if !ok {
			m.active[g.ID()] = true
			continue
		}
		key := branchKey{object: g.Object, block: block}
		m.blockGoals[key] = append(m.blockGoals[key], g)
		m.predicateKey[predicateID(g.Object, g.Predicate)] = key
	}
	for obj, cdg := range cdgs {
		for _, root := range cdg.Roots {
			m.activateBlock(branchKey{object: obj, block: root})
		}
	}
	return m
}

func predicateID(object string, predicate int) string {
	return object + "#" + strconv.Itoa(predicate)
}

func (m *DynaMOSAManager) activateBlock(key branchKey) {
	for _, g := range m.blockGoals[key] {
		m.active[g.ID()] = true
	}
}

// Active reports whether goal id is currently part of the activation
// frontier.
func (m *DynaMOSAManager) Active(id string) bool { return m.active[id] }

// ActiveGoalIDs returns every currently active goal id.
func (m *DynaMOSAManager) ActiveGoalIDs() []string {
	out := make([]string, 0, len(m.active))
	for id := range m.active {
		out = append(out, id)
	}
	return out
}

// NotifyCovered tells the manager that goal id was just covered, activating
// its owning branch block's CDG children if this is the first time that
// block has been expanded. Returns the newly activated goal ids, if any.
func (m *DynaMOSAManager) NotifyCovered(object string, predicate int) []string {
	key, ok := m.predicateKey[predicateID(object, predicate)]
	if !ok || m.activatedFrom[key] {
		return nil
	}
	m.activatedFrom[key] = true
	cdg, ok := m.cdgs[object]
	if !ok {
		return nil
	}
	var newly []string
	for _, child := range cdg.Children[key.block] {
		childKey := branchKey{object: object, block: child}
		for _, g := range m.blockGoals[childKey] {
			if !m.active[g.ID()] {
				m.active[g.ID()] = true
				newly = append(newly, g.ID())
			}
		}
	}
	return newly
}
