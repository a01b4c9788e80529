package cfg

// ControlDependence is the control-dependence graph of one CodeObject,
// built from post-dominance over its CFG. DynaMOSA's goal manager walks
// Children to activate a branch's control-dependent successors once the
// branch itself is covered (spec.md §4.5).
type ControlDependence struct {
	g *Graph
	// Children maps a block id to the block ids directly control-dependent
	// on it (i.e. blocks whose execution is decided by this block's
	// branch).
	Children map[int][]int
	// Roots are branch blocks not control-dependent on any other branch —
	// DynaMOSA's initial activation frontier.
	Roots []int
	postDom map[int]map[int]bool
}

// BuildCDG computes post-dominance over g and derives the control
// dependence relation from it.
func BuildCDG(g *Graph) *ControlDependence {
	pd := postDominators(g)
	cd := &ControlDependence{g: g, Children: map[int][]int{}, postDom: pd}

	dependents := map[int]bool{}
	for _, b := range g.Blocks {
		if len(b.Succs) < 2 {
			continue // not a branch block
		}
		for _, s := range b.Succs {
			// Walk from s along the CFG until we hit a block that
			// post-dominates b; every block on that walk (excluding the
			// post-dominator itself) is control-dependent on b.
			visited := map[int]bool{}
			frontier := []int{s}
			for len(frontier) > 0 {
				cur := frontier[0]
				frontier = frontier[1:]
				if visited[cur] || pd[b.ID][cur] {
					continue
				}
				visited[cur] = true
				cd.Children[b.ID] = appendUnique(cd.Children[b.ID], cur)
				dependents[cur] = true
				frontier = append(frontier, g.Blocks[cur].Succs...)
			}
		}
	}
	for _, b := range g.Blocks {
		if len(b.Succs) >= 2 && !dependents[b.ID] {
			cd.Roots = append(cd.Roots, b.ID)
		}
	}
	return cd
}

func appendUnique(xs []int, v int) []int {
	for _, x := range xs {
		if x == v {
			return xs
		}
	}
	return append(xs, v)
}

// postDominators computes, for every block b, the set of blocks that
// post-dominate it (every path from b to Exit passes through them),
// via the standard iterative data-flow algorithm reversed over the CFG.
func postDominators(g *Graph) map[int]map[int]bool {
	all := map[int]bool{}
	for _, b := range g.Blocks {
		all[b.ID] = true
	}
	pd := map[int]map[int]bool{}
	for _, b := range g.Blocks {
		if b.ID == g.Exit {
			pd[b.ID] = map[int]bool{g.Exit: true}
		} else {
			pd[b.ID] = cloneSet(all)
		}
	}
	changed := true
	for changed {
		changed = false
		for _, b := range g.Blocks {
			if b.ID == g.Exit {
				continue
			}
			if len(b.Succs) == 0 {
				continue
			}
			merged := cloneSet(pd[b.Succs[0]])
			for _, s := range b.Succs[1:] {
				for k := range merged {
					if !pd[s][k] {
						delete(merged, k)
					}
				}
			}
			merged[b.ID] = true
			if !setEqual(merged, pd[b.ID]) {
				pd[b.ID] = merged
				changed = true
			}
		}
	}
	return pd
}

func cloneSet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func setEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
