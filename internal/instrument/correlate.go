package instrument

// PredicateBlocks correlates every discovered branch site with the CFG
// block that owns its instruction, the object->predicate->block map both
// fitness.ObjectInfo and goalmgr.New need to place branch goals on the
// control-dependence graph.
func (inst *Instrumented) PredicateBlocks() map[string]map[int]int {
	out := map[string]map[int]int{}
	for _, b := range inst.Registry.Branches {
		g, ok := inst.CFGs[b.Object]
		if !ok {
			continue
		}
		block, ok := g.ByInstr[b.InstrPos]
		if !ok {
			continue
		}
		if out[b.Object] == nil {
			out[b.Object] = map[int]int{}
		}
		out[b.Object][b.Predicate] = block
	}
	return out
}
