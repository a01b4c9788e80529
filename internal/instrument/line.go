package instrument

import "github.com/ormasoftchile/suitegen/internal/vm"

// LineAdapter registers line-coverage goal candidates. No instruction
// insertion is needed: the interpreter detects line boundaries directly from
// CodeObject.LineTable as it executes (interp.go's lineStartsAt), so this
// adapter's only job is to decide which lines are eligible — filtering out
// anything the caller has excluded (spec.md §4.1 "pragma-style exclusion").
type LineAdapter struct {
	// Excluded maps object name -> set of excluded line numbers.
	Excluded map[string]map[int]bool
}

func (a *LineAdapter) Name() string    { return "line" }
func (a *LineAdapter) StackEffect() int { return 0 }

func (a *LineAdapter) Apply(version vm.BytecodeVersion, obj *vm.CodeObject, reg *Registry) error {
	if obj.Excluded {
		return nil
	}
	excl := a.Excluded[obj.Name]
	var lines []int
	for line := range obj.LineTable {
		if excl != nil && excl[line] {
			continue
		}
		lines = append(lines, line)
	}
	reg.Lines[obj.Name] = lines
	return nil
}
