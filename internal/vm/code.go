package vm

// CodeObject is one compiled function/method body: a flat instruction
// stream plus the constant/name/local tables it indexes into. Nested code
// objects (closures) are referenced by index from Module.Objects so the
// instrumenter can walk them recursively (spec.md §4.1 "recursively into
// nested code objects").
type CodeObject struct {
	Name        string
	Params      []string
	NumLocals   int
	Consts      []any
	Names       []string // attribute/field names referenced by GetAttr/SetAttr
	Instrs      []Instr
	LineTable   map[int]int // source line -> index of that line's first instruction
	Excluded    bool        // pragma-style line exclusion applied at compile time
	Skip        bool        // set by instrument when the object cannot be instrumented
	Branchless  bool        // true if the object has no conditional jump
}

// Module is a unit of compiled code: the target module under test, or one
// of its transitively loaded local imports.
type Module struct {
	Name    string
	Objects []*CodeObject
	// Entry is the index into Objects of the module's entry object;
	// langfe sets it to 0, the first declared function.
	Entry int
	// Stdlib marks a module resolved from the toy language's builtin
	// namespace; the instrumenter gives these only the unwrap adapter.
	Stdlib bool
}

// ObjectByName finds a code object by its simple name within the module.
func (m *Module) ObjectByName(name string) (*CodeObject, int, bool) {
	for i, o := range m.Objects {
		if o.Name == name {
			return o, i, true
		}
	}
	return nil, -1, false
}

// HasConditionalJump reports whether the code object contains any branch
// instruction, used to classify an object as "branchless" per spec.md §4.1.
func HasConditionalJump(c *CodeObject) bool {
	for _, in := range c.Instrs {
		if in.Op == OpJumpIfFalse || in.Op == OpJumpIfTrue {
			return true
		}
	}
	return false
}
