// Package testcase implements the ordered-statement test-case model:
// clone, mutate, crossover, chop, and structural equality (spec.md §3, §4.3).
//
// Statements live in an arena (Case.Stmts) and refer to each other by
// position (Ref), never by pointer, so cloning is a flat slice copy and
// structural equality never has to chase cycles (spec.md §9 "cyclic
// reference graphs").
package testcase

import "github.com/ormasoftchile/suitegen/internal/typesys"

// Ref is a variable reference: the arena index of the statement that
// produced the value. NoRef marks "produces nothing" (e.g. a field write).
type Ref int

const NoRef Ref = -1

// Kind discriminates the sealed Statement variant family.
type Kind int

const (
	KPrimitive Kind = iota
	KCollection
	KConstructor
	KFunctionCall
	KMethodCall
	KFieldRead
	KFieldWrite
	KAssign
)

// Statement is one polymorphic entry in a Case's arena. Only the fields
// relevant to Kind, as grouped below, are meaningful.
type Statement struct {
	Kind Kind
	Type typesys.Type // inferred type of the produced value; refined post-execution

	// KPrimitive
	Literal any

	// KCollection
	Elems []Ref

	// KConstructor / KFunctionCall / KMethodCall
	Callable string // qualified callable id, looked up in the cluster
	Args     []Ref
	Named    map[string]Ref

	// KMethodCall / KFieldRead / KFieldWrite
	Receiver Ref
	Field    string

	// KAssign
	From Ref
}

// ArgRefs returns every reference this statement reads, used both for the
// reference-before-use check and for computing forward dependents.
func (s *Statement) ArgRefs() []Ref {
	var refs []Ref
	refs = append(refs, s.Elems...)
	refs = append(refs, s.Args...)
	for _, r := range s.Named {
		refs = append(refs, r)
	}
	if s.Receiver != NoRef && (s.Kind == KMethodCall || s.Kind == KFieldRead || s.Kind == KFieldWrite) {
		refs = append(refs, s.Receiver)
	}
	if s.From != NoRef && (s.Kind == KFieldWrite || s.Kind == KAssign) {
		refs = append(refs, s.From)
	}
	return refs
}

// Produces reports whether this statement's position yields a usable
// reference (field writes do not produce a value).
func (s *Statement) Produces() bool { return s.Kind != KFieldWrite }

// shapeEqual compares two statements ignoring reference *values* but
// requiring identical reference *positions relative to the case*, which a
// caller achieves by comparing same-length, same-position cases.
func shapeEqual(a, b *Statement) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KPrimitive:
		return a.Literal == b.Literal && a.Type.String() == b.Type.String()
	case KCollection:
		return len(a.Elems) == len(b.Elems) && refsEqual(a.Elems, b.Elems)
	case KConstructor, KFunctionCall:
		return a.Callable == b.Callable && refsEqual(a.Args, b.Args) && namedEqual(a.Named, b.Named)
	case KMethodCall:
		return a.Callable == b.Callable && a.Receiver == b.Receiver &&
			refsEqual(a.Args, b.Args) && namedEqual(a.Named, b.Named)
	case KFieldRead:
		return a.Field == b.Field && a.Receiver == b.Receiver
	case KFieldWrite:
		return a.Field == b.Field && a.Receiver == b.Receiver && a.From == b.From
	case KAssign:
		return a.From == b.From
	default:
		return false
	}
}

func refsEqual(a, b []Ref) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func namedEqual(a, b map[string]Ref) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func (s *Statement) clone() *Statement {
	cp := *s
	if s.Elems != nil {
		cp.Elems = append([]Ref(nil), s.Elems...)
	}
	if s.Args != nil {
		cp.Args = append([]Ref(nil), s.Args...)
	}
	if s.Named != nil {
		cp.Named = make(map[string]Ref, len(s.Named))
		for k, v := range s.Named {
			cp.Named[k] = v
		}
	}
	return &cp
}
