// Package typesys models the type information used to guide test-case
// construction. Types are never enforced at runtime; they are advisory
// metadata consulted by the factory and mutation operators when picking
// compatible values.
package typesys

import "strings"

// Kind discriminates the closed set of type variants.
type Kind int

const (
	// KindAny is the top type: every value is assignable to it.
	KindAny Kind = iota
	// KindNone is the bottom type for non-optional slots: no runtime value
	// other than the host language's "no value" satisfies it.
	KindNone
	// KindConcrete names a single class/record type by its qualified name.
	KindConcrete
	// KindUnion is a finite union of alternative types.
	KindUnion
	// KindGeneric is a type parameterized by child types, e.g. list[int].
	KindGeneric
	// KindCallable is a function/method signature type.
	KindCallable
)

// Type is a closed sum type over the variants above. Exactly one of the
// variant-specific fields is meaningful for a given Kind.
type Type struct {
	Kind Kind

	// KindConcrete
	Name string

	// KindUnion
	Alternatives []Type

	// KindGeneric
	Base     string
	TypeArgs []Type

	// KindCallable
	Params  []Type
	Returns *Type
}

// Any is the top type.
func Any() Type { return Type{Kind: KindAny} }

// None is the bottom type.
func None() Type { return Type{Kind: KindNone} }

// Concrete builds a named concrete type.
func Concrete(name string) Type { return Type{Kind: KindConcrete, Name: name} }

// Union builds a union of the given alternatives. A union of zero or one
// alternatives collapses to None/the single alternative respectively.
func Union(alts ...Type) Type {
	if len(alts) == 0 {
		return None()
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return Type{Kind: KindUnion, Alternatives: alts}
}

// Generic builds a type parameterized by child types, e.g. Generic("list", Concrete("int")).
func Generic(base string, args ...Type) Type {
	return Type{Kind: KindGeneric, Base: base, TypeArgs: args}
}

// CallableType builds a callable-signature type.
func CallableType(params []Type, ret Type) Type {
	return Type{Kind: KindCallable, Params: params, Returns: &ret}
}

// String renders a Type for diagnostics and stable archive/test-file naming.
func (t Type) String() string {
	switch t.Kind {
	case KindAny:
		return "any"
	case KindNone:
		return "none"
	case KindConcrete:
		return t.Name
	case KindUnion:
		parts := make([]string, len(t.Alternatives))
		for i, a := range t.Alternatives {
			parts[i] = a.String()
		}
		return strings.Join(parts, "|")
	case KindGeneric:
		parts := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			parts[i] = a.String()
		}
		return t.Base + "[" + strings.Join(parts, ",") + "]"
	case KindCallable:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		ret := "none"
		if t.Returns != nil {
			ret = t.Returns.String()
		}
		return "(" + strings.Join(parts, ",") + ")->" + ret
	default:
		return "?"
	}
}

// Subtype reports whether sub is assignable wherever super is expected.
// This is a partial order: Any is top, None is bottom for non-optional
// slots, unions are covariant in their alternatives, and generics require
// matching bases with covariant type arguments.
func Subtype(sub, super Type) bool {
	if super.Kind == KindAny {
		return true
	}
	if sub.Kind == KindNone {
		return true
	}
	switch super.Kind {
	case KindUnion:
		for _, alt := range super.Alternatives {
			if Subtype(sub, alt) {
				return true
			}
		}
		return false
	case KindConcrete:
		if sub.Kind == KindUnion {
			for _, alt := range sub.Alternatives {
				if !Subtype(alt, super) {
					return false
				}
			}
			return len(sub.Alternatives) > 0
		}
		return sub.Kind == KindConcrete && sub.Name == super.Name
	case KindGeneric:
		if sub.Kind != KindGeneric || sub.Base != super.Base || len(sub.TypeArgs) != len(super.TypeArgs) {
			return false
		}
		for i := range sub.TypeArgs {
			if !Subtype(sub.TypeArgs[i], super.TypeArgs[i]) {
				return false
			}
		}
		return true
	case KindCallable:
		if sub.Kind != KindCallable || len(sub.Params) != len(super.Params) {
			return false
		}
		// Parameters are contravariant, return is covariant.
		for i := range sub.Params {
			if !Subtype(super.Params[i], sub.Params[i]) {
				return false
			}
		}
		if sub.Returns == nil || super.Returns == nil {
			return sub.Returns == super.Returns
		}
		return Subtype(*sub.Returns, *super.Returns)
	case KindNone:
		return sub.Kind == KindNone
	default:
		return false
	}
}

// IsPrimitive reports whether t names one of the host language's built-in
// scalar types, used by the factory to pick a primitive-literal pool.
func (t Type) IsPrimitive() bool {
	if t.Kind != KindConcrete {
		return false
	}
	switch t.Name {
	case "int", "float", "str", "bool", "bytes":
		return true
	}
	return false
}
