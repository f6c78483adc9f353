package iface

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical structural keys.
//
// Two type expressions get equal keys iff they are structurally
// identical up to a consistent renaming of type-variable ids
// (alpha-equivalence). Variables are renumbered in first-occurrence
// order while walking the expression left to right, so the original
// numeric ids never leak into the key.
//
// Names embedded in keys are NFC normalized, the same boundary rule the
// canonical serialization applies to strings: two documents that spell
// the same name with different Unicode compositions compare equal.

// canonState maps raw variable ids to canonical ids for one comparison
// unit. It is an explicit value threaded through the recursion, never
// shared between comparisons.
type canonState struct {
	ids  map[int]int
	next int
}

func newCanonState() *canonState {
	return &canonState{ids: make(map[int]int)}
}

// canonID returns the canonical id for a raw variable id, assigning the
// next counter value on first occurrence.
func (s *canonState) canonID(raw int) int {
	if id, ok := s.ids[raw]; ok {
		return id
	}
	id := s.next
	s.ids[raw] = id
	s.next++
	return id
}

// Key returns the canonical key for a standalone type expression,
// using a fresh canonicalization state.
func Key(t Type) string {
	return keyWith(newCanonState(), t)
}

// keyWith renders a type expression's key, threading the evolving
// state through sub-expressions left to right.
func keyWith(s *canonState, t Type) string {
	switch tt := t.(type) {
	case TypeVar:
		return fmt.Sprintf("var(%d)", s.canonID(tt.ID))

	case TypeTuple:
		elems := make([]string, len(tt.Elems))
		for i, elem := range tt.Elems {
			elems[i] = keyWith(s, elem)
		}
		return "tuple(" + strings.Join(elems, ",") + ")"

	case TypeNamed:
		qual := norm.NFC.String(tt.Package + "." + tt.Module + "." + tt.Name)
		args := make([]string, len(tt.Args))
		for i, arg := range tt.Args {
			args[i] = keyWith(s, arg)
		}
		return "named(" + qual + ")<" + strings.Join(args, ",") + ">"

	case TypeFn:
		params := make([]string, len(tt.Params))
		for i, param := range tt.Params {
			params[i] = keyWith(s, param)
		}
		return "fn(" + strings.Join(params, ",") + ")->" + keyWith(s, tt.Return)

	default:
		// Type is sealed; a fifth variant is a programming error.
		panic(fmt.Sprintf("iface: unhandled type expression %T", t))
	}
}

// DefKey returns the canonical key for a whole type definition.
//
// Constructors are sorted by name before canonicalization so that
// declaration order never affects the key. One state is threaded across
// all constructors in sequence: a type parameter shared by two
// constructors canonicalizes to the same id in both, preserving the
// sharing relationship. Parameters within a constructor stay in
// declaration order - order and labels are significant there.
func DefKey(def TypeDef) string {
	ctors := slices.Clone(def.Ctors)
	slices.SortFunc(ctors, func(a, b Ctor) int {
		return strings.Compare(a.Name, b.Name)
	})

	s := newCanonState()
	parts := make([]string, len(ctors))
	for i, ctor := range ctors {
		params := make([]string, len(ctor.Params))
		for j, p := range ctor.Params {
			label := p.Label
			if label == "" {
				label = NoLabel
			}
			params[j] = norm.NFC.String(label) + ":" + keyWith(s, p.Type)
		}
		parts[i] = norm.NFC.String(ctor.Name) + "(" + strings.Join(params, ",") + ")"
	}

	return fmt.Sprintf("def(%d):%s", def.Arity, strings.Join(parts, "|"))
}

// AliasKey returns the canonical key for a type alias, canonicalizing
// the aliased expression with a fresh state.
func AliasKey(a TypeAlias) string {
	return fmt.Sprintf("alias(%d):%s", a.Arity, Key(a.Type))
}
