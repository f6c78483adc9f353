package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBasicShapes(t *testing.T) {
	str := TypeNamed{Package: "core", Module: "String", Name: "String"}

	tests := []struct {
		name     string
		input    Type
		expected string
	}{
		{"variable", TypeVar{ID: 7}, "var(0)"},
		{"empty tuple", TypeTuple{}, "tuple()"},
		{"pair", TypeTuple{Elems: []Type{str, str}}, "tuple(named(core.String.String)<>,named(core.String.String)<>)"},
		{"named no args", str, "named(core.String.String)<>"},
		{"named with arg", TypeNamed{Package: "core", Module: "List", Name: "List", Args: []Type{TypeVar{ID: 3}}}, "named(core.List.List)<var(0)>"},
		{"fn", TypeFn{Params: []Type{TypeVar{ID: 1}}, Return: TypeTuple{}}, "fn(var(0))->tuple()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.input))
		})
	}
}

func TestKeyVariableFirstOccurrenceOrder(t *testing.T) {
	// Same variable reused keeps its canonical id; a new variable
	// advances the counter.
	typ := TypeTuple{Elems: []Type{
		TypeVar{ID: 9},
		TypeVar{ID: 4},
		TypeVar{ID: 9},
	}}
	assert.Equal(t, "tuple(var(0),var(1),var(0))", Key(typ))
}

func TestKeyAlphaInvariance(t *testing.T) {
	// Identical structure, different raw ids.
	a := TypeFn{
		Params: []Type{TypeVar{ID: 7}, TypeVar{ID: 8}},
		Return: TypeVar{ID: 7},
	}
	b := TypeFn{
		Params: []Type{TypeVar{ID: 2}, TypeVar{ID: 100}},
		Return: TypeVar{ID: 2},
	}
	assert.Equal(t, Key(a), Key(b))
}

func TestKeyDistinguishesSharing(t *testing.T) {
	// fn(x, x) -> x versus fn(x, y) -> x differ even though a naive
	// positional renumbering would confuse them.
	shared := TypeFn{
		Params: []Type{TypeVar{ID: 1}, TypeVar{ID: 1}},
		Return: TypeVar{ID: 1},
	}
	distinct := TypeFn{
		Params: []Type{TypeVar{ID: 1}, TypeVar{ID: 2}},
		Return: TypeVar{ID: 1},
	}
	assert.NotEqual(t, Key(shared), Key(distinct))
}

func TestDefKeyConstructorOrderInvariance(t *testing.T) {
	on := Ctor{Name: "On", Params: []CtorParam{{Label: "value", Type: TypeVar{ID: 0}}}}
	off := Ctor{Name: "Off"}

	a := TypeDef{Arity: 1, Ctors: []Ctor{on, off}}
	b := TypeDef{Arity: 1, Ctors: []Ctor{off, on}}

	assert.Equal(t, DefKey(a), DefKey(b))
}

func TestDefKeyAlphaInvariance(t *testing.T) {
	// Variable 7 everywhere replaced by variable 2.
	a := TypeDef{Arity: 1, Ctors: []Ctor{
		{Name: "Some", Params: []CtorParam{{Type: TypeVar{ID: 7}}}},
		{Name: "Pair", Params: []CtorParam{{Type: TypeVar{ID: 7}}, {Type: TypeVar{ID: 7}}}},
	}}
	b := TypeDef{Arity: 1, Ctors: []Ctor{
		{Name: "Some", Params: []CtorParam{{Type: TypeVar{ID: 2}}}},
		{Name: "Pair", Params: []CtorParam{{Type: TypeVar{ID: 2}}, {Type: TypeVar{ID: 2}}}},
	}}
	assert.Equal(t, DefKey(a), DefKey(b))
}

func TestDefKeyStateThreadedAcrossConstructors(t *testing.T) {
	// A parameter shared by two constructors must stay shared after
	// canonicalization; per-constructor renumbering would collapse
	// these two definitions into one key.
	shared := TypeDef{Arity: 2, Ctors: []Ctor{
		{Name: "A", Params: []CtorParam{{Type: TypeVar{ID: 1}}}},
		{Name: "B", Params: []CtorParam{{Type: TypeVar{ID: 1}}}},
	}}
	unshared := TypeDef{Arity: 2, Ctors: []Ctor{
		{Name: "A", Params: []CtorParam{{Type: TypeVar{ID: 1}}}},
		{Name: "B", Params: []CtorParam{{Type: TypeVar{ID: 2}}}},
	}}
	assert.NotEqual(t, DefKey(shared), DefKey(unshared))
}

func TestDefKeyParameterOrderSensitivity(t *testing.T) {
	// Swapping two differently-labeled parameters within one
	// constructor changes the key.
	a := TypeDef{Arity: 0, Ctors: []Ctor{{
		Name: "Make",
		Params: []CtorParam{
			{Label: "width", Type: TypeNamed{Package: "core", Module: "Int", Name: "Int"}},
			{Label: "height", Type: TypeNamed{Package: "core", Module: "Int", Name: "Int"}},
		},
	}}}
	b := TypeDef{Arity: 0, Ctors: []Ctor{{
		Name: "Make",
		Params: []CtorParam{
			{Label: "height", Type: TypeNamed{Package: "core", Module: "Int", Name: "Int"}},
			{Label: "width", Type: TypeNamed{Package: "core", Module: "Int", Name: "Int"}},
		},
	}}}
	assert.NotEqual(t, DefKey(a), DefKey(b))
}

func TestDefKeyArityDistinguishes(t *testing.T) {
	ctors := []Ctor{{Name: "Nil"}}
	a := TypeDef{Arity: 0, Ctors: ctors}
	b := TypeDef{Arity: 1, Ctors: ctors}
	assert.NotEqual(t, DefKey(a), DefKey(b))
}

func TestDefKeyUnlabeledParamSentinel(t *testing.T) {
	def := TypeDef{Arity: 1, Ctors: []Ctor{
		{Name: "Box", Params: []CtorParam{{Type: TypeVar{ID: 0}}}},
	}}
	assert.Equal(t, "def(1):Box(_:var(0))", DefKey(def))
}

func TestAliasKey(t *testing.T) {
	alias := TypeAlias{
		Arity: 1,
		Type:  TypeFn{Params: []Type{TypeVar{ID: 5}}, Return: TypeTuple{}},
	}
	assert.Equal(t, "alias(1):fn(var(0))->tuple()", AliasKey(alias))
}

func TestAliasKeyFreshStatePerAlias(t *testing.T) {
	// Two aliases with different raw ids canonicalize identically.
	a := TypeAlias{Arity: 1, Type: TypeVar{ID: 40}}
	b := TypeAlias{Arity: 1, Type: TypeVar{ID: 3}}
	assert.Equal(t, AliasKey(a), AliasKey(b))
}

func TestKeyNFCNormalizesNames(t *testing.T) {
	// \u00e9 precomposed versus e + combining acute (\u0301).
	composed := TypeNamed{Package: "app", Module: "Th\u00e9me", Name: "T"}
	decomposed := TypeNamed{Package: "app", Module: "The\u0301me", Name: "T"}
	assert.Equal(t, Key(composed), Key(decomposed))
}

func TestKeyDeterminism(t *testing.T) {
	def := TypeDef{Arity: 2, Ctors: []Ctor{
		{Name: "Left", Params: []CtorParam{{Type: TypeVar{ID: 11}}}},
		{Name: "Right", Params: []CtorParam{{Type: TypeVar{ID: 12}}}},
	}}

	first := DefKey(def)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, DefKey(def))
	}
}
