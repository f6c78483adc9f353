package iface

// NoLabel is the sentinel used for an unlabeled parameter position.
// Keeping a sentinel (instead of an optional) makes label-sequence
// comparison a plain slice equality check.
const NoLabel = "_"

// Interface maps module paths to their public surface.
type Interface struct {
	Modules map[string]Module `json:"modules"`
}

// Module holds one module's exported functions, type definitions and
// type aliases. Names are unique within each mapping; a module's types
// and aliases share one namespace, with definitions taking precedence
// on lookup.
type Module struct {
	Functions map[string]Function  `json:"functions,omitempty"`
	Types     map[string]TypeDef   `json:"types,omitempty"`
	Aliases   map[string]TypeAlias `json:"aliases,omitempty"`
}

// Function is an exported function signature: an ordered parameter list.
// Function bodies and return types are outside the model.
type Function struct {
	Params []Param `json:"params"`
}

// Labels returns the function's label sequence, substituting NoLabel
// for unlabeled positions.
func (f Function) Labels() []string {
	labels := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p.Label == "" {
			labels[i] = NoLabel
			continue
		}
		labels[i] = p.Label
	}
	return labels
}

// Param is a single function parameter: an optional label and a type.
type Param struct {
	Label string `json:"label,omitempty"`
	Type  Type   `json:"type"`
}

// TypeDef is a type definition: an arity (number of type parameters)
// and an ordered list of constructors. Constructor declaration order is
// not significant for structural equality.
type TypeDef struct {
	Arity int    `json:"arity"`
	Ctors []Ctor `json:"ctors"`
}

// Ctor is a single data constructor with positionally significant,
// optionally labeled parameters.
type Ctor struct {
	Name   string      `json:"name"`
	Params []CtorParam `json:"params"`
}

// CtorParam is one constructor parameter.
type CtorParam struct {
	Label string `json:"label,omitempty"`
	Type  Type   `json:"type"`
}

// TypeAlias is a type alias: an arity and the aliased expression.
type TypeAlias struct {
	Arity int  `json:"arity"`
	Type  Type `json:"type"`
}

// Type is a sealed type-expression variant set. Only TypeVar,
// TypeTuple, TypeNamed and TypeFn implement it.
type Type interface {
	typeExpr() // Sealed - only these four variants implement it
}

// TypeVar is a type variable. Ids are scoped to the enclosing
// definition or alias: the same id used twice within one definition
// refers to the same type parameter, and ids carry no meaning across
// definitions.
type TypeVar struct {
	ID int
}

func (TypeVar) typeExpr() {}

// TypeTuple is a tuple of element types (possibly empty).
type TypeTuple struct {
	Elems []Type
}

func (TypeTuple) typeExpr() {}

// TypeNamed is a reference to a named type, qualified by package and
// module, with type arguments.
type TypeNamed struct {
	Package string
	Module  string
	Name    string
	Args    []Type
}

func (TypeNamed) typeExpr() {}

// TypeFn is a function type.
type TypeFn struct {
	Params []Type
	Return Type
}

func (TypeFn) typeExpr() {}
