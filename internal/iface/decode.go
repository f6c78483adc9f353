package iface

import (
	"encoding/json"
	"fmt"
)

// Decode parses a JSON interface document.
//
// Type expressions on the wire are single-key tagged objects:
//
//	{"var": 7}
//	{"tuple": [ ... ]}
//	{"named": {"package": "core", "module": "String", "name": "String", "args": [ ... ]}}
//	{"fn": {"params": [ ... ], "return": ... }}
//
// Unknown tags and multi-key objects are rejected so that a typo in a
// document surfaces as a decode error rather than a silently dropped
// type.
func Decode(data []byte) (*Interface, error) {
	var in Interface
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	if in.Modules == nil {
		return nil, fmt.Errorf("interface document has no \"modules\" mapping")
	}
	return &in, nil
}

// decodeType decodes one tagged type expression.
func decodeType(data []byte) (Type, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, fmt.Errorf("type expression must be a tagged object: %w", err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("type expression must have exactly one tag, got %d", len(tagged))
	}

	for tag, raw := range tagged {
		switch tag {
		case "var":
			var id int
			if err := json.Unmarshal(raw, &id); err != nil {
				return nil, fmt.Errorf("var: %w", err)
			}
			return TypeVar{ID: id}, nil

		case "tuple":
			var elems []json.RawMessage
			if err := json.Unmarshal(raw, &elems); err != nil {
				return nil, fmt.Errorf("tuple: %w", err)
			}
			tuple := TypeTuple{Elems: make([]Type, len(elems))}
			for i, elem := range elems {
				t, err := decodeType(elem)
				if err != nil {
					return nil, fmt.Errorf("tuple[%d]: %w", i, err)
				}
				tuple.Elems[i] = t
			}
			return tuple, nil

		case "named":
			var named struct {
				Package string            `json:"package"`
				Module  string            `json:"module"`
				Name    string            `json:"name"`
				Args    []json.RawMessage `json:"args"`
			}
			if err := json.Unmarshal(raw, &named); err != nil {
				return nil, fmt.Errorf("named: %w", err)
			}
			if named.Name == "" {
				return nil, fmt.Errorf("named: missing type name")
			}
			n := TypeNamed{Package: named.Package, Module: named.Module, Name: named.Name}
			for i, arg := range named.Args {
				t, err := decodeType(arg)
				if err != nil {
					return nil, fmt.Errorf("named %q arg[%d]: %w", named.Name, i, err)
				}
				n.Args = append(n.Args, t)
			}
			return n, nil

		case "fn":
			var fn struct {
				Params []json.RawMessage `json:"params"`
				Return json.RawMessage   `json:"return"`
			}
			if err := json.Unmarshal(raw, &fn); err != nil {
				return nil, fmt.Errorf("fn: %w", err)
			}
			if len(fn.Return) == 0 {
				return nil, fmt.Errorf("fn: missing return type")
			}
			f := TypeFn{Params: make([]Type, len(fn.Params))}
			for i, param := range fn.Params {
				t, err := decodeType(param)
				if err != nil {
					return nil, fmt.Errorf("fn param[%d]: %w", i, err)
				}
				f.Params[i] = t
			}
			ret, err := decodeType(fn.Return)
			if err != nil {
				return nil, fmt.Errorf("fn return: %w", err)
			}
			f.Return = ret
			return f, nil

		default:
			return nil, fmt.Errorf("unknown type tag %q", tag)
		}
	}

	return nil, fmt.Errorf("empty type expression")
}

// UnmarshalJSON implements json.Unmarshaler for Param.
// Needed because Param holds the Type interface.
func (p *Param) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label string          `json:"label"`
		Type  json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Type) == 0 {
		return fmt.Errorf("parameter %q: missing type", raw.Label)
	}
	t, err := decodeType(raw.Type)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", raw.Label, err)
	}
	p.Label = raw.Label
	p.Type = t
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for CtorParam.
func (p *CtorParam) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label string          `json:"label"`
		Type  json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Type) == 0 {
		return fmt.Errorf("constructor parameter %q: missing type", raw.Label)
	}
	t, err := decodeType(raw.Type)
	if err != nil {
		return fmt.Errorf("constructor parameter %q: %w", raw.Label, err)
	}
	p.Label = raw.Label
	p.Type = t
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for TypeAlias.
func (a *TypeAlias) UnmarshalJSON(data []byte) error {
	var raw struct {
		Arity int             `json:"arity"`
		Type  json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Type) == 0 {
		return fmt.Errorf("alias: missing aliased type")
	}
	t, err := decodeType(raw.Type)
	if err != nil {
		return fmt.Errorf("alias: %w", err)
	}
	a.Arity = raw.Arity
	a.Type = t
	return nil
}
