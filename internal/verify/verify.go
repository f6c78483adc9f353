package verify

import (
	"slices"
	"sort"
	"strings"

	"github.com/parityhq/parity/internal/iface"
)

// Verify evaluates every rule against the interface and returns the
// full ordered violation list (empty on success).
//
// Rules are evaluated independently: one rule's failures never
// short-circuit the run, and within a rule every applicable sub-check
// runs. Violations appear in rule order; within a rule the visiting
// order is sorted (see each verify* function), so repeated calls with
// the same inputs produce byte-identical results.
func Verify(in *iface.Interface, rules []Rule) []Violation {
	var violations []Violation
	for _, r := range rules {
		switch rule := r.(type) {
		case MirrorRule:
			violations = append(violations, verifyMirror(in, rule)...)
		case RequireExports:
			violations = append(violations, verifyRequire(in, rule)...)
		case SharedTypes:
			violations = append(violations, verifyShared(in, rule)...)
		}
	}
	return violations
}

// verifyMirror checks that target re-exposes every source function,
// with the prefix-extended label sequence unless the function is
// exempted. Functions are visited in lexicographic name order.
func verifyMirror(in *iface.Interface, rule MirrorRule) []Violation {
	var violations []Violation

	source, sourceOK := in.Modules[rule.Source]
	target, targetOK := in.Modules[rule.Target]
	if !sourceOK {
		violations = append(violations, ModuleNotFound{Module: rule.Source})
	}
	if !targetOK {
		violations = append(violations, ModuleNotFound{Module: rule.Target})
	}
	if !sourceOK || !targetOK {
		return violations
	}

	exempt := make(map[string]bool, len(rule.Exceptions))
	for _, name := range rule.Exceptions {
		exempt[name] = true
	}

	for _, name := range sortedNames(source.Functions) {
		fn := source.Functions[name]
		mirrored, ok := target.Functions[name]
		if !ok {
			violations = append(violations, MissingFunction{
				Source: rule.Source,
				Target: rule.Target,
				Name:   name,
			})
			continue
		}
		if exempt[name] {
			// Exempted functions only need to exist.
			continue
		}

		expected := append(labelsOf(rule.Prefix), fn.Labels()...)
		actual := mirrored.Labels()
		if !slices.Equal(expected, actual) {
			violations = append(violations, ParameterMismatch{
				Module:   rule.Target,
				Name:     name,
				Expected: expected,
				Actual:   actual,
			})
		}
	}

	return violations
}

// verifyRequire checks each export spec against the module. Specs are
// visited sorted by (name, arity). An arity mismatch on a present
// function reports through ParameterMismatch, not a distinct kind.
func verifyRequire(in *iface.Interface, rule RequireExports) []Violation {
	var violations []Violation

	module, ok := in.Modules[rule.Module]
	if !ok {
		return append(violations, ModuleNotFound{Module: rule.Module})
	}

	exports := slices.Clone(rule.Exports)
	slices.SortFunc(exports, func(a, b ExportSpec) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.Arity - b.Arity
	})

	for _, export := range exports {
		fn, ok := module.Functions[export.Name]
		if !ok {
			violations = append(violations, MissingExport{
				Module: rule.Module,
				Name:   export.Name,
				Arity:  export.Arity,
			})
			continue
		}

		expected := labelsOf(export.Labels)
		actual := fn.Labels()
		if export.Arity != len(actual) || !slices.Equal(expected, actual) {
			violations = append(violations, ParameterMismatch{
				Module:   rule.Module,
				Name:     export.Name,
				Expected: expected,
				Actual:   actual,
			})
		}
	}

	return violations
}

// verifyShared checks that each named type exists in both modules and
// canonicalizes to the same key. Names are de-duplicated and visited in
// lexicographic order. A module's definitions are checked before its
// aliases - they share one namespace.
func verifyShared(in *iface.Interface, rule SharedTypes) []Violation {
	var violations []Violation

	moduleA, okA := in.Modules[rule.ModuleA]
	moduleB, okB := in.Modules[rule.ModuleB]
	if !okA {
		violations = append(violations, ModuleNotFound{Module: rule.ModuleA})
	}
	if !okB {
		violations = append(violations, ModuleNotFound{Module: rule.ModuleB})
	}
	if !okA || !okB {
		return violations
	}

	names := slices.Clone(rule.TypeNames)
	sort.Strings(names)
	names = slices.Compact(names)

	for _, name := range names {
		keyA, isDefA, foundA := typeKey(moduleA, name)
		keyB, isDefB, foundB := typeKey(moduleB, name)
		if !foundA {
			violations = append(violations, MissingType{Module: rule.ModuleA, Name: name})
		}
		if !foundB {
			violations = append(violations, MissingType{Module: rule.ModuleB, Name: name})
		}
		if !foundA || !foundB {
			continue
		}

		if isDefA != isDefB {
			violations = append(violations, TypeMismatch{
				Name:    name,
				ModuleA: rule.ModuleA,
				ModuleB: rule.ModuleB,
				Reason:  ReasonKindMismatch,
			})
			continue
		}
		if keyA != keyB {
			reason := ReasonAliasesDiffer
			if isDefA {
				reason = ReasonDefsDiffer
			}
			violations = append(violations, TypeMismatch{
				Name:    name,
				ModuleA: rule.ModuleA,
				ModuleB: rule.ModuleB,
				Reason:  reason,
			})
		}
	}

	return violations
}

// typeKey resolves a type name in a module (definitions first, then
// aliases) and returns its canonical key.
func typeKey(m iface.Module, name string) (key string, isDef, found bool) {
	if def, ok := m.Types[name]; ok {
		return iface.DefKey(def), true, true
	}
	if alias, ok := m.Aliases[name]; ok {
		return iface.AliasKey(alias), false, true
	}
	return "", false, false
}

func sortedNames(m map[string]iface.Function) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
