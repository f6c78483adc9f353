package verify

import (
	"slices"

	"github.com/parityhq/parity/internal/iface"
)

// ParamSpec describes one expected parameter position in a label
// sequence: either a labeled position or an unlabeled one. Unlabeled
// positions carry the iface.NoLabel sentinel so a whole label sequence
// compares as a plain []string.
type ParamSpec struct {
	label string
}

// Labeled builds a ParamSpec for a labeled parameter position.
func Labeled(label string) ParamSpec {
	return ParamSpec{label: label}
}

// Unlabeled builds a ParamSpec for an unlabeled parameter position.
func Unlabeled() ParamSpec {
	return ParamSpec{label: iface.NoLabel}
}

// Label returns the position's label, or the NoLabel sentinel.
func (p ParamSpec) Label() string {
	if p.label == "" {
		return iface.NoLabel
	}
	return p.label
}

// labelsOf flattens a ParamSpec sequence into a label sequence.
func labelsOf(specs []ParamSpec) []string {
	labels := make([]string, len(specs))
	for i, s := range specs {
		labels[i] = s.Label()
	}
	return labels
}

// ExportSpec names one function a module is required to export, with
// its expected arity and label sequence.
type ExportSpec struct {
	Name   string
	Arity  int
	Labels []ParamSpec
}

// Rule is a sealed rule variant set. Only MirrorRule, RequireExports
// and SharedTypes implement it. Rules are immutable once built;
// WithExceptions returns a new value rather than mutating.
type Rule interface {
	rule() // Sealed - only the three rule kinds implement it
}

// MirrorRule requires every public function of Source to exist in
// Target with the label sequence Prefix ++ source labels. Functions
// named in Exceptions only need to exist; their labels are not checked.
// Target may export functions Source does not - extras are never
// flagged.
type MirrorRule struct {
	Source     string
	Target     string
	Prefix     []ParamSpec
	Exceptions []string
}

func (MirrorRule) rule() {}

// RequireExports requires Module to export each named function with
// the given arity and label sequence.
type RequireExports struct {
	Module  string
	Exports []ExportSpec
}

func (RequireExports) rule() {}

// SharedTypes requires each named type to exist, and be structurally
// equal, in both modules.
type SharedTypes struct {
	ModuleA   string
	ModuleB   string
	TypeNames []string
}

func (SharedTypes) rule() {}

// Mirror builds a MirrorRule. Pure builder: nothing is validated
// against any interface until verification time.
func Mirror(source, target string, prefix ...ParamSpec) MirrorRule {
	return MirrorRule{Source: source, Target: target, Prefix: prefix}
}

// Require builds a RequireExports rule.
func Require(module string, exports ...ExportSpec) RequireExports {
	return RequireExports{Module: module, Exports: exports}
}

// Shared builds a SharedTypes rule.
func Shared(moduleA, moduleB string, typeNames ...string) SharedTypes {
	return SharedTypes{ModuleA: moduleA, ModuleB: moduleB, TypeNames: typeNames}
}

// WithExceptions returns a copy of a mirror rule with extra exempted
// function names. Applied to any other rule kind it returns the rule
// unchanged - only mirror rules have a concept of exceptions.
func WithExceptions(r Rule, names ...string) Rule {
	m, ok := r.(MirrorRule)
	if !ok {
		return r
	}
	m.Exceptions = append(slices.Clone(m.Exceptions), names...)
	return m
}
