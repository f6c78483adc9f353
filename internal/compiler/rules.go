// Package compiler turns CUE rule declarations into verification rules.
//
// A rule document declares rules under three top-level structs:
//
//	mirror: icons: {
//		source: "Ui.Icon"
//		target: "Ui.Themed.Icon"
//		prefix: ["theme"]        // or [{label: "theme"}]; "_" is unlabeled
//		except: ["custom"]
//	}
//	require: entry: {
//		module: "App"
//		exports: [{name: "main", arity: 1, labels: ["config"]}]
//	}
//	shared: toggle: {
//		a: "Ui.Toggle"
//		b: "Ui.Themed.Toggle"
//		types: ["ToggleState"]
//	}
//
// Compilation uses the CUE SDK's Go API directly. Rules come back in
// declaration order within each block, blocks in mirror, require,
// shared order, so the verification run is deterministic.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/parityhq/parity/internal/iface"
	"github.com/parityhq/parity/internal/verify"
)

// CompileRules compiles every rule declared in a built CUE value.
func CompileRules(v cue.Value) ([]verify.Rule, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var rules []verify.Rule

	mirrors := v.LookupPath(cue.ParsePath("mirror"))
	if mirrors.Exists() {
		iter, err := mirrors.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			rule, err := CompileMirror(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}

	requires := v.LookupPath(cue.ParsePath("require"))
	if requires.Exists() {
		iter, err := requires.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			rule, err := CompileRequire(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}

	shareds := v.LookupPath(cue.ParsePath("shared"))
	if shareds.Exists() {
		iter, err := shareds.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			rule, err := CompileShared(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}

	if len(rules) == 0 {
		return nil, &CompileError{
			Field:   "rules",
			Message: "no mirror, require or shared rules declared",
			Pos:     v.Pos(),
		}
	}

	return rules, nil
}

// CompileMirror compiles one mirror rule declaration.
func CompileMirror(id string, v cue.Value) (verify.MirrorRule, error) {
	source, err := requiredString(v, "source", "mirror."+id)
	if err != nil {
		return verify.MirrorRule{}, err
	}
	target, err := requiredString(v, "target", "mirror."+id)
	if err != nil {
		return verify.MirrorRule{}, err
	}

	prefix, err := parseParamSpecs(v.LookupPath(cue.ParsePath("prefix")), "mirror."+id+".prefix")
	if err != nil {
		return verify.MirrorRule{}, err
	}

	rule := verify.Mirror(source, target, prefix...)

	exceptVal := v.LookupPath(cue.ParsePath("except"))
	if exceptVal.Exists() {
		names, err := stringList(exceptVal, "mirror."+id+".except")
		if err != nil {
			return verify.MirrorRule{}, err
		}
		rule = verify.WithExceptions(rule, names...).(verify.MirrorRule)
	}

	return rule, nil
}

// CompileRequire compiles one require rule declaration.
func CompileRequire(id string, v cue.Value) (verify.RequireExports, error) {
	module, err := requiredString(v, "module", "require."+id)
	if err != nil {
		return verify.RequireExports{}, err
	}

	exportsVal := v.LookupPath(cue.ParsePath("exports"))
	if !exportsVal.Exists() {
		return verify.RequireExports{}, &CompileError{
			Field:   "require." + id + ".exports",
			Message: "exports list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := exportsVal.List()
	if err != nil {
		return verify.RequireExports{}, formatCUEError(err)
	}

	var exports []verify.ExportSpec
	for i := 0; iter.Next(); i++ {
		field := fmt.Sprintf("require.%s.exports[%d]", id, i)
		exportVal := iter.Value()

		name, err := requiredString(exportVal, "name", field)
		if err != nil {
			return verify.RequireExports{}, err
		}

		arityVal := exportVal.LookupPath(cue.ParsePath("arity"))
		if !arityVal.Exists() {
			return verify.RequireExports{}, &CompileError{
				Field:   field + ".arity",
				Message: "arity is required",
				Pos:     exportVal.Pos(),
			}
		}
		arity, err := arityVal.Int64()
		if err != nil {
			return verify.RequireExports{}, formatCUEError(err)
		}

		labels, err := parseParamSpecs(exportVal.LookupPath(cue.ParsePath("labels")), field+".labels")
		if err != nil {
			return verify.RequireExports{}, err
		}

		exports = append(exports, verify.ExportSpec{
			Name:   name,
			Arity:  int(arity),
			Labels: labels,
		})
	}

	return verify.Require(module, exports...), nil
}

// CompileShared compiles one shared-types rule declaration.
func CompileShared(id string, v cue.Value) (verify.SharedTypes, error) {
	moduleA, err := requiredString(v, "a", "shared."+id)
	if err != nil {
		return verify.SharedTypes{}, err
	}
	moduleB, err := requiredString(v, "b", "shared."+id)
	if err != nil {
		return verify.SharedTypes{}, err
	}

	typesVal := v.LookupPath(cue.ParsePath("types"))
	if !typesVal.Exists() {
		return verify.SharedTypes{}, &CompileError{
			Field:   "shared." + id + ".types",
			Message: "types list is required",
			Pos:     v.Pos(),
		}
	}
	names, err := stringList(typesVal, "shared."+id+".types")
	if err != nil {
		return verify.SharedTypes{}, err
	}

	return verify.Shared(moduleA, moduleB, names...), nil
}

// parseParamSpecs parses a prefix/labels list. Each element is either a
// plain string ("theme", or "_" for unlabeled) or a {label: "theme"}
// struct. A missing list compiles to no specs.
func parseParamSpecs(v cue.Value, field string) ([]verify.ParamSpec, error) {
	if !v.Exists() {
		return nil, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []verify.ParamSpec
	for i := 0; iter.Next(); i++ {
		specVal := iter.Value()

		// String form first, struct form second.
		if label, err := specVal.String(); err == nil {
			specs = append(specs, paramSpecFor(label))
			continue
		}

		labelVal := specVal.LookupPath(cue.ParsePath("label"))
		if !labelVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "parameter spec must be a string or a {label: ...} struct",
				Pos:     specVal.Pos(),
			}
		}
		label, err := labelVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		specs = append(specs, paramSpecFor(label))
	}

	return specs, nil
}

func paramSpecFor(label string) verify.ParamSpec {
	if label == iface.NoLabel {
		return verify.Unlabeled()
	}
	return verify.Labeled(label)
}

// requiredString looks up a required string field.
func requiredString(v cue.Value, name, field string) (string, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return "", &CompileError{
			Field:   field + "." + name,
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// stringList decodes a CUE list of strings.
func stringList(v cue.Value, field string) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for i := 0; iter.Next(); i++ {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a rule compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
