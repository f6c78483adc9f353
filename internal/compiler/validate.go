package compiler

import (
	"fmt"
	"strings"

	"github.com/parityhq/parity/internal/verify"
)

// Rule validation error codes (E100-E199)
const (
	ErrUnsupportedRule = "E100" // unsupported rule type for validation

	ErrEmptyModulePath = "E101" // rule references an empty module path
	ErrNoExports       = "E102" // require rule declares no exports
	ErrEmptyExportName = "E103" // export spec has an empty name
	ErrNegativeArity   = "E104" // export spec declares a negative arity
	ErrArityLabelSkew  = "E105" // declared arity disagrees with label count
	ErrNoSharedTypes   = "E106" // shared rule declares no type names
	ErrEmptyTypeName   = "E107" // shared rule lists an empty type name
	ErrEmptyException  = "E108" // mirror rule lists an empty exception name
)

// ValidationError represents a rule schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled rule against schema rules.
// Returns all errors found (does not fail-fast).
func Validate(r verify.Rule) []ValidationError {
	switch rule := r.(type) {
	case verify.MirrorRule:
		return validateMirror(rule)
	case verify.RequireExports:
		return validateRequire(rule)
	case verify.SharedTypes:
		return validateShared(rule)
	default:
		return []ValidationError{{
			Field:   "rule",
			Message: fmt.Sprintf("unsupported rule type: %T", r),
			Code:    ErrUnsupportedRule,
		}}
	}
}

func validateMirror(rule verify.MirrorRule) []ValidationError {
	var errs []ValidationError

	errs = append(errs, checkModulePath("source", rule.Source)...)
	errs = append(errs, checkModulePath("target", rule.Target)...)

	for i, name := range rule.Exceptions {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("except[%d]", i),
				Message: "exception name must be non-empty",
				Code:    ErrEmptyException,
			})
		}
	}

	return errs
}

func validateRequire(rule verify.RequireExports) []ValidationError {
	var errs []ValidationError

	errs = append(errs, checkModulePath("module", rule.Module)...)

	if len(rule.Exports) == 0 {
		errs = append(errs, ValidationError{
			Field:   "exports",
			Message: "at least one export is required",
			Code:    ErrNoExports,
		})
	}

	for i, export := range rule.Exports {
		if strings.TrimSpace(export.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("exports[%d].name", i),
				Message: "export name must be non-empty",
				Code:    ErrEmptyExportName,
			})
		}
		if export.Arity < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("exports[%d].arity", i),
				Message: fmt.Sprintf("arity must not be negative, got %d", export.Arity),
				Code:    ErrNegativeArity,
			})
		}
		if len(export.Labels) > 0 && export.Arity != len(export.Labels) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("exports[%d].labels", i),
				Message: fmt.Sprintf("declared arity %d disagrees with %d labels", export.Arity, len(export.Labels)),
				Code:    ErrArityLabelSkew,
			})
		}
	}

	return errs
}

func validateShared(rule verify.SharedTypes) []ValidationError {
	var errs []ValidationError

	errs = append(errs, checkModulePath("a", rule.ModuleA)...)
	errs = append(errs, checkModulePath("b", rule.ModuleB)...)

	if len(rule.TypeNames) == 0 {
		errs = append(errs, ValidationError{
			Field:   "types",
			Message: "at least one type name is required",
			Code:    ErrNoSharedTypes,
		})
	}

	for i, name := range rule.TypeNames {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("types[%d]", i),
				Message: "type name must be non-empty",
				Code:    ErrEmptyTypeName,
			})
		}
	}

	return errs
}

func checkModulePath(field, path string) []ValidationError {
	if strings.TrimSpace(path) != "" {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Message: "module path must be non-empty",
		Code:    ErrEmptyModulePath,
	}}
}
