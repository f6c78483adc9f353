// Package report renders verification violations for humans. It sits
// downstream of the engine: formatting consumes the violation list and
// never re-queries the interface.
package report

import (
	"fmt"
	"strings"

	"github.com/parityhq/parity/internal/verify"
)

// Format renders the full violation list: one paragraph per violation,
// paragraphs separated by a blank line. An empty list renders as the
// empty string.
func Format(violations []verify.Violation) string {
	paragraphs := make([]string, len(violations))
	for i, v := range violations {
		paragraphs[i] = FormatViolation(v)
	}
	return strings.Join(paragraphs, "\n\n")
}

// FormatViolation renders one violation as a paragraph starting with
// "FAIL:". Label sequences print as bracketed comma-joined lists,
// e.g. [theme, config, label].
func FormatViolation(v verify.Violation) string {
	switch violation := v.(type) {
	case verify.MissingFunction:
		return fmt.Sprintf("FAIL: function %q from %s is not exposed by %s",
			violation.Name, violation.Source, violation.Target)

	case verify.ParameterMismatch:
		return fmt.Sprintf("FAIL: %s.%s has the wrong parameter labels\n  expected: %s\n  actual:   %s",
			violation.Module, violation.Name,
			labelList(violation.Expected), labelList(violation.Actual))

	case verify.MissingType:
		return fmt.Sprintf("FAIL: type %q is missing from %s",
			violation.Name, violation.Module)

	case verify.TypeMismatch:
		return fmt.Sprintf("FAIL: type %q differs between %s and %s: %s",
			violation.Name, violation.ModuleA, violation.ModuleB, violation.Reason)

	case verify.MissingExport:
		return fmt.Sprintf("FAIL: %s does not export %q with arity %d",
			violation.Module, violation.Name, violation.Arity)

	case verify.ModuleNotFound:
		return fmt.Sprintf("FAIL: module %s not found in the package interface",
			violation.Module)

	case verify.InterfaceLoadFailure:
		return fmt.Sprintf("FAIL: could not load package interface %s: %s",
			violation.Path, violation.Reason)

	default:
		// Violation is sealed; an eighth variant is a programming error.
		return fmt.Sprintf("FAIL: unknown violation %T", v)
	}
}

// labelList renders a label sequence as [a, b, c].
func labelList(labels []string) string {
	return "[" + strings.Join(labels, ", ") + "]"
}
