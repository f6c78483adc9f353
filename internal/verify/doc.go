// Package verify is the verification engine: it evaluates structural
// rules against a decoded package interface and reports every rule
// violation it finds.
//
// The engine is a pure, synchronous computation. Verify never mutates
// the interface or the rules, holds no global state, and produces a
// deterministic violation list: rules contribute in the order they were
// supplied, and each rule visits its own checks in a sorted order that
// does not depend on map iteration.
//
// Failure is data, never an error return. Every contract failure is one
// of the sealed Violation variants; a rule that references a module the
// interface does not contain yields ModuleNotFound and the rest of that
// rule is skipped, but the run always continues with the next rule.
package verify
