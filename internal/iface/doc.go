// Package iface holds the decoded description of a package's public
// surface: its modules, their exported functions, and their type
// definitions and aliases.
//
// The model is read-only once decoded. The verification engine walks it
// but never mutates it, so a single Interface value can back any number
// of concurrent verification runs.
//
// Type expressions form a sealed variant set (TypeVar, TypeTuple,
// TypeNamed, TypeFn). Canonical structural keys for type expressions,
// definitions and aliases live in canon.go; they are equal for two
// inputs iff the inputs are structurally identical up to a consistent
// renaming of type-variable ids.
package iface
