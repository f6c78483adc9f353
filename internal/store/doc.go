// Package store persists verification run history.
//
// Each recorded run keeps the interface fingerprint, the rule count and
// the full ordered violation list, so CI can compare a run against the
// previous one and spot when a surface drifted. Storage is SQLite with
// WAL mode; the schema is embedded and migrated in place via
// user_version.
package store
