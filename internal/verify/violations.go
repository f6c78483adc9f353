package verify

// Violation is a sealed violation variant set: one variant per kind of
// contract failure. Violations are plain data - they carry every field
// needed to render a precise message without re-querying the interface,
// and they hold no reference back into it.
type Violation interface {
	violation() // Sealed - only the seven violation kinds implement it

	// Kind returns a stable machine-readable tag for the variant,
	// used by the JSON output and the history store.
	Kind() string
}

// Fixed reasons for TypeMismatch. The engine reports that two types
// differ, not how.
const (
	ReasonDefsDiffer    = "type definitions differ structurally"
	ReasonAliasesDiffer = "type aliases differ structurally"
	ReasonKindMismatch  = "one module defines the type, the other aliases it"
)

// MissingFunction reports a source function the target module does not
// expose.
type MissingFunction struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Name   string `json:"name"`
}

func (MissingFunction) violation()   {}
func (MissingFunction) Kind() string { return "missing_function" }

// ParameterMismatch reports a function whose label sequence differs
// from the expected one. Arity mismatches in export checks surface
// through this same shape.
type ParameterMismatch struct {
	Module   string   `json:"module"`
	Name     string   `json:"name"`
	Expected []string `json:"expected"`
	Actual   []string `json:"actual"`
}

func (ParameterMismatch) violation()   {}
func (ParameterMismatch) Kind() string { return "parameter_mismatch" }

// MissingType reports a shared type absent from one module.
type MissingType struct {
	Module string `json:"module"`
	Name   string `json:"name"`
}

func (MissingType) violation()   {}
func (MissingType) Kind() string { return "missing_type" }

// TypeMismatch reports a shared type that exists in both modules but is
// not structurally equal.
type TypeMismatch struct {
	Name    string `json:"name"`
	ModuleA string `json:"module_a"`
	ModuleB string `json:"module_b"`
	Reason  string `json:"reason"`
}

func (TypeMismatch) violation()   {}
func (TypeMismatch) Kind() string { return "type_mismatch" }

// MissingExport reports a required export the module does not define.
type MissingExport struct {
	Module string `json:"module"`
	Name   string `json:"name"`
	Arity  int    `json:"arity"`
}

func (MissingExport) violation()   {}
func (MissingExport) Kind() string { return "missing_export" }

// ModuleNotFound reports a rule module absent from the interface. The
// rest of that rule's checks are skipped.
type ModuleNotFound struct {
	Module string `json:"module"`
}

func (ModuleNotFound) violation()   {}
func (ModuleNotFound) Kind() string { return "module_not_found" }

// InterfaceLoadFailure reports that the interface document itself could
// not be loaded. It belongs to the loading boundary: the engine never
// produces it, and is never invoked without a loaded interface.
type InterfaceLoadFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (InterfaceLoadFailure) violation()   {}
func (InterfaceLoadFailure) Kind() string { return "interface_load_failure" }
