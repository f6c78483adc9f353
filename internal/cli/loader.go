package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/parityhq/parity/internal/compiler"
	"github.com/parityhq/parity/internal/iface"
	"github.com/parityhq/parity/internal/verify"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Path not found
	ErrCodeReadFailed   = "E003" // File could not be read
	ErrCodeDecodeFailed = "E004" // File read but content does not decode
	ErrCodeRulesFailed  = "E005" // Rule document failed to load or compile
	ErrCodeRulesInvalid = "E006" // Rules compiled but failed schema validation
	ErrCodeStoreFailed  = "E007" // History database error
)

// LoadError represents an error that occurred while acquiring input.
// The code distinguishes "could not read the file" from "file read but
// content does not decode".
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadInterface reads and decodes a JSON package interface document.
func LoadInterface(path string) (*iface.Interface, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("interface document not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error accessing interface document: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("not a file: %s", path)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading interface document: %v", err)}
	}

	in, err := iface.Decode(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("decoding %s: %v", path, err)}
	}

	return in, nil
}

// LoadFailureViolation wraps a load error as the single violation the
// engine's caller sees for a failed interface acquisition.
func LoadFailureViolation(path string, err error) verify.InterfaceLoadFailure {
	return verify.InterfaceLoadFailure{Path: path, Reason: err.Error()}
}

// LoadRules loads, compiles and validates a CUE rule document. The path
// may be a single .cue file or a directory of them.
func LoadRules(path string) ([]verify.Rule, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error accessing rules: %v", err)}
	}

	dir := path
	args := []string{"."}
	if !info.IsDir() {
		dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeRulesFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeRulesFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeRulesFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	rules, err := compiler.CompileRules(value)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRulesFailed, Message: fmt.Sprintf("compiling rules: %v", err)}
	}

	var invalid []compiler.ValidationError
	for _, rule := range rules {
		invalid = append(invalid, compiler.Validate(rule)...)
	}
	if len(invalid) > 0 {
		return nil, &LoadError{
			Code:    ErrCodeRulesInvalid,
			Message: fmt.Sprintf("%d invalid rule declaration(s), first: %v", len(invalid), invalid[0]),
		}
	}

	return rules, nil
}
