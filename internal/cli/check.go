package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parityhq/parity/internal/iface"
	"github.com/parityhq/parity/internal/report"
	"github.com/parityhq/parity/internal/store"
	"github.com/parityhq/parity/internal/verify"
)

// CheckResult holds a verification run's outcome for JSON output.
type CheckResult struct {
	Valid      bool              `json:"valid"`
	RunID      string            `json:"run_id,omitempty"`
	Violations []ViolationRecord `json:"violations,omitempty"`
}

// ViolationRecord pairs a violation with its kind tag and rendered
// message.
type ViolationRecord struct {
	Kind      string           `json:"kind"`
	Message   string           `json:"message"`
	Violation verify.Violation `json:"violation"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var rulesPath, manifestPath, dbPath string
	var record bool

	cmd := &cobra.Command{
		Use:   "check [interface.json]",
		Short: "Verify an interface document against declared rules",
		Long: `Verify that the modules described by a JSON interface document satisfy
the mirror, require and shared-types rules declared in a CUE document.

Paths can come from flags, from a parity.yaml manifest (--manifest), or
both; flags win. Exit code 0 means no violations, 1 means violations
were found, 2 means the command itself failed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			interfacePath := ""
			if len(args) > 0 {
				interfacePath = args[0]
			}
			return runCheck(rootOpts, cmd, checkConfig{
				Interface: interfacePath,
				Rules:     rulesPath,
				Manifest:  manifestPath,
				DB:        dbPath,
				Record:    record,
			})
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "path to the CUE rule document (file or directory)")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to a parity.yaml run manifest")
	cmd.Flags().StringVar(&dbPath, "db", "", "history database path")
	cmd.Flags().BoolVar(&record, "record", false, "record this run in the history database")

	return cmd
}

type checkConfig struct {
	Interface string
	Rules     string
	Manifest  string
	DB        string
	Record    bool
}

// resolve merges manifest values under the flag values.
func (c checkConfig) resolve() (checkConfig, error) {
	if c.Manifest == "" {
		return c, nil
	}

	manifest, err := LoadManifest(c.Manifest)
	if err != nil {
		return c, err
	}

	if c.Interface == "" {
		c.Interface = manifest.Interface
	}
	if c.Rules == "" {
		c.Rules = manifest.Rules
	}
	if c.DB == "" {
		c.DB = manifest.DB
	}
	c.Record = c.Record || manifest.Record
	return c, nil
}

func runCheck(opts *RootOptions, cmd *cobra.Command, cfg checkConfig) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := cfg.resolve()
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}
	if cfg.Interface == "" {
		return commandError(formatter, ErrCodeGeneric, "no interface document: pass a path or use --manifest")
	}
	if cfg.Rules == "" {
		return commandError(formatter, ErrCodeGeneric, "no rules: pass --rules or use --manifest")
	}
	if cfg.Record && cfg.DB == "" {
		return commandError(formatter, ErrCodeGeneric, "--record requires --db")
	}

	in, err := LoadInterface(cfg.Interface)
	if err != nil {
		// A load failure is the one violation the caller sees.
		failure := LoadFailureViolation(cfg.Interface, err)
		if outErr := renderViolations(formatter, "", []verify.Violation{failure}); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "interface load failed", err)
	}
	formatter.VerboseLog("Loaded %d module(s) from %s", len(in.Modules), cfg.Interface)

	rules, err := LoadRules(cfg.Rules)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return commandError(formatter, loadErr.Code, loadErr.Message)
		}
		return commandError(formatter, ErrCodeRulesFailed, err.Error())
	}
	formatter.VerboseLog("Compiled %d rule(s) from %s", len(rules), cfg.Rules)

	violations := verify.Verify(in, rules)

	runID := ""
	if cfg.Record {
		runID, err = recordRun(cmd, cfg, in, len(rules), violations)
		if err != nil {
			return commandError(formatter, ErrCodeStoreFailed, err.Error())
		}
		formatter.VerboseLog("Recorded run %s in %s", runID, cfg.DB)
	}

	if len(violations) == 0 {
		return outputCheckSuccess(formatter, runID)
	}
	return outputViolations(formatter, runID, violations)
}

// recordRun writes the run to the history database.
func recordRun(cmd *cobra.Command, cfg checkConfig, in *iface.Interface, ruleCount int, violations []verify.Violation) (string, error) {
	db, err := store.Open(cfg.DB)
	if err != nil {
		return "", err
	}
	defer db.Close()

	run := store.NewRun(cfg.Interface, iface.Fingerprint(in))
	if err := db.WriteRun(cmd.Context(), run, ruleCount, violations); err != nil {
		return "", err
	}
	return run.ID, nil
}

func outputCheckSuccess(formatter *OutputFormatter, runID string) error {
	if formatter.Format == "json" {
		return formatter.Success(CheckResult{Valid: true, RunID: runID})
	}

	fmt.Fprintln(formatter.Writer, "✓ no violations")
	return nil
}

func outputViolations(formatter *OutputFormatter, runID string, violations []verify.Violation) error {
	if err := renderViolations(formatter, runID, violations); err != nil {
		return err
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d violation(s) found", len(violations)))
}

// renderViolations writes the violation report without deciding the
// exit code - the load-failure path exits 2, the verification path 1.
func renderViolations(formatter *OutputFormatter, runID string, violations []verify.Violation) error {
	if formatter.Format == "json" {
		records := make([]ViolationRecord, len(violations))
		for i, v := range violations {
			records[i] = ViolationRecord{
				Kind:      v.Kind(),
				Message:   report.FormatViolation(v),
				Violation: v,
			}
		}
		response := Response{
			Status: "error",
			Data:   CheckResult{Valid: false, RunID: runID, Violations: records},
			Error: &ResponseError{
				Code:    records[0].Kind,
				Message: fmt.Sprintf("%d violation(s) found", len(violations)),
			},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}

	fmt.Fprintln(formatter.Writer, report.Format(violations))
	return nil
}

// commandError reports a command-level problem and returns exit code 2.
func commandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
