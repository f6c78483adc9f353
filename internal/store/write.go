package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parityhq/parity/internal/report"
	"github.com/parityhq/parity/internal/verify"
)

// NewRun builds a run record with a fresh RFC 4122 UUID and the current
// UTC timestamp. Counts are filled by WriteRun.
func NewRun(interfacePath, interfaceHash string) Run {
	return Run{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		InterfacePath: interfacePath,
		InterfaceHash: interfaceHash,
	}
}

// WriteRun records one verification run and its full ordered violation
// list in a single transaction. Violation rows keep their position in
// the run (seq), their kind tag, their JSON encoding, and the rendered
// message.
func (s *Store) WriteRun(ctx context.Context, run Run, ruleCount int, violations []verify.Violation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, interface_path, interface_hash, rule_count, violation_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.InterfacePath,
		run.InterfaceHash,
		ruleCount,
		len(violations),
	)
	if err != nil {
		return fmt.Errorf("write run: insert run: %w", err)
	}

	for seq, v := range violations {
		detail, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("write run: marshal violation %d: %w", seq, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO violations
			(run_id, seq, kind, detail)
			VALUES (?, ?, ?, ?)
		`,
			run.ID,
			seq,
			v.Kind(),
			string(detail),
		)
		if err != nil {
			return fmt.Errorf("write run: insert violation %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}

	return nil
}

// renderMessage is used at read time so stored runs survive formatter
// wording changes: the paragraph is rebuilt from the stored detail when
// the kind is still known, falling back to the raw detail otherwise.
func renderMessage(kind, detail string) string {
	v, err := decodeViolation(kind, detail)
	if err != nil {
		return detail
	}
	return report.FormatViolation(v)
}

// decodeViolation rebuilds a sealed violation value from its stored
// kind tag and JSON detail.
func decodeViolation(kind, detail string) (verify.Violation, error) {
	data := []byte(detail)
	switch kind {
	case verify.MissingFunction{}.Kind():
		var v verify.MissingFunction
		err := json.Unmarshal(data, &v)
		return v, err
	case verify.ParameterMismatch{}.Kind():
		var v verify.ParameterMismatch
		err := json.Unmarshal(data, &v)
		return v, err
	case verify.MissingType{}.Kind():
		var v verify.MissingType
		err := json.Unmarshal(data, &v)
		return v, err
	case verify.TypeMismatch{}.Kind():
		var v verify.TypeMismatch
		err := json.Unmarshal(data, &v)
		return v, err
	case verify.MissingExport{}.Kind():
		var v verify.MissingExport
		err := json.Unmarshal(data, &v)
		return v, err
	case verify.ModuleNotFound{}.Kind():
		var v verify.ModuleNotFound
		err := json.Unmarshal(data, &v)
		return v, err
	case verify.InterfaceLoadFailure{}.Kind():
		var v verify.InterfaceLoadFailure
		err := json.Unmarshal(data, &v)
		return v, err
	default:
		return nil, fmt.Errorf("unknown violation kind %q", kind)
	}
}
