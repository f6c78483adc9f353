package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parityhq/parity/internal/verify"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleViolations() []verify.Violation {
	return []verify.Violation{
		verify.MissingFunction{Source: "Lib.Icon", Target: "App.Icon", Name: "iconWithSize"},
		verify.ParameterMismatch{
			Module:   "App.Icon",
			Name:     "icon",
			Expected: []string{"name"},
			Actual:   []string{"theme", "name"},
		},
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestNewRun(t *testing.T) {
	run := NewRun("surface.json", "abc123")

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "surface.json", run.InterfacePath)
	assert.Equal(t, "abc123", run.InterfaceHash)
	assert.WithinDuration(t, time.Now().UTC(), run.CreatedAt, time.Minute)

	// Ids are unique across runs.
	assert.NotEqual(t, run.ID, NewRun("surface.json", "abc123").ID)
}

func TestWriteRunRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := NewRun("surface.json", "abc123")
	violations := sampleViolations()
	require.NoError(t, s.WriteRun(ctx, run, 3, violations))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "surface.json", got.InterfacePath)
	assert.Equal(t, "abc123", got.InterfaceHash)
	assert.Equal(t, 3, got.RuleCount)
	assert.Equal(t, 2, got.ViolationCount)
	assert.True(t, got.CreatedAt.Equal(run.CreatedAt))

	recorded, err := s.RunViolations(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 2)

	assert.Equal(t, 0, recorded[0].Seq)
	assert.Equal(t, "missing_function", recorded[0].Kind)
	assert.Equal(t,
		`FAIL: function "iconWithSize" from Lib.Icon is not exposed by App.Icon`,
		recorded[0].Message)

	assert.Equal(t, 1, recorded[1].Seq)
	assert.Equal(t, "parameter_mismatch", recorded[1].Kind)
	assert.Contains(t, recorded[1].Message, "expected: [name]")
	assert.Contains(t, recorded[1].Message, "actual:   [theme, name]")
}

func TestWriteRunWithoutViolations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := NewRun("surface.json", "abc123")
	require.NoError(t, s.WriteRun(ctx, run, 5, nil))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ViolationCount)

	recorded, err := s.RunViolations(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestListRunsMostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := NewRun("surface.json", "abc123")
		run.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.WriteRun(ctx, run, 1, nil))
	}

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt))
	assert.True(t, runs[1].CreatedAt.After(runs[2].CreatedAt))
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunViolationsUnknownRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.RunViolations(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRenderMessageUnknownKindFallsBack(t *testing.T) {
	// A kind tag this build does not know renders as the raw detail.
	detail := `{"something":"else"}`
	assert.Equal(t, detail, renderMessage("future_kind", detail))
}

func TestDecodeViolationRebuildsValues(t *testing.T) {
	for _, v := range []verify.Violation{
		verify.MissingFunction{Source: "A", Target: "B", Name: "f"},
		verify.ParameterMismatch{Module: "A", Name: "f", Expected: []string{"x"}, Actual: []string{"y"}},
		verify.MissingType{Module: "A", Name: "T"},
		verify.TypeMismatch{Name: "T", ModuleA: "A", ModuleB: "B", Reason: verify.ReasonDefsDiffer},
		verify.MissingExport{Module: "A", Name: "f", Arity: 2},
		verify.ModuleNotFound{Module: "A"},
		verify.InterfaceLoadFailure{Path: "p", Reason: "r"},
	} {
		detail, err := json.Marshal(v)
		require.NoError(t, err)

		got, err := decodeViolation(v.Kind(), string(detail))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}
