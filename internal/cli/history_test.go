package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parityhq/parity/internal/store"
	"github.com/parityhq/parity/internal/verify"
)

func seedRun(t *testing.T, dbPath string, violations []verify.Violation) store.Run {
	t.Helper()

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	run := store.NewRun("surface.json", "abc123")
	require.NoError(t, db.WriteRun(context.Background(), run, 2, violations))
	return run
}

func TestHistoryRequiresDB(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no recorded runs")
}

func TestHistoryListsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	run := seedRun(t, dbPath, []verify.Violation{
		verify.ModuleNotFound{Module: "Lib.Gone"},
	})

	out, _, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, run.ID)
	assert.Contains(t, out, "2 rule(s)")
	assert.Contains(t, out, "1 violation(s)")
}

func TestHistoryListJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	run := seedRun(t, dbPath, nil)

	out, _, err := execute(t, "history", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Runs []store.Run `json:"runs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, run.ID, resp.Data.Runs[0].ID)
}

func TestHistoryShowRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	run := seedRun(t, dbPath, []verify.Violation{
		verify.MissingType{Module: "App.State", Name: "ToggleState"},
	})

	out, _, err := execute(t, "history", "--db", dbPath, "--run", run.ID)
	require.NoError(t, err)
	assert.Contains(t, out, run.ID)
	assert.Contains(t, out, `FAIL: type "ToggleState" is missing from App.State`)
}

func TestHistoryShowCleanRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	run := seedRun(t, dbPath, nil)

	out, _, err := execute(t, "history", "--db", dbPath, "--run", run.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ no violations")
}

func TestHistoryUnknownRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	seedRun(t, dbPath, nil)

	out, _, err := execute(t, "history", "--db", dbPath, "--run", "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "run not found")
}
