package report

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/parityhq/parity/internal/verify"
)

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "", Format([]verify.Violation{}))
}

func TestFormatViolation(t *testing.T) {
	tests := []struct {
		name     string
		input    verify.Violation
		expected string
	}{
		{
			"missing function",
			verify.MissingFunction{Source: "Lib.Icon", Target: "App.Icon", Name: "iconWithSize"},
			`FAIL: function "iconWithSize" from Lib.Icon is not exposed by App.Icon`,
		},
		{
			"parameter mismatch",
			verify.ParameterMismatch{
				Module:   "App.Icon",
				Name:     "icon",
				Expected: []string{"name"},
				Actual:   []string{"theme", "name"},
			},
			"FAIL: App.Icon.icon has the wrong parameter labels\n  expected: [name]\n  actual:   [theme, name]",
		},
		{
			"missing type",
			verify.MissingType{Module: "App.State", Name: "ToggleState"},
			`FAIL: type "ToggleState" is missing from App.State`,
		},
		{
			"type mismatch",
			verify.TypeMismatch{
				Name:    "ToggleState",
				ModuleA: "Lib.State",
				ModuleB: "App.State",
				Reason:  verify.ReasonKindMismatch,
			},
			`FAIL: type "ToggleState" differs between Lib.State and App.State: one module defines the type, the other aliases it`,
		},
		{
			"missing export",
			verify.MissingExport{Module: "App.Main", Name: "main", Arity: 1},
			`FAIL: App.Main does not export "main" with arity 1`,
		},
		{
			"module not found",
			verify.ModuleNotFound{Module: "Lib.Gone"},
			"FAIL: module Lib.Gone not found in the package interface",
		},
		{
			"load failure",
			verify.InterfaceLoadFailure{Path: "surface.json", Reason: "file does not exist"},
			"FAIL: could not load package interface surface.json: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatViolation(tt.input))
		})
	}
}

func TestFormatEmptyLabelSequences(t *testing.T) {
	got := FormatViolation(verify.ParameterMismatch{
		Module:   "App",
		Name:     "init",
		Expected: []string{},
		Actual:   []string{"flags"},
	})
	assert.Contains(t, got, "expected: []")
	assert.Contains(t, got, "actual:   [flags]")
}

func TestFormatReport(t *testing.T) {
	violations := []verify.Violation{
		verify.MissingFunction{Source: "Lib.Icon", Target: "App.Icon", Name: "iconWithSize"},
		verify.ParameterMismatch{
			Module:   "App.Icon",
			Name:     "icon",
			Expected: []string{"name"},
			Actual:   []string{"theme", "name"},
		},
		verify.MissingType{Module: "App.State", Name: "ToggleState"},
		verify.TypeMismatch{
			Name:    "ToggleState",
			ModuleA: "Lib.State",
			ModuleB: "App.State",
			Reason:  verify.ReasonDefsDiffer,
		},
		verify.MissingExport{Module: "App.Main", Name: "main", Arity: 1},
		verify.ModuleNotFound{Module: "Lib.Gone"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report", []byte(Format(violations)+"\n"))
}
