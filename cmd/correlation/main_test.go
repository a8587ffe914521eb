package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jocelynchengyang/correlationAnalysis/internal/errors"
	"github.com/jocelynchengyang/correlationAnalysis/internal/infrastructure"
	"github.com/jocelynchengyang/correlationAnalysis/internal/shared/testutil"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"config", "log-level", "exclude", "workers", "missing-marker"} {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, cmd.Flags().Lookup(name))
		})
	}
	assert.Equal(t, "c", cmd.Flags().Lookup("config").Shorthand)
}

func TestRootCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "too many arguments", args: []string{"a.xlsx", "out", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			assert.Error(t, cmd.ExecuteContext(context.Background()))
		})
	}
}

func TestRun_EndToEnd(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)
	dir := t.TempDir()

	patients := make([]testutil.PatientValues, 0, 6)
	for i := 0; i < 6; i++ {
		v := 0.5 + 0.03*float64(i)
		patients = append(patients, testutil.PatientValues{ID: 2001 + i, Values: [][2]any{{v, v + 0.02}}})
	}
	input := testutil.WriteWorkbook(t, dir, "values.xlsx",
		testutil.MeasurementSheet("Pt ID", []string{"C5 whole cord"}, patients))

	configPath := filepath.Join(dir, "correlation.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
[logging]
output = "file"
file_path = "`+filepath.ToSlash(filepath.Join(dir, "run.log"))+`"

[[measurements]]
column_a = "C5 whole cord"
column_b = "Unnamed: 2"
key = "C5_Whole"
label = "C5 Whole Cord"
`), 0644))

	outDir := filepath.Join(dir, "results")
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{input, outDir, "--config", configPath, "--exclude", "2006", "--workers", "2"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Analysed 1 of 1 measurements (0 skipped, 0 undefined, 1 significant)")
	assert.Contains(t, out.String(), "Results saved to "+outDir)
	assert.FileExists(t, filepath.Join(outDir, "correlation_report.txt"))
	assert.FileExists(t, filepath.Join(outDir, "C5_Whole_scatter.png"))
}

func TestRun_StructuralFailure(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)
	dir := t.TempDir()

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(dir, "missing.xlsx"), filepath.Join(dir, "out"), "--log-level", "error"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStructural))
	assert.True(t, strings.HasPrefix(diagnostic(err), "Invalid input: "), diagnostic(err))
}

func TestDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "structural error",
			err:  apperrors.NewStructuralError("open input", "values.xlsx", os.ErrNotExist),
			want: "Invalid input: ",
		},
		{
			name: "wrapped structural error",
			err:  fmt.Errorf("load: %w", apperrors.ErrStructural),
			want: "Invalid input: load: ",
		},
		{
			name: "other failure",
			err:  errors.New("render plots: disk full"),
			want: "Error: render plots: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(diagnostic(tt.err), tt.want), diagnostic(tt.err))
		})
	}
}
