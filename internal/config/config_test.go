package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		setupFile   func(t *testing.T) string // returns temp file path
		wantErr     bool
		errContains string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Pt ID", cfg.Analysis.IDColumn)
				assert.Equal(t, 1, cfg.Analysis.SkipRows)
				assert.Equal(t, "x", cfg.Analysis.MissingMarker)
				assert.Equal(t, 3, cfg.Analysis.MinPairs)
				assert.Equal(t, 1, cfg.Analysis.Workers)
				assert.Empty(t, cfg.Analysis.ExcludedPatients)

				assert.Equal(t, "correlation_results", cfg.Output.Dir)
				assert.Equal(t, "correlation_summary.csv", cfg.Output.SummaryFile)
				assert.Equal(t, "correlation_report.txt", cfg.Output.ReportFile)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.False(t, cfg.Telemetry.Tracing)
				assert.False(t, cfg.Telemetry.Metrics)

				assert.Len(t, cfg.Measurements, 15)
			},
		},
		{
			name: "yaml file overrides defaults",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "correlation.yaml", `
analysis:
  missing_marker: "NA"
  excluded_patients: ["7", "12"]
  workers: 4
plot:
  width: 640
  height: 480
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "NA", cfg.Analysis.MissingMarker)
				assert.Equal(t, []string{"7", "12"}, cfg.Analysis.ExcludedPatients)
				assert.Equal(t, 4, cfg.Analysis.Workers)
				assert.Equal(t, 640, cfg.Plot.Width)
				assert.Equal(t, 480, cfg.Plot.Height)
				// Untouched sections keep defaults
				assert.Equal(t, "Pt ID", cfg.Analysis.IDColumn)
				assert.Equal(t, 3, cfg.Analysis.MinPairs)
				assert.Len(t, cfg.Measurements, 15)
			},
		},
		{
			name: "toml file overrides defaults",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "correlation.toml", `
[analysis]
id_column = "Patient"
min_pairs = 5

[logging]
level = "debug"
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Patient", cfg.Analysis.IDColumn)
				assert.Equal(t, 5, cfg.Analysis.MinPairs)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "environment takes precedence over file",
			env: map[string]string{
				"CORRELATION_ANALYSIS_MIN_PAIRS":         "4",
				"CORRELATION_ANALYSIS_EXCLUDED_PATIENTS": "3,9",
				"CORRELATION_TELEMETRY_METRICS":          "true",
			},
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "correlation.yaml", "analysis:\n  min_pairs: 6\n  missing_marker: \"-\"\n")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 4, cfg.Analysis.MinPairs)
				assert.Equal(t, []string{"3", "9"}, cfg.Analysis.ExcludedPatients)
				assert.Equal(t, "-", cfg.Analysis.MissingMarker)
				assert.True(t, cfg.Telemetry.Metrics)
			},
		},
		{
			name: "measurements list replaces defaults",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "correlation.yaml", `
measurements:
  - column_a: "C5 whole cord"
    column_b: "Unnamed: 2"
    key: "C5_Whole"
    label: "C5 Whole Cord"
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Measurements, 1)
				assert.Equal(t, "C5_Whole", cfg.Measurements[0].Key)
			},
		},
		{
			name: "toml measurements replace defaults",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "correlation.toml", `
[[measurements]]
column_a = "T1 whole cord"
column_b = "Unnamed: 26"
key = "T1_Whole"
label = "T1 Whole Cord"
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Measurements, 1)
				assert.Equal(t, "T1_Whole", cfg.Measurements[0].Key)
			},
		},
		{
			name: "min pairs below three is rejected",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "correlation.yaml", "analysis:\n  min_pairs: 2\n")
			},
			wantErr:     true,
			errContains: "min_pairs",
		},
		{
			name: "duplicate measurement keys are rejected",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "correlation.yaml", `
measurements:
  - {column_a: "A", column_b: "B", key: "K", label: "One"}
  - {column_a: "C", column_b: "D", key: "K", label: "Two"}
`)
			},
			wantErr:     true,
			errContains: "measurements",
		},
		{
			name: "unsupported config extension",
			setupFile: func(t *testing.T) string {
				return writeConfigFile(t, "correlation.json", "{}")
			},
			wantErr:     true,
			errContains: "unsupported config format",
		},
		{
			name: "invalid logging level from env",
			env:  map[string]string{"CORRELATION_LOGGING_LEVEL": "verbose"},
			wantErr:     true,
			errContains: "level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var path string
			if tt.setupFile != nil {
				path = tt.setupFile(t)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestDefaultMeasurements(t *testing.T) {
	ms := DefaultMeasurements()
	require.Len(t, ms, 15)

	keys := make(map[string]bool)
	for i, m := range ms {
		assert.NotEmpty(t, m.ColumnA)
		assert.NotEmpty(t, m.Label)
		assert.False(t, keys[m.Key], "duplicate key %s", m.Key)
		keys[m.Key] = true
		// Method B sits one column to the right of method A, starting at column 2
		assert.Equal(t, "Unnamed: "+strconv.Itoa(2+2*i), m.ColumnB)
	}

	assert.Equal(t, "C5_Whole", ms[0].Key)
	assert.Equal(t, "T1 Left Hemicord", ms[14].Label)
	assert.Len(t, Columns(ms), 30)
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12", "12"},
		{" 12 ", "12"},
		{"12.0", "12"},
		{"12.5", "12.5"},
		{"P-07", "P-07"},
		{"abc.0", "abc.0"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeID(tt.in))
		})
	}
}

func TestAnalysisConfig_MergeExcluded(t *testing.T) {
	a := AnalysisConfig{ExcludedPatients: []string{"7"}}
	a.MergeExcluded("7.0", " 12 ", "", "12")

	assert.Equal(t, []string{"7", "12"}, a.ExcludedPatients)

	set := a.ExcludedSet()
	assert.Contains(t, set, "7")
	assert.Contains(t, set, "12")
	assert.Len(t, set, 2)
}
