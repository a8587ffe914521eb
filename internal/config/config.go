package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment override, e.g. CORRELATION_ANALYSIS_MIN_PAIRS.
const EnvPrefix = "CORRELATION"

// Config represents the complete run configuration
type Config struct {
	Analysis     AnalysisConfig  `yaml:"analysis" toml:"analysis" envconfig:"ANALYSIS"`
	Plot         PlotConfig      `yaml:"plot" toml:"plot" envconfig:"PLOT"`
	Output       OutputConfig    `yaml:"output" toml:"output" envconfig:"OUTPUT"`
	Logging      LoggingConfig   `yaml:"logging" toml:"logging" envconfig:"LOGGING"`
	Telemetry    TelemetryConfig `yaml:"telemetry" toml:"telemetry" envconfig:"TELEMETRY"`
	Measurements []Measurement   `yaml:"measurements" toml:"measurements" ignored:"true" validate:"required,min=1,unique=Key,dive"`
}

// AnalysisConfig controls pair extraction and the statistics engine
type AnalysisConfig struct {
	IDColumn         string   `yaml:"id_column" toml:"id_column" envconfig:"ID_COLUMN" validate:"required"`
	Sheet            string   `yaml:"sheet" toml:"sheet" envconfig:"SHEET"`
	SkipRows         int      `yaml:"skip_rows" toml:"skip_rows" envconfig:"SKIP_ROWS" validate:"min=0"`
	MissingMarker    string   `yaml:"missing_marker" toml:"missing_marker" envconfig:"MISSING_MARKER" validate:"required"`
	ExcludedPatients []string `yaml:"excluded_patients" toml:"excluded_patients" envconfig:"EXCLUDED_PATIENTS"`
	MinPairs         int      `yaml:"min_pairs" toml:"min_pairs" envconfig:"MIN_PAIRS" validate:"min=3"`
	Workers          int      `yaml:"workers" toml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	MethodALabel     string   `yaml:"method_a_label" toml:"method_a_label" envconfig:"METHOD_A_LABEL" validate:"required"`
	MethodBLabel     string   `yaml:"method_b_label" toml:"method_b_label" envconfig:"METHOD_B_LABEL" validate:"required"`
}

// PlotConfig contains image rendering settings
type PlotConfig struct {
	Width          int    `yaml:"width" toml:"width" envconfig:"WIDTH" validate:"min=200"`
	Height         int    `yaml:"height" toml:"height" envconfig:"HEIGHT" validate:"min=200"`
	ShowPatientIDs bool   `yaml:"show_patient_ids" toml:"show_patient_ids" envconfig:"SHOW_PATIENT_IDS"`
	TitleSuffix    string `yaml:"title_suffix" toml:"title_suffix" envconfig:"TITLE_SUFFIX"`
}

// OutputConfig names the files written into the output directory
type OutputConfig struct {
	Dir         string `yaml:"dir" toml:"dir" envconfig:"DIR" validate:"required"`
	SummaryFile string `yaml:"summary_file" toml:"summary_file" envconfig:"SUMMARY_FILE" validate:"required"`
	ReportFile  string `yaml:"report_file" toml:"report_file" envconfig:"REPORT_FILE" validate:"required"`
	JSONFile    string `yaml:"json_file" toml:"json_file" envconfig:"JSON_FILE" validate:"required"`
	CSVBOM      bool   `yaml:"csv_bom" toml:"csv_bom" envconfig:"CSV_BOM"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" toml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" toml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" toml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" toml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig toggles the optional trace and metrics dumps
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" toml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     bool   `yaml:"tracing" toml:"tracing" envconfig:"TRACING"`
	Metrics     bool   `yaml:"metrics" toml:"metrics" envconfig:"METRICS"`
	TraceFile   string `yaml:"trace_file" toml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=Tracing true"`
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file" envconfig:"METRICS_FILE" validate:"required_if=Metrics true"`
}

// Load builds the configuration from defaults, an optional config file, a .env file
// and CORRELATION_* environment variables, in increasing order of precedence.
// An empty path falls back to the well-known config file locations.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", path, err)
		}
	}

	// Env takes precedence; fields without a matching variable keep their value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile decodes a YAML or TOML file over cfg. A measurements list in
// the file replaces the defaults rather than extending them.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	defaults := cfg.Measurements
	cfg.Measurements = nil

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(filePath))
	}

	if len(cfg.Measurements) == 0 {
		cfg.Measurements = defaults
	}
	return err
}

// getConfigFilePath returns the first config file found in the common locations
func getConfigFilePath() string {
	locations := []string{
		"correlation.yaml",
		"correlation.yml",
		"correlation.toml",
		"configs/correlation.yaml",
		"configs/correlation.toml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()

	// Report yaml names so messages match what users write in config files
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v.Struct(c)
}

// ExcludedSet returns the excluded patient identifiers as a lookup set
func (a AnalysisConfig) ExcludedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(a.ExcludedPatients))
	for _, id := range a.ExcludedPatients {
		id = NormalizeID(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// MergeExcluded adds identifiers to the exclusion list, skipping duplicates
func (a *AnalysisConfig) MergeExcluded(ids ...string) {
	seen := a.ExcludedSet()
	for _, id := range ids {
		norm := NormalizeID(id)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		a.ExcludedPatients = append(a.ExcludedPatients, norm)
	}
}

// NormalizeID trims a patient identifier and drops a trailing ".0" that
// spreadsheets add to integer-valued cells.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if trimmed, ok := strings.CutSuffix(id, ".0"); ok {
		if _, err := strconv.Atoi(trimmed); err == nil {
			return trimmed
		}
	}
	return id
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			IDColumn:      "Pt ID",
			SkipRows:      1,
			MissingMarker: "x",
			MinPairs:      3,
			Workers:       1,
			MethodALabel:  "Values.xls",
			MethodBLabel:  "SCToolbox (combined_output)",
		},
		Plot: PlotConfig{
			Width:          1000,
			Height:         800,
			ShowPatientIDs: true,
			TitleSuffix:    "FA",
		},
		Output: OutputConfig{
			Dir:         "correlation_results",
			SummaryFile: "correlation_summary.csv",
			ReportFile:  "correlation_report.txt",
			JSONFile:    "correlation_results.json",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/correlation.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "correlation-analysis",
			TraceFile:   "trace.json",
			MetricsFile: "metrics.prom",
		},
		Measurements: DefaultMeasurements(),
	}
}
