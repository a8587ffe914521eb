package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jocelynchengyang/correlationAnalysis/internal/config"
	"github.com/jocelynchengyang/correlationAnalysis/internal/infrastructure"
	"github.com/jocelynchengyang/correlationAnalysis/internal/services"
	"github.com/jocelynchengyang/correlationAnalysis/internal/validation"
)

const (
	VERSION = "1.0.0"
	AppName = "Correlation Analysis - Pearson and Bland-Altman method comparison"
)

// shutdownTimeout bounds the trace flush and metrics dump after a run
const shutdownTimeout = 10 * time.Second

// Options are the command-line inputs. Zero values leave the configuration untouched.
type Options struct {
	Input         string
	OutputDir     string
	ConfigPath    string
	LogLevel      string
	Exclude       []string
	Workers       int
	MissingMarker string
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Validator     *validation.FileValidator
	Analysis      *services.AnalysisService

	input  string
	outDir string
}

// NewApplication loads configuration, validates the input and output paths
// and wires the analysis service. The log file is closed again if any step
// after logger setup fails.
func NewApplication(opts Options) (application *Application, err error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err != nil {
			infrastructure.CloseLogFile()
		}
	}()

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("input", opts.Input))

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(opts.Input); err != nil {
		return nil, err
	}
	if err := validator.ValidateOutputDirectory(outDir); err != nil {
		return nil, err
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry, outDir), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	analysis, err := services.NewAnalysisService(cfg, otelProviders, logger)
	if err != nil {
		otelProviders.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}

	return &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Validator:     validator,
		Analysis:      analysis,
		input:         opts.Input,
		outDir:        outDir,
	}, nil
}

// applyOptions layers command-line flags over the loaded configuration
func applyOptions(cfg *config.Config, opts Options) error {
	if opts.Input == "" {
		return errors.New("input file is required")
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.Workers > 0 {
		cfg.Analysis.Workers = opts.Workers
	}
	if opts.MissingMarker != "" {
		cfg.Analysis.MissingMarker = opts.MissingMarker
	}
	cfg.Analysis.MergeExcluded(opts.Exclude...)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Run executes one analysis. The run is cancelled on SIGINT or SIGTERM.
// Telemetry is flushed whether or not the analysis succeeds.
func (app *Application) Run(ctx context.Context) (*services.RunResult, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = infrastructure.EnsureTraceID(ctx)
	result, err := app.Analysis.Run(ctx, app.input, app.outDir)
	if err != nil {
		app.Logger.ErrorContext(ctx, "Analysis failed",
			slog.String("input", app.input),
			slog.String("error", err.Error()))
	} else {
		app.Logger.InfoContext(ctx, "Outputs written",
			slog.String("output_dir", app.outDir),
			slog.String("summary", result.Outputs.Summary),
			slog.String("report", result.Outputs.Report))
	}

	if shutdownErr := app.Shutdown(); shutdownErr != nil {
		app.Logger.Warn("Telemetry shutdown failed", slog.String("error", shutdownErr.Error()))
		if err == nil {
			err = shutdownErr
		}
	}
	return result, err
}

// Shutdown flushes telemetry and closes the log file
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := app.OTelProviders.Shutdown(ctx)
	infrastructure.CloseLogFile()
	return err
}

// OutputDir returns the directory results are written to
func (app *Application) OutputDir() string {
	return app.outDir
}
