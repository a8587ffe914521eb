package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jocelynchengyang/correlationAnalysis/internal/agreement"
	"github.com/jocelynchengyang/correlationAnalysis/internal/config"
	"github.com/jocelynchengyang/correlationAnalysis/internal/dataprocessing"
	apperrors "github.com/jocelynchengyang/correlationAnalysis/internal/errors"
	"github.com/jocelynchengyang/correlationAnalysis/internal/exporter"
	"github.com/jocelynchengyang/correlationAnalysis/internal/infrastructure"
	"github.com/jocelynchengyang/correlationAnalysis/internal/plot"
)

// RunResult is what one analysis run produced
type RunResult struct {
	Report  *exporter.Report
	Summary exporter.Summary
	Outputs exporter.Outputs
}

// AnalysisService runs every configured measurement against one input file
type AnalysisService struct {
	cfg       *config.Config
	loader    *dataprocessing.Loader
	telemetry *infrastructure.OTelProviders
	logger    *slog.Logger
}

// NewAnalysisService creates the service. A nil telemetry gets no-op providers.
func NewAnalysisService(cfg *config.Config, telemetry *infrastructure.OTelProviders, logger *slog.Logger) (*AnalysisService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if telemetry == nil {
		var err error
		telemetry, err = infrastructure.InitializeOTel(nil, logger)
		if err != nil {
			return nil, err
		}
	}

	return &AnalysisService{
		cfg:       cfg,
		loader:    dataprocessing.NewLoader(logger),
		telemetry: telemetry,
		logger:    infrastructure.WithComponent(logger, "analysis"),
	}, nil
}

// Run loads input, analyses each measurement into outDir and writes the
// summary CSV, narrative report and JSON dump. Structural input problems and
// plot failures abort the run; measurements with too few pairs are skipped.
func (s *AnalysisService) Run(ctx context.Context, input, outDir string) (*RunResult, error) {
	started := time.Now()
	ctx, span := s.telemetry.Tracer.Start(ctx, "analysis.run",
		trace.WithAttributes(
			attribute.String("input", input),
			attribute.Int("measurements", len(s.cfg.Measurements))))
	defer span.End()

	runID := infrastructure.GetTraceID(ctx)
	if runID == "" {
		runID = infrastructure.GenerateTraceID()
	}

	s.logger.InfoContext(ctx, "Starting analysis",
		slog.String("input", input),
		slog.String("output_dir", outDir),
		slog.Int("measurements", len(s.cfg.Measurements)),
		slog.Int("workers", s.workers()))

	table, err := s.loader.Load(input, dataprocessing.LoadOptions{
		Sheet:    s.cfg.Analysis.Sheet,
		SkipRows: s.cfg.Analysis.SkipRows,
	})
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	required := append([]string{s.cfg.Analysis.IDColumn}, config.Columns(s.cfg.Measurements)...)
	if err := table.RequireColumns(required...); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	entries, err := s.analyzeAll(ctx, table, outDir)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	report := &exporter.Report{
		RunID:       runID,
		InputFile:   input,
		MethodA:     s.cfg.Analysis.MethodALabel,
		MethodB:     s.cfg.Analysis.MethodBLabel,
		GeneratedAt: time.Now(),
		Entries:     entries,
	}

	outputs, err := exporter.NewExporter(outDir, s.cfg.Output, s.logger).Export(report)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("export report: %w", err)
	}

	summary := report.Summarize()
	span.SetAttributes(
		attribute.Int("analyzed", summary.Analyzed),
		attribute.Int("skipped", summary.Skipped))
	s.logSummary(ctx, summary, time.Since(started))

	return &RunResult{Report: report, Summary: summary, Outputs: outputs}, nil
}

// analyzeAll processes measurements on a bounded errgroup. Each goroutine
// writes only its own slot, so entry order follows the configuration.
func (s *AnalysisService) analyzeAll(ctx context.Context, table *dataprocessing.Table, outDir string) ([]exporter.Entry, error) {
	renderer := plot.NewRenderer(s.cfg.Plot, s.cfg.Analysis.MethodALabel, s.cfg.Analysis.MethodBLabel, s.logger)
	opts := s.extractOptions()
	entries := make([]exporter.Entry, len(s.cfg.Measurements))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for i, m := range s.cfg.Measurements {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			entry, err := s.analyze(gctx, table, m, opts, renderer, outDir)
			entries[i] = entry
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// analyze runs extraction, statistics and plotting for one measurement
func (s *AnalysisService) analyze(ctx context.Context, table *dataprocessing.Table, m config.Measurement,
	opts dataprocessing.ExtractOptions, renderer *plot.Renderer, outDir string) (exporter.Entry, error) {
	started := time.Now()
	ctx, span := s.telemetry.Tracer.Start(ctx, "analysis.measurement",
		trace.WithAttributes(attribute.String("measurement.key", m.Key)))
	defer span.End()

	entry := exporter.Entry{Measurement: m}
	if err := ctx.Err(); err != nil {
		return entry, err
	}

	set, err := dataprocessing.ExtractPairs(table, m.ColumnA, m.ColumnB, opts)
	entry.Exclusions = set.Exclusions
	if err == nil {
		var res agreement.Result
		res, err = agreement.Calculate(set.A(), set.B())
		if err == nil {
			entry.Result = &res
		}
	}

	switch {
	case apperrors.IsRecoverable(err):
		entry.Status = exporter.StatusInsufficient
		entry.Reason = err.Error()
		s.logger.WarnContext(ctx, "Skipping measurement",
			slog.String("key", m.Key),
			slog.String("label", m.Label),
			slog.Int("valid_pairs", len(set.Pairs)),
			slog.Int("excluded_rows", set.Exclusions.Total()),
			slog.String("reason", entry.Reason))
		s.finish(ctx, span, entry, started)
		return entry, nil
	case err != nil:
		infrastructure.RecordError(ctx, err)
		return entry, apperrors.WrapMeasurement(m.Key, err)
	}

	res := entry.Result
	entry.Status = exporter.StatusAnalyzed
	if !res.CorrelationDefined {
		entry.Status = exporter.StatusUndefined
		s.logger.WarnContext(ctx, "Correlation undefined",
			slog.String("key", m.Key),
			slog.Int("n", res.N),
			slog.String("reason", "a method has zero variance"))
	}

	files, err := renderer.Render(outDir, plot.Input{
		Key:    m.Key,
		Label:  m.Label,
		IDs:    set.IDs(),
		A:      set.A(),
		B:      set.B(),
		Result: *res,
	})
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return entry, apperrors.WrapMeasurement(m.Key, fmt.Errorf("render plots: %w", err))
	}
	entry.Files = files

	// JSON handlers cannot encode NaN, so r and p are left out when undefined
	attrs := []any{
		slog.String("key", m.Key),
		slog.Int("n", res.N),
		slog.Float64("mean_diff", res.MeanDiff),
		slog.String("status", string(entry.Status)),
	}
	if res.CorrelationDefined {
		attrs = append(attrs, slog.Float64("r", res.R), slog.Float64("p_value", res.PValue))
	}
	s.logger.DebugContext(ctx, "Measurement analyzed", attrs...)

	s.finish(ctx, span, entry, started)
	return entry, nil
}

func (s *AnalysisService) finish(ctx context.Context, span trace.Span, entry exporter.Entry, started time.Time) {
	n := 0
	if entry.Result != nil {
		n = entry.Result.N
	}
	span.SetAttributes(
		attribute.Int("n", n),
		attribute.String("status", string(entry.Status)))
	infrastructure.RecordMeasurement(ctx, s.telemetry.Metrics, entry.Measurement.Key,
		string(entry.Status), entry.Skipped(), time.Since(started))
}

func (s *AnalysisService) extractOptions() dataprocessing.ExtractOptions {
	return dataprocessing.ExtractOptions{
		IDColumn:      s.cfg.Analysis.IDColumn,
		MissingMarker: s.cfg.Analysis.MissingMarker,
		Excluded:      s.cfg.Analysis.ExcludedSet(),
		MinPairs:      s.cfg.Analysis.MinPairs,
	}
}

func (s *AnalysisService) workers() int {
	if s.cfg.Analysis.Workers < 1 {
		return 1
	}
	return s.cfg.Analysis.Workers
}

// logSummary writes the end-of-run console summary
func (s *AnalysisService) logSummary(ctx context.Context, summary exporter.Summary, elapsed time.Duration) {
	attrs := []any{
		slog.Int("analyzed", summary.Analyzed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("undefined", summary.Undefined),
		slog.Int("significant", summary.Significant),
		slog.Int("strong", summary.Strong),
		slog.Duration("elapsed", elapsed),
	}
	if summary.HasR() {
		attrs = append(attrs,
			slog.Float64("mean_r", summary.MeanR),
			slog.Float64("min_r", summary.MinR),
			slog.Float64("max_r", summary.MaxR))
	}
	s.logger.InfoContext(ctx, "Analysis complete", attrs...)
}

// IsStructural reports whether err should abort the run with a diagnostic
func IsStructural(err error) bool {
	return errors.Is(err, apperrors.ErrStructural)
}
