package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jocelynchengyang/correlationAnalysis/internal/config"
	"github.com/jocelynchengyang/correlationAnalysis/internal/infrastructure"
)

// Outputs lists the files written by Export
type Outputs struct {
	Summary string
	Report  string
	JSON    string
}

// Exporter writes the summary CSV, narrative report and JSON dump into one directory
type Exporter struct {
	dir       string
	cfg       config.OutputConfig
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewExporter creates an exporter rooted at dir
func NewExporter(dir string, cfg config.OutputConfig, logger *slog.Logger) *Exporter {
	logger = infrastructure.WithComponent(logger, "exporter")
	return &Exporter{
		dir:       dir,
		cfg:       cfg,
		csvWriter: NewCSVWriter(dir, logger),
		logger:    logger,
	}
}

// Export writes every report artefact and returns their paths
func (e *Exporter) Export(report *Report) (Outputs, error) {
	var out Outputs
	var err error

	out.Summary, err = e.csvWriter.WriteCSV(e.cfg.SummaryFile, WriteOptions{
		Headers:   SummaryHeaders,
		Records:   SummaryRecords(report),
		BOMPrefix: e.cfg.CSVBOM,
	})
	if err != nil {
		return Outputs{}, fmt.Errorf("write summary: %w", err)
	}

	out.Report = filepath.Join(e.dir, e.cfg.ReportFile)
	if err := e.writeReport(out.Report, report); err != nil {
		return Outputs{}, err
	}

	out.JSON = filepath.Join(e.dir, e.cfg.JSONFile)
	if err := SaveToJSON(report, out.JSON); err != nil {
		return Outputs{}, err
	}

	e.logger.Info("Report exported",
		slog.String("summary", out.Summary),
		slog.String("report", out.Report),
		slog.String("json", out.JSON),
		slog.Int("entries", len(report.Entries)))

	return out, nil
}

func (e *Exporter) writeReport(path string, report *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := WriteReport(file, report); err != nil {
		file.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return file.Close()
}
