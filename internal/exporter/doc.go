// Package exporter writes the outputs of an analysis run.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing relative to the output directory, with an
// optional UTF-8 BOM for Excel compatibility.
//
// WriteReport: The narrative text report with the summary table, the
// interpretation guide, per-measurement details and skipped measurements.
//
// SaveToJSON: A machine-readable dump of the report with run metadata.
//
// Example usage:
//
//	exp := exporter.NewExporter("correlation_results", cfg.Output, logger)
//	outputs, err := exp.Export(report)
package exporter
