// Package services implements the analysis run: it ties the loader, the
// statistics engine, the plot renderer and the exporter together.
//
// # Run flow
//
// AnalysisService.Run loads the input once, checks that the ID column and
// every configured measurement column exist, then processes measurements on
// an errgroup bounded by analysis.workers. Each measurement:
//
//	1. extracts valid (A, B) pairs, dropping sentinel, missing, non-numeric
//	   and excluded-patient rows
//	2. computes Pearson and Bland-Altman statistics
//	3. renders the scatter and Bland-Altman PNGs
//
// Results are stored by index, so the report order matches the configuration
// whatever the worker count.
//
// # Errors
//
// Structural input problems abort the run before anything is written and
// match errors.ErrStructural. A measurement with too few pairs is logged at
// WARN and kept in the report as skipped. A zero-variance method is not an
// error: the entry carries an undefined correlation. Plot failures abort.
//
// # Telemetry
//
// Every run opens an analysis.run span with one analysis.measurement child per
// measurement, and records per-measurement counters and durations. With
// telemetry disabled these are no-ops.
package services
